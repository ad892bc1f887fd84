package ai

import "sync/atomic"

// debugLoggingEnabled gates per-tick debug logs of the AI subsystem.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging enables or disables AI debug logging.
// Called from main after the log level is parsed.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled returns true if AI debug logging is enabled.
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("zombie state changed", "from", old, "to", s)
//	}
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
