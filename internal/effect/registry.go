package effect

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
)

// ErrUnknownEffect is returned by Create for an unregistered name.
var ErrUnknownEffect = errors.New("unknown effect")

// registry maps effect name → factory function.
// Populated by init() below; item catalogs refer to effects by these names.
var registry = map[string]func(params map[string]string) Effect{}

// Register registers an effect factory by name.
func Register(name string, factory func(params map[string]string) Effect) {
	registry[name] = factory
}

// Create creates an effect by name using the registered factory.
func Create(name string, params map[string]string) (Effect, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("creating effect %q: %w", name, ErrUnknownEffect)
	}
	return factory(params), nil
}

// Names returns registered effect names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func init() {
	Register(string(KindHealth), NewHealthEffect)
	Register(string(KindSpeedBoost), NewSpeedBoostEffect)
	Register(string(KindInvincibility), NewInvincibilityEffect)
	Register(string(KindExperienceBoost), NewExperienceBoostEffect)
	Register(string(KindHealthRegen), NewHealthRegenEffect)
}

// floatParam parses params[key], falling back to def when absent or malformed.
func floatParam(params map[string]string, key string, def float64) float64 {
	v, err := strconv.ParseFloat(params[key], 64)
	if err != nil {
		return def
	}
	return v
}

// intParam parses params[key], falling back to def when absent or malformed.
func intParam(params map[string]string, key string, def int) int {
	v, err := strconv.Atoi(params[key])
	if err != nil {
		return def
	}
	return v
}
