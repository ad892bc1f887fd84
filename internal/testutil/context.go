// Package testutil holds small helpers shared by package tests.
package testutil

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"
)

// ContextWithTimeout создаёт context с timeout, отменяемый при завершении теста.
func ContextWithTimeout(t testing.TB, duration time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	t.Cleanup(cancel)

	return ctx
}

// ContextWithCancel создаёт context с cancel, отменяемый при завершении теста.
func ContextWithCancel(t testing.TB) (context.Context, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return ctx, cancel
}

// Rand returns a deterministic generator so spawn picks, wander points and
// jitter repeat between runs.
func Rand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
