//go:build !debug

// Package assert checks internal invariants in builds tagged debug and
// compiles to nothing otherwise. It is not for validating input.
package assert

// Invariant is a no-op without the debug tag.
func Invariant(bool, string) {}

// Invariantf is a no-op without the debug tag.
func Invariantf(bool, string, ...any) {}
