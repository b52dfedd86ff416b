//go:build debug

// Package assert checks internal invariants in builds tagged debug and
// compiles to nothing otherwise. It is not for validating input.
package assert

import "fmt"

// Invariant panics with msg when ok is false.
//
//	assert.Invariant(stats.PaidTickets+stats.FreeTickets == stats.TotalTickets,
//	    "every ticket is either paid or free")
func Invariant(ok bool, msg string) {
	if !ok {
		panic("INVARIANT VIOLATION: " + msg)
	}
}

// Invariantf is Invariant with a formatted message. The arguments are only
// formatted when the check fails.
func Invariantf(ok bool, format string, args ...any) {
	if !ok {
		panic("INVARIANT VIOLATION: " + fmt.Sprintf(format, args...))
	}
}
