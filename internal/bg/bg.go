// Package bg runs functions in the background for the scheduler.
//
// The scheduler never calls "go func()" itself. It hands work to a Runner, so
// the CLI can switch to synchronous execution (one run at a time on the
// scheduler goroutine) for debugging without touching scheduling code.
package bg

// Runner executes functions, either synchronously or asynchronously.
type Runner interface {
	// Do executes the given function.
	// The implementation determines whether this happens synchronously or asynchronously.
	Do(fn func())
}

// Waiter is a Runner that can wait for every function it started.
type Waiter interface {
	Runner
	Wait()
}
