package bg

import "sync"

// Async is a Runner that executes each function in a new goroutine.
// Wait blocks until every started function has returned.
//
// The zero value is ready to use. An Async must not be copied after first use.
type Async struct {
	wg sync.WaitGroup
}

// Do executes the function in a new goroutine.
func (a *Async) Do(fn func()) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		fn()
	}()
}

// Wait blocks until all functions started with Do have returned.
func (a *Async) Wait() {
	a.wg.Wait()
}
