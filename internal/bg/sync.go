package bg

// Sync is a Runner that executes functions synchronously in the current goroutine.
type Sync struct{}

// Do executes the function immediately in the current goroutine.
func (Sync) Do(fn func()) {
	fn()
}

// Wait returns immediately; Do has already finished.
func (Sync) Wait() {}
