package app

import (
	"time"

	"github.com/google/uuid"
)

type options struct {
	now   func() time.Time
	newID func() string
}

// Option customises a service.
type Option func(*options)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator replaces the random UUID generator used for new deals
// and notifications.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

func buildOptions(opts []Option) options {
	o := options{
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
