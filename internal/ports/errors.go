package ports

import "errors"

// Infrastructure errors for the adapter layer.
//
// These errors represent storage and delivery concerns and are separate from
// domain errors, which represent business rule failures. Adapters return
// them; the HTTP API maps them to status codes.

// ErrNotFound indicates the requested conference, proposal or deal does not exist.
var ErrNotFound = errors.New("not found")

// ErrForbidden indicates the caller lacks the organizer role for an operation.
var ErrForbidden = errors.New("forbidden")

// ErrStorageUnavailable indicates the backing store cannot be reached or is closed.
var ErrStorageUnavailable = errors.New("storage unavailable")

// ErrNotifierUnavailable indicates the notifier cannot accept messages.
//
// Used by:
//   - natsbus when the connection is closed or the publish is not acknowledged
var ErrNotifierUnavailable = errors.New("notifier unavailable")

// Compile-time check that errors implement error interface
var (
	_ error = ErrNotFound
	_ error = ErrForbidden
	_ error = ErrStorageUnavailable
	_ error = ErrNotifierUnavailable
)
