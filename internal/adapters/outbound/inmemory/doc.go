// Package inmemory implements ports.Store in process memory.
//
// The store lets the service run without external dependencies. It is used
// for local development, the demo seed file and tests; data is lost on exit.
//
// Files and responsibilities
// --------------------------
//   - store.go
//     Store: conferences, ticket orders, sponsor deals and proposals guarded
//     by a single sync.RWMutex. Values are copied on the way in and out so
//     callers never share memory with the store.
package inmemory
