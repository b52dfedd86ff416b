// Package sqlite implements ports.Store on SQLite through the pure Go
// modernc.org/sqlite driver, so the binary needs no cgo.
//
// Timestamps are stored as fixed-width UTC text so they sort correctly, and
// money as decimal text so no precision is lost. Nested values such as the
// sales target configuration live in *_json columns.
package sqlite
