// Package httpapi is the inbound HTTP adapter: a chi router exposing ticket
// analytics, the sponsor pipeline and proposal actions as JSON.
//
// Files
//   - router.go: routes, middleware, request logging.
//   - handlers.go: one handler per route.
//   - errors.go: error to status code mapping.
//   - identity.go: SPIFFE peer extraction and the organizer role.
//   - tls.go: Workload API source and the mTLS server config.
//   - server.go: http.Server lifecycle for plain HTTP and mTLS.
package httpapi
