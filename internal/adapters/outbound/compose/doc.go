// Package compose turns configuration sections into concrete outbound
// adapters.
//
// The factory hides which repository and notifier implementations back the
// ports, so the application bootstrap and the CLI only ever see ports.Store
// and ports.Notifier. It also loads the optional YAML seed file used by the
// demo configuration.
package compose
