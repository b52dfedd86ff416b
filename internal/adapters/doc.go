// Package adapters contains infrastructure implementations of port interfaces.
//
// This package is the ADAPTER LAYER in hexagonal architecture - it implements
// the port interfaces defined in internal/ports using concrete technologies
// (SQLite, NATS, zap, chi, go-spiffe). Adapters translate between the
// application services and external systems.
//
// Hexagonal Architecture Boundaries:
//   - Adapters implement: internal/ports interfaces
//   - Adapters import from: internal/domain, internal/ports, external SDKs, standard library
//   - Adapters are instantiated: by internal/app.Bootstrap through compose.AdapterFactory
//   - Domain/App layers: NEVER import concrete adapters directly (compose excepted
//     for the factory assertion)
//
// Adapter Organization
//
//   - inbound/httpapi      - chi router, JSON handlers and the HTTP server,
//     optionally behind SPIFFE mTLS
//   - outbound/inmemory    - ports.Store kept in maps, for tests and demos
//   - outbound/sqlite      - ports.Store on modernc.org/sqlite
//   - outbound/storetest   - conformance suite run against every Store
//   - outbound/lognotify   - ports.Notifier writing messages to the zap logger
//   - outbound/natsbus     - ports.Notifier publishing to NATS / JetStream
//   - outbound/compose     - AdapterFactory selecting the above from config,
//     and the YAML seed loader
//
// Example Dependency Flow
//
//	cmd/confdesk (composition root)
//	    ↓ calls
//	confdesk.Serve / app.Bootstrap(cfg, compose.NewAdapterFactory(logger))
//	    ↓ creates
//	ports.Store (sqlite.Store) and ports.Notifier (natsbus.Notifier)
//	    ↓ used by
//	app.SalesReportService, app.SponsorService, app.ProposalService
package adapters
