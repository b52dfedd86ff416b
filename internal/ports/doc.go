// Package ports defines the inbound and outbound ports (interfaces and types)
// used to decouple the domain and application services from adapters.
//
// Files and responsibilities
// --------------------------
//   - inbound.go
//   - Use cases driven by the HTTP API and the CLI: `SalesReporter`,
//     `SponsorPipeline` and `ProposalWorkflow`.
//   - outbound.go
//   - Repositories for conferences, ticket orders, sponsor deals and
//     proposals, the combined `Store`, the `Notifier` and the
//     `MetricsRecorder`.
//   - Each interface includes an "Error Contract" in comments describing
//     sentinel errors returned by implementations.
//   - types.go
//   - Shared data types: `Notification`, `Actor`, and the report values
//     returned by the use cases.
//
// notes
// ------------
//   - Ports pass pure domain types (defined under `internal/domain`).
//   - The composition root (internal/adapters/outbound/compose) picks the
//     storage and notifier adapters from configuration.
package ports
