// Package domain contains the domain model for the conference back office.
//
// This package is the CORE of the hexagonal architecture - it defines business
// entities, value objects and the pure algorithms over them. It performs no I/O
// and knows nothing about HTTP, storage or message delivery.
//
// Hexagonal Architecture Boundaries:
//   - Domain NEVER imports from: internal/adapters, internal/ports, internal/app
//   - Domain ONLY imports from: standard library, shopspring/decimal for money,
//     internal/assert for debug-build invariants
//   - Domain exposes: value objects, entities, pure functions, domain errors
//   - Domain does NOT: read clocks, call external APIs, depend on frameworks
//
// Files and types
// -----------------------
//   - conference.go
//   - Conference: capacity, dates, currency and the sales target settings
//     used by the sales-update job.
//
//   - ticket.go
//   - TicketOrder: one ticket row exported by the ticketing provider.
//     CategoryClassifier maps ticket categories to sponsor, speaker and
//     organizer allocations.
//
//   - sales_target.go
//   - SalesTargetConfig, TargetCurve and SalesMilestone: the target curve
//     (linear, early_push, late_push, s_curve) interpolated between milestones.
//
//   - ticket_sales.go
//   - ProcessTicketSales: deduplication, statistics, daily progression and
//     performance against the target curve.
//
//   - sponsor.go
//   - SponsorDeal and AggregatePipeline: CRM-style funnel counts and
//     contract/invoice value totals.
//
//   - proposal.go
//   - Proposal, ProposalStatus, ProposalAction and the fixed transition table
//     applied by ProposalTransition.
//
//   - errors.go
//   - Domain-specific sentinel errors.
//
// Design principles
//   - Time is always passed in (TicketSalesInput.Now); nothing here calls time.Now.
//   - Monetary values are decimal.Decimal, never float64.
package domain
