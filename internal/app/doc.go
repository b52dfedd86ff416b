// Package app contains the use-case services and the application's
// composition root.
//
// Responsibilities
//   - SalesReportService runs the ticket sales processor for a conference and
//     sends the Slack sales update.
//   - SponsorService summarises and edits the sponsor pipeline.
//   - ProposalService drives the proposal state machine and notifies
//     organizers and speakers.
//   - Scheduler sends sales updates on an interval through a bg.Runner.
//   - Bootstrap wires config, adapters and services into an Application.
//
// Files
// - sales_report.go, sponsor.go, proposal.go: the services.
// - notifications.go: wraps built Slack messages and emails as ports.Notification.
// - scheduler.go: the periodic sales update loop.
// - options.go: clock and ID generator injection shared by the services.
// - application.go / bootstrap.go: the composition root.
//
// Services never build messages themselves; internal/notify does. They never
// talk to storage or delivery directly; ports do.
package app
