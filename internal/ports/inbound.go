package ports

import (
	"context"
	"time"

	"github.com/sufield/confdesk/internal/domain"
)

// SalesReporter runs ticket sales analysis for a conference.
//
// Error Contract:
// - Returns ErrNotFound if the conference does not exist
// - Returns domain.ErrInvalidCapacity / ErrInvalidSalesWindow / ErrInvalidMilestone
//   if the conference settings cannot be analysed
type SalesReporter interface {
	Analyze(ctx context.Context, conferenceID string, now time.Time) (*SalesReport, error)
	SendUpdate(ctx context.Context, conferenceID string, now time.Time) (*SalesReport, error)
	ImportOrders(ctx context.Context, conferenceID string, orders []domain.TicketOrder) (int, error)
}

// SponsorPipeline summarises and edits the sponsor funnel.
type SponsorPipeline interface {
	Summary(ctx context.Context, conferenceID string) (*SponsorReport, error)
	UpsertDeal(ctx context.Context, deal domain.SponsorDeal) (domain.SponsorDeal, error)
	Notify(ctx context.Context, conferenceID string) (*SponsorReport, error)
}

// ProposalWorkflow drives the proposal state machine.
//
// Error Contract:
// - Returns ErrNotFound if the proposal does not exist
// - Act returns domain.ErrUnknownProposalAction for unknown actions
// - Act returns domain.ErrInvalidTransition if the action is not allowed
//   from the current status for this actor
type ProposalWorkflow interface {
	Get(ctx context.Context, proposalID string, actor Actor) (*ProposalView, error)
	Act(ctx context.Context, proposalID string, action domain.ProposalAction, comment string, actor Actor) (*ProposalActionResult, error)
}
