package ports

import (
	"context"

	"github.com/sufield/confdesk/internal/domain"
)

// ConferenceRepository stores conferences and their sales target settings.
//
// Error Contract:
// - GetConference returns ErrNotFound if no conference has the ID
// - SaveConference returns domain.ErrInvalidConference if validation fails
type ConferenceRepository interface {
	GetConference(ctx context.Context, id string) (*domain.Conference, error)
	ListConferences(ctx context.Context) ([]*domain.Conference, error)
	SaveConference(ctx context.Context, conf *domain.Conference) error
}

// TicketOrderRepository stores ticket rows exported by the ticketing provider.
//
// AddTicketOrders replaces rows with the same non-zero TicketID and appends
// the rest, so re-importing an export is idempotent. It returns the number of
// rows written.
//
// Error Contract:
// - AddTicketOrders returns domain.ErrInvalidTicketOrder if any row fails validation;
//   nothing is written in that case
// - Both methods return ErrNotFound if the conference does not exist
type TicketOrderRepository interface {
	ListTicketOrders(ctx context.Context, conferenceID string) ([]domain.TicketOrder, error)
	AddTicketOrders(ctx context.Context, conferenceID string, orders []domain.TicketOrder) (int, error)
}

// SponsorRepository stores sponsor deals.
//
// Error Contract:
// - SaveSponsorDeal returns ErrNotFound if the deal's conference does not exist
// - SaveSponsorDeal returns ErrNotFound if the ID belongs to a deal of another
//   conference; deals never move between conferences
// - SaveSponsorDeal returns domain.ErrInvalidSponsorDeal if validation fails
type SponsorRepository interface {
	ListSponsorDeals(ctx context.Context, conferenceID string) ([]domain.SponsorDeal, error)
	SaveSponsorDeal(ctx context.Context, deal domain.SponsorDeal) error
}

// ProposalRepository stores talk proposals.
//
// Error Contract:
// - GetProposal returns ErrNotFound if no proposal has the ID
// - SaveProposal returns domain.ErrInvalidProposal if validation fails
type ProposalRepository interface {
	GetProposal(ctx context.Context, id string) (*domain.Proposal, error)
	ListProposals(ctx context.Context, conferenceID string) ([]domain.Proposal, error)
	SaveProposal(ctx context.Context, p domain.Proposal) error
}

// Store bundles every repository behind one storage backend.
type Store interface {
	ConferenceRepository
	TicketOrderRepository
	SponsorRepository
	ProposalRepository
	Close() error
}

// Notifier hands built messages to a delivery mechanism.
//
// Error Contract:
// - Notify returns ErrNotifierUnavailable if the message could not be accepted
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
	Close() error
}

// MetricsRecorder receives the numbers the sales-update job exports.
type MetricsRecorder interface {
	RecordTicketAnalysis(conferenceID string, a *domain.TicketAnalysis)
	RecordPipeline(conferenceID string, s domain.PipelineSummary)
	RecordSalesUpdate(result string)
}
