package ports

import (
	"encoding/json"
	"time"

	"github.com/sufield/confdesk/internal/domain"
)

// NotificationChannel names the delivery channel a message is meant for.
type NotificationChannel string

const (
	ChannelSlack NotificationChannel = "slack"
	ChannelEmail NotificationChannel = "email"
)

// Notification kinds.
const (
	KindSalesUpdate     = "sales_update"
	KindSponsorPipeline = "sponsor_pipeline"
	KindProposalAction  = "proposal_action"
)

// Notification is a built message handed to a Notifier.
// Payload holds the channel specific body (Slack blocks or an email) as JSON.
type Notification struct {
	ID           string              `json:"id"`
	Kind         string              `json:"kind"`
	Channel      NotificationChannel `json:"channel"`
	ConferenceID string              `json:"conference_id"`
	Recipient    string              `json:"recipient"`
	Subject      string              `json:"subject,omitempty"`
	Payload      json.RawMessage     `json:"payload"`
	CreatedAt    time.Time           `json:"created_at"`
}

// Actor is whoever triggered a use case.
type Actor struct {
	// ID is the verified SPIFFE ID in mTLS mode, or a caller supplied name.
	ID          string
	IsOrganizer bool
}

// SalesReport is a ticket analysis together with the conference it belongs to.
type SalesReport struct {
	Conference *domain.Conference     `json:"conference"`
	Analysis   *domain.TicketAnalysis `json:"analysis"`
}

// SponsorReport is a pipeline summary for one conference.
type SponsorReport struct {
	Conference *domain.Conference     `json:"conference"`
	Summary    domain.PipelineSummary `json:"summary"`
}

// ProposalView is a proposal plus the actions the caller may take on it.
type ProposalView struct {
	Proposal       domain.Proposal         `json:"proposal"`
	AllowedActions []domain.ProposalAction `json:"allowed_actions"`
}

// ProposalActionResult describes the outcome of a proposal action.
type ProposalActionResult struct {
	Proposal       domain.Proposal       `json:"proposal"`
	PreviousStatus domain.ProposalStatus `json:"previous_status"`
	Notifications  int                   `json:"notifications"`
}
