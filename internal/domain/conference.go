package domain

import (
	"fmt"
	"strings"
	"time"
)

// Conference is the event a ticket sale, sponsor deal or proposal belongs to.
type Conference struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	City      string    `json:"city,omitempty" yaml:"city"`
	StartDate time.Time `json:"start_date" yaml:"start_date"`
	EndDate   time.Time `json:"end_date" yaml:"end_date"`

	// Capacity is the number of attendee seats tickets are measured against.
	Capacity int `json:"capacity" yaml:"capacity"`

	// Currency is the ISO 4217 code used for ticket and sponsor amounts.
	Currency string `json:"currency" yaml:"currency"`

	SalesTarget SalesTargetConfig `json:"sales_target" yaml:"sales_target"`

	// SponsorTicketAllowance is the number of complimentary tickets promised
	// to sponsors across all tiers.
	SponsorTicketAllowance int `json:"sponsor_ticket_allowance" yaml:"sponsor_ticket_allowance"`

	// SlackChannel overrides the notifier's default channel for this conference.
	SlackChannel string `json:"slack_channel,omitempty" yaml:"slack_channel"`

	// OrganizerEmails receive proposal and sponsor notifications.
	OrganizerEmails []string `json:"organizer_emails,omitempty" yaml:"organizer_emails"`
}

// Validate checks the fields every use case relies on.
// Returns ErrInvalidConference wrapped with the failing field.
func (c *Conference) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: conference is nil", ErrInvalidConference)
	}
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidConference)
	}
	if c.StartDate.IsZero() {
		return fmt.Errorf("%w: start_date must be set", ErrInvalidConference)
	}
	if !c.EndDate.IsZero() && c.EndDate.Before(c.StartDate) {
		return fmt.Errorf("%w: end_date is before start_date", ErrInvalidConference)
	}
	if c.Capacity < 0 {
		return fmt.Errorf("%w: capacity must be >= 0 (got %d)", ErrInvalidConference, c.Capacity)
	}
	if c.SponsorTicketAllowance < 0 {
		return fmt.Errorf("%w: sponsor_ticket_allowance must be >= 0 (got %d)", ErrInvalidConference, c.SponsorTicketAllowance)
	}
	return nil
}

// DisplayName returns the title, falling back to the ID.
func (c *Conference) DisplayName() string {
	if c.Title != "" {
		return c.Title
	}
	return c.ID
}
