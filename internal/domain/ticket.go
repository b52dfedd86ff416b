package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TicketOrder is a single ticket row as exported by the ticketing provider.
// An order with three attendees shows up as three rows sharing OrderID.
type TicketOrder struct {
	OrderID      int64           `json:"order_id" yaml:"order_id"`
	TicketID     int64           `json:"ticket_id" yaml:"ticket_id"`
	Category     string          `json:"category" yaml:"category"`
	CustomerName string          `json:"customer_name,omitempty" yaml:"customer_name"`
	Sum          decimal.Decimal `json:"sum" yaml:"sum"`
	SumLeft      decimal.Decimal `json:"sum_left" yaml:"sum_left"`
	OrderDate    time.Time       `json:"order_date" yaml:"order_date"`
}

// IsPaid reports whether money was charged for the ticket.
func (o TicketOrder) IsPaid() bool {
	return o.Sum.IsPositive()
}

// Validate rejects rows the processor cannot reason about.
// Returns ErrInvalidTicketOrder if validation fails.
func (o TicketOrder) Validate() error {
	if o.OrderID <= 0 {
		return fmt.Errorf("%w: order_id must be > 0 (got %d)", ErrInvalidTicketOrder, o.OrderID)
	}
	if o.TicketID < 0 {
		return fmt.Errorf("%w: ticket_id must be >= 0 (got %d)", ErrInvalidTicketOrder, o.TicketID)
	}
	if o.Sum.IsNegative() {
		return fmt.Errorf("%w: order %d has negative sum %s", ErrInvalidTicketOrder, o.OrderID, o.Sum)
	}
	if o.SumLeft.IsNegative() {
		return fmt.Errorf("%w: order %d has negative sum_left %s", ErrInvalidTicketOrder, o.OrderID, o.SumLeft)
	}
	if o.OrderDate.IsZero() {
		return fmt.Errorf("%w: order %d has no order_date", ErrInvalidTicketOrder, o.OrderID)
	}
	return nil
}

// CategoryKind describes how a ticket category is accounted for.
type CategoryKind string

const (
	CategoryPaid          CategoryKind = "paid"
	CategoryComplimentary CategoryKind = "complimentary"
	CategorySponsor       CategoryKind = "sponsor"
	CategorySpeaker       CategoryKind = "speaker"
	CategoryOrganizer     CategoryKind = "organizer"
)

// CategoryClassifier matches ticket category names against keyword lists.
// Matching is case-insensitive substring matching; sponsor keywords are
// checked first, then speaker, then organizer.
type CategoryClassifier struct {
	Sponsor   []string `json:"sponsor" yaml:"sponsor"`
	Speaker   []string `json:"speaker" yaml:"speaker"`
	Organizer []string `json:"organizer" yaml:"organizer"`
}

// DefaultCategoryClassifier returns the keyword lists used when none are configured.
func DefaultCategoryClassifier() CategoryClassifier {
	return CategoryClassifier{
		Sponsor:   []string{"sponsor", "partner"},
		Speaker:   []string{"speaker"},
		Organizer: []string{"organizer", "organiser", "volunteer", "crew"},
	}
}

// IsZero reports whether no keywords are configured at all.
func (c CategoryClassifier) IsZero() bool {
	return len(c.Sponsor) == 0 && len(c.Speaker) == 0 && len(c.Organizer) == 0
}

// Allocation returns the allocation kind for a category, or "" when the
// category is a regular attendee category.
func (c CategoryClassifier) Allocation(category string) CategoryKind {
	name := strings.ToLower(category)
	switch {
	case containsAny(name, c.Sponsor):
		return CategorySponsor
	case containsAny(name, c.Speaker):
		return CategorySpeaker
	case containsAny(name, c.Organizer):
		return CategoryOrganizer
	}
	return ""
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" && strings.Contains(s, k) {
			return true
		}
	}
	return false
}
