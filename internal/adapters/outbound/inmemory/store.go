package inmemory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/sufield/confdesk/internal/domain"
	"github.com/sufield/confdesk/internal/ports"
)

// Store is an in-memory ports.Store.
type Store struct {
	mu          sync.RWMutex
	conferences map[string]*domain.Conference
	orders      map[string][]domain.TicketOrder // conference ID -> rows in import order
	deals       map[string]domain.SponsorDeal   // deal ID -> deal
	proposals   map[string]domain.Proposal      // proposal ID -> proposal
	closed      bool
}

var _ ports.Store = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		conferences: make(map[string]*domain.Conference),
		orders:      make(map[string][]domain.TicketOrder),
		deals:       make(map[string]domain.SponsorDeal),
		proposals:   make(map[string]domain.Proposal),
	}
}

// GetConference returns a copy of the conference with the given ID.
func (s *Store) GetConference(_ context.Context, id string) (*domain.Conference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ports.ErrStorageUnavailable
	}

	c, ok := s.conferences[id]
	if !ok {
		return nil, fmt.Errorf("%w: conference %q", ports.ErrNotFound, id)
	}
	return cloneConference(c), nil
}

// ListConferences returns all conferences sorted by start date, then ID.
func (s *Store) ListConferences(_ context.Context) ([]*domain.Conference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ports.ErrStorageUnavailable
	}

	out := make([]*domain.Conference, 0, len(s.conferences))
	for _, c := range s.conferences {
		out = append(out, cloneConference(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SaveConference inserts or replaces a conference.
func (s *Store) SaveConference(_ context.Context, conf *domain.Conference) error {
	if err := conf.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ports.ErrStorageUnavailable
	}

	s.conferences[conf.ID] = cloneConference(conf)
	return nil
}

// ListTicketOrders returns the conference's rows in import order.
func (s *Store) ListTicketOrders(_ context.Context, conferenceID string) ([]domain.TicketOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ports.ErrStorageUnavailable
	}
	if _, ok := s.conferences[conferenceID]; !ok {
		return nil, fmt.Errorf("%w: conference %q", ports.ErrNotFound, conferenceID)
	}

	return slices.Clone(s.orders[conferenceID]), nil
}

// AddTicketOrders replaces rows that share a non-zero TicketID with an
// existing row and appends the rest. All rows are validated first.
func (s *Store) AddTicketOrders(_ context.Context, conferenceID string, orders []domain.TicketOrder) (int, error) {
	for i, o := range orders {
		if err := o.Validate(); err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ports.ErrStorageUnavailable
	}
	if _, ok := s.conferences[conferenceID]; !ok {
		return 0, fmt.Errorf("%w: conference %q", ports.ErrNotFound, conferenceID)
	}

	rows := s.orders[conferenceID]
	byTicket := make(map[int64]int, len(rows))
	for i, r := range rows {
		if r.TicketID != 0 {
			byTicket[r.TicketID] = i
		}
	}
	for _, o := range orders {
		if o.TicketID != 0 {
			if i, ok := byTicket[o.TicketID]; ok {
				rows[i] = o
				continue
			}
			byTicket[o.TicketID] = len(rows)
		}
		rows = append(rows, o)
	}
	s.orders[conferenceID] = rows
	return len(orders), nil
}

// ListSponsorDeals returns the conference's deals sorted by sponsor name.
func (s *Store) ListSponsorDeals(_ context.Context, conferenceID string) ([]domain.SponsorDeal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ports.ErrStorageUnavailable
	}

	var out []domain.SponsorDeal
	for _, d := range s.deals {
		if d.ConferenceID == conferenceID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].SponsorName), strings.ToLower(out[j].SponsorName)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SaveSponsorDeal inserts or replaces a deal within its conference.
func (s *Store) SaveSponsorDeal(_ context.Context, deal domain.SponsorDeal) error {
	if err := deal.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ports.ErrStorageUnavailable
	}
	if _, ok := s.conferences[deal.ConferenceID]; !ok {
		return fmt.Errorf("%w: conference %q", ports.ErrNotFound, deal.ConferenceID)
	}

	if existing, ok := s.deals[deal.ID]; ok && existing.ConferenceID != deal.ConferenceID {
		return fmt.Errorf("%w: sponsor deal %q in conference %q", ports.ErrNotFound, deal.ID, deal.ConferenceID)
	}

	s.deals[deal.ID] = deal
	return nil
}

// GetProposal returns the proposal with the given ID.
func (s *Store) GetProposal(_ context.Context, id string) (*domain.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ports.ErrStorageUnavailable
	}

	p, ok := s.proposals[id]
	if !ok {
		return nil, fmt.Errorf("%w: proposal %q", ports.ErrNotFound, id)
	}
	return &p, nil
}

// ListProposals returns the conference's proposals sorted by ID.
func (s *Store) ListProposals(_ context.Context, conferenceID string) ([]domain.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ports.ErrStorageUnavailable
	}

	var out []domain.Proposal
	for _, p := range s.proposals {
		if p.ConferenceID == conferenceID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SaveProposal inserts or replaces a proposal.
func (s *Store) SaveProposal(_ context.Context, p domain.Proposal) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ports.ErrStorageUnavailable
	}

	s.proposals[p.ID] = p
	return nil
}

// Close marks the store unusable. Calling Close twice is safe.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func cloneConference(c *domain.Conference) *domain.Conference {
	out := *c
	out.OrganizerEmails = slices.Clone(c.OrganizerEmails)
	out.SalesTarget.Milestones = slices.Clone(c.SalesTarget.Milestones)
	return &out
}
