package compose

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/sufield/confdesk/internal/domain"
	"github.com/sufield/confdesk/internal/ports"
)

// Seed is the content of a storage seed file.
type Seed struct {
	Conferences  []domain.Conference             `yaml:"conferences"`
	TicketOrders map[string][]domain.TicketOrder `yaml:"ticket_orders"`
	SponsorDeals []domain.SponsorDeal            `yaml:"sponsor_deals"`
	Proposals    []domain.Proposal               `yaml:"proposals"`
}

// LoadSeed reads a seed file. Unknown fields are rejected.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 -- operator supplied path
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %q: %w", path, err)
	}

	var seed Seed
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse seed file %q: %w", path, err)
	}
	return &seed, nil
}

// Validate checks every record without touching a store.
func (s *Seed) Validate() error {
	for i := range s.Conferences {
		if err := s.Conferences[i].Validate(); err != nil {
			return fmt.Errorf("seed conference %d: %w", i, err)
		}
	}
	for id, orders := range s.TicketOrders {
		for _, o := range orders {
			if err := o.Validate(); err != nil {
				return fmt.Errorf("seed ticket orders for %s: %w", id, err)
			}
		}
	}
	for _, deal := range s.SponsorDeals {
		if err := deal.Validate(); err != nil {
			return fmt.Errorf("seed sponsor deal %s: %w", deal.ID, err)
		}
	}
	for _, p := range s.Proposals {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("seed proposal %s: %w", p.ID, err)
		}
	}
	return nil
}

// Apply validates the seed and writes it into store. Conferences go first
// so the other records find their parent.
func (s *Seed) Apply(ctx context.Context, store ports.Store) error {
	if err := s.Validate(); err != nil {
		return err
	}

	for i := range s.Conferences {
		conf := s.Conferences[i]
		if err := store.SaveConference(ctx, &conf); err != nil {
			return fmt.Errorf("seed conference %s: %w", conf.ID, err)
		}
	}

	ids := make([]string, 0, len(s.TicketOrders))
	for id := range s.TicketOrders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if _, err := store.AddTicketOrders(ctx, id, s.TicketOrders[id]); err != nil {
			return fmt.Errorf("seed ticket orders for %s: %w", id, err)
		}
	}

	for _, deal := range s.SponsorDeals {
		if err := store.SaveSponsorDeal(ctx, deal); err != nil {
			return fmt.Errorf("seed sponsor deal %s: %w", deal.ID, err)
		}
	}

	for _, p := range s.Proposals {
		if err := store.SaveProposal(ctx, p); err != nil {
			return fmt.Errorf("seed proposal %s: %w", p.ID, err)
		}
	}
	return nil
}
