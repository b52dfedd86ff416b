// Package storetest holds the behaviour every ports.Store must share.
// Adapter packages call Run from their own tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/confdesk/internal/domain"
	"github.com/sufield/confdesk/internal/ports"
)

// Factory returns an empty store. Run closes it when the subtest ends.
type Factory func(t *testing.T) ports.Store

// Conference returns a valid conference fixture.
func Conference(id string) *domain.Conference {
	return &domain.Conference{
		ID:        id,
		Title:     "Cloud Native Days",
		City:      "Oslo",
		StartDate: time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.June, 11, 0, 0, 0, 0, time.UTC),
		Capacity:  400,
		Currency:  "NOK",
		SalesTarget: domain.SalesTargetConfig{
			Enabled:        true,
			TargetCurve:    domain.CurveSCurve,
			SalesStartDate: time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
			Milestones: []domain.SalesMilestone{
				{Date: time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), TargetPercentage: 40, Label: "Early bird ends"},
			},
		},
		SponsorTicketAllowance: 20,
		SlackChannel:           "#cnd",
		OrganizerEmails:        []string{"team@example.com"},
	}
}

// Order returns a valid ticket row fixture.
func Order(orderID, ticketID int64, category string, sum int64, day int) domain.TicketOrder {
	return domain.TicketOrder{
		OrderID:      orderID,
		TicketID:     ticketID,
		Category:     category,
		CustomerName: "Customer",
		Sum:          decimal.NewFromInt(sum),
		SumLeft:      decimal.Zero,
		OrderDate:    time.Date(2026, time.February, day, 12, 0, 0, 0, time.UTC),
	}
}

// Run exercises a store implementation.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	open := func(t *testing.T) ports.Store {
		t.Helper()
		s := newStore(t)
		t.Cleanup(func() { _ = s.Close() })
		return s
	}

	t.Run("conference round trip", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)

		_, err := s.GetConference(ctx, "cnd-2026")
		require.ErrorIs(t, err, ports.ErrNotFound)

		want := Conference("cnd-2026")
		require.NoError(t, s.SaveConference(ctx, want))

		got, err := s.GetConference(ctx, "cnd-2026")
		require.NoError(t, err)
		assert.Equal(t, want.Title, got.Title)
		assert.Equal(t, want.Capacity, got.Capacity)
		assert.True(t, want.StartDate.Equal(got.StartDate))
		assert.Equal(t, want.SalesTarget.TargetCurve, got.SalesTarget.TargetCurve)
		require.Len(t, got.SalesTarget.Milestones, 1)
		assert.Equal(t, "Early bird ends", got.SalesTarget.Milestones[0].Label)
		assert.Equal(t, []string{"team@example.com"}, got.OrganizerEmails)

		got.Title = "mutated"
		again, err := s.GetConference(ctx, "cnd-2026")
		require.NoError(t, err)
		assert.Equal(t, want.Title, again.Title, "store must not share memory with callers")

		other := Conference("devopsdays")
		other.StartDate = other.StartDate.AddDate(0, -1, 0)
		require.NoError(t, s.SaveConference(ctx, other))
		all, err := s.ListConferences(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "devopsdays", all[0].ID)
	})

	t.Run("conference validation", func(t *testing.T) {
		bad := Conference("")
		err := open(t).SaveConference(context.Background(), bad)
		assert.ErrorIs(t, err, domain.ErrInvalidConference)
	})

	t.Run("ticket orders upsert by ticket id", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)
		require.NoError(t, s.SaveConference(ctx, Conference("cnd-2026")))

		n, err := s.AddTicketOrders(ctx, "cnd-2026", []domain.TicketOrder{
			Order(1, 100, "Early bird", 2000, 1),
			Order(1, 0, "Early bird", 2000, 1),
			Order(1, 0, "Early bird", 2000, 1),
			Order(2, 101, "Speaker", 0, 2),
		})
		require.NoError(t, err)
		assert.Equal(t, 4, n)

		refund := Order(1, 100, "Early bird", 1500, 1)
		_, err = s.AddTicketOrders(ctx, "cnd-2026", []domain.TicketOrder{refund, Order(3, 0, "Regular", 3000, 3)})
		require.NoError(t, err)

		rows, err := s.ListTicketOrders(ctx, "cnd-2026")
		require.NoError(t, err)
		require.Len(t, rows, 5, "rows without ticket id are never merged")
		assert.True(t, rows[0].Sum.Equal(decimal.NewFromInt(1500)))
		assert.Equal(t, int64(3), rows[4].OrderID)
		assert.True(t, rows[4].OrderDate.Equal(Order(3, 0, "", 0, 3).OrderDate))
	})

	t.Run("ticket orders are validated atomically", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)
		require.NoError(t, s.SaveConference(ctx, Conference("cnd-2026")))

		bad := Order(2, 0, "Regular", -5, 2)
		_, err := s.AddTicketOrders(ctx, "cnd-2026", []domain.TicketOrder{Order(1, 1, "Regular", 10, 1), bad})
		require.ErrorIs(t, err, domain.ErrInvalidTicketOrder)

		rows, err := s.ListTicketOrders(ctx, "cnd-2026")
		require.NoError(t, err)
		assert.Empty(t, rows)

		_, err = s.AddTicketOrders(ctx, "missing", []domain.TicketOrder{Order(1, 1, "Regular", 10, 1)})
		assert.ErrorIs(t, err, ports.ErrNotFound)
		_, err = s.ListTicketOrders(ctx, "missing")
		assert.ErrorIs(t, err, ports.ErrNotFound)
	})

	t.Run("sponsor deals", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)
		require.NoError(t, s.SaveConference(ctx, Conference("cnd-2026")))

		deal := domain.SponsorDeal{
			ID:            "d1",
			ConferenceID:  "cnd-2026",
			SponsorName:   "Globex",
			Tier:          "Gold",
			Status:        domain.SponsorNegotiating,
			ContractValue: decimal.RequireFromString("50000.50"),
			AssignedTo:    "kari",
			UpdatedAt:     time.Date(2026, time.February, 1, 9, 0, 0, 0, time.UTC),
		}
		require.NoError(t, s.SaveSponsorDeal(ctx, deal))
		require.NoError(t, s.SaveSponsorDeal(ctx, domain.SponsorDeal{ID: "d2", ConferenceID: "cnd-2026", SponsorName: "acme", Status: domain.SponsorProspect}))

		deal.Status = domain.SponsorClosedWon
		deal.ContractStatus = domain.ContractSigned
		require.NoError(t, s.SaveSponsorDeal(ctx, deal))

		deals, err := s.ListSponsorDeals(ctx, "cnd-2026")
		require.NoError(t, err)
		require.Len(t, deals, 2)
		assert.Equal(t, "acme", deals[0].SponsorName)
		assert.Equal(t, domain.SponsorClosedWon, deals[1].Status)
		assert.True(t, deals[1].ContractValue.Equal(decimal.RequireFromString("50000.5")))

		err = s.SaveSponsorDeal(ctx, domain.SponsorDeal{ID: "d3", ConferenceID: "missing", SponsorName: "x", Status: domain.SponsorProspect})
		assert.ErrorIs(t, err, ports.ErrNotFound)
		err = s.SaveSponsorDeal(ctx, domain.SponsorDeal{ID: "d4", ConferenceID: "cnd-2026", SponsorName: "x", Status: "paused"})
		assert.ErrorIs(t, err, domain.ErrInvalidSponsorDeal)

		none, err := s.ListSponsorDeals(ctx, "other")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("sponsor deal stays in its conference", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)
		require.NoError(t, s.SaveConference(ctx, Conference("cnd-2026")))
		require.NoError(t, s.SaveConference(ctx, Conference("devopsdays")))

		deal := domain.SponsorDeal{ID: "d1", ConferenceID: "cnd-2026", SponsorName: "Globex", Status: domain.SponsorProspect}
		require.NoError(t, s.SaveSponsorDeal(ctx, deal))

		moved := deal
		moved.ConferenceID = "devopsdays"
		moved.Status = domain.SponsorClosedWon
		err := s.SaveSponsorDeal(ctx, moved)
		assert.ErrorIs(t, err, ports.ErrNotFound)

		kept, err := s.ListSponsorDeals(ctx, "cnd-2026")
		require.NoError(t, err)
		require.Len(t, kept, 1)
		assert.Equal(t, domain.SponsorProspect, kept[0].Status)

		other, err := s.ListSponsorDeals(ctx, "devopsdays")
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("proposals", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)

		p := domain.Proposal{
			ID:           "p1",
			ConferenceID: "cnd-2026",
			Title:        "Zero-downtime Postgres upgrades",
			SpeakerName:  "Ada",
			SpeakerEmail: "ada@example.com",
			Status:       domain.ProposalSubmitted,
		}
		require.NoError(t, s.SaveProposal(ctx, p))
		require.NoError(t, s.SaveProposal(ctx, domain.Proposal{ID: "p0", ConferenceID: "cnd-2026", Title: "Other", Status: domain.ProposalDraft}))

		p.Status = domain.ProposalAccepted
		require.NoError(t, s.SaveProposal(ctx, p))

		got, err := s.GetProposal(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, domain.ProposalAccepted, got.Status)
		assert.Equal(t, "ada@example.com", got.SpeakerEmail)

		list, err := s.ListProposals(ctx, "cnd-2026")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "p0", list[0].ID)

		_, err = s.GetProposal(ctx, "nope")
		assert.ErrorIs(t, err, ports.ErrNotFound)
		assert.ErrorIs(t, s.SaveProposal(ctx, domain.Proposal{ID: "x"}), domain.ErrInvalidProposal)
	})

	t.Run("closed store", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Close())

		_, err := s.GetConference(context.Background(), "cnd-2026")
		assert.ErrorIs(t, err, ports.ErrStorageUnavailable)
	})
}
