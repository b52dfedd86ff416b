package compose_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/confdesk/internal/adapters/outbound/compose"
	"github.com/sufield/confdesk/internal/adapters/outbound/inmemory"
	"github.com/sufield/confdesk/internal/domain"
	"github.com/sufield/confdesk/internal/ports"
)

const seedFile = `conferences:
  - id: cnd-2026
    title: Cloud Native Days
    start_date: 2026-06-10T00:00:00Z
    capacity: 400
    currency: NOK
    sales_target:
      enabled: true
      target_curve: s_curve
      sales_start_date: 2026-01-15T00:00:00Z
      milestones:
        - date: 2026-03-31T00:00:00Z
          target_percentage: 40
          label: Early bird ends
ticket_orders:
  cnd-2026:
    - order_id: 1
      ticket_id: 11
      category: Regular
      sum: "3500.00"
      sum_left: "0"
      order_date: 2026-02-01T10:00:00Z
    - order_id: 2
      ticket_id: 21
      category: Speaker
      sum: "0"
      order_date: 2026-02-03T10:00:00Z
sponsor_deals:
  - id: deal-acme
    conference_id: cnd-2026
    sponsor_name: Acme
    tier: Gold
    status: closed-won
    contract_status: contract-signed
    invoice_status: paid
    contract_value: "50000"
proposals:
  - id: p1
    conference_id: cnd-2026
    title: Zero-downtime Postgres upgrades
    speaker_name: Ada
    speaker_email: ada@example.com
    status: submitted
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSeedAndApply(t *testing.T) {
	t.Parallel()

	// Arrange
	ctx := context.Background()
	seed, err := compose.LoadSeed(writeSeed(t, seedFile))
	require.NoError(t, err)
	store := inmemory.NewStore()
	defer store.Close()

	// Act
	require.NoError(t, seed.Apply(ctx, store))

	// Assert
	conf, err := store.GetConference(ctx, "cnd-2026")
	require.NoError(t, err)
	assert.Equal(t, domain.CurveSCurve, conf.SalesTarget.TargetCurve)
	require.Len(t, conf.SalesTarget.Milestones, 1)
	assert.Equal(t, "Early bird ends", conf.SalesTarget.Milestones[0].Label)

	orders, err := store.ListTicketOrders(ctx, "cnd-2026")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "3500", orders[0].Sum.String())

	deals, err := store.ListSponsorDeals(ctx, "cnd-2026")
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, "50000", deals[0].ContractValue.String())

	p, err := store.GetProposal(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalSubmitted, p.Status)
}

func TestLoadSeed_Errors(t *testing.T) {
	t.Parallel()

	_, err := compose.LoadSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read seed file")

	_, err = compose.LoadSeed(writeSeed(t, "venues: []\n"))
	assert.ErrorContains(t, err, "failed to parse seed file")
}

func TestLoadSeed_Empty(t *testing.T) {
	t.Parallel()

	seed, err := compose.LoadSeed(writeSeed(t, ""))
	require.NoError(t, err)
	assert.Empty(t, seed.Conferences)
}

func TestSeedApply_OrdersForUnknownConference(t *testing.T) {
	t.Parallel()

	seed := &compose.Seed{
		TicketOrders: map[string][]domain.TicketOrder{
			"missing": {{OrderID: 1, OrderDate: fixedDate()}},
		},
	}
	store := inmemory.NewStore()
	defer store.Close()

	err := seed.Apply(context.Background(), store)

	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSeedApply_InvalidConference(t *testing.T) {
	t.Parallel()

	seed := &compose.Seed{Conferences: []domain.Conference{{ID: "x"}}}
	store := inmemory.NewStore()
	defer store.Close()

	err := seed.Apply(context.Background(), store)

	assert.ErrorIs(t, err, domain.ErrInvalidConference)
}

func TestSeedValidate_RejectsBadOrder(t *testing.T) {
	t.Parallel()

	seed := &compose.Seed{
		TicketOrders: map[string][]domain.TicketOrder{
			"cnd-2026": {{OrderID: 0, OrderDate: fixedDate()}},
		},
	}
	store := inmemory.NewStore()
	defer store.Close()

	assert.ErrorIs(t, seed.Validate(), domain.ErrInvalidTicketOrder)
	assert.ErrorIs(t, seed.Apply(context.Background(), store), domain.ErrInvalidTicketOrder)
}

func fixedDate() time.Time {
	return time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
}
