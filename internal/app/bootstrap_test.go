package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/confdesk/internal/adapters/outbound/compose"
	"github.com/sufield/confdesk/internal/app"
	"github.com/sufield/confdesk/internal/config"
	"github.com/sufield/confdesk/internal/ports"
)

const seedYAML = `conferences:
  - id: cnd-2026
    title: Cloud Native Days
    start_date: 2026-06-10T00:00:00Z
    capacity: 400
    currency: NOK
    sales_target:
      enabled: true
      target_curve: linear
      sales_start_date: 2026-01-15T00:00:00Z
ticket_orders:
  cnd-2026:
    - order_id: 1
      ticket_id: 11
      category: Regular
      sum: "3500"
      order_date: 2026-02-01T10:00:00Z
`

func TestBootstrap(t *testing.T) {
	t.Parallel()

	seed := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(seed, []byte(seedYAML), 0o600))

	cfg := config.Default()
	cfg.Storage.SeedFile = seed
	cfg.SalesUpdate.Enabled = true
	cfg.SalesUpdate.Conferences = []string{"cnd-2026"}

	application, err := app.Bootstrap(context.Background(), cfg, compose.NewAdapterFactory(nil), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	require.NotNil(t, application.Scheduler)
	assert.Equal(t, []string{"cnd-2026"}, application.Scheduler.Config().Conferences)

	report, err := application.Sales.Analyze(context.Background(), "cnd-2026", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Analysis.Statistics.PaidTickets)
}

func TestBootstrap_ConfiguredClassifier(t *testing.T) {
	t.Parallel()

	// Arrange
	seed := filepath.Join(t.TempDir(), "seed.yaml")
	body := seedYAML + `    - order_id: 2
      ticket_id: 12
      category: Press
      sum: "0"
      order_date: 2026-02-02T10:00:00Z
`
	require.NoError(t, os.WriteFile(seed, []byte(body), 0o600))

	tests := []struct {
		name          string
		classifier    config.ClassifierSection
		wantOrganizer int
	}{
		{name: "built-in keywords", wantOrganizer: 0},
		{name: "press counted as organizer", classifier: config.ClassifierSection{Organizer: []string{"press"}}, wantOrganizer: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			cfg.Storage.SeedFile = seed
			cfg.SalesUpdate.Classifier = tt.classifier

			application, err := app.Bootstrap(context.Background(), cfg, compose.NewAdapterFactory(nil), nil)
			require.NoError(t, err)
			t.Cleanup(func() { _ = application.Close() })

			// Act
			report, err := application.Sales.Analyze(context.Background(), "cnd-2026", fixedNow)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.wantOrganizer, report.Analysis.Statistics.OrganizerTickets)
		})
	}
}

func TestBootstrap_SchedulerDisabled(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.SalesUpdate.Enabled = false

	application, err := app.Bootstrap(context.Background(), cfg, compose.NewAdapterFactory(nil), nil)
	require.NoError(t, err)
	defer application.Close()

	assert.Nil(t, application.Scheduler)
}

type brokenFactory struct {
	store ports.Store
}

func (f *brokenFactory) CreateStore(context.Context, config.StorageSection) (ports.Store, error) {
	return f.store, nil
}

func (f *brokenFactory) CreateNotifier(context.Context, config.NotifySection) (ports.Notifier, error) {
	return nil, errors.New("no bus")
}

func TestBootstrap_NotifierFailureClosesStore(t *testing.T) {
	t.Parallel()

	store := newSeededStore(t)
	factory := &brokenFactory{store: store}

	_, err := app.Bootstrap(context.Background(), config.Default(), factory, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no bus")
	_, err = store.GetConference(context.Background(), "cnd-2026")
	assert.ErrorIs(t, err, ports.ErrStorageUnavailable)
}

func TestBootstrap_BadSeed(t *testing.T) {
	t.Parallel()

	seed := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(seed, []byte("speakers: []\n"), 0o600))

	cfg := config.Default()
	cfg.Storage.SeedFile = seed

	_, err := app.Bootstrap(context.Background(), cfg, compose.NewAdapterFactory(nil), nil)

	assert.Error(t, err)
}

func TestBootstrap_NilArguments(t *testing.T) {
	t.Parallel()

	_, err := app.Bootstrap(context.Background(), nil, compose.NewAdapterFactory(nil), nil)
	assert.Error(t, err)

	_, err = app.Bootstrap(context.Background(), config.Default(), nil, nil)
	assert.Error(t, err)
}
