package app_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sufield/confdesk/internal/adapters/outbound/inmemory"
	"github.com/sufield/confdesk/internal/adapters/outbound/storetest"
	"github.com/sufield/confdesk/internal/app"
	"github.com/sufield/confdesk/internal/domain"
	"github.com/sufield/confdesk/internal/ports"
)

var fixedNow = time.Date(2026, time.February, 20, 9, 0, 0, 0, time.UTC)

// recordingNotifier keeps every notification and can be told to fail.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []ports.Notification
	fail map[ports.NotificationChannel]bool
}

func (n *recordingNotifier) Notify(_ context.Context, nt ports.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail[nt.Channel] {
		return fmt.Errorf("%w: %s down", ports.ErrNotifierUnavailable, nt.Channel)
	}
	n.sent = append(n.sent, nt)
	return nil
}

func (n *recordingNotifier) Close() error { return nil }

func (n *recordingNotifier) Sent() []ports.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ports.Notification(nil), n.sent...)
}

// recordingMetrics counts calls to the recorder.
type recordingMetrics struct {
	mu       sync.Mutex
	analyses int
	pipeline int
	results  []string
}

func (m *recordingMetrics) RecordTicketAnalysis(string, *domain.TicketAnalysis) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyses++
}

func (m *recordingMetrics) RecordPipeline(string, domain.PipelineSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pipeline++
}

func (m *recordingMetrics) RecordSalesUpdate(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, result)
}

// failingStore fails every proposal listing.
type failingStore struct {
	*inmemory.Store
}

func (failingStore) ListProposals(context.Context, string) ([]domain.Proposal, error) {
	return nil, errors.New("proposals unavailable")
}

func newSeededStore(t *testing.T) *inmemory.Store {
	t.Helper()
	ctx := context.Background()

	store := inmemory.NewStore()
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.SaveConference(ctx, storetest.Conference("cnd-2026")))
	_, err := store.AddTicketOrders(ctx, "cnd-2026", []domain.TicketOrder{
		storetest.Order(1, 101, "Regular", 3500, 2),
		storetest.Order(1, 102, "Regular", 3500, 2),
		storetest.Order(2, 201, "Early bird", 2500, 5),
		storetest.Order(3, 301, "Speaker", 0, 9),
		storetest.Order(4, 401, "Sponsor Gold", 0, 10),
	})
	require.NoError(t, err)

	for _, p := range []domain.Proposal{
		{ID: "p1", ConferenceID: "cnd-2026", Title: "Postgres upgrades", SpeakerName: "Ada", SpeakerEmail: "ada@example.com", Status: domain.ProposalConfirmed},
		{ID: "p2", ConferenceID: "cnd-2026", Title: "Postgres backups", SpeakerName: "Ada", SpeakerEmail: "ADA@example.com", Status: domain.ProposalConfirmed},
		{ID: "p3", ConferenceID: "cnd-2026", Title: "eBPF for SREs", SpeakerName: "Linus", SpeakerEmail: "linus@example.com", Status: domain.ProposalConfirmed},
		{ID: "p4", ConferenceID: "cnd-2026", Title: "Service meshes", SpeakerName: "Grace", SpeakerEmail: "grace@example.com", Status: domain.ProposalSubmitted},
		{ID: "p5", ConferenceID: "cnd-2026", Title: "Draft talk", SpeakerName: "Joan", Status: domain.ProposalDraft},
	} {
		require.NoError(t, store.SaveProposal(ctx, p))
	}
	return store
}

func fixedOptions() []app.Option {
	var (
		mu sync.Mutex
		n  int
	)
	return []app.Option{
		app.WithClock(func() time.Time { return fixedNow }),
		app.WithIDGenerator(func() string {
			mu.Lock()
			defer mu.Unlock()
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	}
}
