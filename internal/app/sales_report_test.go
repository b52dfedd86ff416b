package app_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/confdesk/internal/app"
	"github.com/sufield/confdesk/internal/domain"
	"github.com/sufield/confdesk/internal/notify"
	"github.com/sufield/confdesk/internal/ports"
)

func TestSalesReportService_Analyze(t *testing.T) {
	t.Parallel()

	// Arrange
	store := newSeededStore(t)
	rec := &recordingMetrics{}
	svc := app.NewSalesReportService(store, &recordingNotifier{}, rec, nil, app.SalesReportOptions{}, fixedOptions()...)

	// Act
	report, err := svc.Analyze(context.Background(), "cnd-2026", time.Time{})

	// Assert
	require.NoError(t, err)
	stats := report.Analysis.Statistics
	assert.Equal(t, 5, stats.TotalTickets)
	assert.Equal(t, 3, stats.PaidTickets)
	assert.Equal(t, 2, stats.FreeTickets)
	assert.Equal(t, 4, stats.TotalOrders)
	assert.Equal(t, "9500", stats.TotalRevenue.String())
	assert.Equal(t, 1, stats.SpeakerTickets)
	assert.Equal(t, 1, stats.SpeakerTicketsMissing, "two distinct confirmed speakers, one ticket")
	require.NotNil(t, report.Analysis.Performance)
	assert.Equal(t, "cnd-2026", report.Conference.ID)
	assert.Equal(t, 1, rec.analyses)
}

func TestSalesReportService_Reconfigure(t *testing.T) {
	t.Parallel()

	// Arrange
	store := newSeededStore(t)
	svc := app.NewSalesReportService(store, &recordingNotifier{}, nil, nil, app.SalesReportOptions{}, fixedOptions()...)
	before, err := svc.Analyze(context.Background(), "cnd-2026", time.Time{})
	require.NoError(t, err)

	// Act
	svc.Reconfigure(app.SalesReportOptions{
		Classifier: domain.CategoryClassifier{Organizer: []string{"gold"}},
	})
	after, err := svc.Analyze(context.Background(), "cnd-2026", time.Time{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, before.Analysis.Statistics.SponsorTickets)
	assert.Equal(t, 0, before.Analysis.Statistics.OrganizerTickets)
	assert.Equal(t, 0, after.Analysis.Statistics.SponsorTickets)
	assert.Equal(t, 1, after.Analysis.Statistics.OrganizerTickets)
}

func TestSalesReportService_AnalyzeNotFound(t *testing.T) {
	t.Parallel()

	svc := app.NewSalesReportService(newSeededStore(t), &recordingNotifier{}, nil, nil, app.SalesReportOptions{})

	_, err := svc.Analyze(context.Background(), "missing", fixedNow)

	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSalesReportService_AnalyzeLoadFailure(t *testing.T) {
	t.Parallel()

	svc := app.NewSalesReportService(failingStore{newSeededStore(t)}, &recordingNotifier{}, nil, nil, app.SalesReportOptions{})

	_, err := svc.Analyze(context.Background(), "cnd-2026", fixedNow)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load proposals")
}

func TestSalesReportService_AnalyzeInvalidCapacity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newSeededStore(t)
	conf, err := store.GetConference(ctx, "cnd-2026")
	require.NoError(t, err)
	conf.Capacity = 0
	require.NoError(t, store.SaveConference(ctx, conf))

	svc := app.NewSalesReportService(store, &recordingNotifier{}, nil, nil, app.SalesReportOptions{})
	_, err = svc.Analyze(ctx, "cnd-2026", fixedNow)

	assert.ErrorIs(t, err, domain.ErrInvalidCapacity)
}

func TestSalesReportService_SendUpdate(t *testing.T) {
	t.Parallel()

	store := newSeededStore(t)
	notifier := &recordingNotifier{}
	rec := &recordingMetrics{}
	svc := app.NewSalesReportService(store, notifier, rec, nil, app.SalesReportOptions{SlackChannel: "#default"}, fixedOptions()...)

	report, err := svc.SendUpdate(context.Background(), "cnd-2026", time.Time{})
	require.NoError(t, err)
	require.NotNil(t, report)

	sent := notifier.Sent()
	require.Len(t, sent, 1)
	n := sent[0]
	assert.Equal(t, "id-1", n.ID)
	assert.Equal(t, ports.KindSalesUpdate, n.Kind)
	assert.Equal(t, ports.ChannelSlack, n.Channel)
	assert.Equal(t, "#cnd", n.Recipient, "conference channel wins over the default")
	assert.Equal(t, fixedNow, n.CreatedAt)

	var msg notify.SlackMessage
	require.NoError(t, json.Unmarshal(n.Payload, &msg))
	assert.Contains(t, msg.Text, "Cloud Native Days")
	assert.NotEmpty(t, msg.Blocks)

	assert.Equal(t, []string{app.ResultSuccess}, rec.results)
}

func TestSalesReportService_SendUpdateDefaultChannel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newSeededStore(t)
	conf, err := store.GetConference(ctx, "cnd-2026")
	require.NoError(t, err)
	conf.SlackChannel = ""
	require.NoError(t, store.SaveConference(ctx, conf))

	notifier := &recordingNotifier{}
	svc := app.NewSalesReportService(store, notifier, nil, nil, app.SalesReportOptions{SlackChannel: "#default"})

	_, err = svc.SendUpdate(ctx, "cnd-2026", fixedNow)
	require.NoError(t, err)

	require.Len(t, notifier.Sent(), 1)
	assert.Equal(t, "#default", notifier.Sent()[0].Recipient)
}

func TestSalesReportService_SendUpdateNotifierDown(t *testing.T) {
	t.Parallel()

	notifier := &recordingNotifier{fail: map[ports.NotificationChannel]bool{ports.ChannelSlack: true}}
	rec := &recordingMetrics{}
	svc := app.NewSalesReportService(newSeededStore(t), notifier, rec, nil, app.SalesReportOptions{})

	report, err := svc.SendUpdate(context.Background(), "cnd-2026", fixedNow)

	assert.ErrorIs(t, err, ports.ErrNotifierUnavailable)
	assert.NotNil(t, report, "the analysis is still returned")
	assert.Equal(t, []string{app.ResultError}, rec.results)
}

func TestSalesReportService_ImportOrders(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newSeededStore(t)
	svc := app.NewSalesReportService(store, &recordingNotifier{}, nil, nil, app.SalesReportOptions{})

	n, err := svc.ImportOrders(ctx, "cnd-2026", []domain.TicketOrder{
		{OrderID: 9, TicketID: 901, Category: "Regular", OrderDate: fixedNow},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows, err := store.ListTicketOrders(ctx, "cnd-2026")
	require.NoError(t, err)
	assert.Len(t, rows, 6)

	_, err = svc.ImportOrders(ctx, "missing", []domain.TicketOrder{{OrderID: 1, OrderDate: fixedNow}})
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestConfirmedSpeakers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		proposals []domain.Proposal
		want      int
	}{
		{name: "none", want: 0},
		{
			name: "same email counted once",
			proposals: []domain.Proposal{
				{ID: "a", SpeakerEmail: "ada@example.com", Status: domain.ProposalConfirmed},
				{ID: "b", SpeakerEmail: " Ada@Example.com", Status: domain.ProposalConfirmed},
			},
			want: 1,
		},
		{
			name: "only confirmed count",
			proposals: []domain.Proposal{
				{ID: "a", SpeakerEmail: "ada@example.com", Status: domain.ProposalAccepted},
				{ID: "b", SpeakerEmail: "linus@example.com", Status: domain.ProposalConfirmed},
			},
			want: 1,
		},
		{
			name: "falls back to name then id",
			proposals: []domain.Proposal{
				{ID: "a", SpeakerName: "Ada", Status: domain.ProposalConfirmed},
				{ID: "b", SpeakerName: "ada", Status: domain.ProposalConfirmed},
				{ID: "c", Status: domain.ProposalConfirmed},
				{ID: "d", Status: domain.ProposalConfirmed},
			},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, app.ConfirmedSpeakers(tt.proposals))
		})
	}
}
