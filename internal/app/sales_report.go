package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sufield/confdesk/internal/domain"
	"github.com/sufield/confdesk/internal/metrics"
	"github.com/sufield/confdesk/internal/notify"
	"github.com/sufield/confdesk/internal/ports"
)

// Sales update results recorded by the metrics recorder.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// SalesReportOptions tunes the ticket sales processor.
type SalesReportOptions struct {
	// Tolerance is the on-track band in percentage points; zero uses the
	// processor default.
	Tolerance float64

	// Classifier overrides the default category keywords when non-zero.
	Classifier domain.CategoryClassifier

	// SlackChannel is used when a conference has no channel of its own.
	SlackChannel string
}

// SalesReportService analyses ticket sales and sends the sales update.
type SalesReportService struct {
	store    ports.Store
	notifier ports.Notifier
	metrics  ports.MetricsRecorder
	logger   *zap.Logger
	opts     options

	mu  sync.RWMutex
	cfg SalesReportOptions
}

var _ ports.SalesReporter = (*SalesReportService)(nil)

// NewSalesReportService wires a SalesReportService. A nil recorder
// or logger disables that concern.
func NewSalesReportService(store ports.Store, notifier ports.Notifier, recorder ports.MetricsRecorder, logger *zap.Logger, cfg SalesReportOptions, opts ...Option) *SalesReportService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesReportService{
		store:    store,
		notifier: notifier,
		metrics:  recorder,
		logger:   logger.With(zap.String("service", "sales_report")),
		cfg:      cfg,
		opts:     buildOptions(opts),
	}
}

// Reconfigure swaps the processor options used by later analyses.
func (s *SalesReportService) Reconfigure(cfg SalesReportOptions) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

func (s *SalesReportService) current() SalesReportOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Analyze loads the conference, its ticket rows and its confirmed speakers
// concurrently and runs the ticket sales processor. A zero now means the
// current time.
func (s *SalesReportService) Analyze(ctx context.Context, conferenceID string, now time.Time) (*ports.SalesReport, error) {
	var (
		conf     *domain.Conference
		orders   []domain.TicketOrder
		speakers int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.store.GetConference(gctx, conferenceID)
		if err != nil {
			return fmt.Errorf("load conference: %w", err)
		}
		conf = c
		return nil
	})
	g.Go(func() error {
		o, err := s.store.ListTicketOrders(gctx, conferenceID)
		if err != nil {
			return fmt.Errorf("load ticket orders: %w", err)
		}
		orders = o
		return nil
	})
	g.Go(func() error {
		ps, err := s.store.ListProposals(gctx, conferenceID)
		if err != nil {
			return fmt.Errorf("load proposals: %w", err)
		}
		speakers = ConfirmedSpeakers(ps)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if now.IsZero() {
		now = s.opts.now()
	}
	cfg := s.current()
	analysis, err := domain.ProcessTicketSales(domain.TicketSalesInput{
		Orders:                 orders,
		Config:                 conf.SalesTarget,
		Capacity:               conf.Capacity,
		ConferenceDate:         conf.StartDate,
		SpeakerCount:           speakers,
		SponsorTicketAllowance: conf.SponsorTicketAllowance,
		Now:                    now,
		OnTrackTolerance:       cfg.Tolerance,
		Classifier:             cfg.Classifier,
	})
	if err != nil {
		return nil, fmt.Errorf("analyze ticket sales for %s: %w", conferenceID, err)
	}

	s.metrics.RecordTicketAnalysis(conferenceID, analysis)
	return &ports.SalesReport{Conference: conf, Analysis: analysis}, nil
}

// SendUpdate analyses sales and hands the Slack update to the notifier.
func (s *SalesReportService) SendUpdate(ctx context.Context, conferenceID string, now time.Time) (*ports.SalesReport, error) {
	if now.IsZero() {
		now = s.opts.now()
	}

	report, err := s.Analyze(ctx, conferenceID, now)
	if err != nil {
		s.metrics.RecordSalesUpdate(ResultError)
		return nil, err
	}

	msg := notify.SalesUpdateMessage(report.Conference, report.Analysis)
	if msg.Channel == "" {
		msg.Channel = s.current().SlackChannel
	}
	n, err := slackNotification(s.opts.newID(), ports.KindSalesUpdate, conferenceID, msg, now)
	if err != nil {
		s.metrics.RecordSalesUpdate(ResultError)
		return report, err
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.metrics.RecordSalesUpdate(ResultError)
		return report, fmt.Errorf("send sales update for %s: %w", conferenceID, err)
	}

	s.metrics.RecordSalesUpdate(ResultSuccess)
	fields := []zap.Field{
		zap.String("conference", conferenceID),
		zap.Int("paid_tickets", report.Analysis.Statistics.PaidTickets),
		zap.String("revenue", report.Analysis.Statistics.TotalRevenue.String()),
	}
	if p := report.Analysis.Performance; p != nil {
		fields = append(fields, zap.String("status", string(p.Status)), zap.Float64("variance", p.Variance))
	}
	s.logger.Info("sales update sent", fields...)
	return report, nil
}

// ImportOrders stores ticket rows exported by the ticketing provider.
func (s *SalesReportService) ImportOrders(ctx context.Context, conferenceID string, orders []domain.TicketOrder) (int, error) {
	n, err := s.store.AddTicketOrders(ctx, conferenceID, orders)
	if err != nil {
		return 0, fmt.Errorf("import ticket orders for %s: %w", conferenceID, err)
	}
	s.logger.Info("ticket orders imported", zap.String("conference", conferenceID), zap.Int("rows", n))
	return n, nil
}

// ConfirmedSpeakers counts distinct speakers with a confirmed proposal.
// Speakers are identified by email, falling back to name.
func ConfirmedSpeakers(proposals []domain.Proposal) int {
	seen := make(map[string]struct{})
	for _, p := range proposals {
		if p.Status != domain.ProposalConfirmed {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(p.SpeakerEmail))
		if key == "" {
			key = "name:" + strings.ToLower(strings.TrimSpace(p.SpeakerName))
		}
		if key == "name:" {
			key = "proposal:" + p.ID
		}
		seen[key] = struct{}{}
	}
	return len(seen)
}
