package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sufield/confdesk/internal/domain"
	"github.com/sufield/confdesk/internal/metrics"
	"github.com/sufield/confdesk/internal/notify"
	"github.com/sufield/confdesk/internal/ports"
)

// SponsorService summarises and edits the sponsor pipeline.
type SponsorService struct {
	store        ports.Store
	notifier     ports.Notifier
	metrics      ports.MetricsRecorder
	logger       *zap.Logger
	slackChannel string
	opts         options
}

var _ ports.SponsorPipeline = (*SponsorService)(nil)

// NewSponsorService wires a SponsorService. slackChannel is used for
// conferences without a channel of their own.
func NewSponsorService(store ports.Store, notifier ports.Notifier, recorder ports.MetricsRecorder, logger *zap.Logger, slackChannel string, opts ...Option) *SponsorService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SponsorService{
		store:        store,
		notifier:     notifier,
		metrics:      recorder,
		logger:       logger.With(zap.String("service", "sponsors")),
		slackChannel: slackChannel,
		opts:         buildOptions(opts),
	}
}

// Summary aggregates the sponsor deals of a conference.
func (s *SponsorService) Summary(ctx context.Context, conferenceID string) (*ports.SponsorReport, error) {
	var (
		conf  *domain.Conference
		deals []domain.SponsorDeal
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
		d, err := s.store.ListSponsorDeals(gctx, conferenceID)
		if err != nil {
			return fmt.Errorf("load sponsor deals: %w", err)
		}
		deals = d
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := domain.AggregatePipeline(deals)
	s.metrics.RecordPipeline(conferenceID, summary)
	return &ports.SponsorReport{Conference: conf, Summary: summary}, nil
}

// UpsertDeal validates and stores a deal. A missing ID is generated, a
// missing currency is taken from the conference, and UpdatedAt is set to
// the current time.
func (s *SponsorService) UpsertDeal(ctx context.Context, deal domain.SponsorDeal) (domain.SponsorDeal, error) {
	conf, err := s.store.GetConference(ctx, deal.ConferenceID)
	if err != nil {
		return domain.SponsorDeal{}, fmt.Errorf("load conference: %w", err)
	}

	deal.SponsorName = strings.TrimSpace(deal.SponsorName)
	if deal.ID == "" {
		deal.ID = s.opts.newID()
	}
	if deal.Currency == "" {
		deal.Currency = conf.Currency
	}
	if deal.ContractStatus == "" {
		deal.ContractStatus = domain.ContractNone
	}
	if deal.InvoiceStatus == "" {
		deal.InvoiceStatus = domain.InvoiceNotSent
	}
	if err := deal.Validate(); err != nil {
		return domain.SponsorDeal{}, err
	}
	deal.UpdatedAt = s.opts.now().UTC()

	if err := s.store.SaveSponsorDeal(ctx, deal); err != nil {
		return domain.SponsorDeal{}, fmt.Errorf("save sponsor deal %s: %w", deal.ID, err)
	}
	s.logger.Info("sponsor deal saved",
		zap.String("conference", deal.ConferenceID),
		zap.String("deal", deal.ID),
		zap.String("status", string(deal.Status)))
	return deal, nil
}

// Notify sends the pipeline summary to Slack.
func (s *SponsorService) Notify(ctx context.Context, conferenceID string) (*ports.SponsorReport, error) {
	report, err := s.Summary(ctx, conferenceID)
	if err != nil {
		return nil, err
	}

	msg := notify.SponsorPipelineMessage(report.Conference, report.Summary)
	if msg.Channel == "" {
		msg.Channel = s.slackChannel
	}
	n, err := slackNotification(s.opts.newID(), ports.KindSponsorPipeline, conferenceID, msg, s.opts.now())
	if err != nil {
		return report, err
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		return report, fmt.Errorf("send sponsor pipeline for %s: %w", conferenceID, err)
	}
	return report, nil
}
