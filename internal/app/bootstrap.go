package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sufield/confdesk/internal/adapters/outbound/compose"
	"github.com/sufield/confdesk/internal/bg"
	"github.com/sufield/confdesk/internal/config"
	"github.com/sufield/confdesk/internal/domain"
	"github.com/sufield/confdesk/internal/metrics"
	"github.com/sufield/confdesk/internal/ports"
)

// DefaultBootstrapTimeout bounds adapter setup when ctx has no deadline.
const DefaultBootstrapTimeout = 15 * time.Second

// AdapterFactory creates the outbound adapters named by configuration.
type AdapterFactory interface {
	CreateStore(ctx context.Context, cfg config.StorageSection) (ports.Store, error)
	CreateNotifier(ctx context.Context, cfg config.NotifySection) (ports.Notifier, error)
}

var _ AdapterFactory = (*compose.AdapterFactory)(nil)

// Bootstrap creates and wires all application components.
// Seeding is configuration, not runtime behavior, and happens once here.
func Bootstrap(ctx context.Context, cfg *config.Config, factory AdapterFactory, logger *zap.Logger, opts ...Option) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if factory == nil {
		return nil, fmt.Errorf("adapter factory cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultBootstrapTimeout)
		defer cancel()
	}

	store, err := factory.CreateStore(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	if cfg.Storage.SeedFile != "" {
		seed, err := compose.LoadSeed(cfg.Storage.SeedFile)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		if err := seed.Apply(ctx, store); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to apply seed: %w", err)
		}
		logger.Info("storage seeded",
			zap.String("file", cfg.Storage.SeedFile),
			zap.Int("conferences", len(seed.Conferences)))
	}

	notifier, err := factory.CreateNotifier(ctx, cfg.Notify)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to create notifier: %w", err)
	}

	recorder := metrics.New()
	application := &Application{
		Config:   cfg,
		Store:    store,
		Notifier: notifier,
		Metrics:  recorder,
		Sales:    NewSalesReportService(store, notifier, recorder, logger, SalesReportOptionsFrom(cfg), opts...),
		Sponsors: NewSponsorService(store, notifier, recorder, logger, cfg.Notify.SlackChannel, opts...),
		Proposals: NewProposalService(store, notifier, logger, ProposalServiceOptions{
			SlackChannel: cfg.Notify.SlackChannel,
			EmailFrom:    cfg.Notify.EmailFrom,
		}, opts...),
	}

	if cfg.SalesUpdate.Enabled {
		application.Scheduler = NewScheduler(application.Sales, &bg.Async{}, logger, SchedulerConfigFrom(cfg.SalesUpdate))
	}

	logger.Info("application bootstrapped",
		zap.String("storage", cfg.Storage.Driver),
		zap.String("notify", cfg.Notify.Driver),
		zap.Bool("sales_update", cfg.SalesUpdate.Enabled))
	return application, nil
}

// SalesReportOptionsFrom maps the sales_update and notify sections onto the
// sales report options.
func SalesReportOptionsFrom(cfg *config.Config) SalesReportOptions {
	return SalesReportOptions{
		Tolerance: cfg.SalesUpdate.Tolerance,
		Classifier: domain.CategoryClassifier{
			Sponsor:   cfg.SalesUpdate.Classifier.Sponsor,
			Speaker:   cfg.SalesUpdate.Classifier.Speaker,
			Organizer: cfg.SalesUpdate.Classifier.Organizer,
		},
		SlackChannel: cfg.Notify.SlackChannel,
	}
}
