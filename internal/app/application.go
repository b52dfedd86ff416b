package app

import (
	"errors"
	"fmt"

	"github.com/sufield/confdesk/internal/config"
	"github.com/sufield/confdesk/internal/metrics"
	"github.com/sufield/confdesk/internal/ports"
)

// Application is the composition root that wires all dependencies.
type Application struct {
	Config    *config.Config
	Store     ports.Store
	Notifier  ports.Notifier
	Metrics   *metrics.Recorder
	Sales     *SalesReportService
	Sponsors  *SponsorService
	Proposals *ProposalService

	// Scheduler is nil when the sales update job is disabled.
	Scheduler *Scheduler
}

// Close releases the notifier and the store.
func (a *Application) Close() error {
	var errs []error
	if a.Notifier != nil {
		if err := a.Notifier.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close notifier: %w", err))
		}
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}
	return errors.Join(errs...)
}

// SchedulerConfigFrom maps the sales_update section onto a SchedulerConfig.
func SchedulerConfigFrom(cfg config.SalesUpdateSection) SchedulerConfig {
	return SchedulerConfig{
		Interval:    cfg.Interval,
		Conferences: cfg.Conferences,
		RunOnStart:  cfg.RunOnStart,
	}
}
