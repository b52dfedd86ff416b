// Package confdesk runs the conference back-office service from a config
// file: the HTTP API, the periodic sales update and config hot reload.
//
// Server:
//
//	logger, _ := zap.NewProduction()
//	shutdown, err := confdesk.Start(context.Background(), "confdesk.yaml", logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer shutdown()
//
// Or block until SIGINT/SIGTERM:
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	err := confdesk.Serve(ctx, "confdesk.yaml", logger)
package confdesk

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/sufield/confdesk/internal/adapters/inbound/httpapi"
	"github.com/sufield/confdesk/internal/adapters/outbound/compose"
	"github.com/sufield/confdesk/internal/app"
	"github.com/sufield/confdesk/internal/config"
)

// ConfigEnv names the environment variable consulted when no config path
// is given.
const ConfigEnv = "CONFDESK_CONFIG"

// ResolveConfigPath returns path, or CONFDESK_CONFIG when path is empty.
// An empty result means "defaults and environment only".
func ResolveConfigPath(path string) string {
	if path != "" {
		return path
	}
	return os.Getenv(ConfigEnv)
}

// Start loads the configuration, wires the application and starts the HTTP
// server, the sales update scheduler and the config watcher.
//
// The returned shutdown function stops everything in reverse order. It is
// safe to call more than once; later calls return the first result.
func Start(ctx context.Context, configPath string, logger *zap.Logger) (shutdown func() error, err error) {
	inst, err := start(ctx, configPath, logger)
	if err != nil {
		return nil, err
	}
	return inst.shutdown, nil
}

// instance is a running service.
type instance struct {
	addr     string
	serveErr <-chan error
	shutdown func() error
}

func start(ctx context.Context, configPath string, logger *zap.Logger) (*instance, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	configPath = ResolveConfigPath(configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	application, err := app.Bootstrap(ctx, cfg, compose.NewAdapterFactory(logger), logger)
	if err != nil {
		return nil, err
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Sales:     application.Sales,
		Sponsors:  application.Sponsors,
		Proposals: application.Proposals,
		Metrics:   application.Metrics.Handler(),
		Roles:     httpapi.NewRolePolicy(cfg.Server.OrganizerIDs, cfg.Server.TrustRoleHeader),
		Logger:    logger,
	})

	srv, err := httpapi.NewServer(ctx, cfg.Server, router, logger)
	if err != nil {
		return nil, errors.Join(err, application.Close())
	}
	if err := srv.Start(); err != nil {
		return nil, errors.Join(err, application.Close())
	}

	// Background work outlives ctx, which only bounds startup.
	runCtx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	if application.Scheduler != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := application.Scheduler.Run(runCtx); err != nil {
				logger.Error("scheduler stopped", zap.Error(err))
			}
		}()
	}

	if configPath != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := config.Watch(runCtx, configPath,
				func(next *config.Config) { applyReload(application, next, logger) },
				func(err error) { logger.Warn("config reload failed", zap.Error(err)) })
			if err != nil {
				logger.Warn("config watcher stopped", zap.Error(err))
			}
		}()
	}

	var (
		shutdownOnce sync.Once
		shutdownErr  error
	)
	shutdown := func() error {
		shutdownOnce.Do(func() {
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancelShutdown()

			err1 := srv.Shutdown(shutdownCtx)
			cancel()
			wg.Wait()
			err2 := application.Close()
			shutdownErr = errors.Join(err1, err2)
		})
		return shutdownErr
	}

	logger.Info("confdesk started",
		zap.String("addr", srv.Addr()),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("notify", cfg.Notify.Driver),
		zap.Bool("sales_update", application.Scheduler != nil))

	return &instance{addr: srv.Addr(), serveErr: srv.Err(), shutdown: shutdown}, nil
}

// Serve starts the service and blocks until ctx is cancelled or the HTTP
// server fails, then shuts down.
func Serve(ctx context.Context, configPath string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	inst, err := start(ctx, configPath, logger)
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return inst.shutdown()
	case err, ok := <-inst.serveErr:
		shutdownErr := inst.shutdown()
		if ok && err != nil {
			return errors.Join(fmt.Errorf("server error: %w", err), shutdownErr)
		}
		return shutdownErr
	}
}

// applyReload hands the parts of a reloaded config that can change at
// runtime to the running application: the sales report tolerance,
// classifier and fallback channel, and the scheduler's interval and
// conferences. Other sections need a restart.
func applyReload(application *app.Application, next *config.Config, logger *zap.Logger) {
	application.Sales.Reconfigure(app.SalesReportOptionsFrom(next))
	if application.Scheduler == nil {
		if next.SalesUpdate.Enabled {
			logger.Warn("sales_update enabled in config; restart to start the scheduler")
		}
		return
	}
	application.Scheduler.Reconfigure(app.SchedulerConfigFrom(next.SalesUpdate))
}
