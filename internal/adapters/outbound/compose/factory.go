package compose

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sufield/confdesk/internal/adapters/outbound/inmemory"
	"github.com/sufield/confdesk/internal/adapters/outbound/lognotify"
	"github.com/sufield/confdesk/internal/adapters/outbound/natsbus"
	"github.com/sufield/confdesk/internal/adapters/outbound/sqlite"
	"github.com/sufield/confdesk/internal/config"
	"github.com/sufield/confdesk/internal/ports"
)

// AdapterFactory creates the outbound adapters selected by configuration.
type AdapterFactory struct {
	logger *zap.Logger
}

// NewAdapterFactory creates a factory. The logger is handed to adapters
// that log on their own.
func NewAdapterFactory(logger *zap.Logger) *AdapterFactory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdapterFactory{logger: logger}
}

// CreateStore opens the repository backend named by cfg.Driver.
func (f *AdapterFactory) CreateStore(ctx context.Context, cfg config.StorageSection) (ports.Store, error) {
	switch cfg.Driver {
	case config.StorageInMemory, "":
		return inmemory.NewStore(), nil
	case config.StorageSQLite:
		store, err := sqlite.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

// CreateNotifier builds the notifier named by cfg.Driver.
func (f *AdapterFactory) CreateNotifier(ctx context.Context, cfg config.NotifySection) (ports.Notifier, error) {
	switch cfg.Driver {
	case config.NotifyLog, "":
		return lognotify.New(f.logger.Named("notifications")), nil
	case config.NotifyNATS:
		n, err := natsbus.Connect(ctx, natsbus.Config{
			URL:            cfg.NATS.URL,
			SubjectPrefix:  cfg.NATS.SubjectPrefix,
			JetStream:      cfg.NATS.JetStream,
			Stream:         cfg.NATS.Stream,
			ConnectTimeout: cfg.NATS.ConnectTimeout,
		}, f.logger.Named("natsbus"))
		if err != nil {
			return nil, fmt.Errorf("failed to connect notifier: %w", err)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unsupported notify driver %q", cfg.Driver)
	}
}
