// Package lognotify is a ports.Notifier that writes built messages to the
// structured log. It is the default when no message bus is configured.
package lognotify

import (
	"context"

	"go.uber.org/zap"

	"github.com/sufield/confdesk/internal/ports"
)

// Notifier logs each notification at info level.
type Notifier struct {
	logger *zap.Logger
}

var _ ports.Notifier = (*Notifier)(nil)

// New returns a Notifier writing to logger.
func New(logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{logger: logger.With(zap.String("component", "lognotify"))}
}

// Notify logs n. It fails only when ctx is already done.
func (n *Notifier) Notify(ctx context.Context, nt ports.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.logger.Info("notification",
		zap.String("id", nt.ID),
		zap.String("kind", nt.Kind),
		zap.String("channel", string(nt.Channel)),
		zap.String("conference", nt.ConferenceID),
		zap.String("recipient", nt.Recipient),
		zap.String("subject", nt.Subject),
		zap.String("payload", string(nt.Payload)),
	)
	return nil
}

// Close flushes the logger.
func (n *Notifier) Close() error {
	_ = n.logger.Sync()
	return nil
}
