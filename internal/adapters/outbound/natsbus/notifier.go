// Package natsbus publishes built notifications to NATS so a separate
// delivery worker can post them to Slack or send them by email.
//
// Subjects are <prefix>.<kind>.<channel>, for example
// confdesk.notifications.sales_update.slack. With JetStream enabled the
// notifier creates a stream over <prefix>.> and publishes with the
// notification ID as Nats-Msg-Id, so retried publishes are deduplicated.
package natsbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/sufield/confdesk/internal/ports"
)

// Config configures the NATS connection.
type Config struct {
	URL            string
	SubjectPrefix  string
	JetStream      bool
	Stream         string
	ConnectTimeout time.Duration

	// MaxAge bounds how long JetStream keeps undelivered notifications.
	MaxAge time.Duration
}

// DefaultMaxAge is used when Config.MaxAge is zero.
const DefaultMaxAge = 7 * 24 * time.Hour

// Notifier implements ports.Notifier on NATS core or JetStream.
type Notifier struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	prefix string
	logger *zap.Logger
}

var _ ports.Notifier = (*Notifier)(nil)

// Connect dials NATS and, when JetStream is enabled, makes sure the stream exists.
func Connect(ctx context.Context, cfg Config, logger *zap.Logger) (*Notifier, error) {
	if cfg.URL == "" {
		return nil, errors.New("nats url must be set")
	}
	if cfg.SubjectPrefix == "" {
		return nil, errors.New("nats subject prefix must be set")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "natsbus"))

	opts := []nats.Option{
		nats.Name("confdesk"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("disconnected from NATS", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("reconnected to NATS", zap.String("url", c.ConnectedUrl()))
		}),
	}
	if cfg.ConnectTimeout > 0 {
		opts = append(opts, nats.Timeout(cfg.ConnectTimeout))
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: connect to NATS: %v", ports.ErrNotifierUnavailable, err)
	}

	n := &Notifier{
		conn:   conn,
		prefix: strings.TrimSuffix(cfg.SubjectPrefix, "."),
		logger: logger,
	}

	if cfg.JetStream {
		js, err := jetstream.New(conn)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("create JetStream context: %w", err)
		}
		maxAge := cfg.MaxAge
		if maxAge == 0 {
			maxAge = DefaultMaxAge
		}
		_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
			Name:       cfg.Stream,
			Subjects:   []string{n.prefix + ".>"},
			Retention:  jetstream.LimitsPolicy,
			Storage:    jetstream.FileStorage,
			MaxAge:     maxAge,
			Duplicates: 10 * time.Minute,
		})
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("create stream %s: %w", cfg.Stream, err)
		}
		n.js = js
	}

	logger.Info("connected to NATS",
		zap.String("url", conn.ConnectedUrl()),
		zap.Bool("jetstream", cfg.JetStream))
	return n, nil
}

// Subject returns the subject a notification is published on.
func (n *Notifier) Subject(nt ports.Notification) string {
	return n.prefix + "." + token(nt.Kind) + "." + token(string(nt.Channel))
}

// Notify publishes the notification as JSON.
func (n *Notifier) Notify(ctx context.Context, nt ports.Notification) error {
	data, err := json.Marshal(nt)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	msg := nats.NewMsg(n.Subject(nt))
	msg.Data = data
	if nt.ID != "" {
		msg.Header.Set(nats.MsgIdHdr, nt.ID)
	}

	if n.js != nil {
		if _, err := n.js.PublishMsg(ctx, msg); err != nil {
			return fmt.Errorf("%w: publish %s: %v", ports.ErrNotifierUnavailable, msg.Subject, err)
		}
	} else {
		if err := n.conn.PublishMsg(msg); err != nil {
			return fmt.Errorf("%w: publish %s: %v", ports.ErrNotifierUnavailable, msg.Subject, err)
		}
		if err := n.conn.FlushWithContext(ctx); err != nil {
			return fmt.Errorf("%w: flush %s: %v", ports.ErrNotifierUnavailable, msg.Subject, err)
		}
	}

	n.logger.Debug("published notification",
		zap.String("subject", msg.Subject),
		zap.String("id", nt.ID))
	return nil
}

// Close drains pending messages and closes the connection.
func (n *Notifier) Close() error {
	if n.conn.IsClosed() {
		return nil
	}
	return n.conn.Drain()
}

// token makes s safe to use as a single subject token.
func token(s string) string {
	if s == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t':
			return '_'
		}
		return r
	}, s)
}
