package lognotify_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sufield/confdesk/internal/adapters/outbound/lognotify"
	"github.com/sufield/confdesk/internal/ports"
)

func TestNotifier_Notify(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	n := lognotify.New(zap.New(core))

	err := n.Notify(context.Background(), ports.Notification{
		ID:           "n1",
		Kind:         ports.KindProposalAction,
		Channel:      ports.ChannelEmail,
		ConferenceID: "cnd-2026",
		Recipient:    "ada@example.com",
		Subject:      "Your talk was accepted",
		Payload:      json.RawMessage(`{"to":["ada@example.com"]}`),
	})

	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "email", fields["channel"])
	assert.Equal(t, "ada@example.com", fields["recipient"])
	assert.Equal(t, "lognotify", fields["component"])
	assert.Equal(t, `{"to":["ada@example.com"]}`, fields["payload"])
	assert.NoError(t, n.Close())
}

func TestNotifier_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := lognotify.New(nil).Notify(ctx, ports.Notification{ID: "n1"})

	assert.ErrorIs(t, err, context.Canceled)
}
