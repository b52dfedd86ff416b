package natsbus_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/sufield/confdesk/internal/adapters/outbound/natsbus"
	"github.com/sufield/confdesk/internal/ports"
	"github.com/sufield/confdesk/internal/testhelpers"
)

func notification() ports.Notification {
	return ports.Notification{
		ID:           "0b8f8c0e-6a59-4c55-a4a4-0c1f5a1a2b3c",
		Kind:         ports.KindSalesUpdate,
		Channel:      ports.ChannelSlack,
		ConferenceID: "cnd-2026",
		Recipient:    "#sales",
		Payload:      json.RawMessage(`{"text":"hello"}`),
		CreatedAt:    time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestConnect_Validation(t *testing.T) {
	t.Parallel()

	_, err := natsbus.Connect(context.Background(), natsbus.Config{SubjectPrefix: "x"}, nil)
	require.Error(t, err)

	_, err = natsbus.Connect(context.Background(), natsbus.Config{URL: "nats://localhost:4222"}, nil)
	require.Error(t, err)
}

func TestConnect_Unreachable(t *testing.T) {
	t.Parallel()

	_, err := natsbus.Connect(context.Background(), natsbus.Config{
		URL:            "nats://127.0.0.1:1",
		SubjectPrefix:  "confdesk.notifications",
		ConnectTimeout: 200 * time.Millisecond,
	}, nil)

	assert.ErrorIs(t, err, ports.ErrNotifierUnavailable)
}

func TestNotifier_CoreNATS(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping container-based test in short mode")
	}
	srv, cleanup := testhelpers.SetupNATSContainer(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sub, err := nats.Connect(srv.URL)
	require.NoError(t, err)
	defer sub.Close()
	msgs := make(chan *nats.Msg, 1)
	_, err = sub.ChanSubscribe("confdesk.notifications.>", msgs)
	require.NoError(t, err)
	require.NoError(t, sub.Flush())

	n, err := natsbus.Connect(ctx, natsbus.Config{URL: srv.URL, SubjectPrefix: "confdesk.notifications."}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer n.Close()

	// Act
	require.NoError(t, n.Notify(ctx, notification()))

	// Assert
	select {
	case msg := <-msgs:
		assert.Equal(t, "confdesk.notifications.sales_update.slack", msg.Subject)
		var got ports.Notification
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		assert.Equal(t, "cnd-2026", got.ConferenceID)
		assert.JSONEq(t, `{"text":"hello"}`, string(got.Payload))
	case <-ctx.Done():
		t.Fatal("notification was not delivered")
	}
}

func TestNotifier_JetStreamDeduplicates(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping container-based test in short mode")
	}
	srv, cleanup := testhelpers.SetupNATSContainer(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := natsbus.Connect(ctx, natsbus.Config{
		URL:           srv.URL,
		SubjectPrefix: "confdesk.notifications",
		JetStream:     true,
		Stream:        "CONFDESK_TEST",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer n.Close()

	require.NoError(t, n.Notify(ctx, notification()))
	require.NoError(t, n.Notify(ctx, notification()), "retry with the same ID")

	conn, err := nats.Connect(srv.URL)
	require.NoError(t, err)
	defer conn.Close()
	js, err := jetstream.New(conn)
	require.NoError(t, err)
	stream, err := js.Stream(ctx, "CONFDESK_TEST")
	require.NoError(t, err)
	info, err := stream.Info(ctx)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), info.State.Msgs)
}

func TestNotifier_Subject(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping container-based test in short mode")
	}
	srv, cleanup := testhelpers.SetupNATSContainer(t)
	defer cleanup()

	n, err := natsbus.Connect(context.Background(), natsbus.Config{URL: srv.URL, SubjectPrefix: "cd"}, nil)
	require.NoError(t, err)
	defer n.Close()

	nt := notification()
	nt.Kind = "odd.kind*"
	nt.Channel = ""
	assert.Equal(t, "cd.odd_kind_.unknown", n.Subject(nt))
}
