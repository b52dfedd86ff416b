package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/confdesk/internal/adapters/outbound/sqlite"
	"github.com/sufield/confdesk/internal/adapters/outbound/storetest"
	"github.com/sufield/confdesk/internal/domain"
	"github.com/sufield/confdesk/internal/ports"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) ports.Store {
		s, err := sqlite.Open(context.Background(), "file:"+filepath.Join(t.TempDir(), "confdesk.db"))
		require.NoError(t, err)
		return s
	})
}

func TestStore_InMemoryDSN(t *testing.T) {
	t.Parallel()

	s, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.SaveConference(ctx, storetest.Conference("cnd-2026")))
	_, err = s.AddTicketOrders(ctx, "cnd-2026", []domain.TicketOrder{storetest.Order(1, 1, "Regular", 10, 1)})
	require.NoError(t, err)

	rows, err := s.ListTicketOrders(ctx, "cnd-2026")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "confdesk.db")

	s, err := sqlite.Open(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, s.SaveConference(ctx, storetest.Conference("cnd-2026")))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "second close is a no-op")

	reopened, err := sqlite.Open(ctx, dsn)
	require.NoError(t, err)
	defer reopened.Close()

	c, err := reopened.GetConference(ctx, "cnd-2026")
	require.NoError(t, err)
	assert.Equal(t, domain.CurveSCurve, c.SalesTarget.TargetCurve)
}
