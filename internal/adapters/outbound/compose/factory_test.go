package compose_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/confdesk/internal/adapters/outbound/compose"
	"github.com/sufield/confdesk/internal/adapters/outbound/inmemory"
	"github.com/sufield/confdesk/internal/adapters/outbound/lognotify"
	"github.com/sufield/confdesk/internal/adapters/outbound/sqlite"
	"github.com/sufield/confdesk/internal/config"
)

func TestAdapterFactory_CreateStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := compose.NewAdapterFactory(nil)

	mem, err := f.CreateStore(ctx, config.StorageSection{Driver: config.StorageInMemory})
	require.NoError(t, err)
	assert.IsType(t, &inmemory.Store{}, mem)
	require.NoError(t, mem.Close())

	dsn := "file:" + filepath.Join(t.TempDir(), "confdesk.db")
	db, err := f.CreateStore(ctx, config.StorageSection{Driver: config.StorageSQLite, DSN: dsn})
	require.NoError(t, err)
	assert.IsType(t, &sqlite.Store{}, db)
	require.NoError(t, db.Close())

	_, err = f.CreateStore(ctx, config.StorageSection{Driver: "postgres"})
	assert.ErrorContains(t, err, "unsupported storage driver")
}

func TestAdapterFactory_CreateNotifier(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := compose.NewAdapterFactory(nil)

	n, err := f.CreateNotifier(ctx, config.NotifySection{Driver: config.NotifyLog})
	require.NoError(t, err)
	assert.IsType(t, &lognotify.Notifier{}, n)

	_, err = f.CreateNotifier(ctx, config.NotifySection{Driver: config.NotifyNATS})
	assert.Error(t, err, "nats without url")

	_, err = f.CreateNotifier(ctx, config.NotifySection{Driver: "smtp"})
	assert.ErrorContains(t, err, "unsupported notify driver")
}
