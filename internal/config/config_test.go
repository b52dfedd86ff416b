package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/confdesk/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "confdesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")

	require.NoError(t, err)
	assert.Equal(t, config.DefaultListenAddr, cfg.Server.ListenAddr)
	assert.Equal(t, config.TLSModeNone, cfg.Server.TLS.Mode)
	assert.Equal(t, config.StorageInMemory, cfg.Storage.Driver)
	assert.Equal(t, config.NotifyLog, cfg.Notify.Driver)
	assert.Equal(t, 24*time.Hour, cfg.SalesUpdate.Interval)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_addr: ":9443"
  read_timeout: 45s
  tls:
    mode: spiffe
    workload_socket: unix:///tmp/spire-agent/public/api.sock
    allowed_client_trust_domain: example.org
  organizer_ids:
    - spiffe://example.org/organizer/kari
storage:
  driver: sqlite
notify:
  driver: nats
  slack_channel: "#sales"
  nats:
    url: nats://localhost:4222
    jetstream: true
sales_update:
  enabled: true
  interval: 6h
  conferences: [cnd-2026]
  tolerance: 7.5
  classifier:
    organizer: [press, crew]
log:
  level: debug
  format: console
`)

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":9443", cfg.Server.ListenAddr)
	assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, config.DefaultWriteTimeout, cfg.Server.WriteTimeout)
	assert.Equal(t, config.TLSModeSPIFFE, cfg.Server.TLS.Mode)
	assert.Equal(t, []string{"spiffe://example.org/organizer/kari"}, cfg.Server.OrganizerIDs)
	assert.Equal(t, config.DefaultSQLiteDSN, cfg.Storage.DSN)
	assert.True(t, cfg.Notify.NATS.JetStream)
	assert.Equal(t, config.DefaultSubjectPrefix, cfg.Notify.NATS.SubjectPrefix)
	assert.Equal(t, 6*time.Hour, cfg.SalesUpdate.Interval)
	assert.InDelta(t, 7.5, cfg.SalesUpdate.Tolerance, 1e-9)
	assert.Equal(t, []string{"press", "crew"}, cfg.SalesUpdate.Classifier.Organizer)
	assert.Empty(t, cfg.SalesUpdate.Classifier.Sponsor)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFDESK_LISTEN_ADDR", ":7070")
	t.Setenv("CONFDESK_SALES_UPDATE_ENABLED", "yes")
	t.Setenv("CONFDESK_SALES_UPDATE_CONFERENCES", " cnd-2026 , devopsdays ,")
	t.Setenv("CONFDESK_SALES_UPDATE_INTERVAL", "30m")
	t.Setenv("CONFDESK_LOG_LEVEL", "warn")

	cfg, err := config.Load(writeConfig(t, "server:\n  listen_addr: \":8081\"\n"))

	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.ListenAddr)
	assert.True(t, cfg.SalesUpdate.Enabled)
	assert.Equal(t, []string{"cnd-2026", "devopsdays"}, cfg.SalesUpdate.Conferences)
	assert.Equal(t, 30*time.Minute, cfg.SalesUpdate.Interval)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_ZeroIntervalFromEnv(t *testing.T) {
	t.Setenv("CONFDESK_SALES_UPDATE_ENABLED", "true")
	t.Setenv("CONFDESK_SALES_UPDATE_CONFERENCES", "cnd-2026")
	t.Setenv("CONFDESK_SALES_UPDATE_INTERVAL", "0s")

	_, err := config.Load("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sales_update.interval must be positive")
}

func TestLoad_InvalidEnv(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"CONFDESK_SALES_UPDATE_INTERVAL", "daily"},
		{"CONFDESK_SALES_UPDATE_ENABLED", "maybe"},
		{"CONFDESK_ON_TRACK_TOLERANCE", "five"},
		{"CONFDESK_TRUST_ROLE_HEADER", "sure"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := config.Load("")

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")

	_, err = config.Load(writeConfig(t, "server:\n  listen_adr: \":1\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoad_EmptyFile(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(writeConfig(t, ""))

	require.NoError(t, err)
	assert.Equal(t, config.DefaultListenAddr, cfg.Server.ListenAddr)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*config.Config) {}},
		{
			name:    "unknown tls mode",
			mutate:  func(c *config.Config) { c.Server.TLS.Mode = "acme" },
			wantErr: "unknown server.tls.mode",
		},
		{
			name:    "spiffe without socket",
			mutate:  func(c *config.Config) { c.Server.TLS.Mode = config.TLSModeSPIFFE },
			wantErr: "workload_socket must be set",
		},
		{
			name: "spiffe without policy",
			mutate: func(c *config.Config) {
				c.Server.TLS.Mode = config.TLSModeSPIFFE
				c.Server.TLS.WorkloadSocket = "unix:///tmp/agent.sock"
			},
			wantErr: "must set exactly one of",
		},
		{
			name: "spiffe with both policies",
			mutate: func(c *config.Config) {
				c.Server.TLS.Mode = config.TLSModeSPIFFE
				c.Server.TLS.WorkloadSocket = "unix:///tmp/agent.sock"
				c.Server.TLS.AllowedClientSPIFFEID = "spiffe://example.org/client"
				c.Server.TLS.AllowedClientTrustDomain = "example.org"
			},
			wantErr: "cannot set both",
		},
		{
			name: "spiffe with malformed id",
			mutate: func(c *config.Config) {
				c.Server.TLS.Mode = config.TLSModeSPIFFE
				c.Server.TLS.WorkloadSocket = "unix:///tmp/agent.sock"
				c.Server.TLS.AllowedClientSPIFFEID = "https://example.org/client"
			},
			wantErr: "invalid server.tls.allowed_client_spiffe_id",
		},
		{
			name:    "malformed organizer id",
			mutate:  func(c *config.Config) { c.Server.OrganizerIDs = []string{"kari"} },
			wantErr: "invalid server.organizer_ids entry",
		},
		{
			name:    "unknown storage driver",
			mutate:  func(c *config.Config) { c.Storage.Driver = "postgres" },
			wantErr: "unknown storage.driver",
		},
		{
			name:    "sqlite without dsn",
			mutate:  func(c *config.Config) { c.Storage.Driver = config.StorageSQLite },
			wantErr: "storage.dsn must be set",
		},
		{
			name:    "nats without url",
			mutate:  func(c *config.Config) { c.Notify.Driver = config.NotifyNATS },
			wantErr: "notify.nats.url must be set",
		},
		{
			name:    "sales update without conferences",
			mutate:  func(c *config.Config) { c.SalesUpdate.Enabled = true },
			wantErr: "sales_update.conferences",
		},
		{
			name: "sales update with zero interval",
			mutate: func(c *config.Config) {
				c.SalesUpdate.Enabled = true
				c.SalesUpdate.Conferences = []string{"cnd-2026"}
				c.SalesUpdate.Interval = 0
			},
			wantErr: "sales_update.interval must be positive",
		},
		{
			name:   "disabled sales update ignores zero interval",
			mutate: func(c *config.Config) { c.SalesUpdate.Interval = 0 },
		},
		{
			name:    "negative tolerance",
			mutate:  func(c *config.Config) { c.SalesUpdate.Tolerance = -1 },
			wantErr: "sales_update.tolerance",
		},
		{
			name:    "bad log format",
			mutate:  func(c *config.Config) { c.Log.Format = "xml" },
			wantErr: "invalid log.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
