package config

import "time"

// Defaults used when a value is not set in the file or the environment.
const (
	DefaultListenAddr          = ":8080"
	DefaultReadHeaderTimeout   = 10 * time.Second
	DefaultReadTimeout         = 30 * time.Second
	DefaultWriteTimeout        = 30 * time.Second
	DefaultIdleTimeout         = 120 * time.Second
	DefaultShutdownTimeout     = 5 * time.Second
	DefaultInitialFetchTimeout = 30 * time.Second
	DefaultSQLiteDSN           = "file:confdesk.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	DefaultSubjectPrefix       = "confdesk.notifications"
	DefaultStream              = "CONFDESK_NOTIFICATIONS"
	DefaultConnectTimeout      = 5 * time.Second
	DefaultSalesUpdateInterval = 24 * time.Hour
	DefaultLogLevel            = "info"
	DefaultLogFormat           = "json"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for unspecified configuration
func applyDefaults(cfg *Config) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = DefaultListenAddr
	}
	if cfg.Server.ReadHeaderTimeout == 0 {
		cfg.Server.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.TLS.Mode == "" {
		cfg.Server.TLS.Mode = TLSModeNone
	}
	if cfg.Server.TLS.InitialFetchTimeout == 0 {
		cfg.Server.TLS.InitialFetchTimeout = DefaultInitialFetchTimeout
	}

	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = StorageInMemory
	}
	if cfg.Storage.Driver == StorageSQLite && cfg.Storage.DSN == "" {
		cfg.Storage.DSN = DefaultSQLiteDSN
	}

	if cfg.Notify.Driver == "" {
		cfg.Notify.Driver = NotifyLog
	}
	if cfg.Notify.NATS.SubjectPrefix == "" {
		cfg.Notify.NATS.SubjectPrefix = DefaultSubjectPrefix
	}
	if cfg.Notify.NATS.Stream == "" {
		cfg.Notify.NATS.Stream = DefaultStream
	}
	if cfg.Notify.NATS.ConnectTimeout == 0 {
		cfg.Notify.NATS.ConnectTimeout = DefaultConnectTimeout
	}

	if cfg.SalesUpdate.Interval == 0 {
		cfg.SalesUpdate.Interval = DefaultSalesUpdateInterval
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
