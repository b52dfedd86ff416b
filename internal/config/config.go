// Package config loads confdesk.yaml.
//
// Loading happens in four steps: parse the YAML file, fill defaults, apply
// CONFDESK_* environment overrides (failing fast on malformed values), and
// validate the result.
package config

import "time"

// TLS modes for the HTTP API.
const (
	TLSModeNone   = "none"
	TLSModeSPIFFE = "spiffe"
)

// Storage drivers.
const (
	StorageInMemory = "inmemory"
	StorageSQLite   = "sqlite"
)

// Notifier drivers.
const (
	NotifyLog  = "log"
	NotifyNATS = "nats"
)

// Config is the complete confdesk configuration file.
type Config struct {
	Server      ServerSection      `yaml:"server"`
	Storage     StorageSection     `yaml:"storage"`
	Notify      NotifySection      `yaml:"notify"`
	SalesUpdate SalesUpdateSection `yaml:"sales_update"`
	Log         LogSection         `yaml:"log"`
}

// ServerSection configures the HTTP API.
type ServerSection struct {
	ListenAddr        string        `yaml:"listen_addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`

	TLS TLSSection `yaml:"tls"`

	// OrganizerIDs lists SPIFFE IDs granted the organizer role in spiffe mode.
	OrganizerIDs []string `yaml:"organizer_ids"`

	// TrustRoleHeader grants the organizer role from the X-Confdesk-Role
	// header. Only enable behind a proxy that strips the header from
	// untrusted callers.
	TrustRoleHeader bool `yaml:"trust_role_header"`
}

// TLSSection configures SPIFFE mTLS for the HTTP API.
type TLSSection struct {
	Mode string `yaml:"mode"`

	// WorkloadSocket is the SPIRE Agent Workload API socket.
	// Example: "unix:///tmp/spire-agent/public/api.sock"
	WorkloadSocket string `yaml:"workload_socket"`

	// InitialFetchTimeout bounds the wait for the first SVID at startup.
	InitialFetchTimeout time.Duration `yaml:"initial_fetch_timeout"`

	AllowedClientSPIFFEID    string `yaml:"allowed_client_spiffe_id"`
	AllowedClientTrustDomain string `yaml:"allowed_client_trust_domain"`
}

// StorageSection selects the repository backend.
type StorageSection struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`

	// SeedFile is a YAML file loaded into the store at startup.
	SeedFile string `yaml:"seed_file"`
}

// NotifySection selects where built messages go.
type NotifySection struct {
	Driver       string      `yaml:"driver"`
	SlackChannel string      `yaml:"slack_channel"`
	EmailFrom    string      `yaml:"email_from"`
	NATS         NATSSection `yaml:"nats"`
}

// NATSSection configures the NATS notifier.
type NATSSection struct {
	URL            string        `yaml:"url"`
	SubjectPrefix  string        `yaml:"subject_prefix"`
	JetStream      bool          `yaml:"jetstream"`
	Stream         string        `yaml:"stream"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// SalesUpdateSection configures the periodic sales update job.
type SalesUpdateSection struct {
	Enabled     bool          `yaml:"enabled"`
	Interval    time.Duration `yaml:"interval"`
	Conferences []string      `yaml:"conferences"`
	RunOnStart  bool          `yaml:"run_on_start"`

	// Tolerance is the on-track band in percentage points. Zero means the
	// processor default.
	Tolerance float64 `yaml:"tolerance"`

	// Classifier overrides the ticket category keywords. When every list is
	// empty the built-in keywords apply.
	Classifier ClassifierSection `yaml:"classifier"`
}

// ClassifierSection lists case-insensitive substrings that mark a ticket
// category as a sponsor, speaker or organizer allocation.
type ClassifierSection struct {
	Sponsor   []string `yaml:"sponsor"`
	Speaker   []string `yaml:"speaker"`
	Organizer []string `yaml:"organizer"`
}

// LogSection configures the zap logger.
type LogSection struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}
