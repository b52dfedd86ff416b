package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// applyEnvOverrides overrides config values with CONFDESK_* environment variables.
// Returns error for invalid environment variable values to fail fast.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("CONFDESK_LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("CONFDESK_TLS_MODE"); v != "" {
		cfg.Server.TLS.Mode = v
	}
	if v := os.Getenv("CONFDESK_WORKLOAD_SOCKET"); v != "" {
		cfg.Server.TLS.WorkloadSocket = v
	}
	if v := os.Getenv("CONFDESK_ORGANIZER_IDS"); v != "" {
		cfg.Server.OrganizerIDs = splitList(v)
	}
	if v := os.Getenv("CONFDESK_TRUST_ROLE_HEADER"); v != "" {
		b, err := parseBool(v)
		if err != nil {
			return fmt.Errorf("invalid CONFDESK_TRUST_ROLE_HEADER %q: %w", v, err)
		}
		cfg.Server.TrustRoleHeader = b
	}

	if v := os.Getenv("CONFDESK_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("CONFDESK_STORAGE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("CONFDESK_SEED_FILE"); v != "" {
		cfg.Storage.SeedFile = v
	}

	if v := os.Getenv("CONFDESK_NOTIFY_DRIVER"); v != "" {
		cfg.Notify.Driver = v
	}
	if v := os.Getenv("CONFDESK_NATS_URL"); v != "" {
		cfg.Notify.NATS.URL = v
	}
	if v := os.Getenv("CONFDESK_SLACK_CHANNEL"); v != "" {
		cfg.Notify.SlackChannel = v
	}

	if v := os.Getenv("CONFDESK_SALES_UPDATE_ENABLED"); v != "" {
		b, err := parseBool(v)
		if err != nil {
			return fmt.Errorf("invalid CONFDESK_SALES_UPDATE_ENABLED %q: %w", v, err)
		}
		cfg.SalesUpdate.Enabled = b
	}
	if v := os.Getenv("CONFDESK_SALES_UPDATE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CONFDESK_SALES_UPDATE_INTERVAL %q: %w", v, err)
		}
		cfg.SalesUpdate.Interval = d
	}
	if v := os.Getenv("CONFDESK_SALES_UPDATE_CONFERENCES"); v != "" {
		cfg.SalesUpdate.Conferences = splitList(v)
	}
	if v := os.Getenv("CONFDESK_ON_TRACK_TOLERANCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid CONFDESK_ON_TRACK_TOLERANCE %q: %w", v, err)
		}
		cfg.SalesUpdate.Tolerance = f
	}

	if v := os.Getenv("CONFDESK_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CONFDESK_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	return nil
}

// splitList splits a comma-separated value, trimming whitespace and dropping empties.
func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// parseBool parses boolean environment variables
// Accepts: "true", "1", "yes", "on" for true; "false", "0", "no", "off" for false
func parseBool(value string) (bool, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value %q", value)
	}
}
