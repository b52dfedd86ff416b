package config

import (
	"errors"
	"fmt"

	"github.com/spiffe/go-spiffe/v2/spiffeid"

	"github.com/sufield/confdesk/internal/logging"
)

// Validate checks a configuration after defaults and overrides.
//
// Ensures:
//   - server.listen_addr is set and tls.mode is known
//   - spiffe mode has a workload socket and exactly one client policy
//   - SPIFFE ID / trust domain strings are syntactically valid (using SDK validation)
//   - storage and notify drivers are known and have what they need
//   - the sales update interval and tolerance are usable
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return errors.New("server.listen_addr must be set")
	}
	if err := c.validateTLS(); err != nil {
		return err
	}
	for _, id := range c.Server.OrganizerIDs {
		if _, err := spiffeid.FromString(id); err != nil {
			return fmt.Errorf("invalid server.organizer_ids entry %q: %w", id, err)
		}
	}

	switch c.Storage.Driver {
	case StorageInMemory:
	case StorageSQLite:
		if c.Storage.DSN == "" {
			return errors.New("storage.dsn must be set for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q (expected %s or %s)", c.Storage.Driver, StorageInMemory, StorageSQLite)
	}

	switch c.Notify.Driver {
	case NotifyLog:
	case NotifyNATS:
		if c.Notify.NATS.URL == "" {
			return errors.New("notify.nats.url must be set for the nats driver")
		}
		if c.Notify.NATS.SubjectPrefix == "" {
			return errors.New("notify.nats.subject_prefix must be set")
		}
	default:
		return fmt.Errorf("unknown notify.driver %q (expected %s or %s)", c.Notify.Driver, NotifyLog, NotifyNATS)
	}

	if c.SalesUpdate.Interval < 0 || (c.SalesUpdate.Enabled && c.SalesUpdate.Interval == 0) {
		return fmt.Errorf("sales_update.interval must be positive (got %s)", c.SalesUpdate.Interval)
	}
	if c.SalesUpdate.Enabled && len(c.SalesUpdate.Conferences) == 0 {
		return errors.New("sales_update.conferences must list at least one conference when enabled")
	}
	if c.SalesUpdate.Tolerance < 0 || c.SalesUpdate.Tolerance > 100 {
		return fmt.Errorf("sales_update.tolerance must be within 0..100 (got %g)", c.SalesUpdate.Tolerance)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != logging.FormatJSON && c.Log.Format != logging.FormatConsole {
		return fmt.Errorf("invalid log.format %q (expected %s or %s)", c.Log.Format, logging.FormatJSON, logging.FormatConsole)
	}
	return nil
}

func (c *Config) validateTLS() error {
	tls := c.Server.TLS
	switch tls.Mode {
	case TLSModeNone:
		return nil
	case TLSModeSPIFFE:
	default:
		return fmt.Errorf("unknown server.tls.mode %q (expected %s or %s)", tls.Mode, TLSModeNone, TLSModeSPIFFE)
	}

	if tls.WorkloadSocket == "" {
		return errors.New("server.tls.workload_socket must be set in spiffe mode")
	}

	// Ensure exactly one authorization policy is set
	hasClientID := tls.AllowedClientSPIFFEID != ""
	hasTrustDomain := tls.AllowedClientTrustDomain != ""
	if !hasClientID && !hasTrustDomain {
		return errors.New("must set exactly one of server.tls.allowed_client_spiffe_id or server.tls.allowed_client_trust_domain")
	}
	if hasClientID && hasTrustDomain {
		return errors.New("cannot set both server.tls.allowed_client_spiffe_id and server.tls.allowed_client_trust_domain")
	}

	if hasClientID {
		if _, err := spiffeid.FromString(tls.AllowedClientSPIFFEID); err != nil {
			return fmt.Errorf("invalid server.tls.allowed_client_spiffe_id %q: %w", tls.AllowedClientSPIFFEID, err)
		}
	}
	if hasTrustDomain {
		if _, err := spiffeid.TrustDomainFromString(tls.AllowedClientTrustDomain); err != nil {
			return fmt.Errorf("invalid server.tls.allowed_client_trust_domain %q: %w", tls.AllowedClientTrustDomain, err)
		}
	}
	return nil
}
