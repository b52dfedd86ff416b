package httpapi

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spiffe/go-spiffe/v2/bundle/x509bundle"
	"github.com/spiffe/go-spiffe/v2/spiffeid"
	"github.com/spiffe/go-spiffe/v2/spiffetls/tlsconfig"
	"github.com/spiffe/go-spiffe/v2/svid/x509svid"
	"github.com/spiffe/go-spiffe/v2/workloadapi"
)

// SourceConfig configures the Workload API connection.
type SourceConfig struct {
	// WorkloadSocket accepts unix:// and tcp:// addresses or a bare path,
	// which is treated as a unix socket. Empty falls back to
	// SPIFFE_ENDPOINT_SOCKET.
	WorkloadSocket string

	// InitialFetchTimeout bounds the wait for the first SVID.
	InitialFetchTimeout time.Duration
}

// Source keeps the server's X.509 SVID and trust bundle current.
// The underlying X509Source rotates certificates in the background until
// Close is called.
type Source struct {
	mu     sync.RWMutex
	source *workloadapi.X509Source

	closeOnce sync.Once
	closeErr  error
}

// NewSource connects to the Workload API and waits for the first SVID.
func NewSource(ctx context.Context, cfg SourceConfig) (*Source, error) {
	if ctx == nil {
		return nil, errors.New("context cannot be nil")
	}
	if cfg.InitialFetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.InitialFetchTimeout)
		defer cancel()
	}

	var opts []workloadapi.X509SourceOption
	if cfg.WorkloadSocket != "" {
		opts = append(opts, workloadapi.WithClientOptions(workloadapi.WithAddr(normalizeToAddr(cfg.WorkloadSocket))))
	}

	x509src, err := workloadapi.NewX509Source(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create X509Source: %w", err)
	}
	return &Source{source: x509src}, nil
}

// X509Source returns the SDK source, or nil after Close.
func (s *Source) X509Source() *workloadapi.X509Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Close stops certificate rotation. Safe to call more than once.
func (s *Source) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.source != nil {
			s.closeErr = s.source.Close()
			s.source = nil
		}
	})
	return s.closeErr
}

func normalizeToAddr(raw string) string {
	if strings.HasPrefix(raw, "unix://") || strings.HasPrefix(raw, "tcp://") {
		return raw
	}
	return "unix://" + raw
}

// ClientPolicy restricts which clients may complete the TLS handshake.
// At most one field may be set; the zero value admits any client in the
// server's own trust domain.
type ClientPolicy struct {
	AllowedClientID          string
	AllowedClientTrustDomain string
}

// NewServerTLSConfig builds a TLS 1.3 mTLS server config that verifies
// client SVIDs against policy. The sources must outlive the config.
func NewServerTLSConfig(svidSource x509svid.Source, bundleSource x509bundle.Source, policy ClientPolicy) (*tls.Config, error) {
	switch {
	case svidSource == nil:
		return nil, errors.New("svidSource cannot be nil")
	case bundleSource == nil:
		return nil, errors.New("bundleSource cannot be nil")
	case policy.AllowedClientID != "" && policy.AllowedClientTrustDomain != "":
		return nil, errors.New("AllowedClientID and AllowedClientTrustDomain are mutually exclusive")
	}

	authorizer, err := buildAuthorizer(svidSource, policy)
	if err != nil {
		return nil, err
	}

	tlsCfg := tlsconfig.MTLSServerConfig(svidSource, bundleSource, authorizer)
	tlsCfg.MinVersion = tls.VersionTLS13
	return tlsCfg, nil
}

func buildAuthorizer(svidSource x509svid.Source, policy ClientPolicy) (tlsconfig.Authorizer, error) {
	switch {
	case policy.AllowedClientID != "":
		id, err := spiffeid.FromString(policy.AllowedClientID)
		if err != nil {
			return nil, fmt.Errorf("invalid AllowedClientID: %w", err)
		}
		return tlsconfig.AuthorizeID(id), nil
	case policy.AllowedClientTrustDomain != "":
		td, err := spiffeid.TrustDomainFromString(policy.AllowedClientTrustDomain)
		if err != nil {
			return nil, fmt.Errorf("invalid AllowedClientTrustDomain: %w", err)
		}
		return tlsconfig.AuthorizeMemberOf(td), nil
	default:
		svid, err := svidSource.GetX509SVID()
		if err != nil {
			return nil, fmt.Errorf("failed to get server SVID: %w", err)
		}
		return tlsconfig.AuthorizeMemberOf(svid.ID.TrustDomain()), nil
	}
}
