package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/sufield/confdesk/internal/config"
)

// Server runs the API over plain HTTP or SPIFFE mTLS.
type Server struct {
	srv    *http.Server
	source *Source
	logger *zap.Logger

	listener net.Listener
	errCh    chan error

	shutdownOnce sync.Once
	shutdownErr  error
}

// NewServer prepares a server for cfg. In spiffe mode it connects to the
// Workload API and waits for the first SVID before returning.
func NewServer(ctx context.Context, cfg config.ServerSection, handler http.Handler, logger *zap.Logger) (*Server, error) {
	if handler == nil {
		return nil, errors.New("handler is required")
	}
	if cfg.ListenAddr == "" {
		return nil, errors.New("address is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		srv: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           handler,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		logger: logger.With(zap.String("component", "http_server")),
		errCh:  make(chan error, 1),
	}

	if cfg.TLS.Mode != config.TLSModeSPIFFE {
		return s, nil
	}

	source, err := NewSource(ctx, SourceConfig{
		WorkloadSocket:      cfg.TLS.WorkloadSocket,
		InitialFetchTimeout: cfg.TLS.InitialFetchTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create SPIRE source: %w", err)
	}
	x509Source := source.X509Source()
	tlsCfg, err := NewServerTLSConfig(x509Source, x509Source, ClientPolicy{
		AllowedClientID:          cfg.TLS.AllowedClientSPIFFEID,
		AllowedClientTrustDomain: cfg.TLS.AllowedClientTrustDomain,
	})
	if err != nil {
		if closeErr := source.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to create server TLS config: %w (cleanup error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to create server TLS config: %w", err)
	}
	s.srv.TLSConfig = tlsCfg
	s.source = source
	return s, nil
}

// Start binds the listen address and serves in the background. Serve
// errors after a successful bind are reported by Err.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("server startup failed: %w", err)
	}
	s.listener = ln

	go func() {
		var err error
		if s.srv.TLSConfig != nil {
			// Certificates come from TLSConfig.GetCertificate.
			err = s.srv.ServeTLS(ln, "", "")
		} else {
			err = s.srv.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errCh <- err
		}
		close(s.errCh)
	}()

	s.logger.Info("http server listening",
		zap.String("addr", ln.Addr().String()),
		zap.Bool("mtls", s.srv.TLSConfig != nil))
	return nil
}

// Addr returns the bound address once Start succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.srv.Addr
	}
	return s.listener.Addr().String()
}

// Err is closed when the server stops and carries the error if it failed.
func (s *Server) Err() <-chan error {
	return s.errCh
}

// Shutdown drains in-flight requests and releases the SPIRE source.
// Safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		err := s.srv.Shutdown(ctx)
		if s.source != nil {
			if closeErr := s.source.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}
		s.shutdownErr = err
	})
	return s.shutdownErr
}
