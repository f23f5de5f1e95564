package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"webdesk/pkg/logging"
)

// Server wraps an http.Server with TLS and graceful shutdown.
type Server struct {
	mu              sync.RWMutex
	server          *http.Server
	shutdownTimeout time.Duration
	tlsEnabled      bool
	started         bool
	listener        net.Listener
	logger          *zap.Logger
}

// Config holds server configuration.
type Config struct {
	Addr            string
	Handler         http.Handler
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	// TLS enables HTTPS when both files are set.
	TLS    TLSConfig
	Logger *zap.Logger
}

// New creates a new HTTP server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 120 * time.Second
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	logger := logging.OrNop(cfg.Logger).Named("server")

	s := &Server{
		server: &http.Server{
			Addr:         cfg.Addr,
			Handler:      cfg.Handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
			ErrorLog:     zap.NewStdLog(logger),
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}

	if cfg.TLS.Enabled() {
		certs, err := cfg.TLS.LoadCertificates()
		if err != nil {
			return nil, err
		}
		s.server.TLSConfig = ServerTLSConfig(certs)
		s.tlsEnabled = true
	}
	return s, nil
}

// Listen binds the configured address. It is called by Serve when needed
// and lets callers learn the bound address first.
func (s *Server) Listen() (net.Addr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr(), nil
	}
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", s.server.Addr, err)
	}
	if s.tlsEnabled {
		ln = tls.NewListener(ln, s.server.TLSConfig)
	}
	s.listener = ln
	return ln.Addr(), nil
}

// Serve accepts connections until ctx is cancelled, then shuts down
// gracefully within the shutdown timeout.
func (s *Server) Serve(ctx context.Context) error {
	addr, err := s.Listen()
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("server already started")
	}
	s.started = true
	ln := s.listener
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr.String()), zap.Bool("tls", s.tlsEnabled))
		errCh <- s.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the configured address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// TLSEnabled reports whether the server speaks HTTPS.
func (s *Server) TLSEnabled() bool { return s.tlsEnabled }

// Started returns whether the server has been started.
func (s *Server) Started() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}
