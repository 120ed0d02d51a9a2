// Package server owns the HTTP listener lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/VeltarosLabs/hello/internal/api"
	"github.com/VeltarosLabs/hello/internal/config"
)

type Server struct {
	cfg config.APIConfig
	log *zap.Logger
	srv *http.Server
	ln  net.Listener
}

// New builds the HTTP server for cfg without binding the listener.
func New(cfg config.APIConfig, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	requireKey := make(map[string]bool, len(api.GreetingPaths))
	if cfg.KeyOnGreeting {
		for _, p := range api.GreetingPaths {
			requireKey[p] = true
		}
	}

	var limiter *api.Limiter
	if cfg.RateLimit > 0 {
		limiter = api.NewLimiter(cfg.RateLimit, cfg.RateBurst, 1)
	}

	router := api.NewRouter(api.Options{
		Logger: log,
		Security: api.SecurityConfig{
			AllowedOrigins: cfg.AllowedOrigins,
			APIKey:         cfg.APIKey,
			RequireKeyFor:  requireKey,
		},
		Limiter: limiter,
	})

	return &Server{
		cfg: cfg,
		log: log,
		srv: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
	}
}

// Listen binds the configured address. Run calls it when needed.
func (s *Server) Listen() error {
	if s.ln != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.ListenAddr, err)
	}
	s.ln = ln
	return nil
}

// Addr is the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.cfg.ListenAddr
}

// Run serves until ctx is done, then drains in-flight requests for at most
// ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("api listening", zap.String("addr", s.Addr()))
		if err := s.srv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.log.Info("api stopped")
		return nil
	})

	return g.Wait()
}
