package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/liliang-cn/flixvec"
	"github.com/liliang-cn/flixvec/internal/config"
	"github.com/liliang-cn/flixvec/internal/logging"
)

// Server is the HTTP front of a loaded dataset.
type Server struct {
	cfg  *config.Config
	http *http.Server
}

// NewServer builds a server for db using cfg.Server and cfg.Recommend.
func NewServer(db *flixvec.DB, cfg *config.Config) *Server {
	h := NewHandler(db, cfg.Recommend)
	return &Server{
		cfg: cfg,
		http: &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      NewRouter(h, cfg.Server),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	logging.Info().Msg("HTTP server shutting down")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
