package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ServerTimeouts are applied to the underlying http.Server; zero disables one.
type ServerTimeouts struct {
	Read  time.Duration
	Write time.Duration
	Idle  time.Duration
}

// Server runs the admin API listener.
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

func NewServer(addr string, handler http.Handler, timeouts ServerTimeouts, logger *zap.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       timeouts.Read,
			WriteTimeout:      timeouts.Write,
			IdleTimeout:       timeouts.Idle,
		},
		logger: logger.With(zap.String("addr", addr)),
	}
}

// Start blocks until the listener fails or Stop is called. A clean shutdown
// returns http.ErrServerClosed.
func (s *Server) Start() error {
	s.logger.Info("marketing-admin listening",
		zap.Duration("read_timeout", s.srv.ReadTimeout),
		zap.Duration("write_timeout", s.srv.WriteTimeout),
	)
	return s.srv.ListenAndServe()
}

// Stop drains in-flight requests until ctx expires, then closes what is left.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("marketing-admin shutting down")
	err := s.srv.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		s.logger.Warn("Shutdown deadline reached, closing open connections")
		return s.srv.Close()
	}
	return err
}
