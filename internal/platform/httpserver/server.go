package httpserver

import (
	"context"
	"net/http"
	"time"
)

// New builds an http.Server with conservative timeouts. Proof generation can
// take seconds, so the write timeout stays generous; the per-request timeout
// middleware owns the actual deadline.
func New(addr string, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Server wraps http.Server so main only deals with start and shutdown.
type Server struct {
	srv *http.Server
}

func (s *Server) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
