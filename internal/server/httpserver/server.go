package httpserver

import (
	"context"
	"net/http"
	"time"
)

// Server wraps the stdlib HTTP server with SyncSphere defaults.
type Server struct {
	httpServer *http.Server
}

// Options tune the listener.
type Options struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// New creates an HTTP server for the given handler.
func New(addr string, handler http.Handler, opts Options) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
		},
	}
}

// ListenAndServe starts the server. It blocks until Shutdown or a
// listener error.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
