package httpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Server wraps the http.Server with sensible defaults.
type Server struct {
	inner    *http.Server
	listener net.Listener
}

// New constructs a server listening on the provided port. Port 0 picks a free
// port once Listen is called.
func New(port int, handler http.Handler) *Server {
	return &Server{
		inner: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
		},
	}
}

// Listen binds the listening socket without serving yet.
func (s *Server) Listen() error {
	if s.listener != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.inner.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.inner.Addr, err)
	}
	s.listener = ln
	return nil
}

// Addr reports the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.inner.Addr
}

// OnShutdown registers fn to run when Shutdown begins. Hijacked connections,
// such as the player WebSocket, are not tracked by the server and must be
// closed here.
func (s *Server) OnShutdown(fn func()) {
	s.inner.RegisterOnShutdown(fn)
}

// Start begins serving HTTP traffic, binding first if needed.
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.inner.Serve(s.listener)
}

// Shutdown gracefully terminates the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
