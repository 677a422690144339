package infra

import (
	"context"
	"net/http"
	"time"
)

// HTTPServer owns the lifecycle of the API's http.Server.
type HTTPServer struct {
	inner *http.Server
	addr  string
}

// NewHTTPServer builds the server with the configured timeouts applied.
func NewHTTPServer(cfg *Config, handler http.Handler) *HTTPServer {
	addr := ":" + cfg.Port
	return &HTTPServer{
		addr: addr,
		inner: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       cfg.HTTPReadTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      cfg.HTTPWriteTimeout,
			IdleTimeout:       cfg.HTTPIdleTimeout,
		},
	}
}

// Addr returns the listen address.
func (s *HTTPServer) Addr() string {
	return s.addr
}

// Start blocks serving requests until Shutdown or a listener error.
func (s *HTTPServer) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown drains in-flight requests within the context deadline.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
