package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/fullstackenviormentss/brackets-electron/pkg/metric"
)

const (
	// DefaultHost keeps the bridge reachable only from the embedded web UI.
	DefaultHost = "127.0.0.1"

	// DefaultPort is the default bridge port.
	DefaultPort = 9234

	// DefaultReadTimeout is the maximum duration for reading the entire request,
	// including the body. Bridge requests are small JSON documents.
	DefaultReadTimeout = 10 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	// It covers the wait for the menu operation's completion.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled. If IdleTimeout is zero, ReadTimeout is used.
	DefaultIdleTimeout = 60 * time.Second

	// DefaultShutdownTimeout is the maximum duration to wait for in-flight bridge
	// requests to finish during shutdown. The menu manager loop keeps running
	// until the server has stopped.
	DefaultShutdownTimeout = 5 * time.Second

	// DefaultMaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header's keys and values, including the request line.
	DefaultMaxHeaderBytes = 1 << 20 // 1 MB
)

// Server defines the interface for the HTTP server that carries the shell bridge,
// health checks and metrics. Implementations must support graceful shutdown via
// context cancellation.
type Server interface {
	// Serve starts the HTTP server and blocks until the context is canceled.
	// It returns an error if the server fails to start or encounters an error
	// during shutdown. Returns nil on successful graceful shutdown.
	Serve(ctx context.Context) error

	// IsRunning returns true if the server is currently accepting connections.
	// This method is thread-safe and can be called concurrently.
	// Returns true only after the socket has been successfully bound.
	IsRunning() bool

	// Addr returns the address the listener is bound to, which resolves
	// port 0 to the port actually picked. Returns "" before Serve has bound it.
	Addr() string
}

// server is the internal implementation of the Server interface.
// It uses the standard library http.Server with additional lifecycle management.
type server struct {
	mux             *http.ServeMux       // HTTP request multiplexer
	host            string               // Interface to bind
	port            int                  // Port to listen on
	readTimeout     time.Duration        // Maximum duration for reading requests
	writeTimeout    time.Duration        // Maximum duration for writing responses
	idleTimeout     time.Duration        // Maximum idle time for keep-alive connections
	shutdownTimeout time.Duration        // Grace period for shutdown
	maxHeaderBytes  int                  // Maximum header size in bytes
	errLog          *log.Logger          // Optional error logger
	registry        *prometheus.Registry // Prometheus registry for metrics
	mu              sync.RWMutex         // Protects running state and addr
	running         bool                 // Indicates if server is currently running
	addr            string               // Bound listener address
}

// Option is a functional option for configuring the Server.
// This pattern allows for flexible, backward-compatible configuration.
type Option func(*server)

// WithHost sets the interface the HTTP server binds to.
// If not specified, DefaultHost (127.0.0.1) is used.
func WithHost(host string) Option {
	return func(s *server) { s.host = host }
}

// WithPort sets the port number for the HTTP server.
// Port 0 picks a free port, see Server.Addr.
// If not specified, DefaultPort (9234) is used.
func WithPort(port int) Option {
	return func(s *server) { s.port = port }
}

// WithReadTimeout sets the maximum duration for reading the entire request.
// This includes reading the request headers and body.
// If not specified, DefaultReadTimeout (10s) is used.
func WithReadTimeout(d time.Duration) Option {
	return func(s *server) { s.readTimeout = d }
}

// WithWriteTimeout sets the maximum duration before timing out writes of the response.
// If not specified, DefaultWriteTimeout (10s) is used.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *server) { s.writeTimeout = d }
}

// WithIdleTimeout sets the maximum time to wait for the next request when keep-alives are enabled.
// If not specified, DefaultIdleTimeout (60s) is used.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *server) { s.idleTimeout = d }
}

// WithShutdownTimeout sets the maximum duration to wait for graceful shutdown.
// If not specified, DefaultShutdownTimeout (5s) is used.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *server) { s.shutdownTimeout = d }
}

// WithMaxHeaderBytes sets the maximum number of bytes to read from request headers.
// If not specified, DefaultMaxHeaderBytes (1 MB) is used.
func WithMaxHeaderBytes(n int) Option {
	return func(s *server) { s.maxHeaderBytes = n }
}

// WithHandler registers a custom HTTP handler for the specified pattern.
// Patterns use the http.ServeMux syntax, including method and wildcards.
// Multiple handlers can be registered by calling this option multiple times.
//
// Example:
//
//	srv := server.New(
//	    server.WithHandler("GET /api/menu/rendered", snapshot.Handler()),
//	)
func WithHandler(pattern string, handler http.Handler) Option {
	return func(s *server) {
		s.mux.Handle(pattern, handler)
	}
}

// WithRegistry replaces the server's own Prometheus registry, so that
// collectors registered elsewhere (the menu metrics) are exposed on /metrics.
// A nil registry is ignored.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *server) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// WithPrometheusMetrics serves the registry on /metrics together with the
// Go runtime and process collectors.
func WithPrometheusMetrics() Option {
	return func(s *server) {
		s.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		s.mux.Handle("/metrics", metric.HandlerFor(s.registry))
	}
}

// WithSimpleHealth adds a simple health check endpoint at /healthz that always returns 200 OK.
//
// The endpoint returns:
//   - 200 OK with body "ok"
func WithSimpleHealth() Option {
	return func(s *server) {
		s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
	}
}

// New creates a new HTTP server with the provided options.
// Options are applied in order, so WithRegistry must precede
// WithPrometheusMetrics to take effect on /metrics.
//
// Default configuration:
//   - Host: 127.0.0.1
//   - Port: 9234
//   - ReadTimeout: 10s
//   - WriteTimeout: 10s
//   - IdleTimeout: 60s
//   - ShutdownTimeout: 5s
//   - MaxHeaderBytes: 1 MB
//
// Example:
//
//	srv := server.New(
//	    server.WithPort(0),
//	    server.WithRegistry(reg),
//	    server.WithPrometheusMetrics(),
//	    server.WithSimpleHealth(),
//	)
func New(opts ...Option) Server {
	s := &server{
		host:            DefaultHost,
		port:            DefaultPort,
		readTimeout:     DefaultReadTimeout,
		writeTimeout:    DefaultWriteTimeout,
		idleTimeout:     DefaultIdleTimeout,
		shutdownTimeout: DefaultShutdownTimeout,
		maxHeaderBytes:  DefaultMaxHeaderBytes,
		mux:             http.NewServeMux(),
		registry:        prometheus.NewRegistry(),
		errLog:          log.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	slog.Info("server initialized",
		"host", s.host,
		"port", s.port,
		"read_timeout", s.readTimeout,
		"write_timeout", s.writeTimeout)

	return s
}

// IsRunning returns true if the server is currently accepting connections.
// The server is considered "running" after the socket has been successfully bound.
// It returns false before the socket is bound and after the server has stopped.
func (s *server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the bound listener address. With WithPort(0) this is where
// the chosen port can be read back.
//
// Example:
//
//	srv := server.New(server.WithPort(0))
//	go srv.Serve(ctx)
//	for !srv.IsRunning() {
//	    time.Sleep(10 * time.Millisecond)
//	}
//	url := "http://" + srv.Addr() + "/healthz"
func (s *server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Serve starts the HTTP server and blocks until the context is canceled.
// The listener is bound first, so a bad host or busy port is reported
// immediately. The HTTP server and a shutdown watcher then run in an errgroup.
// Canceling ctx shuts down gracefully within the shutdown timeout.
//
// Example:
//
//	g, gCtx := errgroup.WithContext(ctx)
//
//	g.Go(func() error {
//	    return srv.Serve(gCtx)
//	})
//
//	if err := g.Wait(); err != nil {
//	    log.Fatal(err)
//	}
func (s *server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:           net.JoinHostPort(s.host, fmt.Sprint(s.port)),
		Handler:        s.mux,
		ReadTimeout:    s.readTimeout,
		WriteTimeout:   s.writeTimeout,
		IdleTimeout:    s.idleTimeout,
		MaxHeaderBytes: s.maxHeaderBytes,
		ErrorLog:       s.errLog,
	}

	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	slog.Info("starting server", "addr", listener.Addr().String())

	s.mu.Lock()
	s.running = true
	s.addr = listener.Addr().String()
	s.mu.Unlock()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer func() {
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
		}()

		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		slog.Info("shutting down server", "grace_period", s.shutdownTimeout)
		start := time.Now()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}

		slog.Info("server shutdown complete", "duration", time.Since(start))
		return nil
	})

	return g.Wait()
}
