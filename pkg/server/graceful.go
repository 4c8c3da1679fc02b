package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mdmuhtasimfuadfahim/girvan-newman-algorithm/pkg/logging"
)

// DefaultShutdownTimeout bounds how long in-flight requests may drain.
const DefaultShutdownTimeout = 30 * time.Second

// ReloadFunc is invoked on SIGHUP
type ReloadFunc func(ctx context.Context) error

// GracefulServer wraps an HTTP server with signal handling: SIGINT and
// SIGTERM drain and stop, SIGHUP triggers the reload function.
type GracefulServer struct {
	server          *http.Server
	logger          logging.Logger
	shutdownTimeout time.Duration

	reloadFn ReloadFunc

	addrMu sync.RWMutex
	addr   net.Addr
	ready  chan struct{}

	shutdownCh   chan struct{}
	shutdownOnce sync.Once
}

// Option configures a GracefulServer
type Option func(*GracefulServer)

// WithLogger sets the server logger
func WithLogger(logger logging.Logger) Option {
	return func(gs *GracefulServer) {
		gs.logger = logger
	}
}

// WithShutdownTimeout sets the drain timeout used on signal or context
// cancellation
func WithShutdownTimeout(d time.Duration) Option {
	return func(gs *GracefulServer) {
		if d > 0 {
			gs.shutdownTimeout = d
		}
	}
}

// WithReloadFunc sets the SIGHUP handler
func WithReloadFunc(fn ReloadFunc) Option {
	return func(gs *GracefulServer) {
		gs.reloadFn = fn
	}
}

// NewGracefulServer creates a new graceful HTTP server
func NewGracefulServer(addr string, handler http.Handler, opts ...Option) *GracefulServer {
	gs := &GracefulServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
		logger:          logging.NewNopLogger(),
		shutdownTimeout: DefaultShutdownTimeout,
		ready:           make(chan struct{}),
		shutdownCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(gs)
	}
	gs.logger = gs.logger.With(logging.Component("server"))
	return gs
}

// Run listens and serves until ctx is cancelled, a termination signal
// arrives or the server fails. A clean shutdown returns nil.
func (gs *GracefulServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", gs.server.Addr)
	if err != nil {
		return err
	}
	gs.addrMu.Lock()
	gs.addr = ln.Addr()
	gs.addrMu.Unlock()
	close(gs.ready)

	serveErr := make(chan error, 1)
	go func() {
		gs.logger.Info("http server listening", logging.String("addr", ln.Addr().String()))
		serveErr <- gs.server.Serve(ln)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for {
		select {
		case err := <-serveErr:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err

		case <-ctx.Done():
			gs.logger.Info("context cancelled, shutting down")
			return gs.Shutdown(gs.shutdownTimeout)

		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				gs.logger.Info("received SIGHUP, reloading")
				if err := gs.Reload(ctx); err != nil {
					gs.logger.Warn("reload failed", logging.Error(err))
				}
			default:
				gs.logger.Info("received signal, shutting down", logging.String("signal", sig.String()))
				return gs.Shutdown(gs.shutdownTimeout)
			}
		}
	}
}

// Shutdown drains connections within timeout. Only the first call has any
// effect.
func (gs *GracefulServer) Shutdown(timeout time.Duration) error {
	var err error
	gs.shutdownOnce.Do(func() {
		close(gs.shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		gs.logger.Info("initiating graceful shutdown", logging.Duration("timeout", timeout))
		if err = gs.server.Shutdown(ctx); err != nil {
			gs.logger.Error("shutdown failed", logging.Error(err))
			return
		}
		gs.logger.Info("server shutdown complete")
	})
	return err
}

// Reload runs the reload function, if any.
func (gs *GracefulServer) Reload(ctx context.Context) error {
	fn := gs.reloadFn
	if fn == nil {
		gs.logger.Debug("reload requested but no reload function configured")
		return nil
	}
	return fn(ctx)
}

// Ready is closed once the listener is bound
func (gs *GracefulServer) Ready() <-chan struct{} {
	return gs.ready
}

// Addr returns the bound address, nil before Ready is closed.
func (gs *GracefulServer) Addr() net.Addr {
	gs.addrMu.RLock()
	defer gs.addrMu.RUnlock()
	return gs.addr
}

// IsShuttingDown returns true if shutdown has been initiated
func (gs *GracefulServer) IsShuttingDown() bool {
	select {
	case <-gs.shutdownCh:
		return true
	default:
		return false
	}
}
