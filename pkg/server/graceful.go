package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dd0wney/cluso-wayfinder/pkg/logging"
)

// Default timeouts used when Options leaves them zero.
const (
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)

// ConfigReloadFunc is a function that reloads configuration
type ConfigReloadFunc func() error

// ShutdownFunc releases a resource once the listener has drained.
type ShutdownFunc func(ctx context.Context) error

// Options tunes the HTTP server.
type Options struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	Logger          logging.Logger
	// TLSConfig switches the listener to HTTPS when set.
	TLSConfig *tls.Config
}

type shutdownHook struct {
	name string
	fn   ShutdownFunc
}

// GracefulServer wraps an HTTP server with graceful shutdown capabilities
type GracefulServer struct {
	server          *http.Server
	logger          logging.Logger
	shutdownTimeout time.Duration

	shutdownCh   chan struct{}
	shutdownDone chan struct{}
	shutdownOnce sync.Once
	shutdownErr  error

	ready chan struct{}
	addr  string

	hooksMu sync.Mutex
	hooks   []shutdownHook

	configReloadFn ConfigReloadFunc
	configMu       sync.RWMutex
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// NewGracefulServer creates a new graceful HTTP server
func NewGracefulServer(addr string, handler http.Handler, opts Options) *GracefulServer {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &GracefulServer{
		server: &http.Server{
			Addr:           addr,
			Handler:        handler,
			ReadTimeout:    orDefault(opts.ReadTimeout, DefaultReadTimeout),
			WriteTimeout:   orDefault(opts.WriteTimeout, DefaultWriteTimeout),
			IdleTimeout:    orDefault(opts.IdleTimeout, DefaultIdleTimeout),
			MaxHeaderBytes: 1 << 20,
			TLSConfig:      opts.TLSConfig,
		},
		logger:          logger.With(logging.Component("http")),
		shutdownTimeout: orDefault(opts.ShutdownTimeout, DefaultShutdownTimeout),
		shutdownCh:      make(chan struct{}),
		shutdownDone:    make(chan struct{}),
		ready:           make(chan struct{}),
	}
}

// OnShutdown registers fn to run after the listener drains. Hooks run in
// reverse registration order, so register dependencies first.
func (gs *GracefulServer) OnShutdown(name string, fn ShutdownFunc) {
	gs.hooksMu.Lock()
	defer gs.hooksMu.Unlock()
	gs.hooks = append(gs.hooks, shutdownHook{name: name, fn: fn})
}

// Start listens and serves until ctx is cancelled, a termination signal arrives,
// or Shutdown is called. It returns after every shutdown hook has run.
func (gs *GracefulServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", gs.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", gs.server.Addr, err)
	}
	gs.addr = ln.Addr().String()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh,
		syscall.SIGINT,  // Ctrl+C
		syscall.SIGTERM, // Termination signal (systemd, docker, k8s)
		syscall.SIGHUP,  // Reload configuration
	)
	go gs.handleSignals(ctx, sigCh)
	close(gs.ready)

	serve := func() error { return gs.server.Serve(ln) }
	if gs.server.TLSConfig != nil {
		serve = func() error { return gs.server.ServeTLS(ln, "", "") }
	}

	gs.logger.Info("starting HTTP server",
		logging.String("addr", gs.addr),
		logging.Bool("tls", gs.server.TLSConfig != nil))
	if err := serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		signal.Stop(sigCh)
		return err
	}

	<-gs.shutdownDone
	signal.Stop(sigCh)
	return gs.shutdownErr
}

// Ready closes once the listener is bound.
func (gs *GracefulServer) Ready() <-chan struct{} {
	return gs.ready
}

// Addr returns the bound address. Valid after Ready closes.
func (gs *GracefulServer) Addr() string {
	<-gs.ready
	return gs.addr
}

// Shutdown initiates a graceful shutdown
func (gs *GracefulServer) Shutdown(timeout time.Duration) error {
	gs.shutdownOnce.Do(func() {
		defer close(gs.shutdownDone)
		close(gs.shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		gs.logger.Info("initiating graceful shutdown", logging.Duration("timeout", timeout))

		var errs []error
		if err := gs.server.Shutdown(ctx); err != nil {
			gs.logger.Error("error during shutdown", logging.Error(err))
			errs = append(errs, err)
		}

		gs.hooksMu.Lock()
		hooks := append([]shutdownHook(nil), gs.hooks...)
		gs.hooksMu.Unlock()
		for i := len(hooks) - 1; i >= 0; i-- {
			if err := hooks[i].fn(ctx); err != nil {
				gs.logger.Warn("shutdown hook failed", logging.String("hook", hooks[i].name), logging.Error(err))
				errs = append(errs, fmt.Errorf("%s: %w", hooks[i].name, err))
			}
		}

		gs.shutdownErr = errors.Join(errs...)
		if gs.shutdownErr == nil {
			gs.logger.Info("server shutdown complete")
		}
	})
	<-gs.shutdownDone
	return gs.shutdownErr
}

// handleSignals listens for OS signals and triggers graceful shutdown
func (gs *GracefulServer) handleSignals(ctx context.Context, sigCh <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			gs.logger.Info("context cancelled, starting graceful shutdown")
			gs.Shutdown(gs.shutdownTimeout)
			return
		case <-gs.shutdownCh:
			return
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGINT, syscall.SIGTERM:
				gs.logger.Info("received signal, starting graceful shutdown", logging.String("signal", sig.String()))
				gs.Shutdown(gs.shutdownTimeout)
				return
			case syscall.SIGHUP:
				gs.logger.Info("received SIGHUP, reloading configuration")
				gs.ReloadConfig()
			}
		}
	}
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

// ShutdownChannel returns a channel that closes when shutdown is initiated
func (gs *GracefulServer) ShutdownChannel() <-chan struct{} {
	return gs.shutdownCh
}

// SetConfigReloadFunc sets the function to call when configuration reload is triggered
func (gs *GracefulServer) SetConfigReloadFunc(fn ConfigReloadFunc) {
	gs.configMu.Lock()
	defer gs.configMu.Unlock()
	gs.configReloadFn = fn
}

// ReloadConfig triggers a configuration reload
func (gs *GracefulServer) ReloadConfig() error {
	gs.configMu.RLock()
	reloadFn := gs.configReloadFn
	gs.configMu.RUnlock()

	if reloadFn == nil {
		gs.logger.Info("configuration reload requested, but no reload function configured")
		return nil
	}

	if err := reloadFn(); err != nil {
		gs.logger.Error("configuration reload failed", logging.Error(err))
		return err
	}

	gs.logger.Info("configuration reload complete")
	return nil
}
