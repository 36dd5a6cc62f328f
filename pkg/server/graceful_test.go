package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net/http"
	"sync"
	"syscall"
	"testing"
	"time"

	tlspkg "github.com/dd0wney/cluso-wayfinder/pkg/tls"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func startServer(t *testing.T, gs *GracefulServer, ctx context.Context) <-chan error {
	t.Helper()
	errCh := make(chan error, 1)
	go func() {
		errCh <- gs.Start(ctx)
	}()
	select {
	case <-gs.Ready():
	case err := <-errCh:
		t.Fatalf("Start failed: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("Server did not become ready")
	}
	return errCh
}

func waitStopped(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after shutdown")
		return nil
	}
}

func TestGracefulServer_ServesAndStopsOnContext(t *testing.T) {
	gs := NewGracefulServer("127.0.0.1:0", okHandler(), Options{ShutdownTimeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := startServer(t, gs, ctx)

	resp, err := http.Get("http://" + gs.Addr() + "/")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	cancel()
	if err := waitStopped(t, errCh); err != nil {
		t.Errorf("Start returned %v", err)
	}
	if !gs.IsShuttingDown() {
		t.Error("Expected IsShuttingDown after cancellation")
	}
}

func TestGracefulServer_ServesTLS(t *testing.T) {
	cfg := tlspkg.DefaultConfig()
	cfg.Enabled = true
	tlsConfig, err := tlspkg.Load(cfg)
	if err != nil {
		t.Fatalf("tls.Load failed: %v", err)
	}

	gs := NewGracefulServer("127.0.0.1:0", okHandler(), Options{ShutdownTimeout: time.Second, TLSConfig: tlsConfig})
	ctx, cancel := context.WithCancel(context.Background())
	errCh := startServer(t, gs, ctx)

	pool := x509.NewCertPool()
	pool.AddCert(tlsConfig.Certificates[0].Leaf)
	client := &http.Client{Transport: &http.Transport{TLSClientConfig: &tls.Config{RootCAs: pool}}}

	resp, err := client.Get("https://" + gs.Addr() + "/")
	if err != nil {
		t.Fatalf("HTTPS GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.TLS == nil {
		t.Error("Expected a TLS connection")
	}

	cancel()
	if err := waitStopped(t, errCh); err != nil {
		t.Errorf("Start returned %v", err)
	}
}

func TestGracefulServer_HooksRunInReverseOrder(t *testing.T) {
	gs := NewGracefulServer("127.0.0.1:0", okHandler(), Options{})

	var mu sync.Mutex
	var order []string
	hook := func(name string, err error) ShutdownFunc {
		return func(ctx context.Context) error {
			if _, ok := ctx.Deadline(); !ok {
				t.Errorf("hook %s: expected a deadline", name)
			}
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return err
		}
	}
	storeErr := errors.New("flush failed")
	gs.OnShutdown("store", hook("store", storeErr))
	gs.OnShutdown("sync", hook("sync", nil))
	gs.OnShutdown("api", hook("api", nil))

	errCh := startServer(t, gs, context.Background())

	err := gs.Shutdown(time.Second)
	if !errors.Is(err, storeErr) {
		t.Errorf("Shutdown error = %v, want %v", err, storeErr)
	}
	if err := waitStopped(t, errCh); !errors.Is(err, storeErr) {
		t.Errorf("Start error = %v, want %v", err, storeErr)
	}

	want := []string{"api", "sync", "store"}
	if len(order) != len(want) {
		t.Fatalf("Hooks ran %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Hooks ran %v, want %v", order, want)
			break
		}
	}

	// A second shutdown is a no-op that reports the same outcome.
	if err := gs.Shutdown(time.Second); !errors.Is(err, storeErr) {
		t.Errorf("Second Shutdown error = %v", err)
	}
	if len(order) != 3 {
		t.Errorf("Hooks ran again: %v", order)
	}
}

func TestGracefulServer_ListenError(t *testing.T) {
	gs := NewGracefulServer("127.0.0.1:-1", okHandler(), Options{})
	if err := gs.Start(context.Background()); err == nil {
		t.Error("Expected listen error")
	}
}

// TestGracefulServer_ConfigReload tests configuration reload via SIGHUP
func TestGracefulServer_ConfigReload(t *testing.T) {
	gs := NewGracefulServer("127.0.0.1:0", okHandler(), Options{})

	reloaded := make(chan struct{}, 1)
	gs.SetConfigReloadFunc(func() error {
		reloaded <- struct{}{}
		return nil
	})

	errCh := startServer(t, gs, context.Background())

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGHUP); err != nil {
		t.Fatalf("Failed to send SIGHUP: %v", err)
	}

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("Reload function was not called")
	}

	if gs.IsShuttingDown() {
		t.Error("Server should not be shutting down after SIGHUP")
	}

	if err := gs.Shutdown(time.Second); err != nil {
		t.Errorf("Shutdown error: %v", err)
	}
	waitStopped(t, errCh)
}

// TestGracefulServer_ReloadConfig tests the ReloadConfig method
func TestGracefulServer_ReloadConfig(t *testing.T) {
	gs := NewGracefulServer(":0", okHandler(), Options{})

	if err := gs.ReloadConfig(); err != nil {
		t.Errorf("ReloadConfig() without a function = %v", err)
	}

	reloadCalled := false
	gs.SetConfigReloadFunc(func() error {
		reloadCalled = true
		return nil
	})

	if err := gs.ReloadConfig(); err != nil {
		t.Errorf("ReloadConfig() error = %v", err)
	}
	if !reloadCalled {
		t.Error("Config reload function was not called")
	}
}

// TestGracefulServer_ReloadConfigWithError tests error handling during reload
func TestGracefulServer_ReloadConfigWithError(t *testing.T) {
	gs := NewGracefulServer(":0", okHandler(), Options{})

	gs.SetConfigReloadFunc(func() error {
		return http.ErrServerClosed
	})

	if err := gs.ReloadConfig(); err != http.ErrServerClosed {
		t.Errorf("ReloadConfig() error = %v, want %v", err, http.ErrServerClosed)
	}
}

func TestNewGracefulServer_Defaults(t *testing.T) {
	gs := NewGracefulServer(":0", okHandler(), Options{WriteTimeout: 3 * time.Second})

	if gs.server.ReadTimeout != DefaultReadTimeout {
		t.Errorf("ReadTimeout = %v", gs.server.ReadTimeout)
	}
	if gs.server.WriteTimeout != 3*time.Second {
		t.Errorf("WriteTimeout = %v", gs.server.WriteTimeout)
	}
	if gs.shutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("shutdownTimeout = %v", gs.shutdownTimeout)
	}
}
