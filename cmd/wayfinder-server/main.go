package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dd0wney/cluso-wayfinder/pkg/api"
	"github.com/dd0wney/cluso-wayfinder/pkg/assistant"
	"github.com/dd0wney/cluso-wayfinder/pkg/audit"
	"github.com/dd0wney/cluso-wayfinder/pkg/config"
	"github.com/dd0wney/cluso-wayfinder/pkg/health"
	"github.com/dd0wney/cluso-wayfinder/pkg/logging"
	"github.com/dd0wney/cluso-wayfinder/pkg/metrics"
	"github.com/dd0wney/cluso-wayfinder/pkg/navigation"
	"github.com/dd0wney/cluso-wayfinder/pkg/overlay"
	"github.com/dd0wney/cluso-wayfinder/pkg/replication"
	"github.com/dd0wney/cluso-wayfinder/pkg/server"
	"github.com/dd0wney/cluso-wayfinder/pkg/store"
	tlspkg "github.com/dd0wney/cluso-wayfinder/pkg/tls"
	"github.com/dd0wney/cluso-wayfinder/pkg/validation"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML or JSON config file")
	port := flag.Int("port", 0, "HTTP server port (overrides config and PORT)")
	flag.Parse()

	if err := run(*configPath, *port); err != nil {
		fmt.Fprintf(os.Stderr, "wayfinder-server: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, port int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if port == 0 {
		if envPort := os.Getenv("PORT"); envPort != "" {
			if p, err := strconv.Atoi(envPort); err == nil {
				port = p
			}
		}
	}
	if port != 0 {
		cfg.Server.Port = port
	}

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.Log.Level))
	logging.SetDefaultLogger(logger)
	registry := metrics.DefaultRegistry()

	ctx := context.Background()

	timer := logging.StartTimer(logger, "facility loaded", logging.String("source", sourceName(cfg)))
	nav, err := cfg.NewNavigator(ctx,
		navigation.WithLogger(logger),
		navigation.WithRecorder(registry))
	if err != nil {
		timer.EndError(err)
		return fmt.Errorf("failed to load facility: %w", err)
	}
	timer.End()

	stats := nav.Stats()
	logger.Info("navigation graph built",
		logging.Mode(stats.Mode),
		logging.Int("nodes", stats.Nodes),
		logging.Int("edges", stats.Edges),
		logging.Int("floors", stats.Floors))

	backend, err := cfg.OpenStore(ctx, logger)
	if err != nil {
		return fmt.Errorf("failed to open restriction store: %w", err)
	}
	st := store.NewInstrumented(backend, registry)

	manager := overlay.NewManager(nav, st,
		overlay.WithLogger(logger),
		overlay.WithRecorder(registry))
	if _, err := manager.Restore(ctx); err != nil {
		st.Close()
		return err
	}

	syncNode, err := replication.NewNode(replication.NewMangosTransport(), replication.Config{
		InstanceID:  cfg.Sync.InstanceID,
		PublishAddr: cfg.Sync.PublishAddr,
		Peers:       cfg.Sync.Peers,
	}, manager, logger, registry)
	if err != nil {
		st.Close()
		return fmt.Errorf("failed to set up restriction sync: %w", err)
	}
	if err := syncNode.Start(); err != nil {
		st.Close()
		return fmt.Errorf("failed to start restriction sync: %w", err)
	}
	manager.SetAnnouncer(syncNode)

	tlsConfig, err := tlspkg.Load(cfg.Server.TLS)
	if err != nil {
		syncNode.Stop()
		st.Close()
		return err
	}
	if tlsConfig != nil && cfg.Server.TLS.CertFile != "" {
		logCertificate(logger, cfg.Server.TLS.CertFile)
	}

	auditLog := audit.NewAuditLogger(cfg.Audit.BufferSize)
	var auditFile *audit.FileLogger
	if cfg.Audit.Path != "" {
		if auditFile, err = audit.NewFileLogger(cfg.Audit.Path); err != nil {
			syncNode.Stop()
			st.Close()
			return err
		}
	}

	checker := health.NewChecker(health.WithTimeout(2 * time.Second))
	facilityCheck := health.FacilityCheck(func() (int, int, int) {
		s := nav.Stats()
		return s.Nodes, s.Edges, s.Restricted
	})
	storeCheck := health.StoreCheck(st.Ping)
	checker.Register(health.ProbeLiveness, "memory", health.MemoryCheck(health.RuntimeMemory))
	checker.Register(health.ProbeReadiness, "facility", facilityCheck)
	checker.Register(health.ProbeReadiness, "store", storeCheck)
	checker.Register(health.ProbeHealth, "facility", facilityCheck)
	checker.Register(health.ProbeHealth, "store", storeCheck)
	checker.Register(health.ProbeHealth, "sync", health.SyncCheck(syncNode.State))

	apiServer, err := api.NewServer(api.Config{
		Navigator: nav,
		Overlay:   manager,
		Assistant: assistant.New(nav,
			assistant.WithDefaultStart(cfg.Assistant.DefaultStart),
			assistant.WithLogger(logger),
			assistant.WithRecorder(registry)),
		Audit:                auditLog,
		AuditSink:            auditSink(auditFile),
		Health:               checker,
		Metrics:              registry,
		Logger:               logger,
		AuthSecret:           cfg.Auth.Secret,
		OperatorUser:         cfg.Auth.OperatorUser,
		OperatorPasswordHash: cfg.Auth.OperatorPasswordHash,
		TokenTTL:             cfg.Auth.TokenTTL,
		AllowedOrigins:       cfg.Server.AllowedOrigins,
		MaxBodyBytes:         cfg.Server.MaxBodyBytes,
		TLSEnabled:           tlsConfig != nil,
		SyncPeers: func() int {
			_, peers, _ := syncNode.State()
			return peers
		},
	})
	if err != nil {
		syncNode.Stop()
		st.Close()
		return err
	}

	gs := server.NewGracefulServer(fmt.Sprintf(":%d", cfg.Server.Port), apiServer.Handler(), server.Options{
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Logger:          logger,
		TLSConfig:       tlsConfig,
	})
	gs.OnShutdown("store", func(context.Context) error { return st.Close() })
	if auditFile != nil {
		gs.OnShutdown("audit", func(context.Context) error { return auditFile.Close() })
	}
	gs.OnShutdown("sync", func(context.Context) error { return syncNode.Stop() })
	gs.OnShutdown("api", func(context.Context) error {
		apiServer.Close()
		return nil
	})

	// SIGHUP re-reads the log level; everything else needs a restart.
	gs.SetConfigReloadFunc(func() error {
		next, err := config.Load(configPath)
		if err != nil {
			logger.Warn("config reload rejected",
				logging.Any("fields", validation.FieldNames(err)),
				logging.Error(err))
			return err
		}
		logger.SetLevel(logging.ParseLevel(next.Log.Level))
		logger.Info("log level updated", logging.String("level", next.Log.Level))
		return nil
	})

	logger.Info("wayfinder server starting",
		logging.Int("port", cfg.Server.Port),
		logging.Bool("auth", apiServer.AuthEnabled()),
		logging.Bool("tls", tlsConfig != nil),
		logging.String("store", cfg.Store.Backend),
		logging.String("instance", syncNode.ID()))

	return gs.Start(ctx)
}

func sourceName(cfg *config.Config) string {
	if cfg.Facility.Source == "" {
		return "embedded sample"
	}
	return cfg.Facility.Source
}

// auditSink returns nil rather than a typed nil when no audit file is configured.
func auditSink(f *audit.FileLogger) audit.Logger {
	if f == nil {
		return nil
	}
	return f
}

// logCertificate reports the configured certificate's expiry and warns inside
// the last 30 days.
func logCertificate(logger logging.Logger, certFile string) {
	info, err := tlspkg.GetCertificateInfo(certFile)
	if err != nil {
		logger.Warn("could not inspect TLS certificate", logging.Error(err))
		return
	}
	fields := []logging.Field{
		logging.String("subject", info.Subject),
		logging.String("expires", info.NotAfter.UTC().Format(time.RFC3339)),
	}
	switch {
	case info.IsExpired():
		logger.Error("TLS certificate has expired", fields...)
	case info.ExpiresIn() < 30*24*time.Hour:
		logger.Warn("TLS certificate expires soon", fields...)
	default:
		logger.Info("TLS certificate loaded", fields...)
	}
}
