// Package main provides the entry point for the scheduled sync daemon.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/fast-break/internal/config"
	"github.com/yourusername/fast-break/internal/database"
	"github.com/yourusername/fast-break/internal/fetch"
	"github.com/yourusername/fast-break/internal/health"
	"github.com/yourusername/fast-break/internal/logger"
	"github.com/yourusername/fast-break/internal/metrics"
	"github.com/yourusername/fast-break/internal/repository"
	"github.com/yourusername/fast-break/internal/scheduler"
	"github.com/yourusername/fast-break/internal/store"
	"github.com/yourusername/fast-break/internal/update"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := config.ApplySecrets(ctx, cfg, region, secretName); err != nil {
			cancel()
			log.Fatalf("Failed to load secrets: %v", err)
		}
		cancel()
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"teams":       len(cfg.Sync.Teams),
		"cron":        cfg.Sync.Cron,
	}).Info("Fast Break sync daemon starting")

	if len(cfg.Sync.Teams) == 0 {
		appLog.Fatal("No tracked teams configured under sync.teams")
	}

	metrics.InitRegistry()
	metrics.TrackedTeams.Set(float64(len(cfg.Sync.Teams)))

	teamStore, err := store.NewFileStore(cfg.Store.Dir)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to open team store")
	}

	httpCfg := fetch.DefaultHTTPClientConfig()
	if cfg.Fetcher.RateLimit > 0 {
		httpCfg.RateLimit = cfg.Fetcher.RateLimit
	}
	if cfg.Fetcher.UserAgent != "" {
		httpCfg.UserAgent = cfg.Fetcher.UserAgent
	}
	httpClient := fetch.NewRateLimitedHTTPClient(httpCfg, log.New(os.Stderr, "http: ", log.LstdFlags))
	defer httpClient.Close()

	baseURL := cfg.Fetcher.BaseURL
	if baseURL == "" {
		baseURL = "https://www.sports-reference.com"
	}
	fetcher := fetch.NewSportsRefClient(httpClient, baseURL, cfg.Fetcher.Season)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		db       *database.DB
		engOpts  []update.Option
		dbPinger health.DatabasePinger
	)
	if cfg.Database.Enabled {
		db, err = database.Initialize(ctx, cfg)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to connect to game log index")
		}
		defer db.Close()
		engOpts = append(engOpts, update.WithIndex(repository.NewPostgresGameLogIndex(db)))
		dbPinger = db
		appLog.Info("Game log index connected")
	}

	engine := update.NewEngine(teamStore, fetcher, appLog, engOpts...)

	// Health check server
	healthServer := health.NewServer(health.Config{
		ServiceName: "fast-break-syncd",
		Version:     Version,
		Logger:      appLog,
		DB:          dbPinger,
		StoreCheck: func() error {
			_, err := os.Stat(cfg.Store.Dir)
			return err
		},
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	// Metrics endpoint
	metricsAddr := cfg.Sync.MetricsAddress
	if metricsAddr == "" {
		metricsAddr = ":9090"
	}
	metricsServer := &http.Server{
		Addr:    metricsAddr,
		Handler: metrics.Handler(),
	}
	go func() {
		appLog.WithField("address", metricsAddr).Info("Metrics server starting")
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.WithError(err).Error("Metrics server error")
		}
	}()

	sched := scheduler.NewScheduler(engine, appLog)
	if err := sched.ScheduleTeamUpdates(cfg.Sync.Cron, cfg.Sync.Teams); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule team updates")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}

	healthServer.SetReady(true)
	appLog.Info("Sync daemon running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	appLog.Info("Shutdown signal received")
	healthServer.SetReady(false)

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Scheduler stop error")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("Metrics server shutdown error")
	}

	appLog.Info("Sync daemon stopped")
}
