package control

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vietddude/headlines/internal/api"
	"github.com/vietddude/headlines/internal/core/config"
	"github.com/vietddude/headlines/internal/core/snapshot"
	"github.com/vietddude/headlines/internal/core/sourcing"
	"github.com/vietddude/headlines/internal/health"
	"github.com/vietddude/headlines/internal/infra/netprobe"
	"github.com/vietddude/headlines/internal/infra/newsapi"
	"github.com/vietddude/headlines/internal/infra/storage"
	"github.com/vietddude/headlines/internal/infra/storage/postgres"
)

// App is the main application struct that owns every component and its lifecycle.
type App struct {
	cfg          *config.AppConfig
	store        storage.KeyValueStore
	db           *postgres.DB
	remote       *newsapi.Client
	probe        *netprobe.Probe
	cache        *snapshot.Cache
	orchestrator *sourcing.Orchestrator
	healthMon    *health.Monitor
	server       *api.Server
	cancel       context.CancelFunc
	log          *slog.Logger
}

// NewApp creates a new App with all dependencies initialized.
func NewApp(ctx context.Context, cfg *config.AppConfig) (*App, error) {
	// 1. Initialize Storage
	store, db, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// 2. Initialize Collaborators
	remote := newsapi.NewClient(cfg.NewsAPI)
	if !remote.APIKeyConfigured() {
		slog.Warn("News API key is not configured; only cached articles can be served",
			"env", config.APIKeyEnv)
	}
	probe := netprobe.New(cfg.Network)
	cache := snapshot.NewCache(store)

	// 3. Initialize Core
	orchestrator := sourcing.NewOrchestrator(remote, cache, probe)

	var pinger storage.Pinger
	if p, ok := store.(storage.Pinger); ok {
		pinger = p
	}
	healthMon := health.NewMonitor(probe, cache, remote, pinger)

	handler := api.NewHandler(orchestrator, cache, healthMon)

	return &App{
		cfg:          cfg,
		store:        store,
		db:           db,
		remote:       remote,
		probe:        probe,
		cache:        cache,
		orchestrator: orchestrator,
		healthMon:    healthMon,
		server:       api.NewServer(cfg.Server, handler),
		log:          slog.Default(),
	}, nil
}

// Orchestrator returns the article sourcing orchestrator.
func (a *App) Orchestrator() *sourcing.Orchestrator {
	return a.orchestrator
}

// Cache returns the snapshot cache.
func (a *App) Cache() *snapshot.Cache {
	return a.cache
}

// Health returns the health monitor.
func (a *App) Health() *health.Monitor {
	return a.healthMon
}

// CheckConnectivity runs one reachability check. Only auto mode dials.
func (a *App) CheckConnectivity(ctx context.Context) {
	if a.probe.Mode() != netprobe.ModeAuto {
		return
	}
	if err := a.probe.Validate(ctx); err != nil {
		a.log.Debug("Reachability check failed", "error", err)
	}
}

// Start starts the HTTP server and the background tasks. It does not block.
func (a *App) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	// Start Network Probe
	go a.probe.Run(ctx)

	// Start DB Metrics Collector
	if a.db != nil {
		a.db.StartMetricsCollector(ctx)
	}

	// Start API Server
	go func() {
		a.log.Info("Starting API server", "addr", a.server.Addr())
		if err := a.server.Start(); err != nil {
			a.log.Error("API server failed", "error", err)
		}
	}()

	return nil
}

// Stop stops the server and releases storage.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("Stopping headlines...")

	if a.cancel != nil {
		a.cancel()
	}

	if err := a.server.Stop(ctx); err != nil {
		a.log.Warn("Failed to stop API server", "error", err)
	}

	return a.Close()
}

// Close releases the remote client and the store without touching the server.
func (a *App) Close() error {
	_ = a.remote.Close()
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	return nil
}
