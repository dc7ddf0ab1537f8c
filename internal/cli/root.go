package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vietddude/headlines/internal/control"
	"github.com/vietddude/headlines/internal/core/config"
)

const defaultConfigPath = "config.yaml"

var (
	cfgPath string
	isDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "headlines",
	Short: "Headlines article service",
	Long:  `Headlines serves top business headlines and keeps answering from its local cache when the news API or the network is unavailable.`,
	Run:   runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API until interrupted",
	Run:   runServe,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath, "config file")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads .env and the config file. A missing file is only an error
// when --config was passed explicitly.
func loadConfig(cmd *cobra.Command) *config.AppConfig {
	_ = godotenv.Load()

	var (
		cfg *config.AppConfig
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(cfgPath)
	} else {
		cfg, err = config.LoadOptional(cfgPath)
	}
	if err != nil {
		setupLogging(config.LoggingConfig{}, false)
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	setupLogging(cfg.Logging, isDebug)
	return cfg
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := control.NewApp(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize headlines", "error", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if err := app.Start(ctx); err != nil {
		slog.Error("Failed to start headlines", "error", err)
		os.Exit(1)
	}

	slog.Info("Headlines started", "config", cfgPath, "cache", cfg.Cache.Driver, "network", cfg.Network.Mode)

	sig := <-sigChan
	slog.Info("Received signal, shutting down...", "signal", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := app.Stop(shutdownCtx); err != nil {
		slog.Error("Error during shutdown", "error", err)
		os.Exit(1)
	}
}
