package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/headlines/internal/control"
	"github.com/vietddude/headlines/internal/core/snapshot"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Show what the local article cache holds",
	Run:   runCache,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
}

func runCache(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)

	ctx := context.Background()
	app, err := control.NewApp(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize headlines", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = app.Close()
	}()

	status, err := app.Cache().Snapshot(ctx)
	if err != nil {
		slog.Error("Failed to read cache", "error", err)
		return
	}

	printStatus(os.Stdout, cfg.Cache.Driver, status, time.Now())
}

func printStatus(w io.Writer, driver string, status snapshot.Status, now time.Time) {
	_, _ = fmt.Fprintf(w, "Driver:   %s\n", driver)
	if !status.Cached {
		_, _ = fmt.Fprintln(w, "Articles: none cached")
		return
	}
	_, _ = fmt.Fprintf(w, "Articles: %d\n", status.Count)
	if status.CachedAt != nil {
		_, _ = fmt.Fprintf(w, "Cached:   %s (%s ago)\n",
			status.CachedAt.Local().Format(time.RFC3339),
			status.Age(now).Round(time.Second))
	}
}
