package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/headlines/internal/control"
	"github.com/vietddude/headlines/internal/core/domain"
	"github.com/vietddude/headlines/internal/infra/netprobe"
)

const maxTitleWidth = 80

var (
	fetchOffline bool
	fetchJSON    bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch top headlines once and print them",
	Run:   runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchOffline, "offline", false, "skip the network and read the local cache")
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "print articles as JSON")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	if fetchOffline {
		cfg.Network.Mode = netprobe.ModeOffline
	}

	ctx := context.Background()
	app, err := control.NewApp(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize headlines", "error", err)
		os.Exit(1)
	}

	app.CheckConnectivity(ctx)
	articles, err := app.Orchestrator().GetArticles(ctx)
	if closeErr := app.Close(); closeErr != nil {
		slog.Warn("Failed to close store", "error", closeErr)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, domain.KindOf(err).UserMessage())
		os.Exit(1)
	}

	if fetchJSON {
		err = writeJSON(os.Stdout, articles)
	} else {
		err = writeTable(os.Stdout, articles, time.Now())
	}
	if err != nil {
		slog.Error("Failed to write output", "error", err)
		os.Exit(1)
	}
}

func writeJSON(w io.Writer, articles []domain.Article) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"articles": articles,
		"count":    len(articles),
	})
}

func writeTable(w io.Writer, articles []domain.Article, now time.Time) error {
	if len(articles) == 0 {
		_, err := fmt.Fprintln(w, "No articles.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PUBLISHED\tSOURCE\tTITLE")
	for _, a := range articles {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n",
			domain.RelativeDate(a.PublishedAt, now),
			orDash(a.SourceName),
			truncate(orDash(a.Title), maxTitleWidth),
		)
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
