package cli

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/vietddude/headlines/internal/core/domain"
	"github.com/vietddude/headlines/internal/core/snapshot"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		debug bool
		want  slog.Level
	}{
		{"debug", false, slog.LevelDebug},
		{"warn", false, slog.LevelWarn},
		{"", false, slog.LevelInfo},
		{"loud", false, slog.LevelInfo},
		{"error", true, slog.LevelDebug},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.level, tt.debug); got != tt.want {
			t.Errorf("parseLevel(%q, %v): expected %v, got %v", tt.level, tt.debug, tt.want, got)
		}
	}
}

func TestWriteTable(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	articles := []domain.Article{
		{Title: "Markets rally", SourceName: "Wire", PublishedAt: now.Add(-time.Hour)},
		{Title: strings.Repeat("x", 100), PublishedAt: now.AddDate(0, 0, -1)},
	}

	var buf bytes.Buffer
	if err := writeTable(&buf, articles, now); err != nil {
		t.Fatalf("writeTable failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"PUBLISHED", "Today", "Yesterday", "Wire", "Markets rally", "..."} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, strings.Repeat("x", 81)) {
		t.Error("expected long titles to be truncated")
	}
}

func TestWriteTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	writeTable(&buf, nil, time.Now())
	if !strings.Contains(buf.String(), "No articles") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, []domain.Article{}); err != nil {
		t.Fatalf("writeJSON failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"articles": []`) || !strings.Contains(buf.String(), `"count": 0`) {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestPrintStatus(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	at := now.Add(-2 * time.Minute)

	var buf bytes.Buffer
	printStatus(&buf, "sqlite", snapshot.Status{Cached: true, Count: 7, CachedAt: &at}, now)
	out := buf.String()
	if !strings.Contains(out, "Articles: 7") || !strings.Contains(out, "2m0s ago") {
		t.Errorf("unexpected output: %s", out)
	}

	buf.Reset()
	printStatus(&buf, "memory", snapshot.Status{}, now)
	if !strings.Contains(buf.String(), "none cached") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}
