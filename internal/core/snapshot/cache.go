// Package snapshot persists the most recent successful article fetch.
//
// A snapshot is two keys written together: the JSON-encoded article list and the
// write time in milliseconds since the Unix epoch. Both are overwritten on every
// successful remote fetch and never expire.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/vietddude/headlines/internal/core/domain"
	"github.com/vietddude/headlines/internal/infra/newsapi"
	"github.com/vietddude/headlines/internal/infra/storage"
	"github.com/vietddude/headlines/internal/metrics"
)

const (
	ArticlesKey  = "CACHED_ARTICLES"
	TimestampKey = "CACHED_TIMESTAMP"
)

// Status describes the stored snapshot for status reporting.
type Status struct {
	Cached   bool       `json:"cached"`
	Count    int        `json:"count"`
	CachedAt *time.Time `json:"cached_at,omitempty"`
}

// Age is the time since the snapshot was written, or zero when unknown.
func (s Status) Age(now time.Time) time.Duration {
	if s.CachedAt == nil {
		return 0
	}
	return now.Sub(*s.CachedAt)
}

// Cache reads and writes the article snapshot.
type Cache struct {
	store storage.KeyValueStore
	now   func() time.Time
}

// NewCache creates a snapshot cache over store.
func NewCache(store storage.KeyValueStore) *Cache {
	return &Cache{store: store, now: time.Now}
}

// GetLastArticles returns the stored article list in its stored order.
// Missing, empty, null or unparsable payloads and store read errors all yield a
// CacheEmpty failure. A stored empty list is a valid, empty result.
func (c *Cache) GetLastArticles(ctx context.Context) ([]newsapi.ArticleDTO, error) {
	raw, ok, err := c.store.Get(ctx, ArticlesKey)
	if err != nil {
		return nil, domain.CacheFailure(fmt.Sprintf("read snapshot: %v", err))
	}
	if !ok || raw == "" {
		return nil, domain.ErrCacheEmpty
	}

	var articles []newsapi.ArticleDTO
	if err := json.Unmarshal([]byte(raw), &articles); err != nil {
		return nil, domain.CacheFailure(fmt.Sprintf("decode snapshot: %v", err))
	}
	if articles == nil {
		// Payload was JSON null.
		return nil, domain.ErrCacheEmpty
	}
	return articles, nil
}

// CacheArticles replaces the snapshot with articles and stamps the write time.
// Nothing is written if encoding fails.
func (c *Cache) CacheArticles(ctx context.Context, articles []newsapi.ArticleDTO) error {
	if articles == nil {
		articles = []newsapi.ArticleDTO{}
	}

	payload, err := json.Marshal(articles)
	if err != nil {
		metrics.CacheWritesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("encode snapshot: %w", err)
	}

	now := c.now()
	err = c.store.SetMany(ctx, map[string]string{
		ArticlesKey:  string(payload),
		TimestampKey: strconv.FormatInt(now.UnixMilli(), 10),
	})
	if err != nil {
		metrics.CacheWritesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("write snapshot: %w", err)
	}

	metrics.CacheWritesTotal.WithLabelValues("ok").Inc()
	metrics.CacheLastWriteTimestamp.Set(float64(now.Unix()))
	return nil
}

// GetCachedTimestamp returns when the snapshot was last written.
// ok is false when it was never written or the stored value is not a number.
func (c *Cache) GetCachedTimestamp(ctx context.Context) (time.Time, bool, error) {
	raw, ok, err := c.store.Get(ctx, TimestampKey)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read snapshot timestamp: %w", err)
	}
	if !ok {
		return time.Time{}, false, nil
	}

	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, nil
	}
	return time.UnixMilli(ms).UTC(), true, nil
}

// Snapshot summarizes what is stored.
func (c *Cache) Snapshot(ctx context.Context) (Status, error) {
	var status Status

	ts, ok, err := c.GetCachedTimestamp(ctx)
	if err != nil {
		return status, err
	}
	if ok {
		status.CachedAt = &ts
	}

	articles, err := c.GetLastArticles(ctx)
	if err != nil {
		if domain.KindOf(err) == domain.KindCacheEmpty {
			return status, nil
		}
		return status, err
	}

	status.Cached = true
	status.Count = len(articles)
	return status, nil
}
