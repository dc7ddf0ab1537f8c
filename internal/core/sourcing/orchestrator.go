// Package sourcing decides where articles come from on each request: the remote
// source when the network is up, the local snapshot when it is not or when the
// remote call fails for a reason other than a missing credential.
package sourcing

import (
	"context"
	"log/slog"

	"github.com/vietddude/headlines/internal/core/domain"
	"github.com/vietddude/headlines/internal/infra/newsapi"
	"github.com/vietddude/headlines/internal/metrics"
)

// Outcome labels for headlines_article_requests_total.
const (
	OutcomeRemote       = "remote"
	OutcomeFallback     = "fallback"
	OutcomeOfflineCache = "offline_cache"
	OutcomeFailure      = "failure"
)

// RemoteSource fetches the current headlines over the network.
type RemoteSource interface {
	// GetArticles performs one request. Failures are *domain.Failure values.
	GetArticles(ctx context.Context) ([]newsapi.ArticleDTO, error)
}

// LocalCache stores the last successful fetch.
type LocalCache interface {
	// GetLastArticles returns the snapshot or a CacheEmpty failure.
	GetLastArticles(ctx context.Context) ([]newsapi.ArticleDTO, error)

	// CacheArticles replaces the snapshot.
	CacheArticles(ctx context.Context, articles []newsapi.ArticleDTO) error
}

// NetworkProbe reports whether the device currently has usable internet access.
type NetworkProbe interface {
	IsConnected() bool
}

// Orchestrator is safe for concurrent use. It holds no mutable state.
type Orchestrator struct {
	remote RemoteSource
	cache  LocalCache
	probe  NetworkProbe
	log    *slog.Logger
}

// NewOrchestrator wires the three collaborators.
func NewOrchestrator(remote RemoteSource, cache LocalCache, probe NetworkProbe) *Orchestrator {
	return &Orchestrator{
		remote: remote,
		cache:  cache,
		probe:  probe,
		log:    slog.Default().With("component", "sourcing"),
	}
}

// GetArticles returns the freshest articles available. On failure the error is a
// *domain.Failure of kind APIKeyNotConfigured or CacheEmpty.
func (o *Orchestrator) GetArticles(ctx context.Context) ([]domain.Article, error) {
	if !o.probe.IsConnected() {
		return o.fetchFromCache(ctx, OutcomeOfflineCache)
	}
	return o.fetchFromRemoteWithFallback(ctx)
}

func (o *Orchestrator) fetchFromRemoteWithFallback(ctx context.Context) ([]domain.Article, error) {
	dtos, err := o.remote.GetArticles(ctx)
	if err != nil {
		kind := domain.KindOf(err)
		if kind == domain.KindUnknown {
			kind = domain.KindServer
		}
		metrics.RemoteFailuresTotal.WithLabelValues(kind.String()).Inc()

		if kind == domain.KindAPIKeyNotConfigured {
			metrics.ArticleRequestsTotal.WithLabelValues(OutcomeFailure).Inc()
			o.log.Warn("News API key is not configured")
			return nil, domain.ErrAPIKeyNotConfigured
		}

		o.log.Warn("Remote fetch failed, falling back to cache", "kind", kind, "error", err)
		return o.fetchFromCache(ctx, OutcomeFallback)
	}

	// The caller may go away once the remote call returns; the write must still land.
	if err := o.cache.CacheArticles(context.WithoutCancel(ctx), dtos); err != nil {
		o.log.Error("Failed to cache articles, falling back to previous snapshot", "error", err)
		return o.fetchFromCache(ctx, OutcomeFallback)
	}

	metrics.ArticleRequestsTotal.WithLabelValues(OutcomeRemote).Inc()
	o.log.Debug("Fetched articles from remote", "count", len(dtos))
	return newsapi.ToDomainList(dtos), nil
}

func (o *Orchestrator) fetchFromCache(ctx context.Context, outcome string) ([]domain.Article, error) {
	dtos, err := o.cache.GetLastArticles(ctx)
	if err != nil {
		metrics.ArticleRequestsTotal.WithLabelValues(OutcomeFailure).Inc()
		o.log.Warn("No cached articles available", "outcome", outcome, "error", err)
		return nil, domain.ErrCacheEmpty
	}

	metrics.ArticleRequestsTotal.WithLabelValues(outcome).Inc()
	o.log.Debug("Serving cached articles", "outcome", outcome, "count", len(dtos))
	return newsapi.ToDomainList(dtos), nil
}
