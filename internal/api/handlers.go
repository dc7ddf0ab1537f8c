package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietddude/headlines/internal/core/domain"
	"github.com/vietddude/headlines/internal/core/snapshot"
	"github.com/vietddude/headlines/internal/health"
)

// ArticleSource answers article requests.
type ArticleSource interface {
	GetArticles(ctx context.Context) ([]domain.Article, error)
}

// SnapshotReader reports the cache snapshot.
type SnapshotReader interface {
	Snapshot(ctx context.Context) (snapshot.Status, error)
}

// HealthChecker produces a health report.
type HealthChecker interface {
	CheckHealth(ctx context.Context) health.HealthReport
}

// Handler handles HTTP requests for the articles API
type Handler struct {
	articles  ArticleSource
	snapshots SnapshotReader
	health    HealthChecker
}

// NewHandler creates a new API handler
func NewHandler(articles ArticleSource, snapshots SnapshotReader, checker HealthChecker) *Handler {
	return &Handler{
		articles:  articles,
		snapshots: snapshots,
		health:    checker,
	}
}

// ArticlesResponse is the body of a successful GET /v1/articles.
type ArticlesResponse struct {
	Articles []domain.Article `json:"articles"`
	Count    int              `json:"count"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// GetArticles handles GET /v1/articles
func (h *Handler) GetArticles(c *gin.Context) {
	articles, err := h.articles.GetArticles(c.Request.Context())
	if err != nil {
		kind := domain.KindOf(err)
		c.JSON(statusForKind(kind), ErrorResponse{
			Error:     kind.String(),
			Message:   kind.UserMessage(),
			Retryable: kind.Retryable(),
		})
		return
	}

	c.JSON(http.StatusOK, ArticlesResponse{Articles: articles, Count: len(articles)})
}

// GetCacheStatus handles GET /v1/cache
func (h *Handler) GetCacheStatus(c *gin.Context) {
	status, err := h.snapshots.Snapshot(c.Request.Context())
	if err != nil {
		slog.Error("Failed to read cache snapshot", "error", err, "operation", "cache_status")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:     "cache_unavailable",
			Message:   "Failed to read the local cache.",
			Retryable: true,
		})
		return
	}

	c.JSON(http.StatusOK, status)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	report := h.health.CheckHealth(c.Request.Context())

	code := http.StatusOK
	if report.SystemStatus == health.StatusCritical {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, report)
}

func statusForKind(kind domain.Kind) int {
	switch kind {
	case domain.KindCacheEmpty, domain.KindServer:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
