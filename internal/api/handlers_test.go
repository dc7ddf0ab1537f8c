package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vietddude/headlines/internal/core/domain"
	"github.com/vietddude/headlines/internal/core/snapshot"
	"github.com/vietddude/headlines/internal/health"
)

type stubSource struct {
	articles []domain.Article
	err      error
}

func (s *stubSource) GetArticles(ctx context.Context) ([]domain.Article, error) {
	return s.articles, s.err
}

type stubSnapshots struct {
	status snapshot.Status
	err    error
}

func (s *stubSnapshots) Snapshot(ctx context.Context) (snapshot.Status, error) {
	return s.status, s.err
}

type stubHealth struct {
	report health.HealthReport
}

func (s *stubHealth) CheckHealth(ctx context.Context) health.HealthReport {
	return s.report
}

func newTestRouter(src ArticleSource, snaps SnapshotReader, hc HealthChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(NewHandler(src, snaps, hc))
}

func doGet(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetArticles_Success(t *testing.T) {
	src := &stubSource{articles: []domain.Article{
		{Title: "A", URL: "https://a", PublishedAt: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)},
		{Title: "B", URL: "https://b"},
	}}
	r := newTestRouter(src, &stubSnapshots{}, &stubHealth{})

	w := doGet(t, r, "/v1/articles")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body ArticlesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.Count != 2 || len(body.Articles) != 2 {
		t.Errorf("expected 2 articles, got %+v", body)
	}
	if body.Articles[0].Title != "A" {
		t.Errorf("expected order preserved, got %s first", body.Articles[0].Title)
	}
}

func TestGetArticles_EmptyListIsArray(t *testing.T) {
	r := newTestRouter(&stubSource{articles: []domain.Article{}}, &stubSnapshots{}, &stubHealth{})

	w := doGet(t, r, "/v1/articles")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var raw map[string]json.RawMessage
	json.Unmarshal(w.Body.Bytes(), &raw)
	if string(raw["articles"]) != "[]" {
		t.Errorf("expected articles to be [], got %s", raw["articles"])
	}
}

func TestGetArticles_Failures(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      int
		kind      string
		retryable bool
	}{
		{"cache empty", domain.ErrCacheEmpty, http.StatusServiceUnavailable, "cache_empty", true},
		{"api key", domain.ErrAPIKeyNotConfigured, http.StatusInternalServerError, "api_key_not_configured", false},
		{"server", domain.ServerFailure("boom"), http.StatusServiceUnavailable, "server", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&stubSource{err: tt.err}, &stubSnapshots{}, &stubHealth{})

			w := doGet(t, r, "/v1/articles")
			if w.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, w.Code)
			}

			var body ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if body.Error != tt.kind {
				t.Errorf("expected error %s, got %s", tt.kind, body.Error)
			}
			if body.Retryable != tt.retryable {
				t.Errorf("expected retryable=%v, got %v", tt.retryable, body.Retryable)
			}
			if body.Message == "" {
				t.Error("expected a user message")
			}
		})
	}
}

func TestGetCacheStatus(t *testing.T) {
	at := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	snaps := &stubSnapshots{status: snapshot.Status{Cached: true, Count: 4, CachedAt: &at}}
	r := newTestRouter(&stubSource{}, snaps, &stubHealth{})

	w := doGet(t, r, "/v1/cache")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body snapshot.Status
	json.Unmarshal(w.Body.Bytes(), &body)
	if !body.Cached || body.Count != 4 || body.CachedAt == nil || !body.CachedAt.Equal(at) {
		t.Errorf("unexpected status: %+v", body)
	}

	snaps.err = errors.New("disk gone")
	if w := doGet(t, r, "/v1/cache"); w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 on read error, got %d", w.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	hc := &stubHealth{report: health.HealthReport{SystemStatus: health.StatusDegraded}}
	r := newTestRouter(&stubSource{}, &stubSnapshots{}, hc)

	if w := doGet(t, r, "/health"); w.Code != http.StatusOK {
		t.Errorf("expected 200 when degraded, got %d", w.Code)
	}

	hc.report.SystemStatus = health.StatusCritical
	if w := doGet(t, r, "/health"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when critical, got %d", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := newTestRouter(&stubSource{articles: []domain.Article{}}, &stubSnapshots{}, &stubHealth{})

	w := doGet(t, r, "/v1/articles")
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("expected a generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/articles", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Errorf("expected propagated id abc-123, got %s", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(&stubSource{}, &stubSnapshots{}, &stubHealth{})

	if w := doGet(t, r, "/metrics"); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
