package newsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vietddude/headlines/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{
		BaseURL:        server.URL + "/v2/",
		APIKey:         "test-key",
		ConnectTimeout: 2 * time.Second,
		ReadTimeout:    2 * time.Second,
	})
}

func TestClient_GetArticles_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/top-headlines" {
			t.Errorf("expected path /v2/top-headlines, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("country"); got != "us" {
			t.Errorf("expected country us, got %s", got)
		}
		if got := r.URL.Query().Get("category"); got != "business" {
			t.Errorf("expected category business, got %s", got)
		}
		if got := r.Header.Get(APIKeyHeader); got != "test-key" {
			t.Errorf("expected api key header test-key, got %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "ok",
			"totalResults": 2,
			"articles": [
				{"title": "A", "url": "https://a", "publishedAt": "2024-03-15T10:00:00Z", "source": {"id": "x", "name": "Wire"}},
				{"title": "B", "url": "https://b", "publishedAt": "2024-03-14T09:00:00Z", "source": null}
			]
		}`))
	})

	articles, err := client.GetArticles(context.Background())
	if err != nil {
		t.Fatalf("GetArticles failed: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].Title != "A" || articles[1].Title != "B" {
		t.Errorf("order not preserved: %q, %q", articles[0].Title, articles[1].Title)
	}
	if articles[0].Source == nil || articles[0].Source.Name != "Wire" {
		t.Errorf("expected source Wire, got %+v", articles[0].Source)
	}

	health := client.GetHealth()
	if !health.Available || health.LastSuccessAt.IsZero() {
		t.Errorf("expected healthy client after success, got %+v", health)
	}
}

func TestClient_GetArticles_AbsentArticles(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok"}`))
	})

	articles, err := client.GetArticles(context.Background())
	if err != nil {
		t.Fatalf("GetArticles failed: %v", err)
	}
	if articles == nil || len(articles) != 0 {
		t.Errorf("expected empty non-nil list, got %v", articles)
	}
}

func TestClient_GetArticles_APIKeyErrors(t *testing.T) {
	for _, code := range []string{"apiKeyInvalid", "apiKeyDisabled", "apiKeyExhausted"} {
		t.Run(code, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"status": "error", "code": "` + code + `", "message": "bad key"}`))
			})

			_, err := client.GetArticles(context.Background())
			if !errors.Is(err, domain.ErrAPIKeyNotConfigured) {
				t.Errorf("expected ErrAPIKeyNotConfigured, got %v", err)
			}
		})
	}
}

func TestClient_GetArticles_OtherErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"status": "error", "code": "rateLimited", "message": "Too many requests"}`))
	})

	_, err := client.GetArticles(context.Background())
	f, ok := domain.AsFailure(err)
	if !ok || f.Kind != domain.KindServer {
		t.Fatalf("expected server failure, got %v", err)
	}
	if f.Detail != "Too many requests" {
		t.Errorf("expected detail %q, got %q", "Too many requests", f.Detail)
	}
}

func TestClient_GetArticles_ErrorStatusWithoutMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "error"}`))
	})

	_, err := client.GetArticles(context.Background())
	f, ok := domain.AsFailure(err)
	if !ok || f.Kind != domain.KindServer {
		t.Fatalf("expected server failure, got %v", err)
	}
	if f.Detail != "Unknown API error" {
		t.Errorf("expected detail %q, got %q", "Unknown API error", f.Detail)
	}
}

func TestClient_GetArticles_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := client.GetArticles(context.Background())
	if !errors.Is(err, domain.ErrServer) {
		t.Fatalf("expected server failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("expected status code in error, got %v", err)
	}
}

func TestClient_GetArticles_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(Config{BaseURL: url, APIKey: "test-key"})
	_, err := client.GetArticles(context.Background())
	if !errors.Is(err, domain.ErrServer) {
		t.Fatalf("expected server failure, got %v", err)
	}

	if client.GetHealth().LastFailureAt.IsZero() {
		t.Error("expected failure to be recorded")
	}
}

func TestClient_GetArticles_BlankKey(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	for _, key := range []string{"", "   "} {
		client := NewClient(Config{BaseURL: server.URL, APIKey: key})
		_, err := client.GetArticles(context.Background())
		if !errors.Is(err, domain.ErrAPIKeyNotConfigured) {
			t.Errorf("expected ErrAPIKeyNotConfigured for key %q, got %v", key, err)
		}
	}
	if called {
		t.Error("expected no network call with a blank key")
	}
}

func TestClient_GetArticles_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok", "articles": []}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetArticles(ctx)
	if !errors.Is(err, domain.ErrServer) {
		t.Errorf("expected server failure on cancelled context, got %v", err)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Config{APIKey: "k"})

	endpoint, err := client.endpoint()
	if err != nil {
		t.Fatalf("endpoint failed: %v", err)
	}
	want := "https://newsapi.org/v2/top-headlines?category=business&country=us"
	if endpoint != want {
		t.Errorf("expected %s, got %s", want, endpoint)
	}
}
