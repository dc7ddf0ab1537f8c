// Package newsapi is the remote article source backed by a NewsAPI-compatible endpoint.
//
// Every failure returned by Client is a *domain.Failure: ApiKeyNotConfigured for a
// missing or rejected credential, Server for anything else.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/vietddude/headlines/internal/core/domain"
	"github.com/vietddude/headlines/internal/metrics"
)

const (
	DefaultBaseURL  = "https://newsapi.org/v2/"
	DefaultCountry  = "us"
	DefaultCategory = "business"
	DefaultTimeout  = 30 * time.Second

	// APIKeyHeader carries the credential on every request.
	APIKeyHeader = "X-Api-Key"

	topHeadlinesPath = "top-headlines"
	maxBodyBytes     = 10 << 20
)

// Config holds news API settings.
type Config struct {
	BaseURL        string        `yaml:"base_url"`
	APIKey         string        `yaml:"api_key"`
	Country        string        `yaml:"country"`
	Category       string        `yaml:"category"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	UserAgent      string        `yaml:"user_agent"`
}

// HealthStatus summarizes recent request outcomes.
type HealthStatus struct {
	Available     bool          `json:"available"`
	Latency       time.Duration `json:"latency"`
	ErrorRate     float64       `json:"error_rate"`
	LastSuccessAt time.Time     `json:"last_success_at"`
	LastFailureAt time.Time     `json:"last_failure_at"`
}

// Client fetches top headlines.
type Client struct {
	cfg        Config
	httpClient *http.Client

	mu           sync.RWMutex
	health       HealthStatus
	totalLatency time.Duration
	successCount int
	failureCount int
	requestCount int
}

// NewClient creates a client. Zero-valued settings fall back to the package defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	if cfg.Country == "" {
		cfg.Country = DefaultCountry
	}
	if cfg.Category == "" {
		cfg.Category = DefaultCategory
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultTimeout
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext,
				TLSHandshakeTimeout:   cfg.ConnectTimeout,
				ResponseHeaderTimeout: cfg.ReadTimeout,
				MaxIdleConns:          10,
				IdleConnTimeout:       90 * time.Second,
			},
		},
		health: HealthStatus{Available: true},
	}
}

// APIKeyConfigured reports whether a non-blank credential is set.
func (c *Client) APIKeyConfigured() bool {
	return strings.TrimSpace(c.cfg.APIKey) != ""
}

// GetArticles fetches the top headlines for the configured country and category.
// The call is attempted exactly once.
func (c *Client) GetArticles(ctx context.Context) ([]ArticleDTO, error) {
	if !c.APIKeyConfigured() {
		return nil, domain.ErrAPIKeyNotConfigured
	}

	start := time.Now()
	articles, err := c.fetch(ctx)
	latency := time.Since(start)
	metrics.RemoteLatency.Observe(latency.Seconds())

	if err != nil {
		c.recordFailure()
		metrics.RemoteRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	c.recordSuccess(latency)
	metrics.RemoteRequestsTotal.WithLabelValues("ok").Inc()
	return articles, nil
}

func (c *Client) fetch(ctx context.Context) ([]ArticleDTO, error) {
	endpoint, err := c.endpoint()
	if err != nil {
		return nil, domain.ServerFailure(err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, domain.ServerFailure(fmt.Sprintf("create request: %v", err))
	}
	req.Header.Set(APIKeyHeader, c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.ServerFailure(err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, domain.ServerFailure(fmt.Sprintf("read response: %v", err))
	}

	// Error payloads arrive with non-2xx codes but still carry status/code/message.
	var parsed ArticlesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, domain.ServerFailure(fmt.Sprintf("http %d: %s", resp.StatusCode, truncate(string(body), 200)))
		}
		return nil, domain.ServerFailure(fmt.Sprintf("parse response: %v", err))
	}

	if parsed.IsAPIKeyError() {
		return nil, domain.ErrAPIKeyNotConfigured
	}

	if !parsed.IsSuccess() {
		msg := parsed.Message
		if msg == "" {
			msg = "Unknown API error"
		}
		return nil, domain.ServerFailure(msg)
	}

	if parsed.Articles == nil {
		return []ArticleDTO{}, nil
	}
	return parsed.Articles, nil
}

func (c *Client) endpoint() (string, error) {
	base, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	u := base.ResolveReference(&url.URL{Path: topHeadlinesPath})

	q := u.Query()
	q.Set("country", c.cfg.Country)
	q.Set("category", c.cfg.Category)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// GetHealth returns the client's health status.
func (c *Client) GetHealth() HealthStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.health
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) recordSuccess(latency time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.successCount++
	c.requestCount++
	c.totalLatency += latency
	c.health.LastSuccessAt = time.Now()
	c.health.Available = true

	c.health.ErrorRate = float64(c.failureCount) / float64(c.requestCount)
	c.health.Latency = c.totalLatency / time.Duration(c.successCount)
}

func (c *Client) recordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failureCount++
	c.requestCount++
	c.health.LastFailureAt = time.Now()

	c.health.ErrorRate = float64(c.failureCount) / float64(c.requestCount)
	if c.health.ErrorRate > 0.5 {
		c.health.Available = false
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
