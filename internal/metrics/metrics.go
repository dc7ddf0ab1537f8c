package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ArticleRequestsTotal tracks GetArticles calls by how they were answered
	ArticleRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headlines_article_requests_total",
			Help: "Total number of article requests by outcome",
		},
		[]string{"outcome"},
	)

	// RemoteRequestsTotal tracks calls to the news API
	RemoteRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headlines_remote_requests_total",
			Help: "Total number of news API requests",
		},
		[]string{"result"},
	)

	// RemoteFailuresTotal tracks classified remote failures, including ones absorbed by the cache
	RemoteFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headlines_remote_failures_total",
			Help: "Total number of news API failures by kind",
		},
		[]string{"kind"},
	)

	// RemoteLatency tracks news API latency
	RemoteLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "headlines_remote_latency_seconds",
			Help:    "News API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// CacheWritesTotal tracks snapshot writes
	CacheWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "headlines_cache_writes_total",
			Help: "Total number of cache snapshot writes",
		},
		[]string{"result"},
	)

	// CacheLastWriteTimestamp is the unix time of the last successful snapshot write
	CacheLastWriteTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "headlines_cache_last_write_timestamp_seconds",
			Help: "Unix timestamp of the last successful cache write",
		},
	)

	// NetworkConnected is 1 when the probe last reported connectivity
	NetworkConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "headlines_network_connected",
			Help: "Whether the network probe reports connectivity (1) or not (0)",
		},
	)

	// DBConnectionPoolUsage tracks the percentage of used connections in the pool
	DBConnectionPoolUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "headlines_db_connection_pool_usage_percent",
			Help: "Percentage of used database connections",
		},
	)
)
