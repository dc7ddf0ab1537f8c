// Package health provides service health monitoring and status reporting.
package health

import "time"

// SystemStatus represents the overall health state of the service or a component.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// ComponentHealth contains the health of one dependency.
type ComponentHealth struct {
	Status SystemStatus `json:"status"`
	Detail string       `json:"detail,omitempty"`
}

// CacheHealth describes the stored snapshot.
type CacheHealth struct {
	Status     SystemStatus `json:"status"`
	Cached     bool         `json:"cached"`
	Count      int          `json:"count"`
	CachedAt   *time.Time   `json:"cached_at,omitempty"`
	AgeSeconds float64      `json:"age_seconds,omitempty"`
	Error      string       `json:"error,omitempty"`
}

// RemoteHealth summarizes recent news API calls.
type RemoteHealth struct {
	Status        SystemStatus `json:"status"`
	KeyConfigured bool         `json:"key_configured"`
	ErrorRate     float64      `json:"error_rate"`
	LastSuccessAt *time.Time   `json:"last_success_at,omitempty"`
	LastFailureAt *time.Time   `json:"last_failure_at,omitempty"`
}

// HealthReport contains the full service health report.
type HealthReport struct {
	SystemStatus SystemStatus    `json:"system_status"`
	Network      ComponentHealth `json:"network"`
	Cache        CacheHealth     `json:"cache"`
	Store        ComponentHealth `json:"store"`
	Remote       *RemoteHealth   `json:"remote,omitempty"`
	CheckedAt    time.Time       `json:"checked_at"`
}
