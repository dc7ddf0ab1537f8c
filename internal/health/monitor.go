package health

import (
	"context"
	"sync"
	"time"

	"github.com/vietddude/headlines/internal/core/snapshot"
	"github.com/vietddude/headlines/internal/infra/newsapi"
	"github.com/vietddude/headlines/internal/infra/storage"
)

// DefaultCheckInterval bounds how often a full check touches the store.
const DefaultCheckInterval = 5 * time.Second

// ConnectivityChecker reports current connectivity.
type ConnectivityChecker interface {
	IsConnected() bool
}

// SnapshotReader reports what the local cache holds.
type SnapshotReader interface {
	Snapshot(ctx context.Context) (snapshot.Status, error)
}

// RemoteStatus reports health of the remote source.
type RemoteStatus interface {
	APIKeyConfigured() bool
	GetHealth() newsapi.HealthStatus
}

// Monitor aggregates health status from the service's dependencies.
type Monitor struct {
	probe         ConnectivityChecker
	snapshots     SnapshotReader
	remote        RemoteStatus
	store         storage.Pinger
	checkInterval time.Duration
	now           func() time.Time
	lastCheck     time.Time
	lastReport    *HealthReport
	mu            sync.Mutex
}

// NewMonitor creates a new health monitor. remote and store may be nil.
func NewMonitor(
	probe ConnectivityChecker,
	snapshots SnapshotReader,
	remote RemoteStatus,
	store storage.Pinger,
) *Monitor {
	return &Monitor{
		probe:         probe,
		snapshots:     snapshots,
		remote:        remote,
		store:         store,
		checkInterval: DefaultCheckInterval,
		now:           time.Now,
	}
}

// SetCheckInterval changes the report reuse window; zero checks every time.
func (m *Monitor) SetCheckInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkInterval = d
}

// CheckHealth builds a report. Healthy needs both connectivity and a stored
// snapshot; with only one the service is degraded, with neither it is critical.
func (m *Monitor) CheckHealth(ctx context.Context) HealthReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if m.lastReport != nil && now.Sub(m.lastCheck) < m.checkInterval {
		return *m.lastReport
	}

	report := HealthReport{CheckedAt: now}

	connected := m.probe.IsConnected()
	if connected {
		report.Network = ComponentHealth{Status: StatusHealthy}
	} else {
		report.Network = ComponentHealth{Status: StatusDegraded, Detail: "offline"}
	}

	report.Cache = m.checkCache(ctx, now)
	report.Store = m.checkStore(ctx)
	if m.remote != nil {
		report.Remote = m.checkRemote()
	}

	switch {
	case connected && report.Cache.Cached:
		report.SystemStatus = StatusHealthy
	case connected || report.Cache.Cached:
		report.SystemStatus = StatusDegraded
	default:
		report.SystemStatus = StatusCritical
	}

	if report.SystemStatus == StatusHealthy && report.Store.Status != StatusHealthy {
		report.SystemStatus = StatusDegraded
	}

	m.lastCheck = now
	m.lastReport = &report
	return report
}

func (m *Monitor) checkCache(ctx context.Context, now time.Time) CacheHealth {
	status, err := m.snapshots.Snapshot(ctx)
	if err != nil {
		return CacheHealth{Status: StatusCritical, Error: err.Error()}
	}

	h := CacheHealth{
		Status:   StatusHealthy,
		Cached:   status.Cached,
		Count:    status.Count,
		CachedAt: status.CachedAt,
	}
	if status.CachedAt != nil {
		h.AgeSeconds = status.Age(now).Seconds()
	}
	if !status.Cached {
		h.Status = StatusDegraded
	}
	return h
}

func (m *Monitor) checkStore(ctx context.Context) ComponentHealth {
	if m.store == nil {
		return ComponentHealth{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := m.store.Ping(ctx); err != nil {
		return ComponentHealth{Status: StatusCritical, Detail: err.Error()}
	}
	return ComponentHealth{Status: StatusHealthy}
}

func (m *Monitor) checkRemote() *RemoteHealth {
	h := m.remote.GetHealth()
	r := &RemoteHealth{
		Status:        StatusHealthy,
		KeyConfigured: m.remote.APIKeyConfigured(),
		ErrorRate:     h.ErrorRate,
	}
	if !h.LastSuccessAt.IsZero() {
		r.LastSuccessAt = &h.LastSuccessAt
	}
	if !h.LastFailureAt.IsZero() {
		r.LastFailureAt = &h.LastFailureAt
	}

	switch {
	case !r.KeyConfigured:
		r.Status = StatusCritical
	case !h.Available:
		r.Status = StatusDegraded
	}
	return r
}
