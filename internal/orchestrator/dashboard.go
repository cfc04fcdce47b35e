package orchestrator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/upstic/admin-console/internal/model"
	"github.com/upstic/admin-console/internal/service/dashboard"
	"github.com/upstic/admin-console/pkg/logger"
	"github.com/upstic/admin-console/pkg/metrics"
)

const defaultPollInterval = 30 * time.Second

// DashboardSnapshot is a point-in-time copy of the overview state.
type DashboardSnapshot struct {
	Metrics     *model.DashboardMetrics
	Revenue     []model.AgencyRevenue
	LastUpdated time.Time
}

// Dashboard keeps the platform overview fresh: a concurrent initial load
// plus periodic polling. The underlying reads serve fallback data during
// outages, so a refresh always yields a renderable snapshot.
type Dashboard struct {
	svc      *dashboard.Service
	logger   *logger.Logger
	metrics  *metrics.Metrics
	interval time.Duration

	mu          sync.Mutex
	current     *model.DashboardMetrics
	revenue     []model.AgencyRevenue
	lastUpdated time.Time

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	running  atomic.Bool
}

func NewDashboard(svc *dashboard.Service, log *logger.Logger, m *metrics.Metrics, interval time.Duration) *Dashboard {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Dashboard{
		svc:      svc,
		logger:   log.WithComponent("orchestrator.dashboard"),
		metrics:  m,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Snapshot returns a copy of the latest overview data.
func (o *Dashboard) Snapshot() DashboardSnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	var m *model.DashboardMetrics
	if o.current != nil {
		copied := *o.current
		m = &copied
	}
	revenue := make([]model.AgencyRevenue, len(o.revenue))
	copy(revenue, o.revenue)

	return DashboardSnapshot{
		Metrics:     m,
		Revenue:     revenue,
		LastUpdated: o.lastUpdated,
	}
}

// Refresh fetches the metrics and revenue views concurrently and commits
// whatever arrives. Each view degrades independently.
func (o *Dashboard) Refresh(ctx context.Context) {
	var (
		m       *model.DashboardMetrics
		revenue []model.AgencyRevenue
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m = o.svc.Metrics(gctx)
		return nil
	})
	g.Go(func() error {
		revenue = o.svc.Revenue(gctx, "month")
		return nil
	})
	_ = g.Wait()

	o.mu.Lock()
	o.current = m
	o.revenue = revenue
	o.lastUpdated = time.Now()
	o.mu.Unlock()
}

// Run polls the overview until the context is canceled or Close is called.
// It performs an immediate refresh before the first tick.
func (o *Dashboard) Run(ctx context.Context) {
	o.running.Store(true)
	defer close(o.done)

	o.Refresh(ctx)

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-o.stop:
			return
		case <-ticker.C:
			o.metrics.PollCycles.Inc()
			o.Refresh(ctx)
		}
	}
}

// Close stops the polling loop and waits for it to exit.
func (o *Dashboard) Close() {
	o.stopOnce.Do(func() { close(o.stop) })
	if o.running.Load() {
		<-o.done
	}
}
