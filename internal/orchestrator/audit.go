package orchestrator

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/upstic/admin-console/internal/model"
	"github.com/upstic/admin-console/internal/service/audit"
	"github.com/upstic/admin-console/pkg/logger"
	"github.com/upstic/admin-console/pkg/metrics"
)

// AuditSnapshot is a point-in-time copy of the audit view state.
type AuditSnapshot struct {
	Logs    []model.AuditLog
	Stats   *model.AuditLogStats
	Filters model.AuditLogFilters
	Meta    model.PageMeta
	Loading bool
	Err     error
}

// Audit coordinates the audit trail view.
type Audit struct {
	svc     *audit.Service
	logger  *logger.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	items   []model.AuditLog
	stats   *model.AuditLogStats
	filters model.AuditLogFilters
	meta    model.PageMeta
	loading bool
	lastErr error

	loadSeq atomic.Uint64
}

func NewAudit(svc *audit.Service, log *logger.Logger, m *metrics.Metrics) *Audit {
	return &Audit{
		svc:     svc,
		logger:  log.WithComponent("orchestrator.audit"),
		metrics: m,
		filters: model.AuditLogFilters{Page: 1, Limit: 20},
	}
}

// Snapshot returns a copy of the current state.
func (o *Audit) Snapshot() AuditSnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	items := make([]model.AuditLog, len(o.items))
	copy(items, o.items)

	var stats *model.AuditLogStats
	if o.stats != nil {
		s := *o.stats
		stats = &s
	}

	return AuditSnapshot{
		Logs:    items,
		Stats:   stats,
		Filters: o.filters,
		Meta:    o.meta,
		Loading: o.loading,
		Err:     o.lastErr,
	}
}

// Load fetches the current page, dropping stale overlapping responses.
func (o *Audit) Load(ctx context.Context) error {
	seq := o.loadSeq.Add(1)

	o.mu.Lock()
	o.loading = true
	filters := o.filters
	o.mu.Unlock()

	page, err := o.svc.List(ctx, filters)

	o.mu.Lock()
	defer o.mu.Unlock()

	if seq != o.loadSeq.Load() {
		o.metrics.StaleLoadsDropped.Inc()
		return nil
	}

	o.loading = false
	if err != nil {
		o.lastErr = err
		return err
	}

	o.lastErr = nil
	o.items = page.Logs
	o.meta = page.Meta
	return nil
}

// LoadStats refreshes the aggregate distributions for the current filters.
func (o *Audit) LoadStats(ctx context.Context) error {
	o.mu.Lock()
	filters := o.filters
	o.mu.Unlock()

	stats, err := o.svc.Stats(ctx, filters)
	if err != nil {
		o.setErr(err)
		return err
	}

	o.mu.Lock()
	o.stats = stats
	o.mu.Unlock()
	return nil
}

// UpdateFilters merges the given filters, resets to the first page, and
// reloads both the list and the stats.
func (o *Audit) UpdateFilters(ctx context.Context, patch model.AuditLogFilters) error {
	o.mu.Lock()
	mergeAuditFilters(&o.filters, patch)
	o.filters.Page = 1
	o.mu.Unlock()

	if err := o.Load(ctx); err != nil {
		return err
	}
	return o.LoadStats(ctx)
}

// SetPage navigates to the given page and reloads.
func (o *Audit) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	o.mu.Lock()
	o.filters.Page = page
	o.mu.Unlock()

	return o.Load(ctx)
}

// Record appends a manual audit entry and reloads the first page so it
// appears at the top.
func (o *Audit) Record(ctx context.Context, req model.CreateAuditLogRequest) error {
	if _, err := o.svc.Create(ctx, req); err != nil {
		o.setErr(err)
		return err
	}

	o.mu.Lock()
	o.filters.Page = 1
	o.mu.Unlock()
	return o.Load(ctx)
}

func (o *Audit) setErr(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lastErr = err
}

func mergeAuditFilters(dst *model.AuditLogFilters, patch model.AuditLogFilters) {
	if patch.UserID != "" {
		dst.UserID = patch.UserID
	}
	if patch.UserEmail != "" {
		dst.UserEmail = patch.UserEmail
	}
	if patch.ActionType != "" {
		dst.ActionType = patch.ActionType
	}
	if patch.EntityType != "" {
		dst.EntityType = patch.EntityType
	}
	if patch.EntityID != "" {
		dst.EntityID = patch.EntityID
	}
	if patch.StartDate != "" {
		dst.StartDate = patch.StartDate
	}
	if patch.EndDate != "" {
		dst.EndDate = patch.EndDate
	}
	if patch.Search != "" {
		dst.Search = patch.Search
	}
	if patch.Limit > 0 {
		dst.Limit = patch.Limit
	}
}
