package orchestrator

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/upstic/admin-console/internal/model"
	"github.com/upstic/admin-console/internal/service/user"
	"github.com/upstic/admin-console/pkg/logger"
	"github.com/upstic/admin-console/pkg/metrics"
)

// UserSnapshot is a point-in-time copy of the users view state.
type UserSnapshot struct {
	Users   []model.AgencyUser
	Filters model.UserFilters
	Meta    model.PageMeta
	Loading bool
	Err     error
}

// Users coordinates the cross-tenant users view.
type Users struct {
	svc     *user.Service
	logger  *logger.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	items   []model.AgencyUser
	filters model.UserFilters
	meta    model.PageMeta
	loading bool
	lastErr error

	loadSeq atomic.Uint64
}

func NewUsers(svc *user.Service, log *logger.Logger, m *metrics.Metrics) *Users {
	return &Users{
		svc:     svc,
		logger:  log.WithComponent("orchestrator.users"),
		metrics: m,
		filters: model.UserFilters{Page: 1, Limit: 10},
	}
}

// Snapshot returns a copy of the current state.
func (o *Users) Snapshot() UserSnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	items := make([]model.AgencyUser, len(o.items))
	copy(items, o.items)

	return UserSnapshot{
		Users:   items,
		Filters: o.filters,
		Meta:    o.meta,
		Loading: o.loading,
		Err:     o.lastErr,
	}
}

// Load fetches the current page, dropping stale overlapping responses.
func (o *Users) Load(ctx context.Context) error {
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
	o.items = page.Users
	o.meta = page.Meta
	return nil
}

// UpdateFilters merges the given filters, resets to the first page, and
// reloads.
func (o *Users) UpdateFilters(ctx context.Context, patch model.UserFilters) error {
	o.mu.Lock()
	if patch.Search != "" {
		o.filters.Search = patch.Search
	}
	if patch.Role != "" {
		o.filters.Role = patch.Role
	}
	if patch.Status != "" {
		o.filters.Status = patch.Status
	}
	if patch.Limit > 0 {
		o.filters.Limit = patch.Limit
	}
	o.filters.Page = 1
	o.mu.Unlock()

	return o.Load(ctx)
}

// SetPage navigates to the given page and reloads.
func (o *Users) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	o.mu.Lock()
	o.filters.Page = page
	o.mu.Unlock()

	return o.Load(ctx)
}

// Create creates a user and reloads so the row appears with server fields.
func (o *Users) Create(ctx context.Context, req model.CreateUserRequest) (*model.AgencyUser, error) {
	created, err := o.svc.Create(ctx, req)
	if err != nil {
		o.setErr(err)
		return nil, err
	}
	return created, o.Load(ctx)
}

// Update applies a partial update and patches the row in place.
func (o *Users) Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.AgencyUser, error) {
	updated, err := o.svc.Update(ctx, id, req)
	if err != nil {
		o.setErr(err)
		return nil, err
	}

	o.mu.Lock()
	for i, item := range o.items {
		if item.ID == updated.ID {
			o.items[i] = *updated
			break
		}
	}
	o.mu.Unlock()
	return updated, nil
}

// UpdateStatus transitions a user's status and patches the row.
func (o *Users) UpdateStatus(ctx context.Context, id, status string) error {
	updated, err := o.svc.UpdateStatus(ctx, id, status)
	if err != nil {
		o.setErr(err)
		return err
	}

	o.mu.Lock()
	for i, item := range o.items {
		if item.ID == updated.ID {
			o.items[i] = *updated
			break
		}
	}
	o.mu.Unlock()
	return nil
}

// Delete removes a user and drops its row.
func (o *Users) Delete(ctx context.Context, id string) error {
	if err := o.svc.Delete(ctx, id); err != nil {
		o.setErr(err)
		return err
	}

	o.mu.Lock()
	for i, item := range o.items {
		if item.ID == id {
			o.items = append(o.items[:i], o.items[i+1:]...)
			break
		}
	}
	if o.meta.TotalItems > 0 {
		o.meta.TotalItems--
	}
	o.mu.Unlock()
	return nil
}

func (o *Users) setErr(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lastErr = err
}
