package orchestrator

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/upstic/admin-console/internal/model"
	"github.com/upstic/admin-console/internal/service/agency"
	"github.com/upstic/admin-console/pkg/logger"
	"github.com/upstic/admin-console/pkg/metrics"
)

const exportFetchLimit = 1000

// AgencyLoading tracks which agency operations are in flight, so views can
// show per-operation progress instead of one global spinner.
type AgencyLoading struct {
	List    bool
	Stats   bool
	Create  bool
	Update  bool
	Delete  bool
	Suspend bool
	Export  bool
}

// AgencySnapshot is a point-in-time copy of the orchestrator state. Callers
// own the copy; mutating it does not affect the orchestrator.
type AgencySnapshot struct {
	Agencies    []model.Agency
	Stats       *model.AgencyStats
	SelectedIDs []string
	Filters     model.AgencyFilters
	Meta        model.PageMeta
	Loading     AgencyLoading
	Err         error
}

// Agencies coordinates the agency list view: list state, filters,
// pagination, selection, and the write operations that mutate them. All
// methods are safe for concurrent use.
type Agencies struct {
	svc     *agency.Service
	logger  *logger.Logger
	metrics *metrics.Metrics

	mu       sync.Mutex
	items    []model.Agency
	stats    *model.AgencyStats
	selected map[string]struct{}
	filters  model.AgencyFilters
	meta     model.PageMeta
	loading  AgencyLoading
	lastErr  error

	// loadSeq fences list loads: only the newest in-flight load may commit.
	loadSeq atomic.Uint64
}

func NewAgencies(svc *agency.Service, log *logger.Logger, m *metrics.Metrics) *Agencies {
	return &Agencies{
		svc:      svc,
		logger:   log.WithComponent("orchestrator.agencies"),
		metrics:  m,
		selected: make(map[string]struct{}),
		filters:  model.AgencyFilters{Page: 1, Limit: 10},
	}
}

// Snapshot returns a copy of the current state.
func (o *Agencies) Snapshot() AgencySnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	items := make([]model.Agency, len(o.items))
	copy(items, o.items)

	selected := make([]string, 0, len(o.selected))
	for id := range o.selected {
		selected = append(selected, id)
	}
	sort.Strings(selected)

	var stats *model.AgencyStats
	if o.stats != nil {
		s := *o.stats
		stats = &s
	}

	return AgencySnapshot{
		Agencies:    items,
		Stats:       stats,
		SelectedIDs: selected,
		Filters:     o.filters,
		Meta:        o.meta,
		Loading:     o.loading,
		Err:         o.lastErr,
	}
}

// Load fetches the current page. When loads overlap, only the newest
// request may commit its result; stale responses are dropped.
func (o *Agencies) Load(ctx context.Context) error {
	seq := o.loadSeq.Add(1)

	o.mu.Lock()
	o.loading.List = true
	filters := o.filters
	o.mu.Unlock()

	page, err := o.svc.List(ctx, filters)

	o.mu.Lock()
	defer o.mu.Unlock()

	if seq != o.loadSeq.Load() {
		// a newer load superseded this one
		o.metrics.StaleLoadsDropped.Inc()
		o.logger.Debug("dropping stale list response", "seq", seq)
		return nil
	}

	o.loading.List = false
	if err != nil {
		o.lastErr = err
		return err
	}

	o.lastErr = nil
	o.items = page.Agencies
	o.meta = page.Meta
	return nil
}

// LoadStats refreshes the aggregate counters.
func (o *Agencies) LoadStats(ctx context.Context) error {
	o.mu.Lock()
	o.loading.Stats = true
	o.mu.Unlock()

	stats, err := o.svc.Stats(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.loading.Stats = false
	if err != nil {
		o.lastErr = err
		return err
	}
	o.stats = stats
	return nil
}

// UpdateFilters merges the given filters, resets to the first page, and
// reloads the list.
func (o *Agencies) UpdateFilters(ctx context.Context, patch model.AgencyFilters) error {
	o.mu.Lock()
	mergeFilters(&o.filters, patch)
	o.filters.Page = 1
	o.mu.Unlock()

	return o.Load(ctx)
}

// SetPage navigates to the given page and reloads.
func (o *Agencies) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	o.mu.Lock()
	o.filters.Page = page
	o.mu.Unlock()

	return o.Load(ctx)
}

// Create validates and creates an agency, then reloads the full list so the
// new row appears with server-computed fields.
func (o *Agencies) Create(ctx context.Context, req model.CreateAgencyRequest) (*model.Agency, error) {
	o.setLoading(func(l *AgencyLoading) { l.Create = true })
	created, err := o.svc.Create(ctx, req)
	o.setLoading(func(l *AgencyLoading) { l.Create = false })
	if err != nil {
		o.setErr(err)
		return nil, err
	}

	if err := o.Load(ctx); err != nil {
		return created, err
	}
	return created, o.LoadStats(ctx)
}

// Update applies a partial update and patches the row in place.
func (o *Agencies) Update(ctx context.Context, id string, req model.UpdateAgencyRequest) (*model.Agency, error) {
	o.setLoading(func(l *AgencyLoading) { l.Update = true })
	updated, err := o.svc.Update(ctx, id, req)
	o.setLoading(func(l *AgencyLoading) { l.Update = false })
	if err != nil {
		o.setErr(err)
		return nil, err
	}

	o.replaceItem(*updated)
	return updated, nil
}

// Delete removes an agency, drops its row, prunes it from the selection,
// and refreshes the aggregate counters.
func (o *Agencies) Delete(ctx context.Context, id string) error {
	o.setLoading(func(l *AgencyLoading) { l.Delete = true })
	err := o.svc.Delete(ctx, id)
	o.setLoading(func(l *AgencyLoading) { l.Delete = false })
	if err != nil {
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
	delete(o.selected, id)
	if o.meta.TotalItems > 0 {
		o.meta.TotalItems--
	}
	o.mu.Unlock()

	return o.LoadStats(ctx)
}

// Suspend transitions an agency to suspended. The new state comes from the
// server response; suspending an already-suspended agency is a no-op at the
// server and simply reconciles the row.
func (o *Agencies) Suspend(ctx context.Context, id, reason string) error {
	o.setLoading(func(l *AgencyLoading) { l.Suspend = true })
	updated, err := o.svc.Suspend(ctx, id, reason)
	o.setLoading(func(l *AgencyLoading) { l.Suspend = false })
	if err != nil {
		o.setErr(err)
		return err
	}

	o.replaceItem(*updated)
	return o.LoadStats(ctx)
}

// Activate transitions an agency to active.
func (o *Agencies) Activate(ctx context.Context, id string) error {
	o.setLoading(func(l *AgencyLoading) { l.Suspend = true })
	updated, err := o.svc.Activate(ctx, id)
	o.setLoading(func(l *AgencyLoading) { l.Suspend = false })
	if err != nil {
		o.setErr(err)
		return err
	}

	o.replaceItem(*updated)
	return o.LoadStats(ctx)
}

// Verify marks an agency as verified and patches the row.
func (o *Agencies) Verify(ctx context.Context, id string) error {
	updated, err := o.svc.Verify(ctx, id)
	if err != nil {
		o.setErr(err)
		return err
	}
	o.replaceItem(*updated)
	return nil
}

// ToggleSelect flips one agency in or out of the selection.
func (o *Agencies) ToggleSelect(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.selected[id]; ok {
		delete(o.selected, id)
	} else {
		o.selected[id] = struct{}{}
	}
}

// SelectAll selects every agency on the current page.
func (o *Agencies) SelectAll() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, item := range o.items {
		o.selected[item.ID] = struct{}{}
	}
}

// ClearSelection empties the selection.
func (o *Agencies) ClearSelection() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.selected = make(map[string]struct{})
}

// BulkUpdate applies a partial update to every selected agency, then
// reloads the list.
func (o *Agencies) BulkUpdate(ctx context.Context, req model.UpdateAgencyRequest) error {
	o.mu.Lock()
	ids := make([]string, 0, len(o.selected))
	for id := range o.selected {
		ids = append(ids, id)
	}
	o.mu.Unlock()
	sort.Strings(ids)

	if err := o.svc.BulkUpdate(ctx, ids, req); err != nil {
		o.setErr(err)
		return err
	}
	return o.Load(ctx)
}

// ExportCSV renders the filtered agency list as CSV, fetching up to 1000
// rows with the current filters (ignoring pagination).
func (o *Agencies) ExportCSV(ctx context.Context) ([]byte, error) {
	o.setLoading(func(l *AgencyLoading) { l.Export = true })
	defer o.setLoading(func(l *AgencyLoading) { l.Export = false })

	o.mu.Lock()
	filters := o.filters
	o.mu.Unlock()
	filters.Page = 1
	filters.Limit = exportFetchLimit

	page, err := o.svc.List(ctx, filters)
	if err != nil {
		o.setErr(err)
		return nil, err
	}
	return renderCSV(page.Agencies), nil
}

// ExportXLSX is not supported natively; it logs a warning and serves the
// CSV rendering instead, which spreadsheet tools open transparently.
func (o *Agencies) ExportXLSX(ctx context.Context) ([]byte, error) {
	o.logger.Warn("xlsx export not supported, falling back to csv")
	return o.ExportCSV(ctx)
}

// Export dispatches on the requested format and returns a download filename
// alongside the bytes. Unsupported formats degrade to CSV and say so in the
// returned extension rather than handing back a mislabeled file.
func (o *Agencies) Export(ctx context.Context, format string) (string, []byte, error) {
	var data []byte
	var err error
	if format == "xlsx" {
		data, err = o.ExportXLSX(ctx)
	} else {
		data, err = o.ExportCSV(ctx)
	}
	if err != nil {
		return "", nil, err
	}
	name := "agencies-" + time.Now().Format("20060102") + ".csv"
	return name, data, nil
}

func (o *Agencies) replaceItem(updated model.Agency) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, item := range o.items {
		if item.ID == updated.ID {
			o.items[i] = updated
			return
		}
	}
}

func (o *Agencies) setLoading(apply func(*AgencyLoading)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	apply(&o.loading)
}

func (o *Agencies) setErr(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lastErr = err
}

func mergeFilters(dst *model.AgencyFilters, patch model.AgencyFilters) {
	if patch.Search != "" {
		dst.Search = patch.Search
	}
	if patch.Status != "" {
		dst.Status = patch.Status
	}
	if patch.Industry != "" {
		dst.Industry = patch.Industry
	}
	if patch.Specialization != "" {
		dst.Specialization = patch.Specialization
	}
	if patch.Size != "" {
		dst.Size = patch.Size
	}
	if patch.Plan != "" {
		dst.Plan = patch.Plan
	}
	if patch.SortBy != "" {
		dst.SortBy = patch.SortBy
	}
	if patch.SortOrder != "" {
		dst.SortOrder = patch.SortOrder
	}
	if patch.Limit > 0 {
		dst.Limit = patch.Limit
	}
}

// renderCSV writes the export columns, quoting any value containing a
// comma, quote, or newline.
func renderCSV(agencies []model.Agency) []byte {
	var b strings.Builder
	b.WriteString("Name,Industry,Size,Status,Email,Phone,Specializations,Created\n")
	for _, a := range agencies {
		row := []string{
			a.Name,
			a.Industry,
			a.Size,
			a.Status,
			a.ContactEmail,
			a.ContactPhone,
			strings.Join(a.Specializations, "; "),
			a.CreatedAt.Format("2006-01-02"),
		}
		for i, field := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(csvField(field))
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func csvField(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
