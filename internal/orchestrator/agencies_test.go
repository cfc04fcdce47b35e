package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upstic/admin-console/internal/model"
	"github.com/upstic/admin-console/internal/service/agency"
	"github.com/upstic/admin-console/pkg/httpclient"
	"github.com/upstic/admin-console/pkg/logger"
	"github.com/upstic/admin-console/pkg/metrics"
)

type noTokens struct{}

func (noTokens) Token() string { return "" }

type agencyBackend struct {
	mu        sync.Mutex
	agencies  []model.Agency
	listDelay time.Duration
}

func (b *agencyBackend) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		delay := b.listDelay
		b.mu.Unlock()

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/admin/agencies/stats":
			b.mu.Lock()
			total := len(b.agencies)
			b.mu.Unlock()
			fmt.Fprintf(w, `{"totalAgencies": %d}`, total)
		case r.Method == http.MethodGet && r.URL.Path == "/admin/agencies":
			// snapshot the list at request arrival so a delayed response
			// carries the data that was current when the request began
			b.mu.Lock()
			payload, _ := json.Marshal(map[string]interface{}{
				"agencies": b.agencies,
				"total":    len(b.agencies),
			})
			b.mu.Unlock()
			if delay > 0 {
				time.Sleep(delay)
			}
			w.Write(payload)
		case r.Method == http.MethodDelete:
			id := strings.TrimPrefix(r.URL.Path, "/admin/agencies/")
			b.mu.Lock()
			for i, a := range b.agencies {
				if a.ID == id {
					b.agencies = append(b.agencies[:i], b.agencies[i+1:]...)
					break
				}
			}
			b.mu.Unlock()
			w.Write([]byte(`{}`))
		case r.Method == http.MethodPost && r.URL.Path == "/admin/agencies":
			b.mu.Lock()
			id := fmt.Sprintf("ag-%d", len(b.agencies)+1)
			b.agencies = append(b.agencies, model.Agency{ID: id, Name: "Created"})
			b.mu.Unlock()
			fmt.Fprintf(w, `{"_id":%q,"name":"Created"}`, id)
		case r.Method == http.MethodPut:
			id := strings.TrimPrefix(r.URL.Path, "/admin/agencies/")
			var body map[string]interface{}
			json.NewDecoder(r.Body).Decode(&body)
			status, _ := body["status"].(string)
			fmt.Fprintf(w, `{"_id":%q,"name":"Updated","status":%q}`, id, status)
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"not found"}`))
		}
	}
}

func newTestAgencies(t *testing.T, backend *agencyBackend) *Agencies {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	m := metrics.NewMetrics("test_orch_agencies_" + t.Name())
	client := httpclient.New(httpclient.Config{BaseURL: srv.URL}, noTokens{},
		logger.NewLogger(nil), m)
	svc := agency.NewService(client, logger.NewLogger(nil), "upstic.com")
	return NewAgencies(svc, logger.NewLogger(nil), m)
}

func seedAgencies(ids ...string) []model.Agency {
	agencies := make([]model.Agency, 0, len(ids))
	for _, id := range ids {
		agencies = append(agencies, model.Agency{ID: id, Name: "Agency " + id, Status: model.AgencyStatusActive})
	}
	return agencies
}

func TestLoadPopulatesSnapshot(t *testing.T) {
	o := newTestAgencies(t, &agencyBackend{agencies: seedAgencies("ag-1", "ag-2")})

	require.NoError(t, o.Load(context.Background()))

	snap := o.Snapshot()
	assert.Len(t, snap.Agencies, 2)
	assert.Equal(t, 2, snap.Meta.TotalItems)
	assert.False(t, snap.Loading.List)
	assert.NoError(t, snap.Err)
}

func TestUpdateFiltersResetsToFirstPage(t *testing.T) {
	o := newTestAgencies(t, &agencyBackend{agencies: seedAgencies("ag-1")})

	require.NoError(t, o.SetPage(context.Background(), 3))
	assert.Equal(t, 3, o.Snapshot().Filters.Page)

	require.NoError(t, o.UpdateFilters(context.Background(), model.AgencyFilters{
		Status: model.AgencyStatusSuspended,
	}))

	snap := o.Snapshot()
	assert.Equal(t, 1, snap.Filters.Page)
	assert.Equal(t, model.AgencyStatusSuspended, snap.Filters.Status)
}

func TestDeletePrunesSelection(t *testing.T) {
	o := newTestAgencies(t, &agencyBackend{agencies: seedAgencies("ag-1", "ag-2", "ag-3")})

	require.NoError(t, o.Load(context.Background()))
	o.ToggleSelect("ag-1")
	o.ToggleSelect("ag-2")

	require.NoError(t, o.Delete(context.Background(), "ag-2"))

	snap := o.Snapshot()
	assert.Equal(t, []string{"ag-1"}, snap.SelectedIDs)
	assert.Len(t, snap.Agencies, 2)
	for _, a := range snap.Agencies {
		assert.NotEqual(t, "ag-2", a.ID)
	}
}

func TestCreateReloadsList(t *testing.T) {
	backend := &agencyBackend{agencies: seedAgencies("ag-1")}
	o := newTestAgencies(t, backend)

	require.NoError(t, o.Load(context.Background()))
	assert.Len(t, o.Snapshot().Agencies, 1)

	created, err := o.Create(context.Background(), model.CreateAgencyRequest{
		Name:         "CareFirst Staffing",
		Description:  "Nursing staff provider",
		Industry:     "Healthcare",
		Size:         model.AgencySizeMedium,
		ContactEmail: "ops@carefirst.com",
		ContactPhone: "+44 20 7946 0958",
		Website:      "carefirst",
		Status:       model.AgencyStatusPending,
		Address:      model.AgencyAddress{City: "London", Country: "UK"},
		PrimaryContact: model.AgencyContact{
			Name:  "Jo Bloggs",
			Email: "jo@carefirst.com",
			Phone: "+44 20 7946 0958",
		},
		Specializations: []string{"nursing"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Len(t, o.Snapshot().Agencies, 2)
}

func TestSuspendPatchesRowInPlace(t *testing.T) {
	o := newTestAgencies(t, &agencyBackend{agencies: seedAgencies("ag-1", "ag-2")})

	require.NoError(t, o.Load(context.Background()))
	require.NoError(t, o.Suspend(context.Background(), "ag-1", "late payments"))

	snap := o.Snapshot()
	var found bool
	for _, a := range snap.Agencies {
		if a.ID == "ag-1" {
			found = true
			assert.Equal(t, model.AgencyStatusSuspended, a.Status)
		}
	}
	assert.True(t, found)
}

func TestSelectAllAndClear(t *testing.T) {
	o := newTestAgencies(t, &agencyBackend{agencies: seedAgencies("ag-1", "ag-2")})

	require.NoError(t, o.Load(context.Background()))
	o.SelectAll()
	assert.Len(t, o.Snapshot().SelectedIDs, 2)

	o.ClearSelection()
	assert.Empty(t, o.Snapshot().SelectedIDs)
}

func TestExportCSVQuotesCommaFields(t *testing.T) {
	backend := &agencyBackend{agencies: []model.Agency{
		{ID: "ag-1", Name: "A, Inc.", Industry: "Healthcare", Status: "active", ContactEmail: "a@a.com"},
		{ID: "ag-2", Name: "B Ltd", Industry: "Healthcare", Status: "active", ContactEmail: "b@b.com"},
	}}
	o := newTestAgencies(t, backend)

	csv, err := o.ExportCSV(context.Background())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(csv)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], `"A, Inc.",`))
	assert.True(t, strings.HasPrefix(lines[2], "B Ltd,"))
}

func TestExportXLSXFallsBackToCSVFilename(t *testing.T) {
	backend := &agencyBackend{agencies: seedAgencies("ag-1")}
	o := newTestAgencies(t, backend)

	name, data, err := o.Export(context.Background(), "xlsx")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".csv"))
	assert.NotEmpty(t, data)
}

func TestCSVFieldEscapesQuotes(t *testing.T) {
	assert.Equal(t, `"say ""hi"", ok"`, csvField(`say "hi", ok`))
	assert.Equal(t, "plain", csvField("plain"))
}

func TestOverlappingLoadsKeepNewestResult(t *testing.T) {
	backend := &agencyBackend{agencies: seedAgencies("ag-1"), listDelay: 100 * time.Millisecond}
	o := newTestAgencies(t, backend)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		o.Load(context.Background())
	}()

	time.Sleep(20 * time.Millisecond)
	backend.mu.Lock()
	backend.listDelay = 0
	backend.agencies = seedAgencies("ag-1", "ag-2")
	backend.mu.Unlock()

	require.NoError(t, o.Load(context.Background()))
	wg.Wait()

	// the slower first load must not overwrite the newer result
	assert.Len(t, o.Snapshot().Agencies, 2)
}
