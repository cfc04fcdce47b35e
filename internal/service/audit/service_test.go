package audit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upstic/admin-console/internal/model"
	apierrors "github.com/upstic/admin-console/pkg/errors"
	"github.com/upstic/admin-console/pkg/httpclient"
	"github.com/upstic/admin-console/pkg/logger"
	"github.com/upstic/admin-console/pkg/metrics"
)

type noTokens struct{}

func (noTokens) Token() string { return "" }

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := httpclient.New(httpclient.Config{BaseURL: srv.URL}, noTokens{},
		logger.NewLogger(nil), metrics.NewMetrics("test_audit_"+t.Name()))
	return NewService(client, logger.NewLogger(nil))
}

func TestListEncodesOnlySetFilters(t *testing.T) {
	var gotQuery string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"logs":[{"id":"log-1","actionType":"create","entityType":"agency"}],"total":41}`))
	})

	page, err := svc.List(context.Background(), model.AuditLogFilters{
		ActionType: model.AuditActionCreate,
		Page:       2,
		Limit:      20,
	})
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "action_type=create")
	assert.NotContains(t, gotQuery, "entity_type")
	assert.NotContains(t, gotQuery, "user_id")

	assert.Len(t, page.Logs, 1)
	assert.Equal(t, 2, page.Meta.CurrentPage)
	assert.Equal(t, 3, page.Meta.TotalPages)
	assert.Equal(t, 41, page.Meta.TotalItems)
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("server must not be called for invalid input")
	})

	_, err := svc.Create(context.Background(), model.CreateAuditLogRequest{
		EntityType: model.AuditEntityAgency,
	})
	require.Error(t, err)

	apiErr := apierrors.AsAPIError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, apierrors.ErrValidation, apiErr.Code)
}

func TestUserLogsHitsUserPath(t *testing.T) {
	var gotPath, gotQuery string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"logs":[{"id":"log-1"}],"total":1}`))
	})

	logs, err := svc.UserLogs(context.Background(), "admin-1", 5)
	require.NoError(t, err)

	assert.Equal(t, "/audit-logs/users/admin-1", gotPath)
	assert.Equal(t, "limit=5", gotQuery)
	assert.Len(t, logs, 1)
}

func TestCatalogsFetchedFromServer(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/audit-logs/actions":
			w.Write([]byte(`[{"value":"create","label":"Create"},{"value":"purge","label":"Purge"}]`))
		case "/audit-logs/entities":
			w.Write([]byte(`[{"value":"agency","label":"Agency"}]`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	actions := svc.ActionTypes(context.Background())
	require.Len(t, actions, 2)
	assert.Equal(t, "purge", actions[1].Value)

	entities := svc.EntityTypes(context.Background())
	require.Len(t, entities, 1)
	assert.Equal(t, model.AuditEntityAgency, entities[0].Value)
}

func TestCatalogsFallBackWhenServerUnavailable(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"unavailable"}`, http.StatusServiceUnavailable)
	})

	actions := svc.ActionTypes(context.Background())
	entities := svc.EntityTypes(context.Background())

	values := make(map[string]bool)
	for _, a := range actions {
		values[a.Value] = true
		assert.NotEmpty(t, a.Label)
	}
	assert.True(t, values[model.AuditActionSuspend])
	assert.True(t, values[model.AuditActionActivate])

	assert.Len(t, entities, 4)
}
