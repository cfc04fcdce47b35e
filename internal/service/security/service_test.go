package security

import (
	"context"
	"encoding/json"
	"io"
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

	m := metrics.NewMetrics("test_security_" + t.Name())
	client := httpclient.New(httpclient.Config{BaseURL: srv.URL}, noTokens{},
		logger.NewLogger(nil), m)
	return NewService(client, logger.NewLogger(nil), m)
}

func TestDashboardDecodesRemotePayload(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"securityScore": {"overall": 92},
			"activeEvents": 5,
			"severityDistribution": {"high": 2, "low": 3}
		}`))
	})

	dash := svc.Dashboard(context.Background())
	require.NotNil(t, dash)
	assert.Equal(t, 92, dash.Score.Overall)
	assert.Equal(t, 5, dash.ActiveEvents)
	assert.Equal(t, 2, dash.SeverityDistribution["high"])
}

func TestDashboardServesFallbackWhenBackendDown(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	dash := svc.Dashboard(context.Background())
	require.NotNil(t, dash)
	assert.NotZero(t, dash.Score.Overall)
	assert.NotEmpty(t, dash.RecentEvents)
}

func TestEventsServeFallbackWhenBackendDown(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	events := svc.Events(context.Background(), model.SeverityHigh, 10)
	assert.NotEmpty(t, events)
}

func TestEventFetchesByID(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/security/events/ev-1", r.URL.Path)
		w.Write([]byte(`{"id":"ev-1","severity":"high","status":"active"}`))
	})

	event, err := svc.Event(context.Background(), "ev-1")
	require.NoError(t, err)
	assert.Equal(t, "ev-1", event.ID)
	assert.Equal(t, model.SeverityHigh, event.Severity)
}

func TestResolveEventSendsStatusOnly(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		w.Write([]byte(`{"id":"ev-1","status":"resolved"}`))
	})

	require.NoError(t, svc.ResolveEvent(context.Background(), "ev-1"))

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/admin/security/events/ev-1", gotPath)
	assert.Equal(t, map[string]string{"status": "resolved"}, gotBody)
}

func TestCreateEventValidatesSeverity(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("server must not be called for invalid input")
	})

	_, err := svc.CreateEvent(context.Background(), model.CreateSecurityEventRequest{
		Type:        "failed_login",
		Severity:    "catastrophic",
		Description: "many failed logins",
	})
	require.Error(t, err)

	apiErr := apierrors.AsAPIError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, apierrors.ErrValidation, apiErr.Code)
}

func TestCreateEventSurfacesServerError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"insufficient permissions"}`))
	})

	_, err := svc.CreateEvent(context.Background(), model.CreateSecurityEventRequest{
		Type:        "failed_login",
		Severity:    model.SeverityHigh,
		Description: "many failed logins",
	})
	require.Error(t, err)

	// writes never substitute fallback data
	apiErr := apierrors.AsAPIError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "insufficient permissions", apiErr.Message)
}

func TestMockModeSkipsNetwork(t *testing.T) {
	called := false
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte(`{}`))
	})
	svc.SetMockMode(true)

	dash := svc.Dashboard(context.Background())
	sys := svc.System(context.Background())

	assert.False(t, called)
	require.NotNil(t, dash)
	require.NotNil(t, sys)
	assert.True(t, sys.TwoFactorEnabled)
}
