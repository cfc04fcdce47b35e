package orchestrator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upstic/admin-console/internal/service/dashboard"
	"github.com/upstic/admin-console/pkg/httpclient"
	"github.com/upstic/admin-console/pkg/logger"
	"github.com/upstic/admin-console/pkg/metrics"
)

func newTestDashboard(t *testing.T, handler http.HandlerFunc, interval time.Duration) *Dashboard {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	m := metrics.NewMetrics("test_orch_dashboard_" + t.Name())
	client := httpclient.New(httpclient.Config{BaseURL: srv.URL}, noTokens{},
		logger.NewLogger(nil), m)
	svc := dashboard.NewService(client, logger.NewLogger(nil), m)
	return NewDashboard(svc, logger.NewLogger(nil), m, interval)
}

func dashboardHandler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/admin/dashboard/metrics":
		w.Write([]byte(`{
			"overview": {"totalAgencies": 42, "activeAgencies": 38},
			"userMetrics": {"totalUsers": 1250, "activeUsers": 980},
			"revenueMetrics": {"totalRevenue": 1250000, "monthlyRevenue": 104000},
			"systemHealth": {"status": "healthy", "uptime": 99.95}
		}`))
	case "/admin/dashboard/agencies/revenue":
		w.Write([]byte(`{"agencies":[{"agencyId":"ag-1","agencyName":"CareFirst","annualRevenue":480000,"monthlyRevenue":40000}]}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestRefreshFlattensAndCommits(t *testing.T) {
	o := newTestDashboard(t, dashboardHandler, time.Hour)

	o.Refresh(context.Background())
	snap := o.Snapshot()

	require.NotNil(t, snap.Metrics)
	assert.Equal(t, 42, snap.Metrics.TotalAgencies)
	assert.Equal(t, 1250, snap.Metrics.TotalUsers)
	assert.Equal(t, float64(104000), snap.Metrics.MonthlyRevenue)
	assert.Equal(t, "healthy", snap.Metrics.SystemHealth.Status)

	require.Len(t, snap.Revenue, 1)
	assert.Equal(t, "CareFirst", snap.Revenue[0].AgencyName)
	assert.Equal(t, float64(480000), snap.Revenue[0].TotalRevenue)
	assert.False(t, snap.LastUpdated.IsZero())
}

func TestRefreshServesFallbackWhenBackendDown(t *testing.T) {
	o := newTestDashboard(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, time.Hour)

	o.Refresh(context.Background())
	snap := o.Snapshot()

	// degraded reads still render
	require.NotNil(t, snap.Metrics)
	assert.NotZero(t, snap.Metrics.TotalAgencies)
	assert.NotEmpty(t, snap.Revenue)
}

func TestRunPollsAndStops(t *testing.T) {
	o := newTestDashboard(t, dashboardHandler, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go o.Run(ctx)

	assert.Eventually(t, func() bool {
		return o.Snapshot().Metrics != nil
	}, time.Second, 5*time.Millisecond)

	first := o.Snapshot().LastUpdated
	assert.Eventually(t, func() bool {
		return o.Snapshot().LastUpdated.After(first)
	}, time.Second, 5*time.Millisecond)

	o.Close()

	stopped := o.Snapshot().LastUpdated
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, o.Snapshot().LastUpdated)
}

func TestCloseWithoutRunDoesNotBlock(t *testing.T) {
	o := newTestDashboard(t, dashboardHandler, time.Hour)

	done := make(chan struct{})
	go func() {
		o.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close blocked without a running poller")
	}
}
