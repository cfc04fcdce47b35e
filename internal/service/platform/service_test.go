package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upstic/admin-console/internal/model"
	"github.com/upstic/admin-console/pkg/httpclient"
	"github.com/upstic/admin-console/pkg/logger"
	"github.com/upstic/admin-console/pkg/metrics"
)

type noTokens struct{}

func (noTokens) Token() string { return "" }

type staticScores struct{ overall int }

func (s staticScores) Score(ctx context.Context) *model.SecurityScore {
	return &model.SecurityScore{Overall: s.overall, LastUpdated: time.Now()}
}

func newTestService(t *testing.T, handler http.HandlerFunc, scores ScoreProvider) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	m := metrics.NewMetrics("test_platform_" + t.Name())
	client := httpclient.New(httpclient.Config{BaseURL: srv.URL}, noTokens{},
		logger.NewLogger(nil), m)
	return NewService(client, logger.NewLogger(nil), m, scores)
}

func featuresPayload() []byte {
	return []byte(`{"features":[
		{"id":"f-1","name":"AI Matching","feature_key":"ai_matching","is_enabled":true},
		{"id":"f-2","name":"Compliance Alerts","feature_key":"compliance_alerts","is_enabled":false},
		{"id":"f-3","name":"Timesheets","feature_key":"timesheets","is_enabled":true}
	]}`)
}

func TestFeaturesDecodesList(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(featuresPayload())
	}, staticScores{overall: 85})

	features := svc.Features(context.Background())
	require.Len(t, features, 3)
	assert.Equal(t, "ai_matching", features[0].FeatureKey)
	assert.True(t, features[0].IsEnabled)
}

func TestFeaturesServeFallbackWhenBackendDown(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, staticScores{overall: 85})

	features := svc.Features(context.Background())
	assert.NotEmpty(t, features)
}

func TestFeatureStatsPrefersServerCounters(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/features/stats", r.URL.Path)
		w.Write([]byte(`{"total_features":7,"enabled_features":5,"disabled_features":2}`))
	}, staticScores{overall: 85})

	stats := svc.FeatureStats(context.Background())
	assert.Equal(t, 7, stats.TotalFeatures)
	assert.Equal(t, 5, stats.EnabledFeatures)
	assert.Equal(t, 2, stats.DisabledFeatures)
}

func TestFeatureStatsDerivedWhenStatsEndpointDown(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/admin/features/stats" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write(featuresPayload())
	}, staticScores{overall: 85})

	stats := svc.FeatureStats(context.Background())
	assert.Equal(t, 3, stats.TotalFeatures)
	assert.Equal(t, 2, stats.EnabledFeatures)
	assert.Equal(t, 1, stats.DisabledFeatures)
}

func TestMetricsComposesFeaturesAndScore(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(featuresPayload())
	}, staticScores{overall: 91})

	m := svc.Metrics(context.Background())
	assert.Equal(t, 2, m.ActiveFeatures)
	assert.Equal(t, 3, m.TotalFeatures)
	assert.Equal(t, 91, m.SecurityScore)
}

func TestToggleFeatureSendsMinimalPatch(t *testing.T) {
	var gotMethod, gotPath string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte(`{"id":"f-1","is_enabled":false}`))
	}, staticScores{overall: 85})

	feature, err := svc.ToggleFeature(context.Background(), "f-1", false)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/admin/features/f-1", gotPath)
	assert.False(t, feature.IsEnabled)
}
