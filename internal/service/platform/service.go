package platform

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/upstic/admin-console/internal/model"
	"github.com/upstic/admin-console/internal/validate"
	"github.com/upstic/admin-console/pkg/fallback"
	"github.com/upstic/admin-console/pkg/httpclient"
	"github.com/upstic/admin-console/pkg/logger"
	"github.com/upstic/admin-console/pkg/metrics"
)

// ScoreProvider supplies the current security score for the composed
// platform metrics view.
type ScoreProvider interface {
	Score(ctx context.Context) *model.SecurityScore
}

// Service wraps the platform feature-flag and settings endpoints. The
// feature list read degrades to a representative default set when the
// backend is unreachable; writes always surface their errors.
type Service struct {
	client *httpclient.Client
	logger *logger.Logger
	scores ScoreProvider

	features *fallback.Reader[[]model.FeatureToggle]
}

func NewService(client *httpclient.Client, log *logger.Logger, m *metrics.Metrics, scores ScoreProvider) *Service {
	log = log.WithComponent("platform")
	return &Service{
		client:   client,
		logger:   log,
		scores:   scores,
		features: fallback.NewReader("platform_features", log, m, mockFeatures),
	}
}

// SetMockMode forces the feature list to serve its fallback payload
// without touching the network.
func (s *Service) SetMockMode(on bool) {
	s.features.Force(on)
}

// Features lists all feature flags. Never fails; serves a default set when
// the backend is down.
func (s *Service) Features(ctx context.Context) []model.FeatureToggle {
	return s.features.Fetch(func() ([]model.FeatureToggle, error) {
		resp, err := s.client.Get(ctx, "/admin/features")
		if err != nil {
			return nil, err
		}

		var wire struct {
			Features []model.FeatureToggle `json:"features"`
		}
		if err := resp.Decode(&wire); err != nil {
			return nil, err
		}
		return wire.Features, nil
	})
}

// CreateFeature registers a new feature flag.
func (s *Service) CreateFeature(ctx context.Context, req model.CreateFeatureRequest) (*model.FeatureToggle, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	resp, err := s.client.Post(ctx, "/admin/features", req)
	if err != nil {
		return nil, err
	}

	var feature model.FeatureToggle
	if err := resp.Decode(&feature); err != nil {
		return nil, err
	}
	return &feature, nil
}

// UpdateFeature updates a feature flag's fields.
func (s *Service) UpdateFeature(ctx context.Context, id string, req model.UpdateFeatureRequest) (*model.FeatureToggle, error) {
	resp, err := s.client.Put(ctx, "/admin/features/"+id, req)
	if err != nil {
		return nil, err
	}

	var feature model.FeatureToggle
	if err := resp.Decode(&feature); err != nil {
		return nil, err
	}
	return &feature, nil
}

// ToggleFeature flips a feature flag's enabled state with a minimal body.
func (s *Service) ToggleFeature(ctx context.Context, id string, enabled bool) (*model.FeatureToggle, error) {
	resp, err := s.client.Patch(ctx, "/admin/features/"+id, map[string]bool{"is_enabled": enabled})
	if err != nil {
		return nil, err
	}

	var feature model.FeatureToggle
	if err := resp.Decode(&feature); err != nil {
		return nil, err
	}
	return &feature, nil
}

// DeleteFeature removes a feature flag.
func (s *Service) DeleteFeature(ctx context.Context, id string) error {
	_, err := s.client.Delete(ctx, "/admin/features/"+id)
	return err
}

// FeatureStats fetches adoption counters from the server; when the call
// fails the counters are derived from the (possibly fallback) feature list
// so the tiles keep rendering.
func (s *Service) FeatureStats(ctx context.Context) model.FeatureToggleStats {
	resp, err := s.client.Get(ctx, "/admin/features/stats")
	if err == nil {
		var stats model.FeatureToggleStats
		if err := resp.Decode(&stats); err == nil {
			return stats
		}
	}

	features := s.Features(ctx)
	stats := model.FeatureToggleStats{TotalFeatures: len(features)}
	for _, f := range features {
		if f.IsEnabled {
			stats.EnabledFeatures++
		}
	}
	stats.DisabledFeatures = stats.TotalFeatures - stats.EnabledFeatures
	return stats
}

// Metrics composes the platform overview from the feature list and the
// security score, fetched concurrently. Both sources degrade independently,
// so the composition itself cannot fail.
func (s *Service) Metrics(ctx context.Context) model.PlatformMetrics {
	var (
		features []model.FeatureToggle
		score    *model.SecurityScore
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		features = s.Features(gctx)
		return nil
	})
	g.Go(func() error {
		score = s.scores.Score(gctx)
		return nil
	})
	_ = g.Wait()

	active := 0
	for _, f := range features {
		if f.IsEnabled {
			active++
		}
	}

	return model.PlatformMetrics{
		ActiveFeatures: active,
		TotalFeatures:  len(features),
		SecurityScore:  score.Overall,
		APIUsage: model.APIUsage{
			Current:    0,
			Limit:      10000,
			Percentage: 0,
		},
	}
}

// Settings fetches the global console configuration.
func (s *Service) Settings(ctx context.Context) (*model.PlatformSettings, error) {
	resp, err := s.client.Get(ctx, "/admin/platform/settings")
	if err != nil {
		return nil, err
	}

	var settings model.PlatformSettings
	if err := resp.Decode(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings replaces the global console configuration.
func (s *Service) UpdateSettings(ctx context.Context, settings model.PlatformSettings) (*model.PlatformSettings, error) {
	resp, err := s.client.Put(ctx, "/admin/platform/settings", settings)
	if err != nil {
		return nil, err
	}

	var updated model.PlatformSettings
	if err := resp.Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func mockFeatures() []model.FeatureToggle {
	now := time.Now().UTC()
	return []model.FeatureToggle{
		{ID: "mock-feat-1", Name: "AI Matching", Description: "AI-powered candidate matching", FeatureKey: "ai_matching", IsEnabled: true, CreatedAt: now, UpdatedAt: now},
		{ID: "mock-feat-2", Name: "Timesheet Approvals", Description: "Two-step timesheet approval flow", FeatureKey: "timesheet_approvals", IsEnabled: true, CreatedAt: now, UpdatedAt: now},
		{ID: "mock-feat-3", Name: "Compliance Alerts", Description: "Expiring document notifications", FeatureKey: "compliance_alerts", IsEnabled: false, CreatedAt: now, UpdatedAt: now},
	}
}
