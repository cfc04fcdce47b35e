package dashboard

import (
	"context"
	"net/url"

	"github.com/upstic/admin-console/internal/model"
	"github.com/upstic/admin-console/pkg/fallback"
	"github.com/upstic/admin-console/pkg/httpclient"
	"github.com/upstic/admin-console/pkg/logger"
	"github.com/upstic/admin-console/pkg/metrics"
)

// Service wraps the platform overview endpoints. The server nests metrics
// under overview/userMetrics/revenueMetrics; this service flattens them into
// the shape the console renders. Reads degrade to representative fallback
// data when the backend is unreachable.
type Service struct {
	client *httpclient.Client
	logger *logger.Logger

	metricsReader *fallback.Reader[*model.DashboardMetrics]
	revenueReader *fallback.Reader[[]model.AgencyRevenue]
}

func NewService(client *httpclient.Client, log *logger.Logger, m *metrics.Metrics) *Service {
	log = log.WithComponent("dashboard")
	return &Service{
		client:        client,
		logger:        log,
		metricsReader: fallback.NewReader("dashboard_metrics", log, m, mockMetrics),
		revenueReader: fallback.NewReader("dashboard_revenue", log, m, mockRevenue),
	}
}

// SetMockMode forces every read to serve its fallback payload without
// touching the network.
func (s *Service) SetMockMode(on bool) {
	s.metricsReader.Force(on)
	s.revenueReader.Force(on)
}

// metricsWire is the server's nested metrics payload.
type metricsWire struct {
	Overview struct {
		TotalAgencies    int `json:"totalAgencies"`
		ActiveAgencies   int `json:"activeAgencies"`
		TotalJobs        int `json:"totalJobs"`
		ActiveJobs       int `json:"activeJobs"`
		TotalCandidates  int `json:"totalCandidates"`
		ActiveCandidates int `json:"activeCandidates"`
	} `json:"overview"`
	UserMetrics struct {
		TotalUsers  int `json:"totalUsers"`
		ActiveUsers int `json:"activeUsers"`
	} `json:"userMetrics"`
	RevenueMetrics struct {
		TotalRevenue   float64 `json:"totalRevenue"`
		MonthlyRevenue float64 `json:"monthlyRevenue"`
	} `json:"revenueMetrics"`
	SystemHealth   model.SystemHealth     `json:"systemHealth"`
	RecentActivity []model.ActivityRecord `json:"recentActivity"`
}

// Metrics fetches and flattens the platform overview. Never fails; serves
// fallback data when the backend is down.
func (s *Service) Metrics(ctx context.Context) *model.DashboardMetrics {
	return s.metricsReader.Fetch(func() (*model.DashboardMetrics, error) {
		resp, err := s.client.Get(ctx, "/admin/dashboard/metrics")
		if err != nil {
			return nil, err
		}

		var wire metricsWire
		if err := resp.Decode(&wire); err != nil {
			return nil, err
		}

		return &model.DashboardMetrics{
			TotalAgencies:    wire.Overview.TotalAgencies,
			ActiveAgencies:   wire.Overview.ActiveAgencies,
			TotalUsers:       wire.UserMetrics.TotalUsers,
			ActiveUsers:      wire.UserMetrics.ActiveUsers,
			TotalRevenue:     wire.RevenueMetrics.TotalRevenue,
			MonthlyRevenue:   wire.RevenueMetrics.MonthlyRevenue,
			TotalJobs:        wire.Overview.TotalJobs,
			ActiveJobs:       wire.Overview.ActiveJobs,
			TotalCandidates:  wire.Overview.TotalCandidates,
			ActiveCandidates: wire.Overview.ActiveCandidates,
			SystemHealth:     wire.SystemHealth,
			RecentActivity:   wire.RecentActivity,
		}, nil
	})
}

// revenueEntryWire is one agency's revenue row in the dashboard payload.
type revenueEntryWire struct {
	AgencyID       string  `json:"agencyId"`
	AgencyName     string  `json:"agencyName"`
	Status         string  `json:"status"`
	AnnualRevenue  float64 `json:"annualRevenue"`
	MonthlyRevenue float64 `json:"monthlyRevenue"`
}

// Revenue fetches per-agency revenue for the given period (month, quarter,
// or year). Never fails; serves fallback data when the backend is down.
func (s *Service) Revenue(ctx context.Context, period string) []model.AgencyRevenue {
	return s.revenueReader.Fetch(func() ([]model.AgencyRevenue, error) {
		path := "/admin/dashboard/agencies/revenue"
		if period != "" {
			path += "?period=" + url.QueryEscape(period)
		}

		resp, err := s.client.Get(ctx, path)
		if err != nil {
			return nil, err
		}

		var wire struct {
			Agencies []revenueEntryWire `json:"agencies"`
		}
		if err := resp.Decode(&wire); err != nil {
			return nil, err
		}

		revenues := make([]model.AgencyRevenue, 0, len(wire.Agencies))
		for _, entry := range wire.Agencies {
			status := entry.Status
			if status == "" {
				status = model.AgencyStatusActive
			}
			revenues = append(revenues, model.AgencyRevenue{
				AgencyID:       entry.AgencyID,
				AgencyName:     entry.AgencyName,
				Status:         status,
				TotalRevenue:   entry.AnnualRevenue,
				MonthlyRevenue: entry.MonthlyRevenue,
				RevenueHistory: []model.MonthlyRevenue{},
			})
		}
		return revenues, nil
	})
}
