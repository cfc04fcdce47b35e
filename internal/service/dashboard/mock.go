package dashboard

import (
	"time"

	"github.com/upstic/admin-console/internal/model"
)

// Representative payloads served while the dashboard backend is degraded.

func mockMetrics() *model.DashboardMetrics {
	return &model.DashboardMetrics{
		TotalAgencies:    42,
		ActiveAgencies:   38,
		TotalUsers:       1250,
		ActiveUsers:      980,
		TotalRevenue:     1_250_000,
		MonthlyRevenue:   104_000,
		TotalJobs:        320,
		ActiveJobs:       145,
		TotalCandidates:  4800,
		ActiveCandidates: 2100,
		SystemHealth: model.SystemHealth{
			Status:       model.HealthStatusHealthy,
			Uptime:       99.95,
			ActiveAlerts: 0,
		},
		RecentActivity: []model.ActivityRecord{
			{
				Type:        "agency",
				Action:      "create",
				Description: "New agency onboarded",
				Timestamp:   time.Now().UTC().Add(-1 * time.Hour),
			},
			{
				Type:        "user",
				Action:      "login",
				Description: "Admin signed in",
				Timestamp:   time.Now().UTC().Add(-3 * time.Hour),
			},
		},
	}
}

func mockRevenue() []model.AgencyRevenue {
	return []model.AgencyRevenue{
		{
			AgencyID:       "mock-agency-1",
			AgencyName:     "CareFirst Staffing",
			Status:         model.AgencyStatusActive,
			TotalRevenue:   480_000,
			MonthlyRevenue: 40_000,
			RevenueHistory: []model.MonthlyRevenue{},
		},
		{
			AgencyID:       "mock-agency-2",
			AgencyName:     "MedLink Recruitment",
			Status:         model.AgencyStatusActive,
			TotalRevenue:   360_000,
			MonthlyRevenue: 30_000,
			RevenueHistory: []model.MonthlyRevenue{},
		},
	}
}
