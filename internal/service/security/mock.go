package security

import (
	"time"

	"github.com/upstic/admin-console/internal/model"
)

// Representative payloads served while the security backend is degraded.
// Kept intentionally plausible so dashboards render normally.

func mockScore() *model.SecurityScore {
	return &model.SecurityScore{
		Overall:        85,
		Authentication: 90,
		DataProtection: 85,
		APISecurity:    80,
		UserSecurity:   85,
		SystemSecurity: 85,
		LastUpdated:    time.Now().UTC(),
	}
}

func mockEvents() []model.SecurityEvent {
	now := time.Now().UTC()
	return []model.SecurityEvent{
		{
			ID:          "mock-evt-1",
			Type:        "failed_login",
			Severity:    model.SeverityMedium,
			Description: "Multiple failed login attempts",
			UserEmail:   "admin@upstic.com",
			IPAddress:   "192.168.1.24",
			CreatedAt:   now.Add(-2 * time.Hour),
			UpdatedAt:   now.Add(-2 * time.Hour),
		},
		{
			ID:          "mock-evt-2",
			Type:        "permission_change",
			Severity:    model.SeverityLow,
			Description: "User role updated",
			UserEmail:   "manager@upstic.com",
			IPAddress:   "10.0.0.5",
			CreatedAt:   now.Add(-6 * time.Hour),
			UpdatedAt:   now.Add(-6 * time.Hour),
		},
		{
			ID:          "mock-evt-3",
			Type:        "suspicious_activity",
			Severity:    model.SeverityHigh,
			Description: "Unusual API usage pattern detected",
			IPAddress:   "203.0.113.42",
			CreatedAt:   now.Add(-24 * time.Hour),
			UpdatedAt:   now.Add(-24 * time.Hour),
		},
	}
}

func mockDashboard() *model.SecurityDashboard {
	events := mockEvents()
	trend := make([]model.EventsTrend, 0, 7)
	for i := 6; i >= 0; i-- {
		trend = append(trend, model.EventsTrend{
			Date:  time.Now().UTC().AddDate(0, 0, -i).Format("2006-01-02"),
			Count: (i*3)%5 + 1,
		})
	}

	return &model.SecurityDashboard{
		Score:        *mockScore(),
		ActiveEvents: len(events),
		SeverityDistribution: map[string]int{
			model.SeverityLow:      1,
			model.SeverityMedium:   1,
			model.SeverityHigh:     1,
			model.SeverityCritical: 0,
		},
		TypeDistribution: map[string]int{
			"failed_login":        1,
			"permission_change":   1,
			"suspicious_activity": 1,
		},
		RecentEvents: events,
		EventsTrend:  trend,
	}
}

func mockSystem() *model.SecuritySystem {
	return &model.SecuritySystem{
		TwoFactorEnabled: true,
		PasswordPolicy: model.PasswordPolicy{
			MinLength:           12,
			RequireUppercase:    true,
			RequireLowercase:    true,
			RequireNumbers:      true,
			RequireSpecialChars: true,
			MaxAge:              90,
		},
		SessionPolicy: model.SessionPolicy{
			MaxConcurrentSessions: 3,
			SessionTimeout:        30,
			RequireReauth:         true,
		},
		IPWhitelist:       []string{},
		LastSecurityAudit: time.Now().UTC().AddDate(0, -1, 0),
	}
}
