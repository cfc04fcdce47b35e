package model

import "time"

// System health statuses
const (
	HealthStatusHealthy  = "healthy"
	HealthStatusWarning  = "warning"
	HealthStatusCritical = "critical"
)

// DashboardMetrics is the flattened platform overview. The wire shape nests
// these under overview/userMetrics/revenueMetrics; the dashboard service
// flattens them.
type DashboardMetrics struct {
	TotalAgencies    int              `json:"totalAgencies"`
	ActiveAgencies   int              `json:"activeAgencies"`
	TotalUsers       int              `json:"totalUsers"`
	ActiveUsers      int              `json:"activeUsers"`
	TotalRevenue     float64          `json:"totalRevenue"`
	MonthlyRevenue   float64          `json:"monthlyRevenue"`
	TotalJobs        int              `json:"totalJobs"`
	ActiveJobs       int              `json:"activeJobs"`
	TotalCandidates  int              `json:"totalCandidates"`
	ActiveCandidates int              `json:"activeCandidates"`
	SystemHealth     SystemHealth     `json:"systemHealth"`
	RecentActivity   []ActivityRecord `json:"recentActivity"`
}

type SystemHealth struct {
	Status       string     `json:"status"`
	Uptime       float64    `json:"uptime"`
	LastIncident *time.Time `json:"lastIncident,omitempty"`
	ActiveAlerts int        `json:"activeAlerts"`
}

type ActivityRecord struct {
	Type        string    `json:"type"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Metadata    JSONMap   `json:"metadata,omitempty"`
}
