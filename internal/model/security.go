package model

import "time"

// Security event severities
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// SecurityEvent is a server-recorded security occurrence.
type SecurityEvent struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
	UserID      string    `json:"userId,omitempty"`
	UserEmail   string    `json:"userEmail,omitempty"`
	IPAddress   string    `json:"ipAddress,omitempty"`
	UserAgent   string    `json:"userAgent,omitempty"`
	Metadata    JSONMap   `json:"metadata,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SecurityScore is the server-computed posture breakdown.
type SecurityScore struct {
	Overall        int       `json:"overall"`
	Authentication int       `json:"authentication"`
	DataProtection int       `json:"dataProtection"`
	APISecurity    int       `json:"apiSecurity"`
	UserSecurity   int       `json:"userSecurity"`
	SystemSecurity int       `json:"systemSecurity"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// SecurityDashboard is the read-mostly security posture snapshot.
type SecurityDashboard struct {
	Score                SecurityScore   `json:"securityScore"`
	ActiveEvents         int             `json:"activeEvents"`
	SeverityDistribution map[string]int  `json:"severityDistribution"`
	TypeDistribution     map[string]int  `json:"typeDistribution"`
	RecentEvents         []SecurityEvent `json:"recentEvents"`
	EventsTrend          []EventsTrend   `json:"eventsTrend"`
}

type EventsTrend struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// SecuritySystem holds editable platform security policy.
type SecuritySystem struct {
	TwoFactorEnabled  bool           `json:"twoFactorEnabled"`
	PasswordPolicy    PasswordPolicy `json:"passwordPolicy"`
	SessionPolicy     SessionPolicy  `json:"sessionPolicy"`
	IPWhitelist       []string       `json:"ipWhitelist"`
	LastSecurityAudit time.Time      `json:"lastSecurityAudit"`
}

type PasswordPolicy struct {
	MinLength           int  `json:"minLength"`
	RequireUppercase    bool `json:"requireUppercase"`
	RequireLowercase    bool `json:"requireLowercase"`
	RequireNumbers      bool `json:"requireNumbers"`
	RequireSpecialChars bool `json:"requireSpecialChars"`
	MaxAge              int  `json:"maxAge"`
}

type SessionPolicy struct {
	MaxConcurrentSessions int  `json:"maxConcurrentSessions"`
	SessionTimeout        int  `json:"sessionTimeout"`
	RequireReauth         bool `json:"requireReauth"`
}

// CreateSecurityEventRequest represents a manual security event entry.
type CreateSecurityEventRequest struct {
	Type        string  `json:"type" validate:"required"`
	Severity    string  `json:"severity" validate:"required,oneof=low medium high critical"`
	Description string  `json:"description" validate:"required"`
	Metadata    JSONMap `json:"metadata,omitempty"`
}
