package model

import "time"

const (
	// Action types
	AuditActionCreate   = "create"
	AuditActionUpdate   = "update"
	AuditActionDelete   = "delete"
	AuditActionSuspend  = "suspend"
	AuditActionActivate = "activate"
	AuditActionLogin    = "login"
	AuditActionLogout   = "logout"

	// Entity types
	AuditEntityAgency   = "agency"
	AuditEntityUser     = "user"
	AuditEntityFeature  = "feature"
	AuditEntitySecurity = "security"
)

// AuditLog is an immutable administrative event record. Logs are created by
// the server in response to admin actions; the client only appends manual
// entries and reads.
type AuditLog struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId,omitempty"`
	UserEmail  string    `json:"userEmail,omitempty"`
	UserRole   string    `json:"userRole,omitempty"`
	ActionType string    `json:"actionType"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId,omitempty"`
	Details    JSONMap   `json:"details,omitempty"`
	IPAddress  string    `json:"ipAddress,omitempty"`
	UserAgent  string    `json:"userAgent,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// AuditLogStats holds aggregate distributions for the audit view.
type AuditLogStats struct {
	TotalLogs              int            `json:"totalLogs"`
	ActionTypeDistribution map[string]int `json:"actionTypeDistribution"`
	EntityTypeDistribution map[string]int `json:"entityTypeDistribution"`
	UserActivity           map[string]int `json:"userActivityDistribution"`
	RecentActivity         []AuditLog     `json:"recentActivity"`
}

// AuditLogFilters represents audit list search parameters
type AuditLogFilters struct {
	UserID     string `json:"userId,omitempty"`
	UserEmail  string `json:"userEmail,omitempty"`
	ActionType string `json:"actionType,omitempty"`
	EntityType string `json:"entityType,omitempty"`
	EntityID   string `json:"entityId,omitempty"`
	StartDate  string `json:"startDate,omitempty"`
	EndDate    string `json:"endDate,omitempty"`
	Search     string `json:"search,omitempty"`
	Page       int    `json:"page,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

// AuditLogPage is one page of audit logs.
type AuditLogPage struct {
	Logs []AuditLog
	Meta PageMeta
}

// AuditCatalogEntry is a selectable action or entity type for filter menus.
type AuditCatalogEntry struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// CreateAuditLogRequest represents a client-initiated manual audit entry.
type CreateAuditLogRequest struct {
	ActionType string  `json:"actionType" validate:"required"`
	EntityType string  `json:"entityType" validate:"required"`
	EntityID   string  `json:"entityId,omitempty"`
	Details    JSONMap `json:"details,omitempty"`
}
