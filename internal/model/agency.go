package model

import "time"

// Agency status constants
const (
	AgencyStatusActive    = "active"
	AgencyStatusPending   = "pending"
	AgencyStatusSuspended = "suspended"
	AgencyStatusInactive  = "inactive"
)

// Agency size constants
const (
	AgencySizeSmall      = "Small"
	AgencySizeMedium     = "Medium"
	AgencySizeLarge      = "Large"
	AgencySizeEnterprise = "Enterprise"
)

// Agency plan constants
const (
	AgencyPlanBasic      = "BASIC"
	AgencyPlanPro        = "PRO"
	AgencyPlanEnterprise = "ENTERPRISE"
	AgencyPlanCustom     = "CUSTOM"
)

// Agency is the client-side representation of a tenant organization. The
// server is authoritative; status transitions are only ever requested and
// reconciled from the response, never computed locally.
type Agency struct {
	ID              string         `json:"_id"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Industry        string         `json:"industry"`
	Size            string         `json:"size"`
	Status          string         `json:"status"`
	ContactEmail    string         `json:"contactEmail"`
	ContactPhone    string         `json:"contactPhone"`
	Website         string         `json:"website"`
	Specializations []string       `json:"specializations"`
	Locations       []string       `json:"locations"`
	Address         AgencyAddress  `json:"address"`
	PrimaryContact  AgencyContact  `json:"primaryContact"`
	Metrics         AgencyMetrics  `json:"metrics"`
	Billing         AgencyBilling  `json:"billing"`
	Features        AgencyFeatures `json:"features"`
	Trial           AgencyTrial    `json:"trial"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

type AgencyAddress struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country" validate:"required"`
}

type AgencyContact struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,phone"`
	Position string `json:"position,omitempty"`
}

type AgencyMetrics struct {
	UserCount         int     `json:"userCount"`
	ActiveUserCount   int     `json:"activeUserCount"`
	RevenueMonthly    float64 `json:"revenueMonthly"`
	TotalPlacements   int     `json:"totalPlacements"`
	ClientCount       int     `json:"clientCount"`
	WorkerCount       int     `json:"workerCount"`
	JobsPosted        int     `json:"jobsPosted"`
	FillRate          float64 `json:"fillRate"`
	SatisfactionScore float64 `json:"satisfactionScore"`
}

type AgencyBilling struct {
	Plan     string    `json:"plan"`
	Amount   float64   `json:"amount"`
	Currency string    `json:"currency"`
	Invoices []JSONMap `json:"invoices"`
}

type AgencyFeatures struct {
	EnabledFeatures []string `json:"enabledFeatures"`
	Integrations    []string `json:"integrations"`
}

type AgencyTrial struct {
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	IsConverted bool      `json:"isConverted"`
}

// AgencyStats holds aggregate counters for the agencies list view.
type AgencyStats struct {
	TotalAgencies     int            `json:"total_agencies"`
	ActiveAgencies    int            `json:"active_agencies"`
	PendingAgencies   int            `json:"pending_agencies"`
	SuspendedAgencies int            `json:"suspended_agencies"`
	TotalRevenue      float64        `json:"total_revenue"`
	RevenueGrowth     float64        `json:"revenue_growth"`
	ByIndustry        map[string]int `json:"by_industry"`
	BySize            map[string]int `json:"by_size"`
}

// CreateAgencyRequest represents agency creation parameters. Website is a bare
// subdomain slug; the agency service expands it to a full URL before sending.
type CreateAgencyRequest struct {
	Name            string        `json:"name" validate:"required"`
	Description     string        `json:"description" validate:"required"`
	Industry        string        `json:"industry" validate:"required"`
	Size            string        `json:"size" validate:"required,oneof=Small Medium Large Enterprise"`
	ContactEmail    string        `json:"contactEmail" validate:"required,email"`
	ContactPhone    string        `json:"contactPhone" validate:"required,phone"`
	Website         string        `json:"website" validate:"required,subdomain"`
	Status          string        `json:"status" validate:"required,oneof=active pending suspended inactive"`
	Address         AgencyAddress `json:"address" validate:"required"`
	PrimaryContact  AgencyContact `json:"primaryContact" validate:"required"`
	Specializations []string      `json:"specializations" validate:"required,min=1"`
	Plan            string        `json:"plan,omitempty" validate:"omitempty,oneof=BASIC PRO ENTERPRISE CUSTOM"`
	PlanPrice       float64       `json:"planPrice,omitempty"`
	Features        []string      `json:"features,omitempty"`
}

// UpdateAgencyRequest represents agency update parameters
type UpdateAgencyRequest struct {
	Name            *string         `json:"name,omitempty"`
	Description     *string         `json:"description,omitempty"`
	Industry        *string         `json:"industry,omitempty"`
	Size            *string         `json:"size,omitempty" validate:"omitempty,oneof=Small Medium Large Enterprise"`
	ContactEmail    *string         `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone    *string         `json:"contactPhone,omitempty" validate:"omitempty,phone"`
	Status          *string         `json:"status,omitempty" validate:"omitempty,oneof=active pending suspended inactive"`
	Address         *AgencyAddress  `json:"address,omitempty"`
	PrimaryContact  *AgencyContact  `json:"primaryContact,omitempty"`
	Specializations []string        `json:"specializations,omitempty"`
	Settings        *AgencySettings `json:"settings,omitempty"`
}

type AgencySettings struct {
	NotificationsEnabled *bool `json:"notifications_enabled,omitempty"`
	AutoApproval         *bool `json:"auto_approval,omitempty"`
	CustomBranding       *bool `json:"custom_branding,omitempty"`
}

// AgencyFilters represents agency list search parameters. Only non-empty
// fields are serialized into the query string.
type AgencyFilters struct {
	Search         string `json:"search,omitempty"`
	Status         string `json:"status,omitempty"`
	Industry       string `json:"industry,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	Size           string `json:"size,omitempty"`
	Plan           string `json:"plan,omitempty"`
	Page           int    `json:"page,omitempty"`
	Limit          int    `json:"limit,omitempty"`
	SortBy         string `json:"sort_by,omitempty"`
	SortOrder      string `json:"sort_order,omitempty"`
}

// AgencyPage is one page of the agencies list.
type AgencyPage struct {
	Agencies []Agency
	Meta     PageMeta
}

// AgencyBranding holds white-label settings pushed via the branding endpoint.
type AgencyBranding struct {
	LogoURL        string            `json:"logo_url,omitempty"`
	PrimaryColor   string            `json:"primary_color,omitempty"`
	SecondaryColor string            `json:"secondary_color,omitempty"`
	AccentColor    string            `json:"accent_color,omitempty"`
	FontFamily     string            `json:"font_family,omitempty"`
	FaviconURL     string            `json:"favicon_url,omitempty"`
	MetaTitle      string            `json:"meta_title,omitempty"`
	SocialLinks    map[string]string `json:"social_links,omitempty"`
}

// Agency feature keys
const (
	FeatureCustomDomain      = "custom_domain"
	FeatureAdvancedAnalytics = "advanced_analytics"
	FeatureWhiteLabel        = "white_label"
	FeatureAPIAccess         = "api_access"
	FeatureBulkImport        = "bulk_import"
	FeatureCustomWorkflows   = "custom_workflows"
	FeatureMultiCurrency     = "multi_currency"
	FeatureMultiLanguage     = "multi_language"
	FeatureSSO               = "sso"
	FeatureAuditLogs         = "audit_logs"
)

// AgencyRevenue is the per-agency revenue snapshot used by the dashboard.
type AgencyRevenue struct {
	AgencyID       string           `json:"agencyId"`
	AgencyName     string           `json:"agencyName"`
	Status         string           `json:"status"`
	TotalRevenue   float64          `json:"totalRevenue"`
	MonthlyRevenue float64          `json:"monthlyRevenue"`
	RevenueHistory []MonthlyRevenue `json:"revenueHistory"`
	Metrics        AgencyJobMetrics `json:"metrics"`
}

type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

type AgencyJobMetrics struct {
	TotalJobs        int     `json:"totalJobs"`
	ActiveJobs       int     `json:"activeJobs"`
	TotalCandidates  int     `json:"totalCandidates"`
	ActiveCandidates int     `json:"activeCandidates"`
	AverageJobValue  float64 `json:"averageJobValue"`
	SuccessRate      float64 `json:"successRate"`
}
