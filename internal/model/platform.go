package model

import "time"

// FeatureToggle is a platform-level feature flag.
type FeatureToggle struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	FeatureKey  string    `json:"feature_key"`
	IsEnabled   bool      `json:"is_enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FeatureToggleStats holds aggregate feature adoption counters.
type FeatureToggleStats struct {
	TotalFeatures    int `json:"total_features"`
	EnabledFeatures  int `json:"enabled_features"`
	DisabledFeatures int `json:"disabled_features"`
}

// PlatformMetrics is composed client-side from the feature list and the
// security score.
type PlatformMetrics struct {
	ActiveFeatures int      `json:"activeFeatures"`
	TotalFeatures  int      `json:"totalFeatures"`
	SecurityScore  int      `json:"securityScore"`
	APIUsage       APIUsage `json:"apiUsage"`
}

type APIUsage struct {
	Current    int     `json:"current"`
	Limit      int     `json:"limit"`
	Percentage float64 `json:"percentage"`
}

// PlatformSettings holds global console configuration values.
type PlatformSettings struct {
	PlatformName    string `json:"platformName"`
	DefaultCurrency string `json:"defaultCurrency"`
	TimeZone        string `json:"timeZone"`
	SupportEmail    string `json:"supportEmail"`
	SessionTimeout  int    `json:"sessionTimeout"`
	APIRateLimit    int    `json:"apiRateLimit"`
	APIVersion      string `json:"apiVersion"`
}

// CreateFeatureRequest represents feature flag creation parameters.
type CreateFeatureRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	FeatureKey  string `json:"feature_key" validate:"required"`
	IsEnabled   bool   `json:"is_enabled"`
}

// UpdateFeatureRequest represents feature flag update parameters.
type UpdateFeatureRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsEnabled   *bool   `json:"is_enabled,omitempty"`
}
