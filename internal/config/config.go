package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Session   SessionConfig   `mapstructure:"session"`
	Log       LogConfig       `mapstructure:"log"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Company   CompanyConfig   `mapstructure:"company"`
}

type APIConfig struct {
	BaseURL      string        `mapstructure:"base_url" envconfig:"API_BASE_URL"`
	Timeout      time.Duration `mapstructure:"timeout" envconfig:"API_TIMEOUT"`
	MockMode     bool          `mapstructure:"mock_mode" envconfig:"ENABLE_MOCK_API"`
	DomainSuffix string        `mapstructure:"domain_suffix" envconfig:"AGENCY_DOMAIN_SUFFIX"`
}

type SessionConfig struct {
	FilePath string `mapstructure:"file_path" envconfig:"SESSION_FILE"`
}

type LogConfig struct {
	Level string `mapstructure:"level" envconfig:"LOG_LEVEL"`
}

type DashboardConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval" envconfig:"DASHBOARD_POLL_INTERVAL"`
}

type CompanyConfig struct {
	Name         string `mapstructure:"name" envconfig:"COMPANY_NAME"`
	SupportEmail string `mapstructure:"support_email" envconfig:"SUPPORT_EMAIL"`
}

// LoadConfig reads config.yml (when present) and applies environment
// overrides. Configuration is read once at startup.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	config := defaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		if err := viper.Unmarshal(config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if err := envconfig.Process("upstic", config); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if config.API.BaseURL == "" {
		return nil, fmt.Errorf("api base URL is required")
	}

	return config, nil
}

func defaults() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:      "https://api.upstic.com/api",
			Timeout:      10 * time.Second,
			DomainSuffix: "upstic.com",
		},
		Session: SessionConfig{
			FilePath: ".upstic-session.json",
		},
		Log: LogConfig{
			Level: "info",
		},
		Dashboard: DashboardConfig{
			PollInterval: 30 * time.Second,
		},
		Company: CompanyConfig{
			Name:         "Upstic Healthcare Recruitment",
			SupportEmail: "support@upsticrecruit.com",
		},
	}
}
