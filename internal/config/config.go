package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Harvest HarvestConfig `yaml:"harvest"`
	Scanner ScannerConfig `yaml:"scanner"`
	Rules   RulesConfig   `yaml:"rules"`
	Output  OutputConfig  `yaml:"output"`
	Tier    TierConfig    `yaml:"tier"`
	Store   StoreConfig   `yaml:"store"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// DataConfig locates the harvested bar table
type DataConfig struct {
	Path string `yaml:"path"`
}

// HarvestConfig holds daily history download settings
type HarvestConfig struct {
	Universe  string   `yaml:"universe"`
	Symbols   []string `yaml:"symbols"`
	Suffix    string   `yaml:"suffix"` // exchange suffix appended for the data source, e.g. ".NS"
	Days      int      `yaml:"days"`
	RateLimit int      `yaml:"rate_limit"` // requests per minute
}

// ScannerConfig holds scanner settings
type ScannerConfig struct {
	Workers int           `yaml:"workers"`
	Timeout time.Duration `yaml:"timeout"`
}

// RulesConfig selects the weekly confirmation mode
type RulesConfig struct {
	StrictWeekly       bool    `yaml:"strict_weekly"`
	WeeklyPriceCeiling float64 `yaml:"weekly_price_ceiling"`
}

// OutputConfig holds presentation defaults
type OutputConfig struct {
	MinVolume int64  `yaml:"min_volume"`
	Format    string `yaml:"format"` // table, json
	View      string `yaml:"view"`   // all, bullish, bearish, elite
}

// TierConfig holds the elite-tier token secret
type TierConfig struct {
	Secret string `yaml:"secret"`
}

// StoreConfig locates the signal database; empty disables persistence
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level"`
}

// MetricsConfig holds the Prometheus listener address; empty disables it
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Path: "smart_db.csv",
		},
		Harvest: HarvestConfig{
			Universe:  "nse-top20",
			Suffix:    ".NS",
			Days:      365,
			RateLimit: 30,
		},
		Scanner: ScannerConfig{
			Workers: 10,
			Timeout: 30 * time.Second,
		},
		Rules: RulesConfig{
			StrictWeekly:       false,
			WeeklyPriceCeiling: 5000,
		},
		Output: OutputConfig{
			MinVolume: 500000,
			Format:    "table",
			View:      "all",
		},
		Tier: TierConfig{
			Secret: os.Getenv("SWINGLAB_ELITE_SECRET"),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if file doesn't exist
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Override with environment variables if set
	if secret := os.Getenv("SWINGLAB_ELITE_SECRET"); secret != "" {
		cfg.Tier.Secret = secret
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Scanner.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.Harvest.Days < 1 {
		return fmt.Errorf("harvest days must be at least 1")
	}
	if c.Harvest.RateLimit < 1 {
		return fmt.Errorf("harvest rate_limit must be at least 1")
	}
	if c.Rules.StrictWeekly && c.Rules.WeeklyPriceCeiling <= 0 {
		return fmt.Errorf("weekly_price_ceiling must be positive in strict mode")
	}
	if c.Output.MinVolume < 0 {
		return fmt.Errorf("min_volume must not be negative")
	}
	switch c.Output.Format {
	case "table", "json":
	default:
		return fmt.Errorf("unknown output format: %s", c.Output.Format)
	}
	switch c.Output.View {
	case "all", "bullish", "bearish", "elite":
	default:
		return fmt.Errorf("unknown view: %s", c.Output.View)
	}
	return nil
}
