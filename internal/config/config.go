// Package config assembles the application configuration: the shared core
// settings plus database and IPO service sections.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/m3rciful/ipobot/core/config"
	coredatabase "github.com/m3rciful/ipobot/core/database"
)

// IPOConfig holds settings for the remote IPO listing/allotment service.
type IPOConfig struct {
	BaseURL string `yaml:"base_url" envconfig:"IPO_API_BASE_URL"`
	// ListTimeoutSeconds bounds the item listing call; 0 -> default (5s).
	ListTimeoutSeconds int `yaml:"list_timeout_seconds" envconfig:"IPO_LIST_TIMEOUT_SECONDS"`
	// CheckTimeoutSeconds bounds the batched allotment check; 0 -> default (20s).
	CheckTimeoutSeconds int `yaml:"check_timeout_seconds" envconfig:"IPO_CHECK_TIMEOUT_SECONDS"`
	// PageSize is the number of items rendered per browse page; 0 -> 8.
	PageSize int `yaml:"page_size" envconfig:"IPO_PAGE_SIZE"`
}

// PansConfig holds settings for the PAN record store.
type PansConfig struct {
	// MaxPerUser caps records per user; 0 -> 20.
	MaxPerUser int `yaml:"max_per_user" envconfig:"PAN_MAX_PER_USER"`
}

// Config aggregates core, database and application sections.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	IPO      IPOConfig           `yaml:"ipo"`
	Pans     PansConfig          `yaml:"pans"`
}

// CoreConfig exposes the embedded core configuration for the shared runtime.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// HasDatabase reports whether a database host is configured. Without one the
// bot runs on the in-memory store.
func (c *Config) HasDatabase() bool {
	return c != nil && strings.TrimSpace(c.Database.Host) != ""
}

// Load reads the YAML file, applies env overrides, and validates.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if err := normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalize(cfg *Config) error {
	if strings.TrimSpace(cfg.IPO.BaseURL) == "" {
		return fmt.Errorf("ipo.base_url is required")
	}
	if cfg.IPO.PageSize < 0 {
		return fmt.Errorf("ipo.page_size must be >= 0")
	}
	if cfg.IPO.ListTimeoutSeconds < 0 || cfg.IPO.CheckTimeoutSeconds < 0 {
		return fmt.Errorf("ipo timeouts must be >= 0")
	}
	if cfg.Pans.MaxPerUser < 0 {
		return fmt.Errorf("pans.max_per_user must be >= 0")
	}
	return nil
}
