package app

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/vilarso/cropservicebot/core/config"
	coredatabase "github.com/vilarso/cropservicebot/core/database"
	"github.com/vilarso/cropservicebot/internal/flow"
	"github.com/vilarso/cropservicebot/internal/sweeper"
)

// BoardConfig holds board-specific knobs.
type BoardConfig struct {
	PageSize             int `yaml:"page_size" envconfig:"BOARD_PAGE_SIZE"`
	SweepIntervalMinutes int `yaml:"sweep_interval_minutes" envconfig:"BOARD_SWEEP_INTERVAL_MINUTES"`
}

// SweepInterval returns the configured sweep interval, or the default.
func (b BoardConfig) SweepInterval() time.Duration {
	if b.SweepIntervalMinutes <= 0 {
		return sweeper.DefaultInterval
	}
	return time.Duration(b.SweepIntervalMinutes) * time.Minute
}

// Config is the full bot configuration: the shared core section plus the
// database and board sections.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Board    BoardConfig         `yaml:"board"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config { return &c.Core }

// LoadConfig reads the YAML file, overlays environment variables, and
// validates the result.
func LoadConfig(path string) (*Config, error) {
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

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if cfg.Board.PageSize < 0 {
		return nil, fmt.Errorf("board.page_size must be >= 0")
	}
	if cfg.Board.PageSize == 0 {
		cfg.Board.PageSize = flow.DefaultPageSize
	}
	if cfg.Board.SweepIntervalMinutes < 0 {
		return nil, fmt.Errorf("board.sweep_interval_minutes must be >= 0")
	}
	return &cfg, nil
}
