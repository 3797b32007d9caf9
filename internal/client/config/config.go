package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/soldbd/internal/common"
	"github.com/dmitrijs2005/soldbd/internal/filex"
)

const (
	BackendSelfHosted = "selfhosted"
	BackendPlatform   = "platform"
)

type Config struct {
	BaseURL     string
	SiteURL     string
	Backend     string
	APIKey      string
	RefreshPath string
	SessionDB   string
	Timeout     time.Duration
}

func (c *Config) LoadDefaults() {
	c.SiteURL = "http://localhost"
	c.Backend = BackendSelfHosted
	c.RefreshPath = "/api/auth/refresh"
	c.SessionDB = filex.DefaultDataPath("soldctl", "session.db")
	c.Timeout = 30 * time.Second
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSelfHosted, BackendPlatform:
	default:
		return fmt.Errorf("%w: unknown backend %q", common.ErrConfiguration, c.Backend)
	}
	if c.Backend == BackendPlatform && c.APIKey == "" {
		return fmt.Errorf("%w: platform backend needs an api key", common.ErrConfiguration)
	}
	if c.SessionDB == "" {
		return fmt.Errorf("%w: session db path is empty", common.ErrConfiguration)
	}
	return nil
}

// LoadConfig applies defaults, environment, JSON and flags in that order.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
