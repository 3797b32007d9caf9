package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/soldbd/internal/flagx"
	"github.com/dmitrijs2005/soldbd/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	BaseURL     string         `json:"base_url"`
	SiteURL     string         `json:"site_url"`
	Backend     string         `json:"backend"`
	APIKey      string         `json:"api_key"`
	RefreshPath string         `json:"refresh_path"`
	SessionDB   string         `json:"session_db"`
	Timeout     timex.Duration `json:"timeout"`
}

func parseJson(cfg *Config) error {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	for dst, v := range map[*string]string{
		&cfg.BaseURL:     jc.BaseURL,
		&cfg.SiteURL:     jc.SiteURL,
		&cfg.Backend:     jc.Backend,
		&cfg.APIKey:      jc.APIKey,
		&cfg.RefreshPath: jc.RefreshPath,
		&cfg.SessionDB:   jc.SessionDB,
	} {
		if v != "" {
			*dst = v
		}
	}
	if jc.Timeout.Duration > 0 {
		cfg.Timeout = jc.Timeout.Duration
	}
	return nil
}
