package config

import "os"

func parseEnv(cfg *Config) {
	for name, dst := range map[string]*string{
		"SOLDCTL_SITE_URL":     &cfg.SiteURL,
		"SOLDCTL_BACKEND":      &cfg.Backend,
		"SOLDCTL_API_KEY":      &cfg.APIKey,
		"SOLDCTL_REFRESH_PATH": &cfg.RefreshPath,
		"SOLDCTL_SESSION_DB":   &cfg.SessionDB,
	} {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
}
