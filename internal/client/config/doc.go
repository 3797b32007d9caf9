// Package config loads runtime configuration for soldctl.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed SOLDCTL_ (see parseEnv).
//  3. Optional JSON file selected with -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
//	{
//	  "base_url": "https://api.sold.bd",
//	  "site_url": "https://sold.bd",
//	  "backend": "selfhosted",
//	  "api_key": "",
//	  "refresh_path": "/api/auth/refresh",
//	  "session_db": "/home/ops/.config/soldctl/session.db",
//	  "timeout": "30s"
//	}
//
// The API base URL itself is resolved by api.ResolveBaseURL, which also
// honours SOLDBD_API_BASE_URL.
package config
