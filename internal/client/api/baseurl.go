package api

import (
	"net/url"
	"os"
	"strings"
)

// BaseURLEnvVar is the runtime override consulted after an explicit value.
const BaseURLEnvVar = "SOLDBD_API_BASE_URL"

const localBaseURL = "http://localhost:3001"

var getenv = os.Getenv

// ResolveBaseURL picks the API base URL: explicit, then the environment
// override, then a guess from siteURL (the storefront address). Local hosts map
// to the dev server, anything else to api.<host> without a leading "www.".
// It returns "" when nothing applies.
func ResolveBaseURL(explicit, siteURL string) string {
	if v := trimSlash(explicit); v != "" {
		return v
	}
	if v := trimSlash(getenv(BaseURLEnvVar)); v != "" {
		return v
	}

	siteURL = strings.TrimSpace(siteURL)
	if siteURL != "" && !strings.Contains(siteURL, "://") {
		siteURL = "https://" + siteURL
	}
	u, err := url.Parse(siteURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := u.Hostname()
	if host == "localhost" || host == "127.0.0.1" {
		return localBaseURL
	}

	if !strings.HasPrefix(host, "api.") {
		host = "api." + strings.TrimPrefix(host, "www.")
	}
	return u.Scheme + "://" + host
}
