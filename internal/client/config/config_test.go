package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/soldbd/internal/common"
	"github.com/dmitrijs2005/soldbd/internal/filex"
	"github.com/dmitrijs2005/soldbd/internal/flagx"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"soldctl"}, args...)
	t.Cleanup(func() { os.Args = old })
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	want := Config{
		SiteURL:     "http://localhost",
		Backend:     BackendSelfHosted,
		RefreshPath: "/api/auth/refresh",
		SessionDB:   filex.DefaultDataPath("soldctl", "session.db"),
		Timeout:     30 * time.Second,
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	var c Config
	c.LoadDefaults()
	require.NoError(t, c.Validate())

	c.Backend = "ftp"
	assert.ErrorIs(t, c.Validate(), common.ErrConfiguration)

	c.Backend = BackendPlatform
	assert.ErrorIs(t, c.Validate(), common.ErrConfiguration)
	c.APIKey = "anon"
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_Layering(t *testing.T) {
	t.Setenv(flagx.ConfigEnvVar, "")
	t.Setenv("SOLDCTL_BACKEND", "platform")
	t.Setenv("SOLDCTL_API_KEY", "env-key")
	t.Setenv("SOLDCTL_SESSION_DB", "env.db")

	path := filepath.Join(t.TempDir(), "soldctl.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"site_url":"https://sold.bd","session_db":"json.db","timeout":"5s"}`), 0o600))

	withArgs(t, "-c", path, "-s", "flag.db", "deals")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, BackendPlatform, cfg.Backend)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "https://sold.bd", cfg.SiteURL)
	assert.Equal(t, "flag.db", cfg.SessionDB)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoadConfig_BadJSON(t *testing.T) {
	t.Setenv(flagx.ConfigEnvVar, "")
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))
	withArgs(t, "-c", path)

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "parse config")
}
