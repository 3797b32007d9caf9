package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/soldbd/internal/client/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

// fakeAPI mimics the self-hosted server. Admin routes accept only "at-ok".
type fakeAPI struct {
	mu    sync.Mutex
	calls []recorded
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	f.calls = append(f.calls, recorded{r.Method, r.URL.Path, r.Header.Get("Authorization"), body})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	write := func(code int, s string) {
		w.WriteHeader(code)
		_, _ = io.WriteString(w, s)
	}

	switch r.URL.Path {
	case "/api/health":
		write(200, `{"ok":true,"backend":"selfhosted","db":"up","ts":"2025-03-01T10:00:00.000Z"}`)
		return
	case "/api/auth/login":
		if body["password"] != "right-password" {
			write(401, `{"ok":false,"error":"Invalid credentials","code":"invalid_credentials"}`)
			return
		}
		write(200, `{"accessToken":"at-ok","refreshToken":"rt-ok"}`)
		return
	case "/api/auth/refresh":
		if body["refreshToken"] != "rt-old" {
			write(401, `{"ok":false,"error":"Invalid refresh token"}`)
			return
		}
		write(200, `{"accessToken":"at-ok","refreshToken":"rt-new"}`)
		return
	case "/api/auth/logout":
		write(200, `{"ok":true}`)
		return
	case "/api/bootstrap-admin":
		if body["token"] != "boot" {
			write(403, `{"ok":false,"error":"Invalid token","code":"forbidden"}`)
			return
		}
		write(200, `{"ok":true}`)
		return
	}

	if r.Header.Get("Authorization") != "Bearer at-ok" {
		write(401, `{"ok":false,"error":"Unauthorized","code":"unauthorized"}`)
		return
	}
	switch {
	case r.URL.Path == "/api/admin-deals" && r.Method == http.MethodGet:
		write(200, `{"deals":[{"id":"d_1","title":"Sneakers","priceBdt":1500,"stock":3,"endsAt":"2025-03-02T00:00:00.000Z","isActive":true}]}`)
	case r.URL.Path == "/api/admin-deals" && r.Method == http.MethodPatch:
		write(200, `{"ok":true}`)
	case r.URL.Path == "/api/admin-deals" && r.Method == http.MethodDelete:
		if body["id"] == "missing" {
			write(404, `{"ok":false,"error":"Not found","code":"not_found"}`)
			return
		}
		write(200, `{"ok":true}`)
	case r.URL.Path == "/api/admin-db-status":
		write(200, `{"ok":true,"checks":[{"key":"CONNECTION","label":"Connection","ok":true,"message":"Connected"}]}`)
	case r.URL.Path == "/api/admin-early-access":
		write(200, `{"signups":[{"id":"7","email":"a@b.co","created_at":"2025-01-01T00:00:00.000Z"}]}`)
	default:
		write(404, `{"ok":false,"error":"Not found"}`)
	}
}

func (f *fakeAPI) last() recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func newTestApp(t *testing.T, tokens api.Tokens, input string) (*App, *fakeAPI, *bytes.Buffer, *api.MemorySession) {
	t.Helper()
	f := &fakeAPI{}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	sess := api.NewMemorySession(tokens)
	var out bytes.Buffer
	app := &App{
		api:     api.NewClient(api.NewSelfHosted(srv.URL, ""), sess, api.WithHTTPClient(srv.Client())),
		session: sess,
		reader:  bufio.NewReader(strings.NewReader(input)),
		out:     &out,
	}
	return app, f, &out, sess
}

func stubSecrets(t *testing.T, values ...string) {
	t.Helper()
	old := getSecret
	t.Cleanup(func() { getSecret = old })
	getSecret = func(string, io.Writer) (string, error) {
		v := values[0]
		values = values[1:]
		return v, nil
	}
}

func TestRun_LoginStoresSession(t *testing.T) {
	app, f, out, sess := newTestApp(t, api.Tokens{}, "ops@sold.bd\n")
	stubSecrets(t, "right-password")

	require.NoError(t, app.Run(context.Background(), []string{"login"}))
	assert.Contains(t, out.String(), "Signed in as ops@sold.bd")
	assert.Equal(t, "ops@sold.bd", f.last().body["identifier"])

	got, _ := sess.Tokens(context.Background())
	assert.Equal(t, api.Tokens{AccessToken: "at-ok", RefreshToken: "rt-ok"}, got)
}

func TestRun_LoginWrongPassword(t *testing.T) {
	app, _, _, sess := newTestApp(t, api.Tokens{}, "ops@sold.bd\n")
	stubSecrets(t, "nope")

	err := app.Run(context.Background(), []string{"login"})
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid credentials", apiErr.Message)

	got, _ := sess.Tokens(context.Background())
	assert.Equal(t, api.Tokens{}, got)
}

func TestRun_DealsRefreshesExpiredSession(t *testing.T) {
	app, f, out, sess := newTestApp(t, api.Tokens{AccessToken: "at-expired", RefreshToken: "rt-old"}, "")

	require.NoError(t, app.Run(context.Background(), []string{"deals"}))
	assert.Contains(t, out.String(), "d_1")
	assert.Contains(t, out.String(), "Sneakers")
	assert.Contains(t, out.String(), "1500")
	assert.Equal(t, "Bearer at-ok", f.last().auth)

	got, _ := sess.Tokens(context.Background())
	assert.Equal(t, "rt-new", got.RefreshToken)
}

func TestRun_DealsWithoutSession(t *testing.T) {
	app, _, _, _ := newTestApp(t, api.Tokens{}, "")
	err := app.Run(context.Background(), []string{"deals"})
	assert.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestRun_DealToggleAndDelete(t *testing.T) {
	app, f, out, _ := newTestApp(t, api.Tokens{AccessToken: "at-ok"}, "")
	ctx := context.Background()

	require.NoError(t, app.Run(ctx, []string{"deal-toggle", "d_1", "off"}))
	assert.Equal(t, http.MethodPatch, f.last().method)
	assert.Equal(t, map[string]any{"id": "d_1", "is_active": false}, f.last().body)
	assert.Contains(t, out.String(), "Deal d_1 is now inactive")

	require.NoError(t, app.Run(ctx, []string{"deal-delete", "d_1"}))
	assert.Equal(t, http.MethodDelete, f.last().method)

	err := app.Run(ctx, []string{"deal-delete", "missing"})
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	assert.True(t, IsUsage(app.Run(ctx, []string{"deal-toggle", "d_1"})))
	assert.True(t, IsUsage(app.Run(ctx, []string{"deal-toggle", "d_1", "maybe"})))
	assert.True(t, IsUsage(app.Run(ctx, []string{"deal-delete"})))
}

func TestRun_StatusAndSignups(t *testing.T) {
	app, _, out, _ := newTestApp(t, api.Tokens{AccessToken: "at-ok"}, "")
	ctx := context.Background()

	require.NoError(t, app.Run(ctx, []string{"status"}))
	assert.Contains(t, out.String(), "backend=selfhosted db=up")
	assert.Contains(t, out.String(), "Connection")
	assert.Contains(t, out.String(), "OK")

	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"signups"}))
	assert.Contains(t, out.String(), "a@b.co")
}

func TestRun_StatusWithoutSessionStillShowsHealth(t *testing.T) {
	app, _, out, _ := newTestApp(t, api.Tokens{}, "")

	require.NoError(t, app.Run(context.Background(), []string{"status"}))
	assert.Contains(t, out.String(), "db=up")
	assert.Contains(t, out.String(), "diagnostics unavailable")
}

func TestRun_Bootstrap(t *testing.T) {
	app, f, out, _ := newTestApp(t, api.Tokens{}, "ops@sold.bd\n")
	stubSecrets(t, "boot", "longenough")

	require.NoError(t, app.Run(context.Background(), []string{"bootstrap"}))
	assert.Equal(t, map[string]any{"token": "boot", "email": "ops@sold.bd", "password": "longenough"}, f.last().body)
	assert.Contains(t, out.String(), "Admin account created")
}

func TestRun_LogoutAndWhoami(t *testing.T) {
	app, f, out, sess := newTestApp(t, api.Tokens{AccessToken: "at-ok", RefreshToken: "rt-0123456789"}, "")
	ctx := context.Background()

	require.NoError(t, app.Run(ctx, []string{"whoami"}))
	assert.Contains(t, out.String(), "Signed in")
	assert.Contains(t, out.String(), "456789")

	require.NoError(t, app.Run(ctx, []string{"logout"}))
	assert.Equal(t, "/api/auth/logout", f.last().path)
	got, _ := sess.Tokens(ctx)
	assert.Equal(t, api.Tokens{}, got)

	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"whoami"}))
	assert.Equal(t, "Not signed in\n", out.String())
}

func TestRun_HelpAndUnknown(t *testing.T) {
	app, _, out, _ := newTestApp(t, api.Tokens{}, "")

	require.NoError(t, app.Run(context.Background(), nil))
	assert.Contains(t, out.String(), "deal-toggle <id> <on|off>")

	err := app.Run(context.Background(), []string{"frobnicate"})
	assert.True(t, IsUsage(err))
}

func TestRun_Version(t *testing.T) {
	app, _, out, _ := newTestApp(t, api.Tokens{}, "")
	require.NoError(t, app.Run(context.Background(), []string{"version"}))
	assert.Contains(t, out.String(), "Build version:")
}
