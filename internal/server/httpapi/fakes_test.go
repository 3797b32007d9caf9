package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/soldbd/internal/common"
	"github.com/dmitrijs2005/soldbd/internal/logging"
	"github.com/dmitrijs2005/soldbd/internal/server/auth"
	"github.com/dmitrijs2005/soldbd/internal/server/models"
	"github.com/dmitrijs2005/soldbd/internal/server/services"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret"

type fakeSessions struct {
	pair       *services.TokenPair
	loginErr   error
	refreshErr error
	lastIdent  string
	loggedOut  []string
}

func (f *fakeSessions) Login(_ context.Context, identifier, _ string) (*services.TokenPair, error) {
	f.lastIdent = identifier
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.pair, nil
}

func (f *fakeSessions) Refresh(_ context.Context, _ string) (*services.TokenPair, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.pair, nil
}

func (f *fakeSessions) Logout(_ context.Context, token string) error {
	f.loggedOut = append(f.loggedOut, token)
	return nil
}

type fakeBootstrap struct {
	err error
}

func (f *fakeBootstrap) Bootstrap(context.Context, string, string, string) error { return f.err }

type fakeDeals struct {
	mu      sync.Mutex
	deals   []*models.Deal
	created *models.Deal
	toggled map[string]bool
	err     error
}

func (f *fakeDeals) ListActive(context.Context) ([]*models.Deal, error) { return f.deals, f.err }
func (f *fakeDeals) ListAll(context.Context) ([]*models.Deal, error)    { return f.deals, f.err }

func (f *fakeDeals) Create(_ context.Context, d *models.Deal) (*models.Deal, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *d
	c.ID = "d_new"
	f.created = &c
	return &c, nil
}

func (f *fakeDeals) Update(context.Context, *models.Deal) error { return f.err }

func (f *fakeDeals) SetActive(_ context.Context, id string, active bool) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.toggled == nil {
		f.toggled = map[string]bool{}
	}
	f.toggled[id] = active
	return nil
}

func (f *fakeDeals) Delete(_ context.Context, id string) error {
	if id == "missing" {
		return common.ErrorNotFound
	}
	return f.err
}

type fakeSiteSettings struct {
	settings *models.SiteSettings
	updated  *models.SiteSettings
}

func (f *fakeSiteSettings) Get(context.Context) (*models.SiteSettings, error) { return f.settings, nil }

func (f *fakeSiteSettings) Update(_ context.Context, s *models.SiteSettings) error {
	f.updated = s
	return nil
}

func (f *fakeSiteSettings) MergeContent(_ context.Context, patch map[string]json.RawMessage) (map[string]json.RawMessage, error) {
	return patch, nil
}

type fakeSignups struct {
	added []string
	list  []*models.EarlyAccessSignup
}

func (f *fakeSignups) Add(_ context.Context, email string) error {
	if !common.LooksLikeEmail(email) {
		return common.NewInputError("email", "Invalid email")
	}
	f.added = append(f.added, email)
	return nil
}

func (f *fakeSignups) List(context.Context) ([]*models.EarlyAccessSignup, error) { return f.list, nil }

type fakeStorage struct {
	settings  *models.StorageSettings
	uploadErr error
	uploaded  []byte
	purpose   string
	ctype     string
}

func (f *fakeStorage) Get(context.Context) (*models.StorageSettings, error) {
	if f.settings == nil {
		return &models.StorageSettings{}, nil
	}
	return f.settings, nil
}

func (f *fakeStorage) Put(_ context.Context, provider string, settings map[string]any) error {
	f.settings = &models.StorageSettings{Provider: &provider, Settings: settings}
	return nil
}

func (f *fakeStorage) Upload(_ context.Context, purpose, contentType string, body io.Reader) (*services.UploadResult, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	f.uploaded, f.purpose, f.ctype = b, purpose, contentType
	return &services.UploadResult{URL: "https://cdn.example.com/" + purpose + "/x.png", Key: purpose + "/x.png"}, nil
}

type fakeStatus struct {
	up bool
}

func (f *fakeStatus) Ping(context.Context) bool { return f.up }

func (f *fakeStatus) Checks(context.Context) []services.Check {
	return []services.Check{{Key: "DATABASE_DSN", Label: "DATABASE_DSN", OK: true, Message: "Present"}}
}

type testEnv struct {
	server  *HTTPServer
	tokens  *auth.TokenIssuer
	svc     Services
	sess    *fakeSessions
	boot    *fakeBootstrap
	deals   *fakeDeals
	site    *fakeSiteSettings
	signups *fakeSignups
	storage *fakeStorage
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()

	tokens, err := auth.NewTokenIssuer(testSecret, time.Minute)
	require.NoError(t, err)

	e := &testEnv{
		tokens:  tokens,
		sess:    &fakeSessions{pair: &services.TokenPair{AccessToken: "at", RefreshToken: "rt"}},
		boot:    &fakeBootstrap{},
		deals:   &fakeDeals{},
		site:    &fakeSiteSettings{},
		signups: &fakeSignups{},
		storage: &fakeStorage{},
	}
	e.svc = Services{
		Sessions:     e.sess,
		Bootstrap:    e.boot,
		Deals:        e.deals,
		SiteSettings: e.site,
		Signups:      e.signups,
		Storage:      e.storage,
		Status:       &fakeStatus{up: true},
	}
	e.server = NewHTTPServer(":0", logging.NewDiscardLogger(), e.svc, tokens, opts)
	e.server.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }
	return e
}

func (e *testEnv) token(t *testing.T, role models.Role) string {
	t.Helper()
	tok, err := e.tokens.Issue(auth.Identity{Subject: "acc-1", Email: "ops@sold.bd", Role: role})
	require.NoError(t, err)
	return tok
}
