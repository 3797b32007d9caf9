package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/soldbd/internal/common"
	"github.com/dmitrijs2005/soldbd/internal/dbx"
	"github.com/dmitrijs2005/soldbd/internal/server/models"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/deals"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/signups"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/sitesettings"
	"github.com/dmitrijs2005/soldbd/internal/server/repositories/storagesettings"
	"github.com/dmitrijs2005/soldbd/internal/server/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// memAccounts honours the claim-once semantics of the bootstrap guard row.
type memAccounts struct {
	mu         sync.Mutex
	byID       map[string]*models.AdminAccount
	claimed    bool
	existsCall int
	findErr    error
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byID: map[string]*models.AdminAccount{}}
}

func (m *memAccounts) Create(_ context.Context, a *models.AdminAccount) (*models.AdminAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == strings.ToLower(a.Email) {
			return nil, common.ErrConflict
		}
	}
	cp := *a
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	m.byID[cp.ID] = &cp
	return &cp, nil
}

func (m *memAccounts) FindByIdentifier(_ context.Context, identifier string) (*models.AdminAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, a := range m.byID {
		if a.Email == strings.ToLower(identifier) {
			return a, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memAccounts) FindByID(_ context.Context, id string) (*models.AdminAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.byID[id]; ok {
		return a, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memAccounts) ExistsAny(context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.existsCall++
	return len(m.byID) > 0, nil
}

func (m *memAccounts) ClaimBootstrap(context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.claimed {
		return false, nil
	}
	m.claimed = true
	return true, nil
}

func (m *memAccounts) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type memRefreshTokens struct {
	mu        sync.Mutex
	recs      map[string]*models.RefreshTokenRecord
	createErr error
	// stolen makes Delete report that a concurrent caller got there first.
	stolen bool
	purged int
}

func newMemRefreshTokens() *memRefreshTokens {
	return &memRefreshTokens{recs: map[string]*models.RefreshTokenRecord{}}
}

func (m *memRefreshTokens) Create(_ context.Context, rec *models.RefreshTokenRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = time.Now()
	cp := *rec
	m.recs[cp.ID] = &cp
	return nil
}

func (m *memRefreshTokens) FindUnexpired(_ context.Context, now time.Time, limit int) ([]*models.RefreshTokenRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.RefreshTokenRecord
	for _, r := range m.recs {
		if r.ExpiresAt.After(now) {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRefreshTokens) Delete(_ context.Context, id string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stolen {
		return false, nil
	}
	r, ok := m.recs[id]
	if !ok || !r.ExpiresAt.After(now) {
		return false, nil
	}
	delete(m.recs, id)
	return true, nil
}

func (m *memRefreshTokens) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, r := range m.recs {
		if !r.ExpiresAt.After(now) {
			delete(m.recs, id)
			n++
		}
	}
	m.purged += int(n)
	return n, nil
}

func (m *memRefreshTokens) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recs)
}

type memDeals struct {
	byID map[string]*models.Deal
}

func (m *memDeals) ListActive(_ context.Context, now time.Time, limit int) ([]*models.Deal, error) {
	var out []*models.Deal
	for _, d := range m.byID {
		if d.IsActive && d.EndsAt.After(now) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndsAt.Before(out[j].EndsAt) })
	return out, nil
}

func (m *memDeals) ListAll(context.Context, int) ([]*models.Deal, error) {
	out := make([]*models.Deal, 0, len(m.byID))
	for _, d := range m.byID {
		out = append(out, d)
	}
	return out, nil
}

func (m *memDeals) Create(_ context.Context, d *models.Deal) error {
	if _, ok := m.byID[d.ID]; ok {
		return common.ErrConflict
	}
	m.byID[d.ID] = d
	return nil
}

func (m *memDeals) Update(_ context.Context, d *models.Deal) error {
	if _, ok := m.byID[d.ID]; !ok {
		return common.ErrorNotFound
	}
	m.byID[d.ID] = d
	return nil
}

func (m *memDeals) SetActive(_ context.Context, id string, active bool) error {
	d, ok := m.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	d.IsActive = active
	return nil
}

func (m *memDeals) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.byID, id)
	return nil
}

type memSiteSettings struct {
	s *models.SiteSettings
}

func (m *memSiteSettings) Get(context.Context) (*models.SiteSettings, error) {
	if m.s == nil {
		return nil, common.ErrorNotFound
	}
	return m.s, nil
}

func (m *memSiteSettings) UpdateFields(_ context.Context, s *models.SiteSettings) error {
	if m.s == nil {
		return common.ErrorNotFound
	}
	content := m.s.Content
	cp := *s
	cp.Content = content
	m.s = &cp
	return nil
}

func (m *memSiteSettings) MergeContent(_ context.Context, patch map[string]json.RawMessage) (map[string]json.RawMessage, error) {
	if m.s == nil {
		return nil, common.ErrorNotFound
	}
	if m.s.Content == nil {
		m.s.Content = map[string]json.RawMessage{}
	}
	for k, v := range patch {
		m.s.Content[k] = v
	}
	return m.s.Content, nil
}

type memSignups struct {
	emails []string
}

func (m *memSignups) Add(_ context.Context, email string) (bool, error) {
	for _, e := range m.emails {
		if e == email {
			return false, nil
		}
	}
	m.emails = append(m.emails, email)
	return true, nil
}

func (m *memSignups) ListRecent(_ context.Context, limit int) ([]*models.EarlyAccessSignup, error) {
	out := make([]*models.EarlyAccessSignup, 0, len(m.emails))
	for i := len(m.emails) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, &models.EarlyAccessSignup{ID: int64(i + 1), Email: m.emails[i]})
	}
	return out, nil
}

type memStorageSettings struct {
	s models.StorageSettings
}

func (m *memStorageSettings) Get(context.Context) (*models.StorageSettings, error) {
	cp := m.s
	return &cp, nil
}

func (m *memStorageSettings) Put(_ context.Context, provider string, settings map[string]any) error {
	m.s.Provider = &provider
	m.s.Settings = settings
	return nil
}

type fakeUploader struct {
	target storage.Target
	key    string
	body   string
	err    error
}

func (f *fakeUploader) Upload(_ context.Context, t storage.Target, key, _ string, body io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, _ := io.ReadAll(body)
	f.target, f.key, f.body = t, key, string(b)
	return t.PublicURL(key), nil
}

type fakeRepoManager struct {
	accounts *memAccounts
	refresh  *memRefreshTokens
	deals    *memDeals
	site     *memSiteSettings
	signups  *memSignups
	storage  *memStorageSettings
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		accounts: newMemAccounts(),
		refresh:  newMemRefreshTokens(),
		deals:    &memDeals{byID: map[string]*models.Deal{}},
		site:     &memSiteSettings{},
		signups:  &memSignups{},
		storage:  &memStorageSettings{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository        { return m.accounts }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return m.refresh
}
func (m *fakeRepoManager) Deals(dbx.DBTX) deals.Repository               { return m.deals }
func (m *fakeRepoManager) SiteSettings(dbx.DBTX) sitesettings.Repository { return m.site }
func (m *fakeRepoManager) Signups(dbx.DBTX) signups.Repository           { return m.signups }
func (m *fakeRepoManager) StorageSettings(dbx.DBTX) storagesettings.Repository {
	return m.storage
}
