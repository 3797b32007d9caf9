package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/soldbd/internal/common"
	"github.com/dmitrijs2005/soldbd/internal/logging"
	"github.com/dmitrijs2005/soldbd/internal/server/auth"
	"github.com/dmitrijs2005/soldbd/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := bearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGate_Authorize(t *testing.T) {
	issuer, err := auth.NewTokenIssuer(testSecret, time.Minute)
	require.NoError(t, err)
	other, err := auth.NewTokenIssuer("another-secret", time.Minute)
	require.NoError(t, err)
	g := NewGate(issuer, logging.NewDiscardLogger())

	admin, err := issuer.Issue(auth.Identity{Subject: "a1", Role: models.RoleAdmin})
	require.NoError(t, err)
	customer, err := issuer.Issue(auth.Identity{Subject: "c1", Role: "customer"})
	require.NoError(t, err)
	forged, err := other.Issue(auth.Identity{Subject: "a1", Role: models.RoleAdmin})
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{"admin", "Bearer " + admin, nil},
		{"customer", "Bearer " + customer, common.ErrForbidden},
		{"wrong key", "Bearer " + forged, common.ErrUnauthorized},
		{"garbage", "Bearer not.a.jwt", common.ErrUnauthorized},
		{"missing", "", common.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set(common.AuthorizationHeader, tt.header)
			}
			claims, err := g.Authorize(r)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "a1", claims.Subject)
		})
	}
}

func TestGate_RequireAdminStoresClaims(t *testing.T) {
	issuer, err := auth.NewTokenIssuer(testSecret, time.Minute)
	require.NoError(t, err)
	g := NewGate(issuer, logging.NewDiscardLogger())
	tok, err := issuer.Issue(auth.Identity{Subject: "a1", Email: "ops@sold.bd", Role: models.RoleAdmin})
	require.NoError(t, err)

	var seen *auth.Claims
	h := g.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(common.AuthorizationHeader, "Bearer "+tok)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "ops@sold.bd", seen.Email)
}
