package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/soldbd/internal/common"
	"github.com/dmitrijs2005/soldbd/internal/logging"
	"github.com/dmitrijs2005/soldbd/internal/server/auth"
)

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type ctxKey string

const claimsKey ctxKey = "claims"

// Gate guards every privileged route.
type Gate struct {
	verifier TokenVerifier
	logger   logging.Logger
}

func NewGate(v TokenVerifier, l logging.Logger) *Gate {
	return &Gate{verifier: v, logger: l}
}

// Authorize returns common.ErrUnauthorized for a missing, malformed or
// invalid bearer token and common.ErrForbidden for a valid non-admin token.
func (g *Gate) Authorize(r *http.Request) (*auth.Claims, error) {
	token, ok := bearerToken(r.Header.Get(common.AuthorizationHeader))
	if !ok {
		return nil, common.ErrUnauthorized
	}

	claims, err := g.verifier.Verify(token)
	if err != nil {
		g.logger.Debug(r.Context(), "access token rejected", "error", err)
		return nil, common.ErrUnauthorized
	}
	if !claims.Role.IsAdmin() {
		return nil, common.ErrForbidden
	}
	return claims, nil
}

func (g *Gate) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := g.Authorize(r)
		if err != nil {
			if err == common.ErrForbidden {
				writeErr(w, http.StatusForbidden, ErrCodeForbidden, "Forbidden")
				return
			}
			writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Unauthorized")
			return
		}

		g.logger.Info(r.Context(), "admin request", "subject", claims.Subject, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

// ClaimsFromContext returns the claims stored by RequireAdmin.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok && c != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
