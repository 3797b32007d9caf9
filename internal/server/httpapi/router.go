package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router builds the full handler tree. It fails only on a malformed rate
// limit setting.
func (s *HTTPServer) Router() (http.Handler, error) {
	authLimit, err := newIPRateLimiter(s.opts.RateLimitAuth)
	if err != nil {
		return nil, fmt.Errorf("auth rate limit: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(prometheusMiddleware)
	r.Use(secureMiddleware())
	r.Use(corsMiddleware(s.opts.CORSOrigin))
	r.Use(middleware.Compress(5))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeErr(w, http.StatusNotFound, ErrCodeNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeErr(w, http.StatusMethodNotAllowed, ErrCodeInvalidRequest, "Method not allowed")
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)
		r.Get("/deals", s.listDeals)
		r.Get("/site-settings", s.getSiteSettings)

		r.Group(func(r chi.Router) {
			r.Use(authLimit)
			r.Post("/auth/login", s.login)
			r.Post("/auth/refresh", s.refresh)
			r.Post("/auth/logout", s.logout)
			r.Post("/bootstrap-admin", s.bootstrapAdmin)
			r.Post("/early-access", s.earlyAccess)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.gate.RequireAdmin)

			r.Get("/admin-db-status", s.dbStatus)

			r.Get("/admin-deals", s.adminListDeals)
			r.Post("/admin-deals", s.adminCreateDeal)
			r.Put("/admin-deals", s.adminUpdateDeal)
			r.Patch("/admin-deals", s.adminToggleDeal)
			r.Delete("/admin-deals", s.adminDeleteDeal)

			r.Put("/admin-site-settings", s.adminUpdateSiteSettings)
			r.Patch("/admin-site-settings", s.adminPatchSiteContent)

			r.Get("/admin-early-access", s.adminListSignups)

			r.Get("/admin-storage-settings", s.adminGetStorageSettings)
			r.Put("/admin-storage-settings", s.adminPutStorageSettings)

			r.Post("/admin-upload", s.adminUpload)
		})
	})

	return r, nil
}
