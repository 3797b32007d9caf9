package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/soldbd/internal/logging"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/unrolled/secure"
)

const (
	corsMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsHeaders = "Authorization, Content-Type, apikey, x-client-info"
)

// corsMiddleware answers preflights itself. origin is "*" or a comma
// separated allow-list; an empty value disables CORS headers.
func corsMiddleware(origin string) func(http.Handler) http.Handler {
	wildcard := false
	allowed := map[string]bool{}
	for _, o := range strings.Split(origin, ",") {
		o = strings.TrimSpace(o)
		switch o {
		case "":
		case "*":
			wildcard = true
		default:
			allowed[o] = true
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !wildcard && len(allowed) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			if wildcard {
				h.Set("Access-Control-Allow-Origin", "*")
			} else if o := r.Header.Get("Origin"); allowed[o] {
				h.Set("Access-Control-Allow-Origin", o)
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Methods", corsMethods)
			h.Set("Access-Control-Allow-Headers", corsHeaders)
			h.Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func secureMiddleware() func(http.Handler) http.Handler {
	return secure.New(secure.Options{
		ContentTypeNosniff:    true,
		FrameDeny:             true,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		ReferrerPolicy:        "no-referrer",
	}).Handler
}

// accessLog writes one line per request after it completes.
func accessLog(l logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			l.Info(r.Context(), "request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}
