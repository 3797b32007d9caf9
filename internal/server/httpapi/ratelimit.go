package httpapi

import (
	"net/http"
	"strings"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// newIPRateLimiter limits by client IP with an in-memory store. rate uses the
// limiter format ("20-M", "5-S"); empty disables limiting.
func newIPRateLimiter(rate string) (func(http.Handler) http.Handler, error) {
	rate = strings.TrimSpace(rate)
	if rate == "" {
		return noopMiddleware, nil
	}
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}
	instance := limiter.New(memory.NewStore(), r)
	mw := stdlib.NewMiddleware(instance,
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, _ *http.Request) {
			writeErr(w, http.StatusTooManyRequests, ErrCodeRateLimited, "Too many requests")
		}),
	)
	return mw.Handler, nil
}

func noopMiddleware(next http.Handler) http.Handler {
	return next
}
