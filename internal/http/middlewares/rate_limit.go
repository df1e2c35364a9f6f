package middlewares

import (
	"net/http"
	"strconv"

	httperrors "github.com/dropDatabas3/smartbin/internal/http/errors"
	"github.com/dropDatabas3/smartbin/internal/observability/logger"
	"github.com/dropDatabas3/smartbin/internal/rate"
)

// KeyFunc extrae la clave de limitación de una request.
type KeyFunc func(r *http.Request) string

// KeyByRemoteAddr limita por IP de origen.
func KeyByRemoteAddr(r *http.Request) string {
	return r.RemoteAddr
}

// KeyByDeviceHeader limita por el header X-Device-ID que mandan los
// sensores; cae a la IP si el header viene vacío.
func KeyByDeviceHeader(r *http.Request) string {
	if id := r.Header.Get("X-Device-ID"); id != "" {
		return id
	}
	return r.RemoteAddr
}

// WithRateLimit aplica un limiter fixed-window por clave. Si el backend
// del limiter falla dejamos pasar la request: preferimos ingesta de más
// a descartar lecturas por un redis caído.
func WithRateLimit(limiter rate.Limiter, keyFn KeyFunc) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFn(r)
			if key == "" {
				key = r.RemoteAddr
			}

			res, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter unavailable", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			if !res.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
				httperrors.WriteError(w, httperrors.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
