package middlewares

import (
	"net"
	"net/http"
	"strconv"

	httperrors "github.com/dropDatabas3/maildesk/internal/http/errors"
	"github.com/dropDatabas3/maildesk/internal/observability/logger"
	"github.com/dropDatabas3/maildesk/internal/rate"
)

// clientIP resuelve la IP del cliente (directo o detrás de proxy).
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// WithRateLimit aplica un limiter fixed-window por IP. Pensado para el
// endpoint de login (anti fuerza-bruta); las rutas protegidas no lo llevan.
func WithRateLimit(limiter rate.Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)
			res, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				// Fail-open: el limiter nunca debe tirar el login abajo
				logger.From(r.Context()).Warn("rate limiter failed", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			if !res.Allowed {
				logger.From(r.Context()).Warn("rate limit exceeded",
					logger.String("ip", ip),
					logger.Int("hits", int(res.CurrentHits)),
				)
				w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
				httperrors.WriteError(w, httperrors.ErrRateLimitExceeded)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
