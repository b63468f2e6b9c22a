package middleware

import (
	"net/http"
	"time"

	"github.com/BradenHooton/frontdesk/internal/auth"
	pkghttp "github.com/BradenHooton/frontdesk/pkg/http"
	"github.com/go-chi/httprate"
)

// RateLimitConfig is a per-key request budget over Window. Client IPs are
// taken from forwarding headers only when the peer is in IPConfig.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	IPConfig *pkghttp.IPConfig
}

// DefaultAuthRateLimit allows 20 requests a minute per IP on /auth
func DefaultAuthRateLimit() RateLimitConfig {
	return RateLimitConfig{Requests: 20, Window: time.Minute}
}

// DefaultStaffRateLimit allows 300 requests a minute per signed-in user
func DefaultStaffRateLimit() RateLimitConfig {
	return RateLimitConfig{Requests: 300, Window: time.Minute}
}

// RateLimitByIP limits requests by client IP. It complements the per-email
// login gate by slowing down spraying across many emails.
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.Requests,
		config.Window,
		httprate.WithKeyFuncs(clientIPKey(config.IPConfig)),
		httprate.WithLimitHandler(tooManyRequests),
	)
}

// RateLimitByUser limits requests by the authenticated user id, falling back
// to the client IP when no claims are present.
func RateLimitByUser(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.Requests,
		config.Window,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			if claims := auth.GetUserFromContext(r); claims != nil {
				return "user:" + claims.UserID, nil
			}
			return pkghttp.ExtractClientIP(r, config.IPConfig), nil
		}),
		httprate.WithLimitHandler(tooManyRequests),
	)
}

func tooManyRequests(w http.ResponseWriter, _ *http.Request) {
	pkghttp.WriteTooManyRequests(w, "Too many requests. Please slow down.")
}

func clientIPKey(ipConfig *pkghttp.IPConfig) httprate.KeyFunc {
	return func(r *http.Request) (string, error) {
		return pkghttp.ExtractClientIP(r, ipConfig), nil
	}
}
