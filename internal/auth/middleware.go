package auth

import (
	"net/http"

	authlib "example.com/salesvault/internal/platform/auth"
)

// Middleware enforces bearer-token authentication on incoming requests.
type Middleware struct {
	inner    authlib.Middleware
	disabled bool
}

// NewMiddleware constructs Middleware with validation config. When disabled is set every
// request runs as LocalClaims.
func NewMiddleware(cfg Config, disabled bool) Middleware {
	return Middleware{inner: authlib.NewMiddleware(cfg, isPublic), disabled: disabled}
}

// Wrap attaches authentication handling to an http.Handler.
func (m Middleware) Wrap(next http.Handler) http.Handler {
	if m.disabled {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), LocalClaims())))
		})
	}
	return m.inner.Wrap(next)
}

func isPublic(r *http.Request) bool {
	return r.URL.Path == "/healthz" || r.URL.Path == "/metrics" || r.Method == http.MethodOptions
}
