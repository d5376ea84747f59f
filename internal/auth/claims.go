// Package auth adapts the platform bearer-token verifier to the salesvault HTTP surface.
package auth

import (
	"context"
	"time"

	authlib "example.com/salesvault/internal/platform/auth"
)

// Claims mirrors the platform claims type for service convenience.
type Claims = authlib.Claims

// Config mirrors the platform auth config.
type Config = authlib.Config

// ParseClaims delegates to the platform parser.
func ParseClaims(token string, cfg Config) (*Claims, error) {
	return authlib.Parse(token, cfg)
}

// WithClaims stores the claims in the request context.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return authlib.WithClaims(ctx, claims)
}

// FromContext retrieves claims from context.
func FromContext(ctx context.Context) (*Claims, bool) {
	return authlib.FromContext(ctx)
}

// LocalClaims grants every scope to a single local user. It backs AUTH_DISABLED mode.
func LocalClaims() *Claims {
	return &Claims{
		Subject:   "local",
		Name:      "Local User",
		Scopes:    map[string]struct{}{ScopeActivitiesWrite: {}, ScopeDashboardRead: {}},
		ExpiresAt: time.Now().Add(100 * 365 * 24 * time.Hour),
	}
}
