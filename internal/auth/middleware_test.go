package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisabledMiddlewareInjectsLocalClaims(t *testing.T) {
	var claims *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ = FromContext(r.Context())
	})

	rec := httptest.NewRecorder()
	NewMiddleware(Config{}, true).Wrap(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, claims)
	require.Equal(t, "local", claims.Subject)
	require.True(t, claims.HasScope(ScopeActivitiesWrite))
	require.True(t, claims.HasScope(ScopeDashboardRead))
}

func TestEnabledMiddlewareSkipsPublicPaths(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	handler := NewMiddleware(Config{Secret: "s"}, false).Wrap(next)

	for _, path := range []string{"/healthz", "/metrics"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusNoContent, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/activities", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
