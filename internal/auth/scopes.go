package auth

// Scopes checked by the API handlers.
const (
	ScopeActivitiesWrite = "activities:write"
	ScopeDashboardRead   = "dashboard:read"
)
