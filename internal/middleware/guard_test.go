package middleware

import (
	"testing"

	"devlink_backend/internal/auth"
	"devlink_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func anonymous() *auth.Claims {
	return nil
}

func approvedDeveloper() *auth.Claims {
	return &auth.Claims{Role: models.UserRoleDeveloper, Approved: true}
}

func pendingDeveloper() *auth.Claims {
	return &auth.Claims{Role: models.UserRoleDeveloper, Approved: false}
}

func client() *auth.Claims {
	return &auth.Claims{Role: models.UserRoleClient, Approved: true}
}

func admin() *auth.Claims {
	return &auth.Claims{Role: models.UserRoleClient, Approved: true, IsAdmin: true}
}

func TestEvaluateRoute(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		claims     *auth.Claims
		allow      bool
		redirectTo string
	}{
		// Developer area
		{"developer area, anonymous", "/developer/dashboard", anonymous(), false, "/login"},
		{"developer area, client", "/developer/dashboard", client(), false, "/client/dashboard"},
		{"developer area, pending developer", "/developer/dashboard", pendingDeveloper(), false, "/pending-approval"},
		{"developer area, approved developer", "/developer/dashboard", approvedDeveloper(), true, ""},
		{"developer area root", "/developer", approvedDeveloper(), true, ""},

		// Client area
		{"client area, anonymous", "/client/dashboard", anonymous(), false, "/login"},
		{"client area, developer", "/client/dashboard", approvedDeveloper(), false, "/developer/dashboard"},
		{"client area, client", "/client/dashboard", client(), true, ""},
		{"client area, pending developer", "/client/projects", pendingDeveloper(), false, "/developer/dashboard"},

		// Admin area
		{"admin area, anonymous", "/admin/users", anonymous(), false, "/login"},
		{"admin area, non-admin client", "/admin/users", client(), false, "/"},
		{"admin area, non-admin developer", "/admin/users", approvedDeveloper(), false, "/"},
		{"admin area, admin", "/admin/users", admin(), true, ""},

		// Dashboard dispatch
		{"dashboard, anonymous", "/dashboard", anonymous(), false, "/login"},
		{"dashboard, client", "/dashboard", client(), false, "/client/dashboard"},
		{"dashboard, approved developer", "/dashboard", approvedDeveloper(), false, "/developer/dashboard"},
		{"dashboard, pending developer", "/dashboard", pendingDeveloper(), false, "/pending-approval"},
		{"dashboard, admin lands on role dashboard", "/dashboard", admin(), false, "/client/dashboard"},

		// Anything unmatched is public
		{"login page, anonymous", "/login", anonymous(), true, ""},
		{"profile page, anonymous", "/u/alex", anonymous(), true, ""},
		{"root, anonymous", "/", anonymous(), true, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decision := EvaluateRoute(tc.path, tc.claims)
			assert.Equal(t, tc.allow, decision.Allow)
			assert.Equal(t, tc.redirectTo, decision.RedirectTo)
		})
	}
}

func TestMatchesPrefix_SegmentBoundaries(t *testing.T) {
	assert.True(t, matchesPrefix("/client", "/client"))
	assert.True(t, matchesPrefix("/client/dashboard", "/client"))

	// A longer first segment is a different route, not a sub-path.
	assert.False(t, matchesPrefix("/clients", "/client"))
	assert.False(t, matchesPrefix("/administration", "/admin"))
	assert.False(t, matchesPrefix("/developers", "/developer"))
}
