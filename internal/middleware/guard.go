package middleware

import (
	"net/http"
	"strings"

	"devlink_backend/internal/auth"
	"devlink_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// Decision is the outcome of one route evaluation: pass, or send the
// browser somewhere else.
type Decision struct {
	Allow      bool
	RedirectTo string
}

func allow() Decision {
	return Decision{Allow: true}
}

func redirect(to string) Decision {
	return Decision{RedirectTo: to}
}

// routeRule guards one path prefix.
type routeRule struct {
	prefix string
	decide func(claims *auth.Claims) Decision
}

// guardRules is evaluated top to bottom, first match wins. Anything not
// matched is public.
var guardRules = []routeRule{
	{"/developer", decideDeveloperArea},
	{"/client", decideClientArea},
	{"/admin", decideAdminArea},
	{"/dashboard", decideDashboard},
}

// EvaluateRoute is the pure routing decision: no I/O, no session store,
// just the path and the token snapshot. claims == nil means no (valid)
// token was presented.
func EvaluateRoute(path string, claims *auth.Claims) Decision {
	for _, rule := range guardRules {
		if matchesPrefix(path, rule.prefix) {
			return rule.decide(claims)
		}
	}
	return allow()
}

func decideDeveloperArea(claims *auth.Claims) Decision {
	if claims == nil {
		return redirect("/login")
	}
	if claims.Role == models.UserRoleClient {
		return redirect("/client/dashboard")
	}
	if !claims.Approved {
		return redirect("/pending-approval")
	}
	return allow()
}

func decideClientArea(claims *auth.Claims) Decision {
	if claims == nil {
		return redirect("/login")
	}
	if claims.Role == models.UserRoleDeveloper {
		return redirect("/developer/dashboard")
	}
	return allow()
}

func decideAdminArea(claims *auth.Claims) Decision {
	if claims == nil {
		return redirect("/login")
	}
	if !claims.IsAdmin {
		return redirect("/")
	}
	return allow()
}

// decideDashboard dispatches the generic entry point to the role-specific
// dashboard.
func decideDashboard(claims *auth.Claims) Decision {
	if claims == nil {
		return redirect("/login")
	}
	if claims.Role == models.UserRoleClient {
		return redirect("/client/dashboard")
	}
	if !claims.Approved {
		return redirect("/pending-approval")
	}
	return redirect("/developer/dashboard")
}

// matchesPrefix treats the prefix as a path segment boundary: "/client"
// matches "/client" and "/client/x" but not "/clients".
func matchesPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// GuardMiddleware applies the decision table to page navigation, issuing
// 302 redirects instead of JSON errors.
func GuardMiddleware(tokenService *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFromRequest(c, tokenService)

		decision := EvaluateRoute(c.Request.URL.Path, claims)
		if !decision.Allow {
			c.Redirect(http.StatusFound, decision.RedirectTo)
			c.Abort()
			return
		}

		if claims != nil {
			setClaims(c, claims)
		}
		c.Next()
	}
}
