package middleware

import (
	"strings"

	"devlink_backend/internal/auth"
	"devlink_backend/internal/logger"
	"devlink_backend/internal/models"
	"devlink_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const (
	claimsKey = "claims"
	userIDKey = "userID"
)

// AuthMiddleware verifies the bearer token and stores the claims on the
// request.
func AuthMiddleware(tokenService *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFromRequest(c, tokenService)
		if claims == nil {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Missing or invalid access token"))
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches claims when a valid token is presented but never
// rejects. Public endpoints use it to personalize responses.
func OptionalAuth(tokenService *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := claimsFromRequest(c, tokenService); claims != nil {
			setClaims(c, claims)
		}
		c.Next()
	}
}

// RequireApproved rejects unapproved developer accounts. Clients and admins
// pass through.
func RequireApproved() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
			c.Abort()
			return
		}
		if claims.Role == models.UserRoleDeveloper && !claims.Approved {
			apperrors.HandleError(c, apperrors.ErrNotApproved)
			c.Abort()
			return
		}
		c.Next()
	}
}

func RequireRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || claims.Role != role {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			c.Abort()
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || !claims.IsAdmin {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			c.Abort()
			return
		}
		c.Next()
	}
}

// claimsFromRequest reads the token from the Authorization header, falling
// back to the session cookie used by page navigation.
func claimsFromRequest(c *gin.Context, tokenService *auth.TokenService) *auth.Claims {
	tokenStr := ""

	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
	} else if cookie, err := c.Cookie("access_token"); err == nil {
		tokenStr = cookie
	}

	if tokenStr == "" {
		return nil
	}

	claims, err := tokenService.Validate(tokenStr)
	if err != nil {
		logger.CtxDebug(c.Request.Context(), "auth: token rejected", "error", err.Error())
		return nil
	}
	return claims
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(claimsKey, claims)
	c.Set(userIDKey, claims.UserID())
	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID()))
}

func GetClaims(c *gin.Context) *auth.Claims {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil
	}
	claims, ok := v.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

func GetUserID(c *gin.Context) string {
	v, exists := c.Get(userIDKey)
	if !exists {
		return ""
	}
	id, ok := v.(string)
	if !ok {
		return ""
	}
	return id
}
