package handlers

import (
	"net/http"

	"devlink_backend/internal/middleware"
	"devlink_backend/internal/models"
	"devlink_backend/internal/oauth"
	"devlink_backend/internal/services"
	"devlink_backend/internal/services/dto"
	"devlink_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const (
	stateCookie  = "oauth_state"
	roleCookie   = "signup_role"
	accessCookie = "access_token"
	// stateCookieTTL bounds how long a pending authorization redirect stays
	// valid.
	stateCookieTTL = 600
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
	providers   map[string]oauth.Provider
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, providers map[string]oauth.Provider) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
		providers:   providers,
	}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.GET("/:provider/login", h.OAuthLogin)
		auth.GET("/:provider/callback", h.OAuthCallback)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", authMW, h.Me)
	}
}

// OAuthLogin starts the authorization-code flow: random state into a
// short-lived cookie, browser off to the provider.
func (h *AuthHandler) OAuthLogin(c *gin.Context) {
	provider, ok := h.providers[c.Param("provider")]
	if !ok {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Unknown OAuth provider: "+c.Param("provider")))
		return
	}

	state := oauth.NewState()
	c.SetCookie(stateCookie, state, stateCookieTTL, "/", "", false, true)

	// An explicit signup role only matters on first contact; existing
	// accounts keep theirs.
	if role := c.Query("role"); role == string(models.UserRoleDeveloper) || role == string(models.UserRoleClient) {
		c.SetCookie(roleCookie, role, stateCookieTTL, "/", "", false, true)
	}

	c.Redirect(http.StatusFound, provider.AuthURL(state))
}

func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	provider, ok := h.providers[c.Param("provider")]
	if !ok {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Unknown OAuth provider: "+c.Param("provider")))
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		c.Redirect(http.StatusFound, "/login?error="+errParam)
		return
	}

	state := c.Query("state")
	storedState, err := c.Cookie(stateCookie)
	c.SetCookie(stateCookie, "", -1, "/", "", false, true)
	if err != nil || state == "" || state != storedState {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("OAuth state mismatch"))
		return
	}

	code := c.Query("code")
	if code == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing authorization code"))
		return
	}

	profile, err := provider.Exchange(c.Request.Context(), code)
	if err != nil {
		h.HandleServiceError(c, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "oauth",
			"Failed to complete the OAuth exchange", http.StatusBadGateway))
		return
	}

	var role models.UserRole
	if roleStr, rerr := c.Cookie(roleCookie); rerr == nil {
		role = models.UserRole(roleStr)
	}
	c.SetCookie(roleCookie, "", -1, "/", "", false, true)

	response, err := h.authService.HandleOAuthCallback(c.Request.Context(), profile, role)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	// The page guard reads the session cookie; API clients use the JSON
	// tokens instead.
	c.SetCookie(accessCookie, response.AccessToken, 900, "/", "", false, true)
	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.authService.Login(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.SetCookie(accessCookie, response.AccessToken, 900, "/", "", false, true)
	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.SetCookie(accessCookie, response.AccessToken, 900, "/", "", false, true)
	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.authService.Logout(req.RefreshToken); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.SetCookie(accessCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
		return
	}

	session, err := h.authService.MaterializeSession(claims)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}
