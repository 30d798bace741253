package handlers

import (
	"net/http"

	"devlink_backend/internal/middleware"
	"devlink_backend/internal/services"
	"devlink_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the guarded page areas. The routes here exist for
// the decision table: the guard middleware resolves who may land where, and
// these endpoints return the area payload for whoever got through.
type DashboardHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewDashboardHandler(base *BaseHandler, authService services.AuthService) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: base,
		authService: authService,
	}
}

// RegisterPageRoutes attaches the guarded areas to the engine root, not the
// API group: the guard answers with redirects, not JSON errors.
func (h *DashboardHandler) RegisterPageRoutes(engine *gin.Engine, guardMW gin.HandlerFunc) {
	pages := engine.Group("", guardMW)
	{
		pages.GET("/dashboard", h.area("dashboard"))
		pages.GET("/developer/dashboard", h.area("developer"))
		pages.GET("/client/dashboard", h.area("client"))
		pages.GET("/admin/dashboard", h.area("admin"))
	}

	engine.GET("/login", h.loginPage)
	engine.GET("/pending-approval", h.pendingApprovalPage)
}

func (h *DashboardHandler) area(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.GetClaims(c)
		if claims == nil {
			// The guard only lets authenticated users this far.
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authentication required"))
			return
		}

		session, err := h.authService.MaterializeSession(claims)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"area": name, "user": session})
	}
}

func (h *DashboardHandler) loginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":      "login",
		"providers": []string{"github", "google"},
	})
}

func (h *DashboardHandler) pendingApprovalPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":    "pending-approval",
		"message": "Your developer account is waiting for admin approval",
	})
}
