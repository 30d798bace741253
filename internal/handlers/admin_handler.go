package handlers

import (
	"net/http"

	"devlink_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	*BaseHandler
	userService services.UserService
	authService services.AuthService
}

func NewAdminHandler(base *BaseHandler, userService services.UserService, authService services.AuthService) *AdminHandler {
	return &AdminHandler{
		BaseHandler: base,
		userService: userService,
		authService: authService,
	}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	admin := rg.Group("/admin", authMW, adminMW)
	{
		admin.GET("/users", h.ListUsers)
		admin.POST("/users/:id/approve", h.ApproveDeveloper)
		admin.POST("/users/:id/admin", h.SetAdmin)
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, offset := ParsePagination(c)

	result, err := h.userService.ListUsers(limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) ApproveDeveloper(c *gin.Context) {
	if err := h.userService.ApproveDeveloper(c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Developer approved"})
}

type setAdminRequest struct {
	IsAdmin bool `json:"is_admin"`
}

// SetAdmin flips the admin flag. The change only takes effect on the
// target's next token refresh.
func (h *AdminHandler) SetAdmin(c *gin.Context) {
	var req setAdminRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	targetID := c.Param("id")
	if err := h.userService.SetAdmin(targetID, req.IsAdmin); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	// Revoke refresh tokens when demoting so the old snapshot cannot be
	// extended indefinitely.
	if !req.IsAdmin {
		if err := h.authService.LogoutAll(targetID); err != nil {
			h.HandleServiceError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Admin flag updated"})
}
