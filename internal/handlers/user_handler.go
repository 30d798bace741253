package handlers

import (
	"net/http"

	"devlink_backend/internal/middleware"
	"devlink_backend/internal/services"
	"devlink_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService       services.UserService
	engagementService services.EngagementService
}

func NewUserHandler(base *BaseHandler, userService services.UserService, engagementService services.EngagementService) *UserHandler {
	return &UserHandler{
		BaseHandler:       base,
		userService:       userService,
		engagementService: engagementService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, authMW, optionalAuthMW gin.HandlerFunc) {
	users := rg.Group("/users")
	{
		users.GET("/developers", h.ListDevelopers)
		users.GET("/by-handle/:handle", optionalAuthMW, h.GetPublicProfile)
		users.GET("/:id/endorsements", h.ListEndorsements)
	}

	profile := rg.Group("/profile", authMW)
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.POST("/sync-github", h.SyncFromGitHub)
	}
}

func (h *UserHandler) ListDevelopers(c *gin.Context) {
	limit, offset := ParsePagination(c)

	result, err := h.userService.ListDevelopers(limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *UserHandler) GetPublicProfile(c *gin.Context) {
	viewerID := middleware.GetUserID(c)

	profile, err := h.userService.GetPublicProfile(c.Param("handle"), viewerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) ListEndorsements(c *gin.Context) {
	endorsements, err := h.engagementService.ListEndorsements(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"endorsements": endorsements})
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	profile, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) SyncFromGitHub(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	profile, err := h.userService.SyncFromGitHub(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
