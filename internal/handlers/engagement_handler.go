package handlers

import (
	"net/http"

	"devlink_backend/internal/services"
	"devlink_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// EngagementHandler exposes the three toggles. Each POST flips the state and
// returns the definite result, so retries are always safe.
type EngagementHandler struct {
	*BaseHandler
	engagementService services.EngagementService
}

func NewEngagementHandler(base *BaseHandler, engagementService services.EngagementService) *EngagementHandler {
	return &EngagementHandler{
		BaseHandler:       base,
		engagementService: engagementService,
	}
}

func (h *EngagementHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	eng := rg.Group("", authMW)
	{
		eng.POST("/follow/:userID", h.ToggleFollow)
		eng.POST("/likes/:targetType/:targetID", h.ToggleLike)
		eng.POST("/endorsements/:developerID", h.ToggleEndorsement)
	}
}

func (h *EngagementHandler) ToggleFollow(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	result, err := h.engagementService.ToggleFollow(c.Request.Context(), actorID, c.Param("userID"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *EngagementHandler) ToggleLike(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	result, err := h.engagementService.ToggleLike(c.Request.Context(), actorID, c.Param("targetType"), c.Param("targetID"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *EngagementHandler) ToggleEndorsement(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.EndorseRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	result, err := h.engagementService.ToggleEndorsement(c.Request.Context(), actorID, c.Param("developerID"), req.Skill)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
