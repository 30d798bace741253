package handlers

import (
	"net/http"

	"devlink_backend/internal/middleware"
	"devlink_backend/internal/services"
	"devlink_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	*BaseHandler
	projectService services.ProjectService
	postService    services.PostService
}

func NewProjectHandler(base *BaseHandler, projectService services.ProjectService, postService services.PostService) *ProjectHandler {
	return &ProjectHandler{
		BaseHandler:    base,
		projectService: projectService,
		postService:    postService,
	}
}

func (h *ProjectHandler) RegisterRoutes(rg *gin.RouterGroup, authMW, approvedMW, developerMW gin.HandlerFunc) {
	projects := rg.Group("/projects")
	{
		projects.GET("", h.List)
		projects.GET("/:id", h.Get)
		projects.GET("/:id/comments", h.ListComments)

		// Portfolio entries belong to approved developers; deleting your
		// own work needs no approval.
		projects.POST("", authMW, developerMW, approvedMW, h.Create)
		projects.PUT("/:id", authMW, developerMW, approvedMW, h.Update)
		projects.DELETE("/:id", authMW, h.Delete)
		projects.POST("/:id/comments", authMW, h.AddComment)
	}
}

// List returns a user's projects when user_id is given, the recent feed
// otherwise.
func (h *ProjectHandler) List(c *gin.Context) {
	limit, offset := ParsePagination(c)

	var result *dto.Paginated
	var err error
	if userID := c.Query("user_id"); userID != "" {
		result, err = h.projectService.ListForUser(userID, limit, offset)
	} else {
		result, err = h.projectService.ListRecent(limit, offset)
	}
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projectService.Get(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	project, err := h.projectService.Create(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	project, err := h.projectService.Update(userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	claims := middleware.GetClaims(c)
	isAdmin := claims != nil && claims.IsAdmin

	if err := h.projectService.Delete(userID, c.Param("id"), isAdmin); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

func (h *ProjectHandler) AddComment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CommentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	comment, err := h.postService.AddProjectComment(userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *ProjectHandler) ListComments(c *gin.Context) {
	comments, err := h.postService.ListProjectComments(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}
