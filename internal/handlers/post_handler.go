package handlers

import (
	"net/http"

	"devlink_backend/internal/middleware"
	"devlink_backend/internal/services"
	"devlink_backend/internal/services/dto"
	"devlink_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	*BaseHandler
	postService services.PostService
}

func NewPostHandler(base *BaseHandler, postService services.PostService) *PostHandler {
	return &PostHandler{
		BaseHandler: base,
		postService: postService,
	}
}

func (h *PostHandler) RegisterRoutes(rg *gin.RouterGroup, authMW, optionalAuthMW, approvedMW gin.HandlerFunc) {
	posts := rg.Group("/posts")
	{
		posts.GET("/feed", h.Feed)
		posts.GET("/:id", optionalAuthMW, h.Get)
		posts.GET("/:id/comments", h.ListComments)
		posts.GET("", optionalAuthMW, h.ListForUser)

		posts.POST("", authMW, approvedMW, h.Create)
		posts.PUT("/:id", authMW, approvedMW, h.Update)
		posts.DELETE("/:id", authMW, h.Delete)
		posts.POST("/:id/comments", authMW, h.AddComment)
	}

	rg.DELETE("/comments/:id", authMW, h.DeleteComment)
}

func (h *PostHandler) Feed(c *gin.Context) {
	limit, offset := ParsePagination(c)

	result, err := h.postService.Feed(limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PostHandler) Get(c *gin.Context) {
	viewerID := middleware.GetUserID(c)

	post, err := h.postService.Get(c.Param("id"), viewerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) ListForUser(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("user_id query parameter is required"))
		return
	}

	limit, offset := ParsePagination(c)
	viewerID := middleware.GetUserID(c)

	result, err := h.postService.ListForUser(userID, viewerID, limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePostRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	post, err := h.postService.Create(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdatePostRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	post, err := h.postService.Update(userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	claims := middleware.GetClaims(c)
	isAdmin := claims != nil && claims.IsAdmin

	if err := h.postService.Delete(userID, c.Param("id"), isAdmin); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

func (h *PostHandler) AddComment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CommentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	comment, err := h.postService.AddPostComment(userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *PostHandler) ListComments(c *gin.Context) {
	comments, err := h.postService.ListPostComments(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (h *PostHandler) DeleteComment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	claims := middleware.GetClaims(c)
	isAdmin := claims != nil && claims.IsAdmin

	if err := h.postService.DeleteComment(userID, c.Param("id"), isAdmin); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
