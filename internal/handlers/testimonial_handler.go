package handlers

import (
	"net/http"

	"devlink_backend/internal/models"
	"devlink_backend/internal/services"
	"devlink_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type TestimonialHandler struct {
	*BaseHandler
	testimonialService services.TestimonialService
}

func NewTestimonialHandler(base *BaseHandler, testimonialService services.TestimonialService) *TestimonialHandler {
	return &TestimonialHandler{
		BaseHandler:        base,
		testimonialService: testimonialService,
	}
}

func (h *TestimonialHandler) RegisterRoutes(rg *gin.RouterGroup, authMW, clientMW, developerMW gin.HandlerFunc) {
	rg.GET("/developers/:id/testimonials", h.ListPublic)
	rg.POST("/developers/:id/testimonials", authMW, clientMW, h.Create)

	testimonials := rg.Group("/testimonials", authMW)
	{
		testimonials.GET("/mine", clientMW, h.ListMine)
		testimonials.GET("/received", developerMW, h.ListReceived)
		testimonials.POST("/:id/approve", developerMW, h.Approve)
		testimonials.POST("/:id/reject", developerMW, h.Reject)
	}
}

func (h *TestimonialHandler) ListPublic(c *gin.Context) {
	limit, offset := ParsePagination(c)

	result, err := h.testimonialService.ListPublic(c.Param("id"), limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *TestimonialHandler) Create(c *gin.Context) {
	clientID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTestimonialRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	testimonial, err := h.testimonialService.Create(clientID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, testimonial)
}

func (h *TestimonialHandler) ListMine(c *gin.Context) {
	clientID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	limit, offset := ParsePagination(c)
	result, err := h.testimonialService.ListByClient(clientID, limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListReceived shows the developer's own testimonials, optionally filtered
// by ?status=pending|approved|rejected.
func (h *TestimonialHandler) ListReceived(c *gin.Context) {
	developerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	status := c.Query("status")
	switch status {
	case "", models.TestimonialStatusPending, models.TestimonialStatusApproved, models.TestimonialStatusRejected:
	default:
		status = ""
	}

	limit, offset := ParsePagination(c)
	result, err := h.testimonialService.ListForDeveloper(developerID, status, limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *TestimonialHandler) Approve(c *gin.Context) {
	h.moderate(c, true)
}

func (h *TestimonialHandler) Reject(c *gin.Context) {
	h.moderate(c, false)
}

func (h *TestimonialHandler) moderate(c *gin.Context, approve bool) {
	developerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.testimonialService.Moderate(developerID, c.Param("id"), approve); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Testimonial updated"})
}
