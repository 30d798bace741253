package handlers

import (
	"net/http"

	"devlink_backend/internal/services"
	"devlink_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ServiceRequestHandler struct {
	*BaseHandler
	requestService services.ServiceRequestService
}

func NewServiceRequestHandler(base *BaseHandler, requestService services.ServiceRequestService) *ServiceRequestHandler {
	return &ServiceRequestHandler{
		BaseHandler:    base,
		requestService: requestService,
	}
}

func (h *ServiceRequestHandler) RegisterRoutes(rg *gin.RouterGroup, authMW, clientMW, developerMW gin.HandlerFunc) {
	rg.POST("/developers/:id/requests", authMW, clientMW, h.Create)

	requests := rg.Group("/requests", authMW)
	{
		requests.GET("/outgoing", clientMW, h.ListOutgoing)
		requests.GET("/incoming", developerMW, h.ListIncoming)
		requests.GET("/:id", h.Get)
		requests.POST("/:id/accept", developerMW, h.Accept)
		requests.POST("/:id/decline", developerMW, h.Decline)
		requests.POST("/:id/complete", developerMW, h.Complete)
	}
}

func (h *ServiceRequestHandler) Create(c *gin.Context) {
	clientID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateServiceRequestRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	request, err := h.requestService.Create(clientID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (h *ServiceRequestHandler) Get(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	request, err := h.requestService.Get(actorID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

func (h *ServiceRequestHandler) ListOutgoing(c *gin.Context) {
	clientID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	limit, offset := ParsePagination(c)
	result, err := h.requestService.ListForClient(clientID, limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ServiceRequestHandler) ListIncoming(c *gin.Context) {
	developerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	limit, offset := ParsePagination(c)
	result, err := h.requestService.ListForDeveloper(developerID, limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ServiceRequestHandler) Accept(c *gin.Context) {
	h.transition(c, h.requestService.Accept)
}

func (h *ServiceRequestHandler) Decline(c *gin.Context) {
	h.transition(c, h.requestService.Decline)
}

func (h *ServiceRequestHandler) Complete(c *gin.Context) {
	h.transition(c, h.requestService.Complete)
}

func (h *ServiceRequestHandler) transition(c *gin.Context, fn func(developerID, requestID string) (*dto.ServiceRequestResponse, error)) {
	developerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	request, err := fn(developerID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}
