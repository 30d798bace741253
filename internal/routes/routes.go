package routes

import (
	"devlink_backend/internal/auth"
	"devlink_backend/internal/handlers"
	"devlink_backend/internal/middleware"
	"devlink_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every HTTP route: the JSON API under /api/v1 and the
// guarded page areas at the root.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	tokenService *auth.TokenService,
) {
	authMW := middleware.AuthMiddleware(tokenService)
	optionalAuthMW := middleware.OptionalAuth(tokenService)
	approvedMW := middleware.RequireApproved()
	adminMW := middleware.RequireAdmin()
	clientMW := middleware.RequireRole(models.UserRoleClient)
	developerMW := middleware.RequireRole(models.UserRoleDeveloper)
	guardMW := middleware.GuardMiddleware(tokenService)

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api, authMW)
		appHandlers.UserHandler.RegisterRoutes(api, authMW, optionalAuthMW)
		appHandlers.EngagementHandler.RegisterRoutes(api, authMW)
		appHandlers.ProjectHandler.RegisterRoutes(api, authMW, approvedMW, developerMW)
		appHandlers.PostHandler.RegisterRoutes(api, authMW, optionalAuthMW, approvedMW)
		appHandlers.TestimonialHandler.RegisterRoutes(api, authMW, clientMW, developerMW)
		appHandlers.ServiceRequestHandler.RegisterRoutes(api, authMW, clientMW, developerMW)
		appHandlers.NotificationHandler.RegisterRoutes(api, authMW)
		appHandlers.AdminHandler.RegisterRoutes(api, authMW, adminMW)
	}

	appHandlers.DashboardHandler.RegisterPageRoutes(ginRouter, guardMW)
}
