package handlers

// AppHandlers holds every HTTP handler of the application.
type AppHandlers struct {
	AuthHandler           *AuthHandler
	UserHandler           *UserHandler
	EngagementHandler     *EngagementHandler
	ProjectHandler        *ProjectHandler
	PostHandler           *PostHandler
	TestimonialHandler    *TestimonialHandler
	ServiceRequestHandler *ServiceRequestHandler
	NotificationHandler   *NotificationHandler
	AdminHandler          *AdminHandler
	DashboardHandler      *DashboardHandler
}
