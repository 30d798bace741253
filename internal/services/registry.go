package services

import "devlink_backend/internal/email"

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService           AuthService
	UserService           UserService
	EngagementService     EngagementService
	ProjectService        ProjectService
	PostService           PostService
	TestimonialService    TestimonialService
	ServiceRequestService ServiceRequestService
	NotificationService   NotificationService
	EmailService          email.Provider
}
