package services

import (
	"devlink_backend/internal/models"
	"devlink_backend/internal/repositories"
	"devlink_backend/internal/services/dto"
	"devlink_backend/pkg/apperrors"
)

type TestimonialService interface {
	// Create files a pending testimonial from a client for a developer.
	Create(clientID, developerID string, req *dto.CreateTestimonialRequest) (*dto.TestimonialResponse, error)
	// Moderate is a one-shot transition out of pending by the developer.
	Moderate(developerID, testimonialID string, approve bool) error
	// ListPublic returns the approved testimonials everyone can see.
	ListPublic(developerID string, limit, offset int) (*dto.Paginated, error)
	ListForDeveloper(developerID, status string, limit, offset int) (*dto.Paginated, error)
	ListByClient(clientID string, limit, offset int) (*dto.Paginated, error)
}

type TestimonialServiceImpl struct {
	testimonialRepo     repositories.TestimonialRepository
	userRepo            repositories.UserRepository
	notificationService NotificationService
}

func NewTestimonialService(
	testimonialRepo repositories.TestimonialRepository,
	userRepo repositories.UserRepository,
	notificationService NotificationService,
) TestimonialService {
	return &TestimonialServiceImpl{
		testimonialRepo:     testimonialRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

func (s *TestimonialServiceImpl) Create(clientID, developerID string, req *dto.CreateTestimonialRequest) (*dto.TestimonialResponse, error) {
	if developerID == "" {
		return nil, apperrors.NewBadRequestError("Developer id is required")
	}
	if clientID == developerID {
		return nil, apperrors.ErrSelfTarget
	}

	developer, err := s.userRepo.FindByID(developerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if developer.Role != models.UserRoleDeveloper {
		return nil, apperrors.ErrInvalidOperation("testimonial", "Testimonials can only be left for developers")
	}

	client, err := s.userRepo.FindByID(clientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	testimonial := &models.Testimonial{
		ClientID:    clientID,
		DeveloperID: developerID,
		Content:     req.Content,
		Rating:      req.Rating,
		Status:      models.TestimonialStatusPending,
	}
	if err := s.testimonialRepo.Create(testimonial); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notificationService.Dispatch(developerID, models.NotificationNewTestimonial,
		"New testimonial",
		displayName(client)+" left you a testimonial",
		map[string]interface{}{"testimonial_id": testimonial.ID, "client_id": clientID})

	return testimonialResponseFromModel(testimonial), nil
}

func (s *TestimonialServiceImpl) Moderate(developerID, testimonialID string, approve bool) error {
	testimonial, err := s.testimonialRepo.FindByID(testimonialID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrTestimonialNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	if testimonial.DeveloperID != developerID {
		return apperrors.ErrInsufficientPermissions
	}
	if testimonial.Status != models.TestimonialStatusPending {
		return apperrors.ErrTestimonialModerated
	}

	status := models.TestimonialStatusRejected
	if approve {
		status = models.TestimonialStatusApproved
	}
	if err := s.testimonialRepo.SetStatus(testimonialID, status); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *TestimonialServiceImpl) ListPublic(developerID string, limit, offset int) (*dto.Paginated, error) {
	return s.ListForDeveloper(developerID, models.TestimonialStatusApproved, limit, offset)
}

func (s *TestimonialServiceImpl) ListForDeveloper(developerID, status string, limit, offset int) (*dto.Paginated, error) {
	testimonials, total, err := s.testimonialRepo.ListForDeveloper(developerID, status, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return paginatedTestimonials(testimonials, total, limit, offset), nil
}

func (s *TestimonialServiceImpl) ListByClient(clientID string, limit, offset int) (*dto.Paginated, error) {
	testimonials, total, err := s.testimonialRepo.ListByClient(clientID, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return paginatedTestimonials(testimonials, total, limit, offset), nil
}

func paginatedTestimonials(testimonials []models.Testimonial, total int64, limit, offset int) *dto.Paginated {
	items := make([]dto.TestimonialResponse, 0, len(testimonials))
	for i := range testimonials {
		items = append(items, *testimonialResponseFromModel(&testimonials[i]))
	}
	return &dto.Paginated{Items: items, Total: total, Page: offset/max(limit, 1) + 1, PageSize: limit}
}

func testimonialResponseFromModel(t *models.Testimonial) *dto.TestimonialResponse {
	return &dto.TestimonialResponse{
		ID:          t.ID,
		ClientID:    t.ClientID,
		DeveloperID: t.DeveloperID,
		Content:     t.Content,
		Rating:      t.Rating,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
	}
}
