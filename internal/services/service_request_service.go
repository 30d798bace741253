package services

import (
	"devlink_backend/internal/models"
	"devlink_backend/internal/repositories"
	"devlink_backend/internal/services/dto"
	"devlink_backend/pkg/apperrors"
)

// ServiceRequestService drives the request lifecycle:
// pending -> accepted | declined, accepted -> completed.
type ServiceRequestService interface {
	Create(clientID, developerID string, req *dto.CreateServiceRequestRequest) (*dto.ServiceRequestResponse, error)
	Accept(developerID, requestID string) (*dto.ServiceRequestResponse, error)
	Decline(developerID, requestID string) (*dto.ServiceRequestResponse, error)
	Complete(developerID, requestID string) (*dto.ServiceRequestResponse, error)
	Get(actorID, requestID string) (*dto.ServiceRequestResponse, error)
	ListForClient(clientID string, limit, offset int) (*dto.Paginated, error)
	ListForDeveloper(developerID string, limit, offset int) (*dto.Paginated, error)
}

type ServiceRequestServiceImpl struct {
	requestRepo         repositories.ServiceRequestRepository
	userRepo            repositories.UserRepository
	notificationService NotificationService
}

func NewServiceRequestService(
	requestRepo repositories.ServiceRequestRepository,
	userRepo repositories.UserRepository,
	notificationService NotificationService,
) ServiceRequestService {
	return &ServiceRequestServiceImpl{
		requestRepo:         requestRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

func (s *ServiceRequestServiceImpl) Create(clientID, developerID string, req *dto.CreateServiceRequestRequest) (*dto.ServiceRequestResponse, error) {
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
		return nil, apperrors.ErrInvalidOperation("service_request", "Requests can only be sent to developers")
	}
	if !developer.Approved {
		return nil, apperrors.ErrInvalidOperation("service_request", "Developer is not approved yet")
	}

	client, err := s.userRepo.FindByID(clientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	request := &models.ServiceRequest{
		ClientID:    clientID,
		DeveloperID: developerID,
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		Status:      models.RequestStatusPending,
	}
	if err := s.requestRepo.Create(request); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notificationService.Dispatch(developerID, models.NotificationNewRequest,
		"New service request",
		displayName(client)+" sent you a service request: "+req.Title,
		map[string]interface{}{"request_id": request.ID, "client_id": clientID})

	return requestResponseFromModel(request), nil
}

func (s *ServiceRequestServiceImpl) Accept(developerID, requestID string) (*dto.ServiceRequestResponse, error) {
	return s.transition(developerID, requestID, models.RequestStatusPending, models.RequestStatusAccepted,
		"Request accepted", apperrors.ErrRequestNotPending)
}

func (s *ServiceRequestServiceImpl) Decline(developerID, requestID string) (*dto.ServiceRequestResponse, error) {
	return s.transition(developerID, requestID, models.RequestStatusPending, models.RequestStatusDeclined,
		"Request declined", apperrors.ErrRequestNotPending)
}

func (s *ServiceRequestServiceImpl) Complete(developerID, requestID string) (*dto.ServiceRequestResponse, error) {
	return s.transition(developerID, requestID, models.RequestStatusAccepted, models.RequestStatusCompleted,
		"Request completed", apperrors.ErrRequestNotAccepted)
}

// transition moves a request between two named states; any other current
// state is a conflict, not a silent overwrite.
func (s *ServiceRequestServiceImpl) transition(developerID, requestID, from, to, title string, conflict *apperrors.AppError) (*dto.ServiceRequestResponse, error) {
	request, err := s.findRequest(requestID)
	if err != nil {
		return nil, err
	}
	if request.DeveloperID != developerID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if request.Status != from {
		return nil, conflict
	}

	request.Status = to
	if err := s.requestRepo.Update(request); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notificationService.Dispatch(request.ClientID, models.NotificationRequestUpdate,
		title,
		"Your request \""+request.Title+"\" is now "+to,
		map[string]interface{}{"request_id": request.ID, "status": to})

	return requestResponseFromModel(request), nil
}

func (s *ServiceRequestServiceImpl) Get(actorID, requestID string) (*dto.ServiceRequestResponse, error) {
	request, err := s.findRequest(requestID)
	if err != nil {
		return nil, err
	}
	if request.ClientID != actorID && request.DeveloperID != actorID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return requestResponseFromModel(request), nil
}

func (s *ServiceRequestServiceImpl) ListForClient(clientID string, limit, offset int) (*dto.Paginated, error) {
	requests, total, err := s.requestRepo.ListForClient(clientID, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return paginatedRequests(requests, total, limit, offset), nil
}

func (s *ServiceRequestServiceImpl) ListForDeveloper(developerID string, limit, offset int) (*dto.Paginated, error) {
	requests, total, err := s.requestRepo.ListForDeveloper(developerID, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return paginatedRequests(requests, total, limit, offset), nil
}

func (s *ServiceRequestServiceImpl) findRequest(id string) (*models.ServiceRequest, error) {
	request, err := s.requestRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRequestNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return request, nil
}

func paginatedRequests(requests []models.ServiceRequest, total int64, limit, offset int) *dto.Paginated {
	items := make([]dto.ServiceRequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, *requestResponseFromModel(&requests[i]))
	}
	return &dto.Paginated{Items: items, Total: total, Page: offset/max(limit, 1) + 1, PageSize: limit}
}

func requestResponseFromModel(request *models.ServiceRequest) *dto.ServiceRequestResponse {
	return &dto.ServiceRequestResponse{
		ID:          request.ID,
		ClientID:    request.ClientID,
		DeveloperID: request.DeveloperID,
		Title:       request.Title,
		Description: request.Description,
		Budget:      request.Budget,
		Status:      request.Status,
		CreatedAt:   request.CreatedAt,
	}
}
