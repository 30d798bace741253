package services

import (
	"encoding/json"

	"devlink_backend/internal/logger"
	"devlink_backend/internal/models"
	"devlink_backend/internal/repositories"
	"devlink_backend/internal/services/dto"
	"devlink_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

type NotificationService interface {
	// Dispatch is best-effort: a failed write is logged, never surfaced to
	// the operation that triggered it.
	Dispatch(userID, ntype, title, message string, data map[string]interface{})
	List(userID string, limit, offset int) (*dto.Paginated, error)
	CountUnread(userID string) (int64, error)
	MarkRead(userID, notificationID string) error
	MarkAllRead(userID string) error
}

type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &NotificationServiceImpl{notificationRepo: notificationRepo}
}

func (s *NotificationServiceImpl) Dispatch(userID, ntype, title, message string, data map[string]interface{}) {
	notification := &models.Notification{
		UserID:  userID,
		Type:    ntype,
		Title:   title,
		Message: message,
	}

	if len(data) > 0 {
		raw, err := json.Marshal(data)
		if err != nil {
			logger.WithError(err).Warn("notification: failed to encode payload", "type", ntype, "user_id", userID)
		} else {
			notification.Data = datatypes.JSON(raw)
		}
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		logger.WithError(err).Error("notification: failed to create", "type", ntype, "user_id", userID)
	}
}

func (s *NotificationServiceImpl) List(userID string, limit, offset int) (*dto.Paginated, error) {
	notifications, total, err := s.notificationRepo.ListForUser(userID, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, dto.NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			Data:      n.Data,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}

	return &dto.Paginated{
		Items:    items,
		Total:    total,
		Page:     offset/max(limit, 1) + 1,
		PageSize: limit,
	}, nil
}

func (s *NotificationServiceImpl) CountUnread(userID string) (int64, error) {
	count, err := s.notificationRepo.CountUnread(userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *NotificationServiceImpl) MarkRead(userID, notificationID string) error {
	if err := s.notificationRepo.MarkRead(userID, notificationID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *NotificationServiceImpl) MarkAllRead(userID string) error {
	if err := s.notificationRepo.MarkAllRead(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
