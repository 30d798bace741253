package repositories

import (
	"errors"

	"devlink_backend/internal/models"

	"gorm.io/gorm"
)

var ErrRequestNotFound = errors.New("service request not found")

type ServiceRequestRepository interface {
	Create(request *models.ServiceRequest) error
	FindByID(id string) (*models.ServiceRequest, error)
	Update(request *models.ServiceRequest) error
	ListForClient(clientID string, limit, offset int) ([]models.ServiceRequest, int64, error)
	ListForDeveloper(developerID string, limit, offset int) ([]models.ServiceRequest, int64, error)
}

type ServiceRequestRepositoryImpl struct {
	db *gorm.DB
}

func NewServiceRequestRepository(db *gorm.DB) ServiceRequestRepository {
	return &ServiceRequestRepositoryImpl{db: db}
}

func (r *ServiceRequestRepositoryImpl) Create(request *models.ServiceRequest) error {
	return r.db.Create(request).Error
}

func (r *ServiceRequestRepositoryImpl) FindByID(id string) (*models.ServiceRequest, error) {
	var request models.ServiceRequest
	err := r.db.First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *ServiceRequestRepositoryImpl) Update(request *models.ServiceRequest) error {
	return r.db.Save(request).Error
}

func (r *ServiceRequestRepositoryImpl) ListForClient(clientID string, limit, offset int) ([]models.ServiceRequest, int64, error) {
	var requests []models.ServiceRequest
	var total int64

	q := r.db.Model(&models.ServiceRequest{}).Where("client_id = ?", clientID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&requests).Error
	return requests, total, err
}

func (r *ServiceRequestRepositoryImpl) ListForDeveloper(developerID string, limit, offset int) ([]models.ServiceRequest, int64, error) {
	var requests []models.ServiceRequest
	var total int64

	q := r.db.Model(&models.ServiceRequest{}).Where("developer_id = ?", developerID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&requests).Error
	return requests, total, err
}
