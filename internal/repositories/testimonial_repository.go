package repositories

import (
	"errors"

	"devlink_backend/internal/models"

	"gorm.io/gorm"
)

var ErrTestimonialNotFound = errors.New("testimonial not found")

type TestimonialRepository interface {
	Create(testimonial *models.Testimonial) error
	FindByID(id string) (*models.Testimonial, error)
	SetStatus(id, status string) error
	// ListForDeveloper filters by status when status != "".
	ListForDeveloper(developerID, status string, limit, offset int) ([]models.Testimonial, int64, error)
	ListByClient(clientID string, limit, offset int) ([]models.Testimonial, int64, error)
}

type TestimonialRepositoryImpl struct {
	db *gorm.DB
}

func NewTestimonialRepository(db *gorm.DB) TestimonialRepository {
	return &TestimonialRepositoryImpl{db: db}
}

func (r *TestimonialRepositoryImpl) Create(testimonial *models.Testimonial) error {
	return r.db.Create(testimonial).Error
}

func (r *TestimonialRepositoryImpl) FindByID(id string) (*models.Testimonial, error) {
	var t models.Testimonial
	err := r.db.First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestimonialNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TestimonialRepositoryImpl) SetStatus(id, status string) error {
	res := r.db.Model(&models.Testimonial{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTestimonialNotFound
	}
	return nil
}

func (r *TestimonialRepositoryImpl) ListForDeveloper(developerID, status string, limit, offset int) ([]models.Testimonial, int64, error) {
	var testimonials []models.Testimonial
	var total int64

	q := r.db.Model(&models.Testimonial{}).Where("developer_id = ?", developerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&testimonials).Error
	return testimonials, total, err
}

func (r *TestimonialRepositoryImpl) ListByClient(clientID string, limit, offset int) ([]models.Testimonial, int64, error) {
	var testimonials []models.Testimonial
	var total int64

	q := r.db.Model(&models.Testimonial{}).Where("client_id = ?", clientID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&testimonials).Error
	return testimonials, total, err
}
