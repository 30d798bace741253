package repositories

import (
	"errors"

	"devlink_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrIdentityNotFound      = errors.New("linked identity not found")
	ErrIdentityAlreadyLinked = errors.New("identity already linked")
)

type IdentityRepository interface {
	FindByProviderAccount(provider, providerAccountID string) (*models.LinkedIdentity, error)
	FindByProviderAndUser(provider, userID string) (*models.LinkedIdentity, error)
	Create(identity *models.LinkedIdentity) error
	UpdateAccessToken(id, accessToken string) error
}

type IdentityRepositoryImpl struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) IdentityRepository {
	return &IdentityRepositoryImpl{db: db}
}

func (r *IdentityRepositoryImpl) FindByProviderAccount(provider, providerAccountID string) (*models.LinkedIdentity, error) {
	var identity models.LinkedIdentity
	err := r.db.First(&identity, "provider = ? AND provider_account_id = ?", provider, providerAccountID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}
	return &identity, nil
}

func (r *IdentityRepositoryImpl) FindByProviderAndUser(provider, userID string) (*models.LinkedIdentity, error) {
	var identity models.LinkedIdentity
	err := r.db.First(&identity, "provider = ? AND user_id = ?", provider, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}
	return &identity, nil
}

func (r *IdentityRepositoryImpl) Create(identity *models.LinkedIdentity) error {
	if err := r.db.Create(identity).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrIdentityAlreadyLinked
		}
		return err
	}
	return nil
}

func (r *IdentityRepositoryImpl) UpdateAccessToken(id, accessToken string) error {
	return r.db.Model(&models.LinkedIdentity{}).
		Where("id = ?", id).
		Update("access_token", accessToken).Error
}
