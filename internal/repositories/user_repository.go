package repositories

import (
	"errors"

	"devlink_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrHandleTaken means the candidate username lost to the unique index.
	ErrHandleTaken = errors.New("handle already taken")
	// ErrHandleAlreadySet means the account acquired a username concurrently.
	ErrHandleAlreadySet = errors.New("handle already set")
)

type UserRepository interface {
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	// UpdateFields applies a partial update; used by the empty-fields-only
	// provider merge so user-edited columns are never touched.
	UpdateFields(userID string, fields map[string]interface{}) error
	// AssignUsername sets the handle with a single conditional write guarded
	// by the unique index. Returns ErrHandleTaken when the candidate lost
	// the race, ErrHandleAlreadySet when the account already has one.
	AssignUsername(userID, username string) error
	SetApproved(userID string, approved bool) error
	SetAdmin(userID string, isAdmin bool) error
	IncrementProfileViews(userID string) error
	FindAll(limit, offset int) ([]models.User, int64, error)
	FindByRole(role models.UserRole, limit, offset int) ([]models.User, int64, error)
	Delete(userID string) error
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepositoryImpl) Update(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *UserRepositoryImpl) UpdateFields(userID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(fields).Error
}

func (r *UserRepositoryImpl) AssignUsername(userID, username string) error {
	res := r.db.Model(&models.User{}).
		Where("id = ? AND username IS NULL", userID).
		Update("username", username)
	if res.Error != nil {
		if isDuplicateKey(res.Error) {
			return ErrHandleTaken
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrHandleAlreadySet
	}
	return nil
}

func (r *UserRepositoryImpl) SetApproved(userID string, approved bool) error {
	res := r.db.Model(&models.User{}).Where("id = ?", userID).Update("approved", approved)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) SetAdmin(userID string, isAdmin bool) error {
	res := r.db.Model(&models.User{}).Where("id = ?", userID).Update("is_admin", isAdmin)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// IncrementProfileViews is a best-effort counter bump; a lost update here is
// acceptable.
func (r *UserRepositoryImpl) IncrementProfileViews(userID string) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("profile_views", gorm.Expr("profile_views + 1")).Error
}

func (r *UserRepositoryImpl) FindAll(limit, offset int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	if err := r.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error
	return users, total, err
}

func (r *UserRepositoryImpl) FindByRole(role models.UserRole, limit, offset int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	q := r.db.Model(&models.User{}).Where("role = ?", role)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error
	return users, total, err
}

func (r *UserRepositoryImpl) Delete(userID string) error {
	return r.db.Delete(&models.User{}, "id = ?", userID).Error
}
