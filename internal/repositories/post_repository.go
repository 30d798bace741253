package repositories

import (
	"errors"

	"devlink_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
)

type PostRepository interface {
	FindByID(id string) (*models.Post, error)
	Create(post *models.Post) error
	Update(post *models.Post) error
	Delete(id string) error
	ListForUser(userID string, includeDrafts bool, limit, offset int) ([]models.Post, int64, error)
	ListPublished(limit, offset int) ([]models.Post, int64, error)

	CreateComment(comment *models.Comment) error
	FindCommentByID(id string) (*models.Comment, error)
	DeleteComment(id string) error
	ListCommentsForPost(postID string) ([]models.Comment, error)
	ListCommentsForProject(projectID string) ([]models.Comment, error)
}

type PostRepositoryImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &PostRepositoryImpl{db: db}
}

func (r *PostRepositoryImpl) FindByID(id string) (*models.Post, error) {
	var post models.Post
	err := r.db.First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *PostRepositoryImpl) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *PostRepositoryImpl) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

func (r *PostRepositoryImpl) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Like{}, "target_type = ? AND target_id = ?", models.LikeTargetPost, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Comment{}, "post_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, "id = ?", id).Error
	})
}

func (r *PostRepositoryImpl) ListForUser(userID string, includeDrafts bool, limit, offset int) ([]models.Post, int64, error) {
	var posts []models.Post
	var total int64

	q := r.db.Model(&models.Post{}).Where("user_id = ?", userID)
	if !includeDrafts {
		q = q.Where("published = ?", true)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error
	return posts, total, err
}

func (r *PostRepositoryImpl) ListPublished(limit, offset int) ([]models.Post, int64, error) {
	var posts []models.Post
	var total int64

	q := r.db.Model(&models.Post{}).Where("published = ?", true)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error
	return posts, total, err
}

func (r *PostRepositoryImpl) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *PostRepositoryImpl) FindCommentByID(id string) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *PostRepositoryImpl) DeleteComment(id string) error {
	return r.db.Delete(&models.Comment{}, "id = ?", id).Error
}

func (r *PostRepositoryImpl) ListCommentsForPost(postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("post_id = ?", postID).Order("created_at ASC").Find(&comments).Error
	return comments, err
}

func (r *PostRepositoryImpl) ListCommentsForProject(projectID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("project_id = ?", projectID).Order("created_at ASC").Find(&comments).Error
	return comments, err
}
