package services

import (
	"testing"

	"devlink_backend/internal/models"
	"devlink_backend/internal/repositories"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// openTestDB returns an isolated in-memory database with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.LinkedIdentity{},
		&models.RefreshToken{},
		&models.Follow{},
		&models.Like{},
		&models.Endorsement{},
		&models.Project{},
		&models.Post{},
		&models.Comment{},
		&models.Testimonial{},
		&models.ServiceRequest{},
		&models.Notification{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, role models.UserRole, mutate ...func(*models.User)) *models.User {
	t.Helper()

	user := &models.User{
		Email:    email,
		Role:     role,
		Approved: true,
	}
	for _, m := range mutate {
		m(user)
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func withHandle(handle string) func(*models.User) {
	return func(u *models.User) { u.Username = &handle }
}

func withSkills(raw string) func(*models.User) {
	return func(u *models.User) { u.Skills = []byte(raw) }
}

func reloadUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, "id = ?", id).Error)
	return &user
}

func countNotifications(t *testing.T, db *gorm.DB, userID, ntype string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", userID, ntype).
		Count(&count).Error)
	return count
}

func newTestEngagementService(db *gorm.DB) EngagementService {
	return NewEngagementService(
		repositories.NewEngagementRepository(db),
		repositories.NewUserRepository(db),
		repositories.NewProjectRepository(db),
		repositories.NewPostRepository(db),
		NewNotificationService(repositories.NewNotificationRepository(db)),
	)
}
