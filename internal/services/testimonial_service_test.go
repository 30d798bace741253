package services

import (
	"testing"

	"devlink_backend/internal/models"
	"devlink_backend/internal/repositories"
	"devlink_backend/internal/services/dto"
	"devlink_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestTestimonialService(db *gorm.DB) TestimonialService {
	return NewTestimonialService(
		repositories.NewTestimonialRepository(db),
		repositories.NewUserRepository(db),
		NewNotificationService(repositories.NewNotificationRepository(db)),
	)
}

func TestTestimonial_ApprovedOnesBecomePublic(t *testing.T) {
	db := openTestDB(t)
	svc := newTestTestimonialService(db)

	client := seedUser(t, db, "client@test.dev", models.UserRoleClient)
	developer := seedUser(t, db, "dev@test.dev", models.UserRoleDeveloper)

	created, err := svc.Create(client.ID, developer.ID, &dto.CreateTestimonialRequest{
		Content: "Shipped on time, great communication.",
		Rating:  5,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TestimonialStatusPending, created.Status)
	assert.EqualValues(t, 1, countNotifications(t, db, developer.ID, models.NotificationNewTestimonial))

	// Pending entries stay off the public profile.
	public, err := svc.ListPublic(developer.ID, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, public.Total)

	require.NoError(t, svc.Moderate(developer.ID, created.ID, true))

	public, err = svc.ListPublic(developer.ID, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, public.Total)
}

func TestTestimonial_ModerationIsOneShot(t *testing.T) {
	db := openTestDB(t)
	svc := newTestTestimonialService(db)

	client := seedUser(t, db, "client@test.dev", models.UserRoleClient)
	developer := seedUser(t, db, "dev@test.dev", models.UserRoleDeveloper)

	created, err := svc.Create(client.ID, developer.ID, &dto.CreateTestimonialRequest{Content: "ok", Rating: 3})
	require.NoError(t, err)

	require.NoError(t, svc.Moderate(developer.ID, created.ID, false))

	// A rejected testimonial cannot be flipped to approved later.
	err = svc.Moderate(developer.ID, created.ID, true)
	assert.ErrorIs(t, err, apperrors.ErrTestimonialModerated)

	public, err := svc.ListPublic(developer.ID, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, public.Total)
}

func TestTestimonial_OnlySubjectDeveloperModerates(t *testing.T) {
	db := openTestDB(t)
	svc := newTestTestimonialService(db)

	client := seedUser(t, db, "client@test.dev", models.UserRoleClient)
	developer := seedUser(t, db, "dev@test.dev", models.UserRoleDeveloper)
	other := seedUser(t, db, "other@test.dev", models.UserRoleDeveloper)

	created, err := svc.Create(client.ID, developer.ID, &dto.CreateTestimonialRequest{Content: "fine", Rating: 4})
	require.NoError(t, err)

	err = svc.Moderate(other.ID, created.ID, true)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
}

func TestTestimonial_CreateRejectsNonDeveloperTarget(t *testing.T) {
	db := openTestDB(t)
	svc := newTestTestimonialService(db)

	client := seedUser(t, db, "client@test.dev", models.UserRoleClient)
	otherClient := seedUser(t, db, "other@test.dev", models.UserRoleClient)

	_, err := svc.Create(client.ID, otherClient.ID, &dto.CreateTestimonialRequest{Content: "nope", Rating: 1})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 400, appErr.HTTPCode)
}
