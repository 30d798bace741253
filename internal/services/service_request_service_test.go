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

func newTestRequestService(db *gorm.DB) ServiceRequestService {
	return NewServiceRequestService(
		repositories.NewServiceRequestRepository(db),
		repositories.NewUserRepository(db),
		NewNotificationService(repositories.NewNotificationRepository(db)),
	)
}

func TestServiceRequest_AcceptThenComplete(t *testing.T) {
	db := openTestDB(t)
	svc := newTestRequestService(db)

	client := seedUser(t, db, "client@test.dev", models.UserRoleClient)
	developer := seedUser(t, db, "dev@test.dev", models.UserRoleDeveloper)

	created, err := svc.Create(client.ID, developer.ID, &dto.CreateServiceRequestRequest{
		Title:  "Build an API",
		Budget: 2000,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, created.Status)
	assert.EqualValues(t, 1, countNotifications(t, db, developer.ID, models.NotificationNewRequest))

	accepted, err := svc.Accept(developer.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusAccepted, accepted.Status)

	completed, err := svc.Complete(developer.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusCompleted, completed.Status)

	// The client hears about every transition.
	assert.EqualValues(t, 2, countNotifications(t, db, client.ID, models.NotificationRequestUpdate))
}

func TestServiceRequest_TransitionConflicts(t *testing.T) {
	db := openTestDB(t)
	svc := newTestRequestService(db)

	client := seedUser(t, db, "client@test.dev", models.UserRoleClient)
	developer := seedUser(t, db, "dev@test.dev", models.UserRoleDeveloper)

	created, err := svc.Create(client.ID, developer.ID, &dto.CreateServiceRequestRequest{Title: "Fix the build"})
	require.NoError(t, err)

	// Completion requires a prior accept.
	_, err = svc.Complete(developer.ID, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrRequestNotAccepted)

	_, err = svc.Decline(developer.ID, created.ID)
	require.NoError(t, err)

	// A declined request is settled; neither accept nor decline reopen it.
	_, err = svc.Accept(developer.ID, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrRequestNotPending)
	_, err = svc.Decline(developer.ID, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrRequestNotPending)
}

func TestServiceRequest_OnlyAssignedDeveloperTransitions(t *testing.T) {
	db := openTestDB(t)
	svc := newTestRequestService(db)

	client := seedUser(t, db, "client@test.dev", models.UserRoleClient)
	developer := seedUser(t, db, "dev@test.dev", models.UserRoleDeveloper)
	other := seedUser(t, db, "other@test.dev", models.UserRoleDeveloper)

	created, err := svc.Create(client.ID, developer.ID, &dto.CreateServiceRequestRequest{Title: "Audit"})
	require.NoError(t, err)

	_, err = svc.Accept(other.ID, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
}

func TestServiceRequest_CreateRejectsUnapprovedDeveloper(t *testing.T) {
	db := openTestDB(t)
	svc := newTestRequestService(db)

	client := seedUser(t, db, "client@test.dev", models.UserRoleClient)
	pending := seedUser(t, db, "pending@test.dev", models.UserRoleDeveloper, func(u *models.User) {
		u.Approved = false
	})

	_, err := svc.Create(client.ID, pending.ID, &dto.CreateServiceRequestRequest{Title: "Too early"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestServiceRequest_GetVisibleToParticipantsOnly(t *testing.T) {
	db := openTestDB(t)
	svc := newTestRequestService(db)

	client := seedUser(t, db, "client@test.dev", models.UserRoleClient)
	developer := seedUser(t, db, "dev@test.dev", models.UserRoleDeveloper)
	stranger := seedUser(t, db, "stranger@test.dev", models.UserRoleClient)

	created, err := svc.Create(client.ID, developer.ID, &dto.CreateServiceRequestRequest{Title: "Private"})
	require.NoError(t, err)

	_, err = svc.Get(client.ID, created.ID)
	assert.NoError(t, err)
	_, err = svc.Get(developer.ID, created.ID)
	assert.NoError(t, err)
	_, err = svc.Get(stranger.ID, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
}
