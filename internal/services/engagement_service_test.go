package services

import (
	"context"
	"testing"

	"devlink_backend/internal/models"
	"devlink_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestToggleFollow_FlipsBothDirections(t *testing.T) {
	db := openTestDB(t)
	svc := newTestEngagementService(db)
	ctx := context.Background()

	follower := seedUser(t, db, "follower@test.dev", models.UserRoleClient)
	target := seedUser(t, db, "target@test.dev", models.UserRoleDeveloper)

	resp, err := svc.ToggleFollow(ctx, follower.ID, target.ID)
	require.NoError(t, err)
	assert.Equal(t, "on", resp.State)
	assert.Equal(t, 1, reloadUser(t, db, target.ID).FollowersCount)

	on, err := svc.IsFollowing(follower.ID, target.ID)
	require.NoError(t, err)
	assert.True(t, on)

	resp, err = svc.ToggleFollow(ctx, follower.ID, target.ID)
	require.NoError(t, err)
	assert.Equal(t, "off", resp.State)
	assert.Equal(t, 0, reloadUser(t, db, target.ID).FollowersCount)

	on, err = svc.IsFollowing(follower.ID, target.ID)
	require.NoError(t, err)
	assert.False(t, on)
}

func TestToggleFollow_RepeatedCallsKeepParity(t *testing.T) {
	db := openTestDB(t)
	svc := newTestEngagementService(db)
	ctx := context.Background()

	follower := seedUser(t, db, "follower@test.dev", models.UserRoleClient)
	target := seedUser(t, db, "target@test.dev", models.UserRoleDeveloper)

	// Odd number of flips lands on "on" with the counter exactly 1.
	for i := 0; i < 5; i++ {
		_, err := svc.ToggleFollow(ctx, follower.ID, target.ID)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, reloadUser(t, db, target.ID).FollowersCount)

	var facts int64
	require.NoError(t, db.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", follower.ID, target.ID).
		Count(&facts).Error)
	assert.EqualValues(t, 1, facts)
}

func TestToggleFollow_RejectsSelf(t *testing.T) {
	db := openTestDB(t)
	svc := newTestEngagementService(db)

	user := seedUser(t, db, "solo@test.dev", models.UserRoleDeveloper)

	_, err := svc.ToggleFollow(context.Background(), user.ID, user.ID)
	assert.ErrorIs(t, err, apperrors.ErrSelfTarget)
	assert.Equal(t, 0, reloadUser(t, db, user.ID).FollowersCount)
}

func TestToggleFollow_UnknownTarget(t *testing.T) {
	db := openTestDB(t)
	svc := newTestEngagementService(db)

	follower := seedUser(t, db, "follower@test.dev", models.UserRoleClient)

	_, err := svc.ToggleFollow(context.Background(), follower.ID, "missing-id")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 404, appErr.HTTPCode)
}

func TestToggleFollow_NotifiesOnlyOnInsert(t *testing.T) {
	db := openTestDB(t)
	svc := newTestEngagementService(db)
	ctx := context.Background()

	follower := seedUser(t, db, "follower@test.dev", models.UserRoleClient, func(u *models.User) {
		u.Name = "Casey"
	})
	target := seedUser(t, db, "target@test.dev", models.UserRoleDeveloper)

	_, err := svc.ToggleFollow(ctx, follower.ID, target.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, countNotifications(t, db, target.ID, models.NotificationNewFollower))

	// The off flip stays silent.
	_, err = svc.ToggleFollow(ctx, follower.ID, target.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, countNotifications(t, db, target.ID, models.NotificationNewFollower))

	// Each 0->1 transition notifies again.
	_, err = svc.ToggleFollow(ctx, follower.ID, target.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, countNotifications(t, db, target.ID, models.NotificationNewFollower))
}

func TestToggleFollow_CounterFlooredAtZero(t *testing.T) {
	db := openTestDB(t)
	svc := newTestEngagementService(db)
	ctx := context.Background()

	follower := seedUser(t, db, "follower@test.dev", models.UserRoleClient)
	target := seedUser(t, db, "target@test.dev", models.UserRoleDeveloper)

	_, err := svc.ToggleFollow(ctx, follower.ID, target.ID)
	require.NoError(t, err)

	// Force the counter out of sync; the off flip must not drive it negative.
	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", target.ID).
		UpdateColumn("followers_count", 0).Error)

	resp, err := svc.ToggleFollow(ctx, follower.ID, target.ID)
	require.NoError(t, err)
	assert.Equal(t, "off", resp.State)
	assert.Equal(t, 0, reloadUser(t, db, target.ID).FollowersCount)
}

func TestToggleFollow_CounterMatchesFactCount(t *testing.T) {
	db := openTestDB(t)
	svc := newTestEngagementService(db)
	ctx := context.Background()

	target := seedUser(t, db, "target@test.dev", models.UserRoleDeveloper)
	a := seedUser(t, db, "a@test.dev", models.UserRoleClient)
	b := seedUser(t, db, "b@test.dev", models.UserRoleClient)
	c := seedUser(t, db, "c@test.dev", models.UserRoleClient)

	for _, follower := range []*models.User{a, b, c} {
		_, err := svc.ToggleFollow(ctx, follower.ID, target.ID)
		require.NoError(t, err)
	}
	_, err := svc.ToggleFollow(ctx, b.ID, target.ID)
	require.NoError(t, err)

	var facts int64
	require.NoError(t, db.Model(&models.Follow{}).
		Where("following_id = ?", target.ID).
		Count(&facts).Error)
	assert.EqualValues(t, 2, facts)
	assert.Equal(t, 2, reloadUser(t, db, target.ID).FollowersCount)
}

func TestToggleLike_Project(t *testing.T) {
	db := openTestDB(t)
	svc := newTestEngagementService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@test.dev", models.UserRoleDeveloper)
	liker := seedUser(t, db, "liker@test.dev", models.UserRoleClient)

	project := &models.Project{UserID: owner.ID, Title: "devlink"}
	require.NoError(t, db.Create(project).Error)

	resp, err := svc.ToggleLike(ctx, liker.ID, models.LikeTargetProject, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "on", resp.State)

	var got models.Project
	require.NoError(t, db.First(&got, "id = ?", project.ID).Error)
	assert.Equal(t, 1, got.LikesCount)
	assert.EqualValues(t, 1, countNotifications(t, db, owner.ID, models.NotificationNewLike))

	resp, err = svc.ToggleLike(ctx, liker.ID, models.LikeTargetProject, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "off", resp.State)

	require.NoError(t, db.First(&got, "id = ?", project.ID).Error)
	assert.Equal(t, 0, got.LikesCount)
}

func TestToggleLike_OwnContentRejected(t *testing.T) {
	db := openTestDB(t)
	svc := newTestEngagementService(db)

	owner := seedUser(t, db, "owner@test.dev", models.UserRoleDeveloper)
	project := &models.Project{UserID: owner.ID, Title: "devlink"}
	require.NoError(t, db.Create(project).Error)

	_, err := svc.ToggleLike(context.Background(), owner.ID, models.LikeTargetProject, project.ID)
	assert.ErrorIs(t, err, apperrors.ErrSelfTarget)
}

func TestToggleLike_DraftPostHidden(t *testing.T) {
	db := openTestDB(t)
	svc := newTestEngagementService(db)

	author := seedUser(t, db, "author@test.dev", models.UserRoleDeveloper)
	liker := seedUser(t, db, "liker@test.dev", models.UserRoleClient)

	draft := &models.Post{UserID: author.ID, Title: "wip", Published: false}
	require.NoError(t, db.Create(draft).Error)

	_, err := svc.ToggleLike(context.Background(), liker.ID, models.LikeTargetPost, draft.ID)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 404, appErr.HTTPCode)
}

func TestToggleLike_UnknownTargetType(t *testing.T) {
	db := openTestDB(t)
	svc := newTestEngagementService(db)

	liker := seedUser(t, db, "liker@test.dev", models.UserRoleClient)

	_, err := svc.ToggleLike(context.Background(), liker.ID, "comment", "some-id")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestToggleEndorsement_DeclaredSkillOnly(t *testing.T) {
	db := openTestDB(t)
	svc := newTestEngagementService(db)
	ctx := context.Background()

	developer := seedUser(t, db, "dev@test.dev", models.UserRoleDeveloper, withSkills(`["go","react"]`))
	endorser := seedUser(t, db, "client@test.dev", models.UserRoleClient)

	resp, err := svc.ToggleEndorsement(ctx, endorser.ID, developer.ID, "go")
	require.NoError(t, err)
	assert.Equal(t, "on", resp.State)
	assert.Equal(t, 1, reloadUser(t, db, developer.ID).EndorsementsCount)
	assert.EqualValues(t, 1, countNotifications(t, db, developer.ID, models.NotificationNewEndorsement))

	_, err = svc.ToggleEndorsement(ctx, endorser.ID, developer.ID, "python")
	assert.ErrorIs(t, err, apperrors.ErrUnknownSkill)

	resp, err = svc.ToggleEndorsement(ctx, endorser.ID, developer.ID, "go")
	require.NoError(t, err)
	assert.Equal(t, "off", resp.State)
	assert.Equal(t, 0, reloadUser(t, db, developer.ID).EndorsementsCount)
}

func TestToggleEndorsement_SameSkillDifferentEndorsers(t *testing.T) {
	db := openTestDB(t)
	svc := newTestEngagementService(db)
	ctx := context.Background()

	developer := seedUser(t, db, "dev@test.dev", models.UserRoleDeveloper, withSkills(`["go"]`))
	a := seedUser(t, db, "a@test.dev", models.UserRoleClient)
	b := seedUser(t, db, "b@test.dev", models.UserRoleClient)

	_, err := svc.ToggleEndorsement(ctx, a.ID, developer.ID, "go")
	require.NoError(t, err)
	_, err = svc.ToggleEndorsement(ctx, b.ID, developer.ID, "go")
	require.NoError(t, err)

	assert.Equal(t, 2, reloadUser(t, db, developer.ID).EndorsementsCount)

	rows, err := svc.ListEndorsements(developer.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestToggleEndorsement_NonDeveloperTarget(t *testing.T) {
	db := openTestDB(t)
	svc := newTestEngagementService(db)

	client := seedUser(t, db, "client@test.dev", models.UserRoleClient)
	endorser := seedUser(t, db, "endorser@test.dev", models.UserRoleDeveloper)

	_, err := svc.ToggleEndorsement(context.Background(), endorser.ID, client.ID, "go")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 400, appErr.HTTPCode)
}

// forceConflictingFollow arranges for another request to insert the same
// follow row just before this one, reproducing the insert race inside a
// single deterministic transaction.
func forceConflictingFollow(t *testing.T, db *gorm.DB, followerID, followingID string) {
	t.Helper()

	fired := false
	err := db.Callback().Create().Before("gorm:create").Register("test:conflicting_follow", func(tx *gorm.DB) {
		if fired {
			return
		}
		if _, ok := tx.Statement.Dest.(*models.Follow); !ok {
			return
		}
		fired = true

		winner := &models.Follow{FollowerID: followerID, FollowingID: followingID}
		if err := tx.Session(&gorm.Session{NewDB: true}).Create(winner).Error; err != nil {
			_ = tx.AddError(err)
		}
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Callback().Create().Remove("test:conflicting_follow")
	})
}

func TestToggleFollow_DuplicateInsertReportedAsOn(t *testing.T) {
	db := openTestDB(t)
	svc := newTestEngagementService(db)

	follower := seedUser(t, db, "racer@test.dev", models.UserRoleClient)
	target := seedUser(t, db, "raced@test.dev", models.UserRoleDeveloper)

	forceConflictingFollow(t, db, follower.ID, target.ID)

	// The unique index rejects the second insert; the caller still gets a
	// definite on state, not an error.
	resp, err := svc.ToggleFollow(context.Background(), follower.ID, target.ID)
	require.NoError(t, err)
	assert.Equal(t, "on", resp.State)

	// The losing request created nothing, so it must not notify.
	assert.EqualValues(t, 0, countNotifications(t, db, target.ID, models.NotificationNewFollower))

	// Counter and fact count stay in lockstep.
	var facts int64
	require.NoError(t, db.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", follower.ID, target.ID).
		Count(&facts).Error)
	assert.EqualValues(t, facts, reloadUser(t, db, target.ID).FollowersCount)
}

func TestToggleFollow_DeletedActorRejected(t *testing.T) {
	db := openTestDB(t)
	svc := newTestEngagementService(db)

	actor := seedUser(t, db, "gone@test.dev", models.UserRoleClient)
	target := seedUser(t, db, "still-here@test.dev", models.UserRoleDeveloper, withSkills(`["go"]`))
	project := &models.Project{UserID: target.ID, Title: "devlink"}
	require.NoError(t, db.Create(project).Error)
	require.NoError(t, db.Delete(&models.User{}, "id = ?", actor.ID).Error)

	// A token can outlive its account; toggles treat that as a stale
	// session rather than a server error.
	_, err := svc.ToggleFollow(context.Background(), actor.ID, target.ID)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = svc.ToggleLike(context.Background(), actor.ID, models.LikeTargetProject, project.ID)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = svc.ToggleEndorsement(context.Background(), actor.ID, target.ID, "go")
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
