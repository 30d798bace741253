package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"devlink_backend/internal/auth"
	"devlink_backend/internal/models"
	"devlink_backend/internal/oauth"
	"devlink_backend/internal/repositories"
	"devlink_backend/internal/services/dto"
	"devlink_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestAuthService(t *testing.T, db *gorm.DB) (AuthService, *auth.TokenService) {
	t.Helper()

	tokenService, err := auth.NewTokenService("unit-test-secret-0123456789", 15*time.Minute)
	require.NoError(t, err)

	svc := NewAuthService(
		repositories.NewUserRepository(db),
		repositories.NewIdentityRepository(db),
		repositories.NewRefreshTokenRepository(db),
		tokenService,
	)
	return svc, tokenService
}

func githubProfile(subject, email, login string) *oauth.Profile {
	return &oauth.Profile{
		Provider:    models.ProviderGitHub,
		SubjectID:   subject,
		Email:       email,
		LoginHandle: login,
		AccessToken: "gho_test",
	}
}

func TestOAuthCallback_CreatesAccountWithHandle(t *testing.T) {
	db := openTestDB(t)
	svc, tokens := newTestAuthService(t, db)

	resp, err := svc.HandleOAuthCallback(context.Background(), githubProfile("gh-1", "alex@example.com", "alex"), models.UserRoleDeveloper)
	require.NoError(t, err)

	assert.Equal(t, "alex", resp.User.Username)
	assert.Equal(t, models.UserRoleDeveloper, resp.User.Role)
	assert.False(t, resp.User.Approved, "developers wait for admin approval")

	claims, err := tokens.Validate(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID())
	assert.Equal(t, models.UserRoleDeveloper, claims.Role)
	assert.False(t, claims.Approved)

	var identities int64
	require.NoError(t, db.Model(&models.LinkedIdentity{}).
		Where("provider = ? AND provider_account_id = ?", models.ProviderGitHub, "gh-1").
		Count(&identities).Error)
	assert.EqualValues(t, 1, identities)
}

func TestOAuthCallback_ClientIsApprovedImmediately(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestAuthService(t, db)

	resp, err := svc.HandleOAuthCallback(context.Background(), githubProfile("gh-2", "client@example.com", "cli"), models.UserRoleClient)
	require.NoError(t, err)

	assert.Equal(t, models.UserRoleClient, resp.User.Role)
	assert.True(t, resp.User.Approved)
}

func TestOAuthCallback_SecondSignInReusesAccount(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestAuthService(t, db)
	ctx := context.Background()

	profile := githubProfile("gh-3", "repeat@example.com", "repeat")

	first, err := svc.HandleOAuthCallback(ctx, profile, models.UserRoleDeveloper)
	require.NoError(t, err)
	second, err := svc.HandleOAuthCallback(ctx, profile, models.UserRoleDeveloper)
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, "repeat", second.User.Username)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.EqualValues(t, 1, users)
}

func TestOAuthCallback_LinksIdentityToExistingEmailAccount(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestAuthService(t, db)

	existing := seedUser(t, db, "linked@example.com", models.UserRoleClient)

	// The requested role must not overwrite the existing account's role.
	resp, err := svc.HandleOAuthCallback(context.Background(), githubProfile("gh-4", "linked@example.com", "linked"), models.UserRoleDeveloper)
	require.NoError(t, err)

	assert.Equal(t, existing.ID, resp.User.ID)
	assert.Equal(t, models.UserRoleClient, resp.User.Role)

	var identity models.LinkedIdentity
	require.NoError(t, db.First(&identity, "provider_account_id = ?", "gh-4").Error)
	assert.Equal(t, existing.ID, identity.UserID)
}

func TestOAuthCallback_HandleCollisionTriesNumberedSuffixes(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestAuthService(t, db)

	seedUser(t, db, "taken@example.com", models.UserRoleDeveloper, withHandle("alex"))

	resp, err := svc.HandleOAuthCallback(context.Background(), githubProfile("gh-5", "alex@example.com", "alex"), models.UserRoleDeveloper)
	require.NoError(t, err)
	assert.Equal(t, "alex1", resp.User.Username)
}

func TestOAuthCallback_HandleExhaustionFallsBackToGenerated(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestAuthService(t, db)

	seedUser(t, db, "alex0@example.com", models.UserRoleDeveloper, withHandle("alex"))
	for _, suffix := range []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"} {
		seedUser(t, db, "alex"+suffix+"@example.com", models.UserRoleDeveloper, withHandle("alex"+suffix))
	}

	resp, err := svc.HandleOAuthCallback(context.Background(), githubProfile("gh-6", "alex@other.com", "alex"), models.UserRoleDeveloper)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(resp.User.Username, "alex-"), "got %q", resp.User.Username)
	assert.Greater(t, len(resp.User.Username), len("alex-"))
}

func TestOAuthCallback_HandleSurvivesConcurrentAssignment(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestAuthService(t, db)
	ctx := context.Background()

	first, err := svc.HandleOAuthCallback(ctx, githubProfile("gh-7", "stable@example.com", "stable"), models.UserRoleDeveloper)
	require.NoError(t, err)
	require.Equal(t, "stable", first.User.Username)

	// A later sign-in with a different provider login must not replace the
	// already assigned handle.
	again, err := svc.HandleOAuthCallback(ctx, githubProfile("gh-7", "stable@example.com", "renamed"), models.UserRoleDeveloper)
	require.NoError(t, err)
	assert.Equal(t, "stable", again.User.Username)
}

func TestOAuthCallback_MergeFillsOnlyEmptyFields(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestAuthService(t, db)
	ctx := context.Background()

	profile := githubProfile("gh-8", "writer@example.com", "writer")
	profile.Bio = "provider bio"
	profile.Location = "Berlin"

	first, err := svc.HandleOAuthCallback(ctx, profile, models.UserRoleDeveloper)
	require.NoError(t, err)

	// The user edits the bio; the provider keeps sending its own version.
	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", first.User.ID).
		Updates(map[string]interface{}{"bio": "my own words", "location": ""}).Error)

	profile.Bio = "provider bio v2"
	profile.Location = "Amsterdam"
	_, err = svc.HandleOAuthCallback(ctx, profile, models.UserRoleDeveloper)
	require.NoError(t, err)

	got := reloadUser(t, db, first.User.ID)
	assert.Equal(t, "my own words", got.Bio, "user-edited field must survive the merge")
	assert.Equal(t, "Amsterdam", got.Location, "emptied field is filled again")
}

func TestOAuthCallback_RejectsAssertionWithoutEmail(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestAuthService(t, db)

	_, err := svc.HandleOAuthCallback(context.Background(), githubProfile("gh-9", "", "noemail"), models.UserRoleDeveloper)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestLogin_PasswordAccount(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestAuthService(t, db)

	hash, err := auth.HashPassword("hunter2hunter2")
	require.NoError(t, err)
	seedUser(t, db, "admin@example.com", models.UserRoleClient, func(u *models.User) {
		u.PasswordHash = hash
		u.IsAdmin = true
	})

	resp, err := svc.Login(&dto.LoginRequest{Email: "admin@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.True(t, resp.User.IsAdmin)
	assert.NotEmpty(t, resp.RefreshToken)

	_, err = svc.Login(&dto.LoginRequest{Email: "admin@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogin_OAuthOnlyAccountHasNoPasswordPath(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestAuthService(t, db)

	seedUser(t, db, "oauth@example.com", models.UserRoleDeveloper)

	_, err := svc.Login(&dto.LoginRequest{Email: "oauth@example.com", Password: "anything"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRefresh_RotatesTokenAndRereadsAccount(t *testing.T) {
	db := openTestDB(t)
	svc, tokens := newTestAuthService(t, db)

	resp, err := svc.HandleOAuthCallback(context.Background(), githubProfile("gh-10", "fresh@example.com", "fresh"), models.UserRoleDeveloper)
	require.NoError(t, err)

	// Approval granted after the first token pair was issued.
	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", resp.User.ID).
		Update("approved", true).Error)

	rotated, err := svc.Refresh(resp.RefreshToken)
	require.NoError(t, err)

	claims, err := tokens.Validate(rotated.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.Approved, "refresh picks up the approval")

	// The old refresh token is single-use.
	_, err = svc.Refresh(resp.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestRefresh_ExpiredTokenRejected(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestAuthService(t, db)

	user := seedUser(t, db, "stale@example.com", models.UserRoleClient)
	rt := &models.RefreshToken{
		UserID:    user.ID,
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(rt).Error)

	_, err := svc.Refresh("expired-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestLogoutAll_RevokesEveryRefreshToken(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newTestAuthService(t, db)
	ctx := context.Background()

	profile := githubProfile("gh-11", "multi@example.com", "multi")
	first, err := svc.HandleOAuthCallback(ctx, profile, models.UserRoleClient)
	require.NoError(t, err)
	second, err := svc.HandleOAuthCallback(ctx, profile, models.UserRoleClient)
	require.NoError(t, err)

	require.NoError(t, svc.LogoutAll(first.User.ID))

	_, err = svc.Refresh(first.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	_, err = svc.Refresh(second.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestMaterializeSession_AuthorizationComesFromToken(t *testing.T) {
	db := openTestDB(t)
	svc, tokens := newTestAuthService(t, db)

	resp, err := svc.HandleOAuthCallback(context.Background(), githubProfile("gh-12", "snap@example.com", "snap"), models.UserRoleDeveloper)
	require.NoError(t, err)

	claims, err := tokens.Validate(resp.AccessToken)
	require.NoError(t, err)

	// Approval lands in the store after the token was issued; the session
	// view must keep showing the token's snapshot until a refresh.
	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", resp.User.ID).
		Updates(map[string]interface{}{"approved": true, "name": "Fresh Name"}).Error)

	session, err := svc.MaterializeSession(claims)
	require.NoError(t, err)
	assert.False(t, session.Approved, "authorization fields come from the token")
	assert.Equal(t, "Fresh Name", session.Name, "profile fields are re-read")
}

func TestHandleBase(t *testing.T) {
	tests := []struct {
		name    string
		profile oauth.Profile
		email   string
		want    string
	}{
		{"login handle wins", oauth.Profile{LoginHandle: "Octo-Cat", DisplayName: "Octo Cat"}, "octo@example.com", "octo-cat"},
		{"display name next", oauth.Profile{DisplayName: "Jane Q. Public"}, "jane@example.com", "jane-q-public"},
		{"email local part last", oauth.Profile{}, "sam.dev_99@example.com", "sam-dev-99"},
		{"everything unusable", oauth.Profile{LoginHandle: "---"}, "", "dev"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, handleBase(&tc.profile, tc.email))
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Alex":            "alex",
		"  Alex  Smith  ": "alex-smith",
		"alex.smith_99":   "alex-smith-99",
		"über-dev":        "ber-dev",
		"___":             "",
	}

	for input, want := range tests {
		assert.Equal(t, want, slugify(input), "slugify(%q)", input)
	}
}
