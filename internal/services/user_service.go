package services

import (
	"context"
	"encoding/json"
	"net/http"

	"devlink_backend/internal/logger"
	"devlink_backend/internal/models"
	"devlink_backend/internal/oauth"
	"devlink_backend/internal/repositories"
	"devlink_backend/internal/services/dto"
	"devlink_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

type UserService interface {
	GetProfile(userID string) (*dto.PublicProfile, error)
	UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.PublicProfile, error)
	// GetPublicProfile resolves a handle and bumps the view counter unless
	// the viewer is the owner.
	GetPublicProfile(handle, viewerID string) (*dto.PublicProfile, error)
	ListDevelopers(limit, offset int) (*dto.Paginated, error)
	// SyncFromGitHub re-reads the linked GitHub profile with the stored
	// token and merges it into the account.
	SyncFromGitHub(ctx context.Context, userID string) (*dto.PublicProfile, error)

	// Admin operations.
	ListUsers(limit, offset int) (*dto.Paginated, error)
	ApproveDeveloper(userID string) error
	SetAdmin(userID string, isAdmin bool) error
}

type UserServiceImpl struct {
	userRepo            repositories.UserRepository
	identityRepo        repositories.IdentityRepository
	github              *oauth.GitHubProvider
	notificationService NotificationService
}

func NewUserService(
	userRepo repositories.UserRepository,
	identityRepo repositories.IdentityRepository,
	github *oauth.GitHubProvider,
	notificationService NotificationService,
) UserService {
	return &UserServiceImpl{
		userRepo:            userRepo,
		identityRepo:        identityRepo,
		github:              github,
		notificationService: notificationService,
	}
}

func (s *UserServiceImpl) GetProfile(userID string) (*dto.PublicProfile, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return publicProfileFromModel(user), nil
}

func (s *UserServiceImpl) UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.PublicProfile, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	fields := make(map[string]interface{})
	if req.Name != nil {
		fields["name"] = *req.Name
		user.Name = *req.Name
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
		user.Bio = *req.Bio
	}
	if req.Location != nil {
		fields["location"] = *req.Location
		user.Location = *req.Location
	}
	if req.Website != nil {
		fields["website"] = *req.Website
		user.Website = *req.Website
	}
	if req.Skills != nil {
		raw, merr := json.Marshal(*req.Skills)
		if merr != nil {
			return nil, apperrors.InternalError(merr)
		}
		fields["skills"] = datatypes.JSON(raw)
		user.Skills = datatypes.JSON(raw)
	}

	if err := s.userRepo.UpdateFields(userID, fields); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return publicProfileFromModel(user), nil
}

func (s *UserServiceImpl) GetPublicProfile(handle, viewerID string) (*dto.PublicProfile, error) {
	user, err := s.userRepo.FindByUsername(handle)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if viewerID != user.ID {
		// Best-effort: a lost view count never fails the read.
		if verr := s.userRepo.IncrementProfileViews(user.ID); verr != nil {
			logger.WithError(verr).Warn("user: failed to bump profile views", "user_id", user.ID)
		} else {
			user.ProfileViews++
		}
	}

	return publicProfileFromModel(user), nil
}

func (s *UserServiceImpl) ListDevelopers(limit, offset int) (*dto.Paginated, error) {
	users, total, err := s.userRepo.FindByRole(models.UserRoleDeveloper, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.PublicProfile, 0, len(users))
	for i := range users {
		items = append(items, *publicProfileFromModel(&users[i]))
	}

	return &dto.Paginated{Items: items, Total: total, Page: offset/max(limit, 1) + 1, PageSize: limit}, nil
}

func (s *UserServiceImpl) SyncFromGitHub(ctx context.Context, userID string) (*dto.PublicProfile, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	identity, err := s.identityRepo.FindByProviderAndUser(models.ProviderGitHub, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrIdentityNotFound) {
			return nil, apperrors.ErrInvalidOperation("user", "No GitHub identity is linked to this account")
		}
		return nil, apperrors.InternalError(err)
	}
	if identity.AccessToken == "" {
		return nil, apperrors.ErrInvalidOperation("user", "No GitHub token is stored; sign in with GitHub again")
	}

	profile, err := s.github.FetchProfile(ctx, identity.AccessToken)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "oauth",
			"Failed to fetch the GitHub profile", http.StatusBadGateway)
	}

	fields := make(map[string]interface{})
	// Provider-owned fields follow the provider.
	if profile.AvatarURL != "" && profile.AvatarURL != user.AvatarURL {
		fields["avatar_url"] = profile.AvatarURL
		user.AvatarURL = profile.AvatarURL
	}
	if profile.ProfileURL != "" && profile.ProfileURL != user.GithubURL {
		fields["github_url"] = profile.ProfileURL
		user.GithubURL = profile.ProfileURL
	}
	// User-editable fields fill only when still empty.
	if user.Name == "" && profile.DisplayName != "" {
		fields["name"] = profile.DisplayName
		user.Name = profile.DisplayName
	}
	if user.Bio == "" && profile.Bio != "" {
		fields["bio"] = profile.Bio
		user.Bio = profile.Bio
	}
	if user.Location == "" && profile.Location != "" {
		fields["location"] = profile.Location
		user.Location = profile.Location
	}
	if user.Website == "" && profile.BlogURL != "" {
		fields["website"] = profile.BlogURL
		user.Website = profile.BlogURL
	}

	if err := s.userRepo.UpdateFields(userID, fields); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return publicProfileFromModel(user), nil
}

func (s *UserServiceImpl) ListUsers(limit, offset int) (*dto.Paginated, error) {
	users, total, err := s.userRepo.FindAll(limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.AdminUserRow, 0, len(users))
	for _, u := range users {
		items = append(items, dto.AdminUserRow{
			ID:       u.ID,
			Email:    u.Email,
			Username: u.Handle(),
			Role:     u.Role,
			Approved: u.Approved,
			IsAdmin:  u.IsAdmin,
		})
	}

	return &dto.Paginated{Items: items, Total: total, Page: offset/max(limit, 1) + 1, PageSize: limit}, nil
}

func (s *UserServiceImpl) ApproveDeveloper(userID string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	if user.Role != models.UserRoleDeveloper {
		return apperrors.ErrInvalidOperation("user", "Only developer accounts go through approval")
	}
	if user.Approved {
		return nil
	}

	if err := s.userRepo.SetApproved(userID, true); err != nil {
		return apperrors.InternalError(err)
	}

	s.notificationService.Dispatch(userID, models.NotificationRequestUpdate,
		"Account approved",
		"Your developer account has been approved",
		nil)
	return nil
}

func (s *UserServiceImpl) SetAdmin(userID string, isAdmin bool) error {
	if err := s.userRepo.SetAdmin(userID, isAdmin); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func publicProfileFromModel(user *models.User) *dto.PublicProfile {
	return &dto.PublicProfile{
		ID:                user.ID,
		Username:          user.Handle(),
		Name:              user.Name,
		Role:              user.Role,
		Bio:               user.Bio,
		Location:          user.Location,
		Website:           user.Website,
		GithubURL:         user.GithubURL,
		AvatarURL:         user.AvatarURL,
		Skills:            user.SkillList(),
		FollowersCount:    user.FollowersCount,
		EndorsementsCount: user.EndorsementsCount,
		ProfileViews:      user.ProfileViews,
	}
}
