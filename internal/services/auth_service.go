package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"devlink_backend/internal/auth"
	"devlink_backend/internal/logger"
	"devlink_backend/internal/models"
	"devlink_backend/internal/oauth"
	"devlink_backend/internal/repositories"
	"devlink_backend/internal/services/dto"
	"devlink_backend/pkg/apperrors"

	"github.com/rs/xid"
)

const (
	refreshTokenTTL = 30 * 24 * time.Hour
	// handleAttempts bounds the numbered-suffix retries before falling back
	// to a generated handle. Keeps first sign-in latency predictable under
	// pathological collision rates.
	handleAttempts = 10
)

type AuthService interface {
	// HandleOAuthCallback resolves the provider assertion to exactly one
	// account (creating it on first contact), enriches the profile, and
	// issues a token pair. Enrichment failures never fail the sign-in.
	HandleOAuthCallback(ctx context.Context, profile *oauth.Profile, requestedRole models.UserRole) (*dto.LoginResponse, error)
	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(refreshToken string) (*dto.LoginResponse, error)
	Logout(refreshToken string) error
	LogoutAll(userID string) error
	// MaterializeSession builds the session view: profile fields re-read
	// from the store, authorization fields taken from the token snapshot.
	MaterializeSession(claims *auth.Claims) (*dto.SessionUser, error)
}

type AuthServiceImpl struct {
	userRepo         repositories.UserRepository
	identityRepo     repositories.IdentityRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	tokenService     *auth.TokenService
}

func NewAuthService(
	userRepo repositories.UserRepository,
	identityRepo repositories.IdentityRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	tokenService *auth.TokenService,
) AuthService {
	return &AuthServiceImpl{
		userRepo:         userRepo,
		identityRepo:     identityRepo,
		refreshTokenRepo: refreshTokenRepo,
		tokenService:     tokenService,
	}
}

func (s *AuthServiceImpl) HandleOAuthCallback(ctx context.Context, profile *oauth.Profile, requestedRole models.UserRole) (*dto.LoginResponse, error) {
	if profile.SubjectID == "" {
		return nil, apperrors.NewBadRequestError("The identity provider returned no account id")
	}
	if profile.Email == "" {
		return nil, apperrors.NewBadRequestError("The identity provider returned no email address; make your email visible and retry")
	}

	user, err := s.resolveAccount(profile, requestedRole)
	if err != nil {
		return nil, err
	}

	s.enrichFromProvider(ctx, user, profile)

	return s.issueTokens(user)
}

// resolveAccount maps (provider, subject id) to exactly one account:
// linked identity first, then email match, then a fresh account. Linking
// races collapse onto whichever request created the identity row.
func (s *AuthServiceImpl) resolveAccount(profile *oauth.Profile, requestedRole models.UserRole) (*models.User, error) {
	identity, err := s.identityRepo.FindByProviderAccount(profile.Provider, profile.SubjectID)
	switch {
	case err == nil:
		if profile.AccessToken != "" {
			if uerr := s.identityRepo.UpdateAccessToken(identity.ID, profile.AccessToken); uerr != nil {
				logger.WithError(uerr).Warn("auth: failed to refresh stored provider token", "identity_id", identity.ID)
			}
		}
		user, err := s.userRepo.FindByID(identity.UserID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		return user, nil
	case !apperrors.Is(err, repositories.ErrIdentityNotFound):
		return nil, apperrors.InternalError(err)
	}

	user, err := s.userRepo.FindByEmail(profile.Email)
	switch {
	case err == nil:
		// Existing account, first contact through this provider.
	case apperrors.Is(err, repositories.ErrUserNotFound):
		user, err = s.createAccount(profile, requestedRole)
		if err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.InternalError(err)
	}

	linkErr := s.identityRepo.Create(&models.LinkedIdentity{
		UserID:            user.ID,
		Provider:          profile.Provider,
		ProviderAccountID: profile.SubjectID,
		AccessToken:       profile.AccessToken,
	})
	if linkErr != nil {
		if apperrors.Is(linkErr, repositories.ErrIdentityAlreadyLinked) {
			// A concurrent first sign-in linked the identity; follow it.
			identity, ferr := s.identityRepo.FindByProviderAccount(profile.Provider, profile.SubjectID)
			if ferr != nil {
				return nil, apperrors.InternalError(ferr)
			}
			linked, ferr := s.userRepo.FindByID(identity.UserID)
			if ferr != nil {
				return nil, apperrors.InternalError(ferr)
			}
			return linked, nil
		}
		return nil, apperrors.InternalError(linkErr)
	}

	return user, nil
}

func (s *AuthServiceImpl) createAccount(profile *oauth.Profile, requestedRole models.UserRole) (*models.User, error) {
	role := requestedRole
	if role != models.UserRoleDeveloper && role != models.UserRoleClient {
		role = models.UserRoleDeveloper
	}

	user := &models.User{
		Email: profile.Email,
		Role:  role,
		// Developers go through admin approval; clients are live immediately.
		Approved:  role == models.UserRoleClient,
		Name:      profile.DisplayName,
		AvatarURL: profile.AvatarURL,
	}

	if err := s.userRepo.Create(user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			// Concurrent signup with the same email won; reuse that account.
			existing, ferr := s.userRepo.FindByEmail(profile.Email)
			if ferr != nil {
				return nil, apperrors.InternalError(ferr)
			}
			return existing, nil
		}
		return nil, apperrors.InternalError(err)
	}

	return user, nil
}

// enrichFromProvider assigns the handle and merges provider profile fields.
// Both steps are best-effort: a failure here is logged and the sign-in
// proceeds with whatever state the account has.
func (s *AuthServiceImpl) enrichFromProvider(ctx context.Context, user *models.User, profile *oauth.Profile) {
	// Only the rich provider carries a natural handle candidate; accounts
	// created through a basic provider stay handleless until their first
	// GitHub sign-in.
	if user.Username == nil && profile.Provider == models.ProviderGitHub {
		handle, err := s.assignHandle(user, profile)
		if err != nil {
			logger.CtxWithError(ctx, "auth: handle assignment failed", err, "user_id", user.ID)
		} else if handle != "" {
			user.Username = &handle
		}
	}

	if err := s.mergeProviderProfile(user, profile); err != nil {
		logger.CtxWithError(ctx, "auth: provider profile merge failed", err, "user_id", user.ID)
	}
}

// assignHandle claims a unique handle with conditional writes only: each
// candidate is a single guarded UPDATE, and losing the unique index simply
// advances to the next candidate. After the numbered attempts a generated
// suffix guarantees termination.
func (s *AuthServiceImpl) assignHandle(user *models.User, profile *oauth.Profile) (string, error) {
	base := handleBase(profile, user.Email)

	for i := 0; i < handleAttempts; i++ {
		candidate := base
		if i > 0 {
			candidate = base + strconv.Itoa(i)
		}
		err := s.userRepo.AssignUsername(user.ID, candidate)
		switch {
		case err == nil:
			return candidate, nil
		case apperrors.Is(err, repositories.ErrHandleAlreadySet):
			// A concurrent sign-in assigned one; nothing to do.
			return "", nil
		case apperrors.Is(err, repositories.ErrHandleTaken):
			continue
		default:
			return "", err
		}
	}

	candidate := base + "-" + xid.New().String()
	err := s.userRepo.AssignUsername(user.ID, candidate)
	switch {
	case err == nil:
		return candidate, nil
	case apperrors.Is(err, repositories.ErrHandleAlreadySet):
		return "", nil
	default:
		return "", err
	}
}

// mergeProviderProfile fills only empty profile columns, so a user-edited
// field is never clobbered by provider data on a later sign-in.
func (s *AuthServiceImpl) mergeProviderProfile(user *models.User, profile *oauth.Profile) error {
	fields := make(map[string]interface{})

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
	if user.GithubURL == "" && profile.ProfileURL != "" {
		fields["github_url"] = profile.ProfileURL
		user.GithubURL = profile.ProfileURL
	}
	if user.AvatarURL == "" && profile.AvatarURL != "" {
		fields["avatar_url"] = profile.AvatarURL
		user.AvatarURL = profile.AvatarURL
	}

	return s.userRepo.UpdateFields(user.ID, fields)
}

func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	// OAuth-only accounts have no password hash and cannot use this path.
	if user.PasswordHash == "" || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// Refresh rotates the refresh token and re-reads the account, so role,
// approval and admin changes land on the new access token.
func (s *AuthServiceImpl) Refresh(refreshToken string) (*dto.LoginResponse, error) {
	rt, err := s.refreshTokenRepo.Find(refreshToken)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}

	if time.Now().After(rt.ExpiresAt) {
		_ = s.refreshTokenRepo.Delete(refreshToken)
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(rt.UserID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			_ = s.refreshTokenRepo.Delete(refreshToken)
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.refreshTokenRepo.Delete(refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.issueTokens(user)
}

func (s *AuthServiceImpl) Logout(refreshToken string) error {
	if err := s.refreshTokenRepo.Delete(refreshToken); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthServiceImpl) LogoutAll(userID string) error {
	if err := s.refreshTokenRepo.DeleteForUser(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthServiceImpl) MaterializeSession(claims *auth.Claims) (*dto.SessionUser, error) {
	user, err := s.userRepo.FindByID(claims.UserID())
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}

	su := sessionUserFromModel(user)
	// Authorization fields come from the token, not the row: mid-session
	// admin changes only apply after a refresh.
	su.Role = claims.Role
	su.Approved = claims.Approved
	su.IsAdmin = claims.IsAdmin
	return su, nil
}

func (s *AuthServiceImpl) issueTokens(user *models.User) (*dto.LoginResponse, error) {
	access, err := s.tokenService.Generate(user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refresh, err := generateRefreshToken()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	rt := &models.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.refreshTokenRepo.Create(rt); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         sessionUserFromModel(user),
	}, nil
}

func sessionUserFromModel(user *models.User) *dto.SessionUser {
	return &dto.SessionUser{
		ID:                user.ID,
		Username:          user.Handle(),
		Email:             user.Email,
		Name:              user.Name,
		Role:              user.Role,
		Approved:          user.Approved,
		IsAdmin:           user.IsAdmin,
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

func generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// handleBase picks the handle seed: the provider's login name, then the
// display name, then the email local part.
func handleBase(profile *oauth.Profile, email string) string {
	for _, candidate := range []string{profile.LoginHandle, profile.DisplayName, emailLocalPart(email)} {
		if slug := slugify(candidate); slug != "" {
			return slug
		}
	}
	return "dev"
}

func emailLocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}

// slugify lowercases and keeps [a-z0-9-], collapsing separator runs.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		case r == ' ' || r == '-' || r == '_' || r == '.':
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
