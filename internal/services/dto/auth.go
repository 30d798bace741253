package dto

import "devlink_backend/internal/models"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *SessionUser `json:"user"`
}

// SessionUser is the session surface exposed to callers. Username is
// re-read from the store on every materialization; role/approved/is_admin
// reflect the token snapshot.
type SessionUser struct {
	ID                string          `json:"id"`
	Username          string          `json:"username,omitempty"`
	Email             string          `json:"email"`
	Name              string          `json:"name,omitempty"`
	Role              models.UserRole `json:"role"`
	Approved          bool            `json:"approved"`
	IsAdmin           bool            `json:"is_admin"`
	Bio               string          `json:"bio,omitempty"`
	Location          string          `json:"location,omitempty"`
	Website           string          `json:"website,omitempty"`
	GithubURL         string          `json:"github_url,omitempty"`
	AvatarURL         string          `json:"avatar_url,omitempty"`
	Skills            []string        `json:"skills,omitempty"`
	FollowersCount    int             `json:"followers_count"`
	EndorsementsCount int             `json:"endorsements_count"`
	ProfileViews      int             `json:"profile_views"`
}
