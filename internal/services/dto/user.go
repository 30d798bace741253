package dto

import "devlink_backend/internal/models"

// UpdateProfileRequest uses pointers so absent fields stay untouched.
type UpdateProfileRequest struct {
	Name     *string   `json:"name" validate:"omitempty,max=100"`
	Bio      *string   `json:"bio" validate:"omitempty,max=1000"`
	Location *string   `json:"location" validate:"omitempty,max=100"`
	Website  *string   `json:"website" validate:"omitempty,url"`
	Skills   *[]string `json:"skills" validate:"omitempty,max=30,dive,min=1,max=64"`
}

type PublicProfile struct {
	ID                string          `json:"id"`
	Username          string          `json:"username,omitempty"`
	Name              string          `json:"name,omitempty"`
	Role              models.UserRole `json:"role"`
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

type AdminUserRow struct {
	ID       string          `json:"id"`
	Email    string          `json:"email"`
	Username string          `json:"username,omitempty"`
	Role     models.UserRole `json:"role"`
	Approved bool            `json:"approved"`
	IsAdmin  bool            `json:"is_admin"`
}
