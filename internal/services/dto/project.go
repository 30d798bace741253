package dto

type CreateProjectRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"omitempty,max=5000"`
	RepoURL     string   `json:"repo_url" validate:"omitempty,url"`
	LiveURL     string   `json:"live_url" validate:"omitempty,url"`
	TechStack   []string `json:"tech_stack" validate:"omitempty,max=30,dive,min=1,max=64"`
}

type UpdateProjectRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=5000"`
	RepoURL     *string   `json:"repo_url" validate:"omitempty,url"`
	LiveURL     *string   `json:"live_url" validate:"omitempty,url"`
	TechStack   *[]string `json:"tech_stack" validate:"omitempty,max=30,dive,min=1,max=64"`
}

type ProjectResponse struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	RepoURL     string   `json:"repo_url,omitempty"`
	LiveURL     string   `json:"live_url,omitempty"`
	TechStack   []string `json:"tech_stack,omitempty"`
	LikesCount  int      `json:"likes_count"`
}
