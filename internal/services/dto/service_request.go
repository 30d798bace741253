package dto

import "time"

type CreateServiceRequestRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	Budget      int    `json:"budget" validate:"omitempty,min=0"`
}

type ServiceRequestResponse struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"client_id"`
	DeveloperID string    `json:"developer_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Budget      int       `json:"budget,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
