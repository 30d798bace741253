package dto

import "time"

type CreateTestimonialRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
}

type TestimonialResponse struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"client_id"`
	DeveloperID string    `json:"developer_id"`
	Content     string    `json:"content"`
	Rating      int       `json:"rating"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
