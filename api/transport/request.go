package transport

import "time"

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=100"`
	FullName string `json:"full_name" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type AccountUpdateRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
}

type TaskCreateRequest struct {
	Title       string     `json:"title" validate:"required,max=100"`
	Description string     `json:"description" validate:"omitempty,max=500"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Status      string     `json:"status" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	DueDate     *time.Time `json:"due_date"`
}

// TaskUpdateRequest uses pointers so absent fields are distinguishable from
// zero values: only supplied fields are applied.
type TaskUpdateRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string    `json:"description" validate:"omitempty,max=500"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Status      *string    `json:"status" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	DueDate     *time.Time `json:"due_date"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
