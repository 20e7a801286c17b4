package http

import (
	"strings"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// UserTag is the compact user shape embedded in other resources.
type UserTag struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateUserRequest defines the payload for POST /users.
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// Validate performs custom validation for CreateUserRequest.
func (r *CreateUserRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return user.ErrNameRequired
	}
	return nil
}

// UpdateUserRequest defines fields allowed to be updated via PATCH /users/:id.
// Use pointers to distinguish between "field not sent" and "field sent as empty".
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// Validate performs custom validation for UpdateUserRequest.
func (r *UpdateUserRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return user.ErrNameRequired
	}
	return nil
}
