package user

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(apperror.NotFound, "user not found")
	ErrEmailAlreadyUsed = apperror.New(apperror.Conflict, "email already used")
	ErrEmailRequired    = apperror.New(apperror.InvalidRequest, "email is required")
	ErrNameRequired     = apperror.New(apperror.InvalidRequest, "name is required")
)

// User represents a user in the system.
type User struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}

// UpdateUserRequest carries the fields allowed to change on a user.
// Nil fields are left untouched.
type UpdateUserRequest struct {
	Name  *string
	Email *string
}
