package item

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(apperror.NotFound, "item not found")
	ErrNotOwner            = apperror.New(apperror.Forbidden, "only the owner can modify the item")
	ErrEmptyName           = apperror.New(apperror.InvalidRequest, "name cannot be empty")
	ErrEmptyDescription    = apperror.New(apperror.InvalidRequest, "description cannot be empty")
	ErrAvailabilityMissing = apperror.New(apperror.InvalidRequest, "available must be set")
)

// Item is a thing a user lends out.
type Item struct {
	ID          int64
	OwnerID     int64
	Name        string
	Description string
	Available   bool
	CreatedAt   time.Time
}

type CreateRequest struct {
	Name        string
	Description string
	Available   *bool
}

// UpdateRequest carries a partial item update. Nil fields are left untouched.
type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}
