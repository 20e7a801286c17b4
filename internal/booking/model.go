package booking

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(apperror.NotFound, "booking not found")
	ErrOwnerCannotBook   = apperror.New(apperror.Forbidden, "owner cannot book own item")
	ErrItemUnavailable   = apperror.New(apperror.InvalidRequest, "item is not available for booking")
	ErrInvalidTimeRange  = apperror.New(apperror.InvalidRequest, "start time must be before end time")
	ErrNotItemOwner      = apperror.New(apperror.Forbidden, "only the item owner can change the booking status")
	ErrAlreadyProcessed  = apperror.New(apperror.InvalidRequest, "booking already processed")
	ErrPermissionDenied  = apperror.New(apperror.Forbidden, "booking is visible only to the booker or the item owner")
	ErrTimeConflict      = apperror.New(apperror.Conflict, "time slot already booked")
	ErrInvalidPagination = apperror.New(apperror.InvalidRequest, "from must be >= 0 and size must be > 0")
)

type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	// StatusCanceled is reserved; no operation produces it.
	StatusCanceled Status = "CANCELED"
)

// Booking is a reservation of one item by one user over [Start, End).
// Item and booker fields are read through from their owning tables.
type Booking struct {
	ID     int64
	Start  time.Time
	End    time.Time
	Status Status

	ItemID          int64
	ItemName        string
	ItemDescription string
	ItemAvailable   bool
	ItemOwnerID     int64

	BookerID    int64
	BookerName  string
	BookerEmail string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CreateRequest struct {
	ItemID   int64
	BookerID int64
	Start    time.Time
	End      time.Time
}

// Filter selects bookings for List. Zero values mean "any".
type Filter struct {
	BookerID int64
	OwnerID  int64
	ItemID   int64
	Status   Status
	State    State
	// Now is the instant State is evaluated against.
	Now    time.Time
	Limit  int
	Offset int
}
