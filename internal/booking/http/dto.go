package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	itemHttp "github.com/nekogravitycat/shareit-backend/internal/item/http"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	userHttp "github.com/nekogravitycat/shareit-backend/internal/user/http"
)

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	State string `form:"state"`
}

type BookingResponse struct {
	ID     int64            `json:"id"`
	Start  time.Time        `json:"start"`
	End    time.Time        `json:"end"`
	Status string           `json:"status"`
	Item   itemHttp.ItemTag `json:"item"`
	Booker userHttp.UserTag `json:"booker"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:     b.ID,
		Start:  b.Start,
		End:    b.End,
		Status: string(b.Status),
		Item: itemHttp.ItemTag{
			ID:          b.ItemID,
			Name:        b.ItemName,
			Description: b.ItemDescription,
			Available:   b.ItemAvailable,
		},
		Booker: userHttp.UserTag{
			ID:    b.BookerID,
			Name:  b.BookerName,
			Email: b.BookerEmail,
		},
	}
}

type CreateBookingRequest struct {
	ItemID int64              `json:"itemId" binding:"required,min=1"`
	Start  *request.Timestamp `json:"start" binding:"required"`
	End    *request.Timestamp `json:"end" binding:"required"`
}

// Validate performs custom validation for CreateBookingRequest.
// Ordering of start and end is checked by the service after the item checks.
func (r *CreateBookingRequest) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return booking.ErrInvalidTimeRange
	}
	return nil
}

// UpdateStatusRequest binds the approval decision of PATCH /bookings/:id.
type UpdateStatusRequest struct {
	Approved *bool `form:"approved" binding:"required"`
}
