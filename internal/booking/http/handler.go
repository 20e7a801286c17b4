package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := body.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	req := booking.CreateRequest{
		ItemID:   body.ItemID,
		BookerID: auth.GetUserID(c),
		Start:    body.Start.Time,
		End:      body.End.Time,
	}

	b, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// UpdateStatus approves or rejects a waiting booking. Only the item owner may call it.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var query UpdateStatusRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), uri.ID, *query.Approved, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), uri.ID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// List returns the caller's own bookings.
func (h *Handler) List(c *gin.Context) {
	h.list(c, h.service.ListForBooker)
}

// ListOwner returns bookings of the items the caller owns.
func (h *Handler) ListOwner(c *gin.Context) {
	h.list(c, h.service.ListForOwner)
}

type listFunc func(ctx context.Context, userID int64, state string, from, size int) ([]*booking.Booking, error)

func (h *Handler) list(c *gin.Context, fetch listFunc) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	bookings, err := fetch(c.Request.Context(), auth.GetUserID(c), req.State, req.From, req.Size)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, items)
}
