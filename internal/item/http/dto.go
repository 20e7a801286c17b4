package http

import (
	"strings"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	"github.com/nekogravitycat/shareit-backend/internal/item"
)

// ItemTag is the compact item shape embedded in other resources.
type ItemTag struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
}

type ItemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"ownerId"`
}

func NewItemResponse(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		OwnerID:     it.OwnerID,
	}
}

// BookingInfo is the short booking shape used for last/next bookings.
type BookingInfo struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

func newBookingInfo(b *booking.Booking) *BookingInfo {
	if b == nil {
		return nil
	}
	return &BookingInfo{
		ID:       b.ID,
		BookerID: b.BookerID,
		Start:    b.Start,
		End:      b.End,
	}
}

type CommentResponse struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

func NewCommentResponse(c *comment.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		Text:       c.Text,
		AuthorName: c.AuthorName,
		Created:    c.CreatedAt,
	}
}

// ItemDetailResponse is an item with its comments and, for the owner, its last and next bookings.
type ItemDetailResponse struct {
	ItemResponse
	LastBooking *BookingInfo      `json:"lastBooking,omitempty"`
	NextBooking *BookingInfo      `json:"nextBooking,omitempty"`
	Comments    []CommentResponse `json:"comments"`
}

func NewItemDetailResponse(it *item.Item, summary *booking.Summary, comments []*comment.Comment) ItemDetailResponse {
	resp := ItemDetailResponse{
		ItemResponse: NewItemResponse(it),
		Comments:     make([]CommentResponse, len(comments)),
	}
	if summary != nil {
		resp.LastBooking = newBookingInfo(summary.Last)
		resp.NextBooking = newBookingInfo(summary.Next)
	}
	for i, c := range comments {
		resp.Comments[i] = NewCommentResponse(c)
	}
	return resp
}

type CreateItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
}

// Validate performs custom validation for CreateItemRequest.
func (r *CreateItemRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return item.ErrEmptyName
	}
	if strings.TrimSpace(r.Description) == "" {
		return item.ErrEmptyDescription
	}
	return nil
}

// UpdateItemRequest defines fields allowed to be updated via PATCH /items/:id.
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// Validate performs custom validation for UpdateItemRequest.
// Fields that are sent must not be blank.
func (r *UpdateItemRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return item.ErrEmptyName
	}
	if r.Description != nil && strings.TrimSpace(*r.Description) == "" {
		return item.ErrEmptyDescription
	}
	return nil
}

type SearchItemsRequest struct {
	Text string `form:"text"`
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}
