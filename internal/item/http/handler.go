package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

type Handler struct {
	service        item.Service
	bookingService booking.Service
	commentService comment.Service
}

func NewHandler(service item.Service, bookingService booking.Service, commentService comment.Service) *Handler {
	return &Handler{
		service:        service,
		bookingService: bookingService,
		commentService: commentService,
	}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := body.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := item.CreateRequest{
		Name:        body.Name,
		Description: body.Description,
		Available:   body.Available,
	}

	it, err := h.service.Create(c.Request.Context(), auth.GetUserID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewItemResponse(it))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body UpdateItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := body.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := item.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		Available:   body.Available,
	}

	it, err := h.service.Update(c.Request.Context(), uri.ID, auth.GetUserID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewItemResponse(it))
}

// Get returns an item with its comments. The owner also sees the last and next bookings.
func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	it, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.detail(c, it)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// List returns the caller's items ordered by id.
func (h *Handler) List(c *gin.Context) {
	items, err := h.service.ListByOwner(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := make([]ItemDetailResponse, len(items))
	for i, it := range items {
		resp[i], err = h.detail(c, it)
		if err != nil {
			response.Error(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Search finds available items by name or description.
func (h *Handler) Search(c *gin.Context) {
	var req SearchItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	items, err := h.service.Search(c.Request.Context(), req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := make([]ItemResponse, len(items))
	for i, it := range items {
		resp[i] = NewItemResponse(it)
	}

	c.JSON(http.StatusOK, resp)
}

// AddComment lets a past borrower comment on an item.
func (h *Handler) AddComment(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body CreateCommentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	cm, err := h.commentService.Create(c.Request.Context(), uri.ID, auth.GetUserID(c), body.Text)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewCommentResponse(cm))
}

func (h *Handler) detail(c *gin.Context, it *item.Item) (ItemDetailResponse, error) {
	ctx := c.Request.Context()

	summary, err := h.bookingService.ItemSummary(ctx, it, auth.GetUserID(c))
	if err != nil {
		return ItemDetailResponse{}, err
	}

	comments, err := h.commentService.ListByItem(ctx, it.ID)
	if err != nil {
		return ItemDetailResponse{}, err
	}

	return NewItemDetailResponse(it, summary, comments), nil
}
