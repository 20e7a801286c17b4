package comment

import (
	"context"
	"strings"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// BookingChecker answers whether a user has finished an approved booking of an item.
type BookingChecker interface {
	HasFinishedBooking(ctx context.Context, itemID, userID int64) (bool, error)
}

type Service interface {
	Create(ctx context.Context, itemID, authorID int64, text string) (*Comment, error)
	ListByItem(ctx context.Context, itemID int64) ([]*Comment, error)
}

type service struct {
	repo        Repository
	itemService item.Service
	userService user.Service
	bookings    BookingChecker
	clock       clock.Clock
}

func NewService(repo Repository, itemService item.Service, userService user.Service, bookings BookingChecker, clk clock.Clock) Service {
	if clk == nil {
		clk = clock.System{}
	}
	return &service{
		repo:        repo,
		itemService: itemService,
		userService: userService,
		bookings:    bookings,
		clock:       clk,
	}
}

func (s *service) Create(ctx context.Context, itemID, authorID int64, text string) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrTextRequired
	}

	it, err := s.itemService.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	author, err := s.userService.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	eligible, err := s.bookings.HasFinishedBooking(ctx, it.ID, author.ID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, ErrNotEligible
	}

	c := &Comment{
		ItemID:     it.ID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Text:       text,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) ListByItem(ctx context.Context, itemID int64) ([]*Comment, error) {
	return s.repo.ListByItem(ctx, itemID)
}
