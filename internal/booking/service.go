package booking

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/events"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// Routing keys of booking lifecycle events.
const (
	EventCreated  = "booking.created"
	EventApproved = "booking.approved"
	EventRejected = "booking.rejected"
)

// Event is the payload published on every lifecycle transition.
type Event struct {
	BookingID int64     `json:"booking_id"`
	ItemID    int64     `json:"item_id"`
	BookerID  int64     `json:"booker_id"`
	Status    Status    `json:"status"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	UpdateStatus(ctx context.Context, id int64, approved bool, userID int64) (*Booking, error)
	GetByID(ctx context.Context, id, userID int64) (*Booking, error)
	ListForBooker(ctx context.Context, userID int64, state string, from, size int) ([]*Booking, error)
	ListForOwner(ctx context.Context, userID int64, state string, from, size int) ([]*Booking, error)

	// ItemSummary returns last/next approved bookings of it, or nil unless requesterID owns it.
	ItemSummary(ctx context.Context, it *item.Item, requesterID int64) (*Summary, error)
	// HasFinishedBooking reports whether userID has an approved booking of itemID that already ended.
	HasFinishedBooking(ctx context.Context, itemID, userID int64) (bool, error)
}

// Config carries the collaborators and switches of the booking service.
type Config struct {
	Clock     clock.Clock
	Publisher events.Publisher
	Logger    *logrus.Logger
	// RejectOverlap refuses bookings intersecting an approved booking of the same item.
	RejectOverlap bool
}

type service struct {
	repo        Repository
	userService user.Service
	itemService item.Service

	clock         clock.Clock
	publisher     events.Publisher
	log           *logrus.Logger
	rejectOverlap bool
}

func NewService(repo Repository, userService user.Service, itemService item.Service, cfg Config) Service {
	s := &service{
		repo:          repo,
		userService:   userService,
		itemService:   itemService,
		clock:         cfg.Clock,
		publisher:     cfg.Publisher,
		log:           cfg.Logger,
		rejectOverlap: cfg.RejectOverlap,
	}
	if s.clock == nil {
		s.clock = clock.System{}
	}
	if s.publisher == nil {
		s.publisher = events.Nop{}
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	// Both stores keep microseconds, so compare at that resolution.
	req.Start = req.Start.Truncate(time.Microsecond)
	req.End = req.End.Truncate(time.Microsecond)

	// 1. Booker must exist
	booker, err := s.userService.GetByID(ctx, req.BookerID)
	if err != nil {
		return nil, err
	}

	// 2. Item must exist
	it, err := s.itemService.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	// 3. Owners cannot book their own items
	if it.OwnerID == booker.ID {
		return nil, ErrOwnerCannotBook
	}

	// 4. Item must be available
	if !it.Available {
		return nil, ErrItemUnavailable
	}

	// 5. Validate time range, equality rejected
	if !req.Start.Before(req.End) {
		return nil, ErrInvalidTimeRange
	}

	if s.rejectOverlap {
		overlap, err := s.repo.HasApprovedOverlap(ctx, it.ID, req.Start, req.End)
		if err != nil {
			return nil, err
		}
		if overlap {
			return nil, ErrTimeConflict
		}
	}

	b := &Booking{
		Start:           req.Start,
		End:             req.End,
		Status:          StatusWaiting,
		ItemID:          it.ID,
		ItemName:        it.Name,
		ItemDescription: it.Description,
		ItemAvailable:   it.Available,
		ItemOwnerID:     it.OwnerID,
		BookerID:        booker.ID,
		BookerName:      booker.Name,
		BookerEmail:     booker.Email,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"item_id":    b.ItemID,
		"booker_id":  b.BookerID,
	}).Info("booking created")
	s.publish(ctx, EventCreated, b)

	return b, nil
}

func (s *service) UpdateStatus(ctx context.Context, id int64, approved bool, userID int64) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if b.ItemOwnerID != userID {
		return nil, ErrNotItemOwner
	}

	if b.Status != StatusWaiting {
		return nil, ErrAlreadyProcessed
	}

	next, key := StatusRejected, EventRejected
	if approved {
		next, key = StatusApproved, EventApproved
	}

	// The read above is advisory; the conditional write decides concurrent races.
	if err := s.repo.UpdateStatusIfWaiting(ctx, id, next); err != nil {
		return nil, err
	}
	b.Status = next
	b.UpdatedAt = s.clock.Now()

	s.log.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"status":     b.Status,
		"owner_id":   userID,
	}).Info("booking status updated")
	s.publish(ctx, key, b)

	return b, nil
}

func (s *service) GetByID(ctx context.Context, id, userID int64) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.BookerID != userID && b.ItemOwnerID != userID {
		return nil, ErrPermissionDenied
	}
	return b, nil
}

func (s *service) ListForBooker(ctx context.Context, userID int64, state string, from, size int) ([]*Booking, error) {
	return s.list(ctx, Filter{BookerID: userID}, userID, state, from, size)
}

func (s *service) ListForOwner(ctx context.Context, userID int64, state string, from, size int) ([]*Booking, error) {
	return s.list(ctx, Filter{OwnerID: userID}, userID, state, from, size)
}

func (s *service) list(ctx context.Context, filter Filter, userID int64, state string, from, size int) ([]*Booking, error) {
	if _, err := s.userService.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	st, err := ParseState(state)
	if err != nil {
		return nil, err
	}

	limit, offset, err := Page(from, size)
	if err != nil {
		return nil, err
	}

	filter.State = st
	filter.Now = s.clock.Now()
	filter.Limit = limit
	filter.Offset = offset

	return s.repo.List(ctx, filter)
}

func (s *service) ItemSummary(ctx context.Context, it *item.Item, requesterID int64) (*Summary, error) {
	if it.OwnerID != requesterID {
		return nil, nil
	}

	now := s.clock.Now()
	approved, err := s.repo.List(ctx, Filter{ItemID: it.ID, Status: StatusApproved})
	if err != nil {
		return nil, err
	}

	summary := Summarize(approved, now)
	return &summary, nil
}

func (s *service) HasFinishedBooking(ctx context.Context, itemID, userID int64) (bool, error) {
	return s.repo.HasFinishedApproved(ctx, itemID, userID, s.clock.Now())
}

// publish emits a lifecycle event. Failures are logged and never surface to the caller.
func (s *service) publish(ctx context.Context, key string, b *Booking) {
	evt := Event{
		BookingID: b.ID,
		ItemID:    b.ItemID,
		BookerID:  b.BookerID,
		Status:    b.Status,
		Start:     b.Start,
		End:       b.End,
	}
	if err := s.publisher.Publish(ctx, key, evt); err != nil {
		s.log.WithError(err).WithField("event", key).Warn("failed to publish booking event")
	}
}
