// Package memory keeps every entity in process memory.
// It serves tests and single-node demo deployments; data is lost on restart.
package memory

import (
	"sync"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/photo"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// Store holds all tables behind one lock so joins and cascades see a consistent view.
type Store struct {
	mu    sync.RWMutex
	clock clock.Clock

	seq struct {
		user, item, booking, comment int64
	}

	users    map[int64]user.User
	items    map[int64]item.Item
	bookings map[int64]bookingRow
	comments map[int64]comment.Comment
	photos   map[int64]photo.Photo
}

// bookingRow is the stored part of a booking; item and booker fields are joined on read.
type bookingRow struct {
	booking.Booking
}

// New creates an empty store stamping rows with the system clock.
func New() *Store {
	return NewWithClock(clock.System{})
}

// NewWithClock creates an empty store stamping rows with clk.
func NewWithClock(clk clock.Clock) *Store {
	return &Store{
		clock:    clk,
		users:    make(map[int64]user.User),
		items:    make(map[int64]item.Item),
		bookings: make(map[int64]bookingRow),
		comments: make(map[int64]comment.Comment),
		photos:   make(map[int64]photo.Photo),
	}
}

func (s *Store) Users() user.Repository       { return &userRepository{s} }
func (s *Store) Items() item.Repository       { return &itemRepository{s} }
func (s *Store) Bookings() booking.Repository { return &bookingRepository{s} }
func (s *Store) Comments() comment.Repository { return &commentRepository{s} }
func (s *Store) Photos() photo.Repository     { return &photoRepository{s} }
