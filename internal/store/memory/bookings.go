package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
)

type bookingRepository struct {
	s *Store
}

func (r *bookingRepository) Create(_ context.Context, b *booking.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.seq.booking++
	b.ID = r.s.seq.booking
	b.CreatedAt = r.s.clock.Now()
	b.UpdatedAt = b.CreatedAt
	r.s.bookings[b.ID] = bookingRow{Booking: *b}
	return nil
}

func (r *bookingRepository) GetByID(_ context.Context, id int64) (*booking.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return r.s.hydrate(row), nil
}

func (r *bookingRepository) List(_ context.Context, filter booking.Filter) ([]*booking.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []*booking.Booking{}
	for _, row := range r.s.bookings {
		b := r.s.hydrate(row)
		if filter.Matches(b) {
			result = append(result, b)
		}
	}

	slices.SortFunc(result, func(a, b *booking.Booking) int {
		if c := b.Start.Compare(a.Start); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	if filter.Limit > 0 {
		if filter.Offset >= len(result) {
			return []*booking.Booking{}, nil
		}
		end := min(filter.Offset+filter.Limit, len(result))
		result = result[filter.Offset:end]
	}
	return result, nil
}

// UpdateStatusIfWaiting checks and writes under the store's write lock, so concurrent calls serialize.
func (r *bookingRepository) UpdateStatusIfWaiting(_ context.Context, id int64, status booking.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.bookings[id]
	if !ok {
		return booking.ErrNotFound
	}
	if row.Status != booking.StatusWaiting {
		return booking.ErrAlreadyProcessed
	}
	row.Status = status
	row.UpdatedAt = r.s.clock.Now()
	r.s.bookings[id] = row
	return nil
}

func (r *bookingRepository) HasFinishedApproved(_ context.Context, itemID, bookerID int64, at time.Time) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, row := range r.s.bookings {
		if row.ItemID == itemID && row.BookerID == bookerID &&
			row.Status == booking.StatusApproved && row.End.Before(at) {
			return true, nil
		}
	}
	return false, nil
}

func (r *bookingRepository) HasApprovedOverlap(_ context.Context, itemID int64, start, end time.Time) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, row := range r.s.bookings {
		if row.ItemID == itemID && row.Status == booking.StatusApproved &&
			row.Start.Before(end) && row.End.After(start) {
			return true, nil
		}
	}
	return false, nil
}

// hydrate joins the current item and booker onto a stored booking. Callers hold the lock.
func (s *Store) hydrate(row bookingRow) *booking.Booking {
	b := row.Booking
	if it, ok := s.items[b.ItemID]; ok {
		b.ItemName = it.Name
		b.ItemDescription = it.Description
		b.ItemAvailable = it.Available
		b.ItemOwnerID = it.OwnerID
	}
	if u, ok := s.users[b.BookerID]; ok {
		b.BookerName = u.Name
		b.BookerEmail = u.Email
	}
	return &b
}
