package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (r *userRepository) GetByID(_ context.Context, id int64) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return &u, nil
}

func (r *userRepository) Create(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.emailTaken(u.Email, 0) {
		return user.ErrEmailAlreadyUsed
	}

	r.s.seq.user++
	u.ID = r.s.seq.user
	u.CreatedAt = r.s.clock.Now()
	r.s.users[u.ID] = *u
	return nil
}

func (r *userRepository) List(_ context.Context) ([]*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*user.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		result = append(result, &u)
	}
	slices.SortFunc(result, func(a, b *user.User) int { return cmp.Compare(a.ID, b.ID) })
	return result, nil
}

func (r *userRepository) Update(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[u.ID]; !ok {
		return user.ErrNotFound
	}
	if r.s.emailTaken(u.Email, u.ID) {
		return user.ErrEmailAlreadyUsed
	}
	r.s.users[u.ID] = *u
	return nil
}

// Delete removes the user together with everything that references them.
func (r *userRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return user.ErrNotFound
	}
	delete(r.s.users, id)

	for itemID, it := range r.s.items {
		if it.OwnerID == id {
			r.s.deleteItemLocked(itemID)
		}
	}
	for bookingID, b := range r.s.bookings {
		if b.BookerID == id {
			delete(r.s.bookings, bookingID)
		}
	}
	for commentID, c := range r.s.comments {
		if c.AuthorID == id {
			delete(r.s.comments, commentID)
		}
	}
	return nil
}

func (s *Store) emailTaken(email string, selfID int64) bool {
	for _, u := range s.users {
		if u.ID != selfID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (s *Store) deleteItemLocked(itemID int64) {
	delete(s.items, itemID)
	delete(s.photos, itemID)
	for bookingID, b := range s.bookings {
		if b.ItemID == itemID {
			delete(s.bookings, bookingID)
		}
	}
	for commentID, c := range s.comments {
		if c.ItemID == itemID {
			delete(s.comments, commentID)
		}
	}
}
