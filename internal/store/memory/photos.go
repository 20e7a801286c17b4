package memory

import (
	"context"

	"github.com/nekogravitycat/shareit-backend/internal/photo"
)

type photoRepository struct {
	s *Store
}

func (r *photoRepository) Save(_ context.Context, p *photo.Photo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.photos[p.ItemID] = *p
	return nil
}

func (r *photoRepository) GetByItemID(_ context.Context, itemID int64) (*photo.Photo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.photos[itemID]
	if !ok {
		return nil, photo.ErrNotFound
	}
	return &p, nil
}

func (r *photoRepository) Delete(_ context.Context, itemID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.photos[itemID]; !ok {
		return photo.ErrNotFound
	}
	delete(r.s.photos, itemID)
	return nil
}
