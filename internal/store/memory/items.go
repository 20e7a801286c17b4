package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/nekogravitycat/shareit-backend/internal/item"
)

type itemRepository struct {
	s *Store
}

func (r *itemRepository) Create(_ context.Context, it *item.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.seq.item++
	it.ID = r.s.seq.item
	it.CreatedAt = r.s.clock.Now()
	r.s.items[it.ID] = *it
	return nil
}

func (r *itemRepository) GetByID(_ context.Context, id int64) (*item.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	it, ok := r.s.items[id]
	if !ok {
		return nil, item.ErrNotFound
	}
	return &it, nil
}

func (r *itemRepository) ListByOwner(_ context.Context, ownerID int64) ([]*item.Item, error) {
	return r.filter(func(it item.Item) bool { return it.OwnerID == ownerID }), nil
}

func (r *itemRepository) Search(_ context.Context, text string) ([]*item.Item, error) {
	needle := strings.ToLower(text)
	return r.filter(func(it item.Item) bool {
		return it.Available &&
			(strings.Contains(strings.ToLower(it.Name), needle) ||
				strings.Contains(strings.ToLower(it.Description), needle))
	}), nil
}

func (r *itemRepository) Update(_ context.Context, it *item.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.items[it.ID]; !ok {
		return item.ErrNotFound
	}
	r.s.items[it.ID] = *it
	return nil
}

func (r *itemRepository) filter(keep func(item.Item) bool) []*item.Item {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []*item.Item{}
	for _, it := range r.s.items {
		if keep(it) {
			result = append(result, &it)
		}
	}
	slices.SortFunc(result, func(a, b *item.Item) int { return cmp.Compare(a.ID, b.ID) })
	return result
}
