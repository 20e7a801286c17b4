package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/nekogravitycat/shareit-backend/internal/comment"
)

type commentRepository struct {
	s *Store
}

func (r *commentRepository) Create(_ context.Context, c *comment.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.seq.comment++
	c.ID = r.s.seq.comment
	r.s.comments[c.ID] = *c
	return nil
}

func (r *commentRepository) ListByItem(_ context.Context, itemID int64) ([]*comment.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []*comment.Comment{}
	for _, c := range r.s.comments {
		if c.ItemID != itemID {
			continue
		}
		if u, ok := r.s.users[c.AuthorID]; ok {
			c.AuthorName = u.Name
		}
		result = append(result, &c)
	}

	slices.SortFunc(result, func(a, b *comment.Comment) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return result, nil
}
