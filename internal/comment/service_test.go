package comment_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/comment"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/store/memory"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// finishedBookings marks (item, user) pairs as having a finished approved booking.
type finishedBookings struct {
	pairs map[[2]int64]bool
	err   error
}

func (f *finishedBookings) HasFinishedBooking(_ context.Context, itemID, userID int64) (bool, error) {
	return f.pairs[[2]int64{itemID, userID}], f.err
}

func TestCommentService(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFixed(time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC))
	store := memory.NewWithClock(clk)
	users := user.NewService(store.Users())
	items := item.NewService(store.Items(), users)

	owner, err := users.Create(ctx, "Owner", "owner@example.com")
	require.NoError(t, err)
	borrower, err := users.Create(ctx, "Borrower", "borrower@example.com")
	require.NoError(t, err)
	available := true
	kayak, err := items.Create(ctx, owner.ID, item.CreateRequest{Name: "Kayak", Description: "Sea kayak", Available: &available})
	require.NoError(t, err)

	checker := &finishedBookings{pairs: map[[2]int64]bool{{kayak.ID, borrower.ID}: true}}
	svc := comment.NewService(store.Comments(), items, users, checker, clk)

	t.Run("Blank Text Is Checked First", func(t *testing.T) {
		_, err := svc.Create(ctx, 999, 999, "   ")
		assert.ErrorIs(t, err, comment.ErrTextRequired)
	})

	t.Run("Unknown Item", func(t *testing.T) {
		_, err := svc.Create(ctx, 999, borrower.ID, "Nice")
		assert.ErrorIs(t, err, item.ErrNotFound)
	})

	t.Run("Unknown Author", func(t *testing.T) {
		_, err := svc.Create(ctx, kayak.ID, 999, "Nice")
		assert.ErrorIs(t, err, user.ErrNotFound)
	})

	t.Run("Not Eligible", func(t *testing.T) {
		_, err := svc.Create(ctx, kayak.ID, owner.ID, "My own kayak is great")
		assert.ErrorIs(t, err, comment.ErrNotEligible)
	})

	t.Run("Eligible Author", func(t *testing.T) {
		c, err := svc.Create(ctx, kayak.ID, borrower.ID, " Very stable ")
		require.NoError(t, err)
		assert.Equal(t, "Very stable", c.Text)
		assert.Equal(t, "Borrower", c.AuthorName)
		assert.Equal(t, clk.Now(), c.CreatedAt)
	})

	t.Run("List Newest First", func(t *testing.T) {
		clk.Advance(time.Hour)
		_, err := svc.Create(ctx, kayak.ID, borrower.ID, "Still great")
		require.NoError(t, err)

		comments, err := svc.ListByItem(ctx, kayak.ID)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "Still great", comments[0].Text)
		assert.Equal(t, "Very stable", comments[1].Text)
	})

	t.Run("Checker Failure Surfaces", func(t *testing.T) {
		checker.err = errors.New("db down")
		defer func() { checker.err = nil }()

		_, err := svc.Create(ctx, kayak.ID, borrower.ID, "Hello")
		assert.EqualError(t, err, "db down")
	})
}
