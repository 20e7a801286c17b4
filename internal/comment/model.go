package comment

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrTextRequired = apperror.New(apperror.InvalidRequest, "text is required")
	ErrNotEligible  = apperror.New(apperror.InvalidRequest, "only users who finished an approved booking of the item can comment on it")
)

// Comment is feedback left on an item by a past borrower.
type Comment struct {
	ID         int64
	ItemID     int64
	AuthorID   int64
	AuthorName string
	Text       string
	CreatedAt  time.Time
}
