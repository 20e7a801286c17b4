package booking

import (
	"fmt"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

// State is the temporal or status bucket a booking listing is restricted to.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState resolves a state query value. An empty value means ALL.
// Matching is case-sensitive.
func ParseState(s string) (State, error) {
	switch State(s) {
	case "":
		return StateAll, nil
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return State(s), nil
	default:
		return "", apperror.New(apperror.InvalidRequest, fmt.Sprintf("Unknown state: %s", s))
	}
}

// Matches reports whether b belongs in a listing for f, ignoring pagination.
// It is the reference semantics the SQL repository reproduces.
func (f Filter) Matches(b *Booking) bool {
	if f.BookerID != 0 && b.BookerID != f.BookerID {
		return false
	}
	if f.OwnerID != 0 && b.ItemOwnerID != f.OwnerID {
		return false
	}
	if f.ItemID != 0 && b.ItemID != f.ItemID {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}

	switch f.State {
	case StateCurrent:
		return b.Start.Before(f.Now) && b.End.After(f.Now)
	case StatePast:
		// A booking ending exactly at now is finished.
		return !b.End.After(f.Now)
	case StateFuture:
		return b.Start.After(f.Now)
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected
	default:
		return true
	}
}

// Page converts from/size into a limit and offset.
// from selects the page from/size (integer division), so from=5 size=10 is the first page.
func Page(from, size int) (limit, offset int, err error) {
	if from < 0 || size <= 0 {
		return 0, 0, ErrInvalidPagination
	}
	return size, (from / size) * size, nil
}
