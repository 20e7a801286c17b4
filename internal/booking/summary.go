package booking

import "time"

// Summary holds the approved bookings closest to now on either side.
// Bookings in progress at now appear in neither field.
type Summary struct {
	Last *Booking
	Next *Booking
}

// Summarize picks last and next from approved bookings of a single item.
// Last has the greatest end before now; Next has the smallest start after now.
func Summarize(approved []*Booking, now time.Time) Summary {
	var s Summary
	for _, b := range approved {
		if b.Status != StatusApproved {
			continue
		}
		if b.End.Before(now) && (s.Last == nil || b.End.After(s.Last.End)) {
			s.Last = b
		}
		if b.Start.After(now) && (s.Next == nil || b.Start.Before(s.Next.Start)) {
			s.Next = b
		}
	}
	return s
}
