package app_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/shareit-backend/internal/booking/http"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

func TestBookingLifecycle(t *testing.T) {
	owner := createTestUser(t, "owner")
	booker := createTestUser(t, "booker")
	stranger := createTestUser(t, "stranger")

	drill := createTestItem(t, owner.ID, "Drill", true)
	broken := createTestItem(t, owner.ID, "Broken saw", false)

	now := testClock.Now()
	start, end := now.Add(24*time.Hour), now.Add(48*time.Hour)

	var bookingID int64

	// ==== Create Booking ====

	t.Run("Create Booking: Success", func(t *testing.T) {
		w := executeRequest("POST", "/bookings", bookingPayload(drill.ID, start, end), booker.ID)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decode[bookingHttp.BookingResponse](t, w)
		assert.NotZero(t, resp.ID)
		assert.Equal(t, "WAITING", resp.Status)
		assert.Equal(t, drill.ID, resp.Item.ID)
		assert.Equal(t, "Drill", resp.Item.Name)
		assert.Equal(t, booker.ID, resp.Booker.ID)
		assert.True(t, start.Equal(resp.Start))
		bookingID = resp.ID
	})

	t.Run("Create Booking: Timestamp Without Zone", func(t *testing.T) {
		payload := map[string]any{
			"itemId": drill.ID,
			"start":  start.Add(72 * time.Hour).Format("2006-01-02T15:04:05"),
			"end":    end.Add(72 * time.Hour).Format("2006-01-02T15:04:05"),
		}
		w := executeRequest("POST", "/bookings", payload, booker.ID)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("Create Booking: Missing Identity Header", func(t *testing.T) {
		w := executeRequest("POST", "/bookings", bookingPayload(drill.ID, start, end), 0)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Create Booking: Bad Request (Invalid Input Format)", func(t *testing.T) {
		w := executeRequest("POST", "/bookings", map[string]any{"start": start, "end": end}, booker.ID)
		assert.Equal(t, http.StatusBadRequest, w.Code, "Should return 400 for missing itemId")

		w = executeRequest("POST", "/bookings", map[string]any{"itemId": drill.ID, "start": "tomorrow", "end": end}, booker.ID)
		assert.Equal(t, http.StatusBadRequest, w.Code, "Should return 400 for unparsable time")
	})

	t.Run("Create Booking: Unknown Item", func(t *testing.T) {
		w := executeRequest("POST", "/bookings", bookingPayload(99999, start, end), booker.ID)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Create Booking: Unknown Booker", func(t *testing.T) {
		w := executeRequest("POST", "/bookings", bookingPayload(drill.ID, start, end), 99999)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Create Booking: Owner Books Own Item", func(t *testing.T) {
		w := executeRequest("POST", "/bookings", bookingPayload(drill.ID, start, end), owner.ID)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, booking.ErrOwnerCannotBook.Message, decode[response.ErrorResponse](t, w).Error)
	})

	t.Run("Create Booking: Unavailable Item", func(t *testing.T) {
		w := executeRequest("POST", "/bookings", bookingPayload(broken.ID, start, end), booker.ID)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Create Booking: Start Equals End", func(t *testing.T) {
		w := executeRequest("POST", "/bookings", bookingPayload(drill.ID, start, start), booker.ID)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, booking.ErrInvalidTimeRange.Message, decode[response.ErrorResponse](t, w).Error)
	})

	// ==== Get Booking ====

	t.Run("Get Booking: Visible To Booker And Owner", func(t *testing.T) {
		for _, id := range []int64{booker.ID, owner.ID} {
			w := executeRequest("GET", fmt.Sprintf("/bookings/%d", bookingID), nil, id)
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("Get Booking: Hidden From Others", func(t *testing.T) {
		w := executeRequest("GET", fmt.Sprintf("/bookings/%d", bookingID), nil, stranger.ID)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Get Booking: Not Found", func(t *testing.T) {
		w := executeRequest("GET", "/bookings/99999", nil, owner.ID)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	// ==== Approve / Reject ====

	t.Run("Update Status: Missing Approved Parameter", func(t *testing.T) {
		w := executeRequest("PATCH", fmt.Sprintf("/bookings/%d", bookingID), nil, owner.ID)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Update Status: Booker Cannot Approve", func(t *testing.T) {
		w := executeRequest("PATCH", fmt.Sprintf("/bookings/%d?approved=true", bookingID), nil, booker.ID)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Update Status: Owner Approves", func(t *testing.T) {
		w := executeRequest("PATCH", fmt.Sprintf("/bookings/%d?approved=true", bookingID), nil, owner.ID)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "APPROVED", decode[bookingHttp.BookingResponse](t, w).Status)
	})

	t.Run("Update Status: Already Processed", func(t *testing.T) {
		w := executeRequest("PATCH", fmt.Sprintf("/bookings/%d?approved=false", bookingID), nil, owner.ID)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, booking.ErrAlreadyProcessed.Message, decode[response.ErrorResponse](t, w).Error)
	})

	t.Run("Update Status: Unknown Booking", func(t *testing.T) {
		w := executeRequest("PATCH", "/bookings/99999?approved=true", nil, owner.ID)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Events Published", func(t *testing.T) {
		keys := testEvents.Keys()
		assert.Contains(t, keys, booking.EventCreated)
		assert.Contains(t, keys, booking.EventApproved)
	})
}

func TestBookingListing(t *testing.T) {
	owner := createTestUser(t, "lister")
	booker := createTestUser(t, "borrower")
	ladder := createTestItem(t, owner.ID, "Ladder", true)

	now := testClock.Now()
	var created []int64
	for i := range 3 {
		start := now.Add(time.Duration(i+1) * time.Hour)
		w := executeRequest("POST", "/bookings", bookingPayload(ladder.ID, start, start.Add(30*time.Minute)), booker.ID)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		created = append(created, decode[bookingHttp.BookingResponse](t, w).ID)
	}

	rejectPath := fmt.Sprintf("/bookings/%d?approved=false", created[0])
	require.Equal(t, http.StatusOK, executeRequest("PATCH", rejectPath, nil, owner.ID).Code)

	listIDs := func(t *testing.T, path string, userID int64) []int64 {
		t.Helper()
		w := executeRequest("GET", path, nil, userID)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decode[[]bookingHttp.BookingResponse](t, w)
		out := make([]int64, len(resp))
		for i, b := range resp {
			out[i] = b.ID
		}
		return out
	}

	t.Run("Booker Default State", func(t *testing.T) {
		assert.Equal(t, []int64{created[2], created[1], created[0]}, listIDs(t, "/bookings", booker.ID))
	})

	t.Run("Owner Waiting", func(t *testing.T) {
		assert.Equal(t, []int64{created[2], created[1]}, listIDs(t, "/bookings/owner?state=WAITING", owner.ID))
	})

	t.Run("Owner Rejected", func(t *testing.T) {
		assert.Equal(t, []int64{created[0]}, listIDs(t, "/bookings/owner?state=REJECTED", owner.ID))
	})

	t.Run("Booker Sees None As Owner", func(t *testing.T) {
		assert.Empty(t, listIDs(t, "/bookings/owner", booker.ID))
	})

	t.Run("From Selects Page Index", func(t *testing.T) {
		assert.Equal(t, []int64{created[2], created[1]}, listIDs(t, "/bookings?from=1&size=2", booker.ID))
		assert.Equal(t, []int64{created[0]}, listIDs(t, "/bookings?from=2&size=2", booker.ID))
	})

	t.Run("Unknown State", func(t *testing.T) {
		w := executeRequest("GET", "/bookings?state=UNSUPPORTED_STATUS", nil, booker.ID)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Unknown state: UNSUPPORTED_STATUS", decode[response.ErrorResponse](t, w).Error)
	})

	t.Run("Invalid Pagination", func(t *testing.T) {
		w := executeRequest("GET", "/bookings?from=-1&size=10", nil, booker.ID)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = executeRequest("GET", "/bookings/owner?from=0&size=0", nil, owner.ID)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown User", func(t *testing.T) {
		w := executeRequest("GET", "/bookings", nil, 99999)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBookingWithBearerToken(t *testing.T) {
	owner := createTestUser(t, "tokenowner")
	booker := createTestUser(t, "tokenbooker")
	drill := createTestItem(t, owner.ID, "Sander", true)

	token, err := jwtManager.GenerateAccessToken(booker.ID)
	require.NoError(t, err)

	now := testClock.Now()
	w := executeWithToken("POST", "/bookings", bookingPayload(drill.ID, now.Add(time.Hour), now.Add(2*time.Hour)), token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, booker.ID, decode[bookingHttp.BookingResponse](t, w).Booker.ID)

	w = executeWithToken("GET", "/bookings", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
