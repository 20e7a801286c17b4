package app_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingHttp "github.com/nekogravitycat/shareit-backend/internal/booking/http"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	itemHttp "github.com/nekogravitycat/shareit-backend/internal/item/http"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

func TestItemCRUD(t *testing.T) {
	owner := createTestUser(t, "lender")
	other := createTestUser(t, "neighbour")
	tent := createTestItem(t, owner.ID, "Camping tent", true)

	t.Run("Create Item: Missing Available", func(t *testing.T) {
		w := executeRequest("POST", "/items", map[string]any{"name": "Kayak", "description": "Two seats"}, owner.ID)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Create Item: Blank Name", func(t *testing.T) {
		w := executeRequest("POST", "/items", map[string]any{"name": "  ", "description": "Two seats", "available": true}, owner.ID)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Create Item: Unknown Owner", func(t *testing.T) {
		w := executeRequest("POST", "/items", map[string]any{"name": "Kayak", "description": "Two seats", "available": true}, 99999)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Update Item: Owner", func(t *testing.T) {
		w := executeRequest("PATCH", fmt.Sprintf("/items/%d", tent.ID), map[string]any{"available": false}, owner.ID)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decode[itemHttp.ItemResponse](t, w)
		assert.False(t, resp.Available)
		assert.Equal(t, "Camping tent", resp.Name, "unsent fields are kept")
	})

	t.Run("Update Item: Not Owner", func(t *testing.T) {
		w := executeRequest("PATCH", fmt.Sprintf("/items/%d", tent.ID), map[string]any{"name": "Mine now"}, other.ID)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("List Items: Only Own", func(t *testing.T) {
		w := executeRequest("GET", "/items", nil, owner.ID)
		require.Equal(t, http.StatusOK, w.Code)
		items := decode[[]itemHttp.ItemDetailResponse](t, w)
		require.Len(t, items, 1)
		assert.Equal(t, tent.ID, items[0].ID)
	})

	t.Run("Get Item: Not Found", func(t *testing.T) {
		w := executeRequest("GET", "/items/99999", nil, owner.ID)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestItemSearch(t *testing.T) {
	owner := createTestUser(t, "searcher")
	createTestItem(t, owner.ID, "Pressure WASHER", true)
	createTestItem(t, owner.ID, "Washer dryer", false)

	t.Run("Case Insensitive And Available Only", func(t *testing.T) {
		w := executeRequest("GET", "/items/search?text=washer", nil, 0)
		require.Equal(t, http.StatusOK, w.Code)

		items := decode[[]itemHttp.ItemResponse](t, w)
		require.Len(t, items, 1)
		assert.Equal(t, "Pressure WASHER", items[0].Name)
	})

	t.Run("Blank Text", func(t *testing.T) {
		w := executeRequest("GET", "/items/search?text=", nil, 0)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[[]itemHttp.ItemResponse](t, w))
	})
}

func TestItemBookingSummaryAndComments(t *testing.T) {
	owner := createTestUser(t, "summaryowner")
	booker := createTestUser(t, "summarybooker")
	waiter := createTestUser(t, "summarywaiter")
	bike := createTestItem(t, owner.ID, "Bike", true)

	now := testClock.Now()
	book := func(t *testing.T, userID int64, start, end time.Time, approve bool) int64 {
		t.Helper()
		w := executeRequest("POST", "/bookings", bookingPayload(bike.ID, start, end), userID)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		id := decode[bookingHttp.BookingResponse](t, w).ID
		if approve {
			w = executeRequest("PATCH", fmt.Sprintf("/bookings/%d?approved=true", id), nil, owner.ID)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		}
		return id
	}

	// Bookings are created ahead of the clock and become past as it advances.
	soon := book(t, booker.ID, now.Add(time.Hour), now.Add(2*time.Hour), true)
	later := book(t, booker.ID, now.Add(48*time.Hour), now.Add(50*time.Hour), true)
	book(t, waiter.ID, now.Add(3*time.Hour), now.Add(4*time.Hour), false)

	itemPath := fmt.Sprintf("/items/%d", bike.ID)
	commentPath := itemPath + "/comment"

	t.Run("Owner Sees Next Booking", func(t *testing.T) {
		w := executeRequest("GET", itemPath, nil, owner.ID)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[itemHttp.ItemDetailResponse](t, w)
		assert.Nil(t, resp.LastBooking)
		require.NotNil(t, resp.NextBooking)
		assert.Equal(t, soon, resp.NextBooking.ID)
		assert.Equal(t, booker.ID, resp.NextBooking.BookerID)
	})

	t.Run("Comment Before Booking Ends Is Refused", func(t *testing.T) {
		w := executeRequest("POST", commentPath, itemHttp.CreateCommentRequest{Text: "Great bike"}, booker.ID)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, comment.ErrNotEligible.Message, decode[response.ErrorResponse](t, w).Error)
	})

	testClock.Advance(24 * time.Hour)

	t.Run("Owner Sees Last And Next", func(t *testing.T) {
		resp := decode[itemHttp.ItemDetailResponse](t, executeRequest("GET", itemPath, nil, owner.ID))
		require.NotNil(t, resp.LastBooking)
		require.NotNil(t, resp.NextBooking)
		assert.Equal(t, soon, resp.LastBooking.ID)
		assert.Equal(t, later, resp.NextBooking.ID)
	})

	t.Run("Non Owner Sees No Bookings", func(t *testing.T) {
		w := executeRequest("GET", itemPath, nil, booker.ID)
		require.Equal(t, http.StatusOK, w.Code)
		assert.False(t, strings.Contains(w.Body.String(), "lastBooking"))
		assert.False(t, strings.Contains(w.Body.String(), "nextBooking"))
	})

	t.Run("Waiting Booker Cannot Comment", func(t *testing.T) {
		w := executeRequest("POST", commentPath, itemHttp.CreateCommentRequest{Text: "Never rode it"}, waiter.ID)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Empty Comment", func(t *testing.T) {
		w := executeRequest("POST", commentPath, map[string]any{"text": ""}, booker.ID)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Finished Booker Comments", func(t *testing.T) {
		w := executeRequest("POST", commentPath, itemHttp.CreateCommentRequest{Text: "Great bike"}, booker.ID)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decode[itemHttp.CommentResponse](t, w)
		assert.NotZero(t, resp.ID)
		assert.Equal(t, "Great bike", resp.Text)
		assert.Equal(t, "summarybooker", resp.AuthorName)
		assert.True(t, testClock.Now().Equal(resp.Created))
	})

	t.Run("Comments Are Listed On Item", func(t *testing.T) {
		resp := decode[itemHttp.ItemDetailResponse](t, executeRequest("GET", itemPath, nil, waiter.ID))
		require.Len(t, resp.Comments, 1)
		assert.Equal(t, "Great bike", resp.Comments[0].Text)
	})

	t.Run("Comment On Unknown Item", func(t *testing.T) {
		w := executeRequest("POST", "/items/99999/comment", itemHttp.CreateCommentRequest{Text: "?"}, booker.ID)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
