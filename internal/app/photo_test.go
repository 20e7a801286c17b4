package app_test

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	photoHttp "github.com/nekogravitycat/shareit-backend/internal/photo/http"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 16))
	for x := range 32 {
		for y := range 16 {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uploadRequest(t *testing.T, itemID, userID int64, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, _ := http.NewRequest("POST", fmt.Sprintf("/items/%d/photo", itemID), body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set(auth.UserIDHeader, strconv.FormatInt(userID, 10))

	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	return w
}

func TestItemPhoto(t *testing.T) {
	owner := createTestUser(t, "photographer")
	other := createTestUser(t, "viewer")
	camera := createTestItem(t, owner.ID, "Camera", true)
	photoPath := fmt.Sprintf("/items/%d/photo", camera.ID)

	t.Run("Get Photo: None Uploaded", func(t *testing.T) {
		w := executeRequest("GET", photoPath, nil, 0)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Upload: Not Owner", func(t *testing.T) {
		w := uploadRequest(t, camera.ID, other.ID, "camera.png", pngBytes(t))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Upload: Unsupported Type", func(t *testing.T) {
		w := uploadRequest(t, camera.ID, owner.ID, "notes.txt", []byte("just some text"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Upload: Success", func(t *testing.T) {
		content := pngBytes(t)
		w := uploadRequest(t, camera.ID, owner.ID, "camera.png", content)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		resp := decode[photoHttp.PhotoResponse](t, w)
		assert.Equal(t, camera.ID, resp.ItemID)
		assert.Equal(t, "image/png", resp.ContentType)
		assert.Equal(t, int64(len(content)), resp.Size)
		assert.Equal(t, photoPath, resp.URL)
		require.NotNil(t, resp.ThumbnailURL)
	})

	t.Run("Get Photo: Streams Original", func(t *testing.T) {
		w := executeRequest("GET", photoPath, nil, 0)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.Equal(t, pngBytes(t), w.Body.Bytes())
	})

	t.Run("Get Thumbnail", func(t *testing.T) {
		w := executeRequest("GET", photoPath+"/thumbnail", nil, 0)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
		assert.NotEmpty(t, w.Body.Bytes())
	})

	t.Run("Delete: Not Owner", func(t *testing.T) {
		w := executeRequest("DELETE", photoPath, nil, other.ID)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Delete: Owner", func(t *testing.T) {
		w := executeRequest("DELETE", photoPath, nil, owner.ID)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = executeRequest("GET", photoPath, nil, 0)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
