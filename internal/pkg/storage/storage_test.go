package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "items/1/photo.png", strings.NewReader("hello")))

	rc, err := s.Open(ctx, "items/1/photo.png")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, s.Delete(ctx, "items/1/photo.png"))
	_, err = s.Open(ctx, "items/1/photo.png")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	assert.NoError(t, s.Delete(ctx, "items/1/photo.png"), "deleting twice is fine")
}

func TestLocalStorageRejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	err = s.Save(context.Background(), "../outside.txt", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestThumbnailFitsBox(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 800, 400))
	for x := 0; x < 800; x++ {
		src.Set(x, 10, color.RGBA{R: 255, A: 255})
	}
	var in bytes.Buffer
	require.NoError(t, png.Encode(&in, src))

	out, err := NewThumbnailer(200, 200).Generate(&in)
	require.NoError(t, err)

	thumb, err := imaging.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, 200, thumb.Bounds().Dx())
	assert.Equal(t, 100, thumb.Bounds().Dy())
}

func TestThumbnailRejectsNonImages(t *testing.T) {
	_, err := NewThumbnailer(200, 200).Generate(strings.NewReader("not an image"))
	assert.Error(t, err)
}
