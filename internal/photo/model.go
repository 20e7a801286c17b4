package photo

import (
	"strconv"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(apperror.NotFound, "photo not found")
	ErrThumbnailNotFound = apperror.New(apperror.NotFound, "thumbnail not available for this photo")
	ErrNotOwner          = apperror.New(apperror.Forbidden, "only the owner can change the item photo")
	ErrEmptyFile         = apperror.New(apperror.InvalidRequest, "file is empty")
	ErrFileTooLarge      = apperror.New(apperror.InvalidRequest, "file is too large")
	ErrUnsupportedType   = apperror.New(apperror.InvalidRequest, "only jpeg, png and gif images are accepted")
)

// AllowedTypes lists the MIME types accepted for item photos.
var AllowedTypes = []string{"image/jpeg", "image/png", "image/gif"}

// Photo is the single picture attached to an item.
type Photo struct {
	ItemID       int64
	Filename     string
	StorageKey   string
	ThumbnailKey *string
	ContentType  string
	Size         int64
	UploadedAt   time.Time
}

// URL returns the public URL of the photo of an item.
func URL(itemID int64) string {
	return "/items/" + strconv.FormatInt(itemID, 10) + "/photo"
}

// ThumbnailURL returns the public URL of the thumbnail of an item photo.
func ThumbnailURL(itemID int64) string {
	return URL(itemID) + "/thumbnail"
}
