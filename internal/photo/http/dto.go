package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/photo"
)

type PhotoResponse struct {
	ItemID       int64     `json:"itemId"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"contentType"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	ThumbnailURL *string   `json:"thumbnailUrl"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

func NewPhotoResponse(p *photo.Photo) PhotoResponse {
	var thumbURL *string
	if p.ThumbnailKey != nil {
		t := photo.ThumbnailURL(p.ItemID)
		thumbURL = &t
	}
	return PhotoResponse{
		ItemID:       p.ItemID,
		Filename:     p.Filename,
		ContentType:  p.ContentType,
		Size:         p.Size,
		URL:          photo.URL(p.ItemID),
		ThumbnailURL: thumbURL,
		UploadedAt:   p.UploadedAt,
	}
}
