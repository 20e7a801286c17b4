package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/photo"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

// formField is the multipart field carrying the uploaded image.
const formField = "file"

type Handler struct {
	photoService photo.Service
	log          *logrus.Logger
}

func NewHandler(photoService photo.Service, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{
		photoService: photoService,
		log:          log,
	}
}

// Upload stores a new photo for an item, replacing the previous one.
func (h *Handler) Upload(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	fileHeader, err := c.FormFile(formField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formField + " is required"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer src.Close()

	p, err := h.photoService.Upload(c.Request.Context(), photo.UploadInput{
		ItemID:   uri.ID,
		UserID:   auth.GetUserID(c),
		Filename: fileHeader.Filename,
		Content:  src,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewPhotoResponse(p))
}

// Delete removes the photo of an item.
func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.photoService.Delete(c.Request.Context(), uri.ID, auth.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ServePhoto streams the original photo of an item.
func (h *Handler) ServePhoto(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	stream, p, err := h.photoService.Open(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	h.stream(c, stream, p.ContentType, p.Filename)
}

// ServeThumbnail streams the JPEG thumbnail of an item photo.
func (h *Handler) ServeThumbnail(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	stream, p, err := h.photoService.OpenThumbnail(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	h.stream(c, stream, "image/jpeg", p.Filename+"_thumb.jpg")
}

func (h *Handler) stream(c *gin.Context, src io.Reader, contentType, filename string) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "inline; filename=\""+filename+"\"")

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, src); err != nil {
		// Response already started
		h.log.WithError(err).WithField("path", c.Request.URL.Path).Warn("photo stream interrupted")
	}
}
