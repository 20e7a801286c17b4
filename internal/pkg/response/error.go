package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorMapper translates AppError kinds into HTTP status codes.
type ErrorMapper struct {
	// StrictForbidden reports Forbidden as 403 instead of 400.
	StrictForbidden bool
	Logger          *logrus.Logger
}

// mapperKey holds the router's ErrorMapper in the Gin context.
const mapperKey = "response.errorMapper"

var defaultMapper = &ErrorMapper{}

// Middleware makes m the mapper used by Error for every request on the router.
func (m *ErrorMapper) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(mapperKey, m)
		c.Next()
	}
}

func (m *ErrorMapper) logger() *logrus.Logger {
	if m.Logger == nil {
		return logrus.StandardLogger()
	}
	return m.Logger
}

// Status returns the HTTP status code for a given error.
func (m *ErrorMapper) Status(err error) int {
	switch apperror.KindOf(err) {
	case apperror.NotFound:
		return http.StatusNotFound
	case apperror.InvalidRequest:
		return http.StatusBadRequest
	case apperror.Forbidden:
		if m.StrictForbidden {
			return http.StatusForbidden
		}
		return http.StatusBadRequest
	case apperror.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Write sends a JSON error response.
// Unknown errors are logged and rendered as a generic 500.
func (m *ErrorMapper) Write(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Kind != apperror.Internal {
		c.JSON(m.Status(err), ErrorResponse{Error: appErr.Message})
		return
	}

	m.logger().WithFields(logrus.Fields{
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestID"),
	}).WithError(err).Error("unhandled error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// Error sends a JSON error response using the router's mapper,
// or a lenient one when the router installed none.
func Error(c *gin.Context, err error) {
	if v, ok := c.Get(mapperKey); ok {
		if m, ok := v.(*ErrorMapper); ok {
			m.Write(c, err)
			return
		}
	}
	defaultMapper.Write(c, err)
}
