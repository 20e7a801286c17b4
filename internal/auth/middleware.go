package auth

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserIDHeader carries the caller's numeric user id.
const UserIDHeader = "X-Sharer-User-Id"

// Identity resolves the caller and stores their id in the Gin context.
// A bearer token is honoured when jwtManager is set; otherwise the id comes from UserIDHeader.
func Identity(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" && jwtManager != nil {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "invalid Authorization header format",
				})
				return
			}

			claims, err := jwtManager.ParseAndValidate(parts[1])
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "invalid or expired token",
				})
				return
			}

			id, err := claims.UserID()
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "invalid or expired token",
				})
				return
			}

			SetUserID(c, id)
			c.Next()
			return
		}

		raw := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "missing " + UserIDHeader + " header",
			})
			return
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "invalid " + UserIDHeader + " header",
			})
			return
		}

		SetUserID(c, id)
		c.Next()
	}
}
