package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers item photo routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, identity gin.HandlerFunc) {
	group := g.Group("/items/:id/photo")
	{
		group.GET("", h.ServePhoto)
		group.GET("/thumbnail", h.ServeThumbnail)
		group.POST("", identity, h.Upload)
		group.DELETE("", identity, h.Delete)
	}
}
