package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers item-related routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, identity gin.HandlerFunc) {
	group := g.Group("/items")
	{
		group.GET("/search", h.Search)          // Search available items
		group.POST("", identity, h.Create)      // Create item
		group.GET("", identity, h.List)         // List caller's items
		group.GET("/:id", identity, h.Get)      // Get item details
		group.PATCH("/:id", identity, h.Update) // Update item
		group.POST("/:id/comment", identity, h.AddComment)
	}
}
