package novels

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers novel routes on a pre-configured group.
func RegisterRoutes(g *echo.Group, db *bun.DB) {
	novelService := NewService(db)

	h := &handler{
		novelService: novelService,
	}

	g.GET("", h.list)
	g.POST("", h.create)
	// The literal sub-routes are registered ahead of /:id so their segments
	// are never captured as identifiers.
	g.GET("/:id/recommendations", h.recommendations)
	g.POST("/:id/read", h.incrementRead)
	g.GET("/:id", h.retrieve)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.deleteNovel)
}
