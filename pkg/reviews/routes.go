package reviews

import (
	"github.com/labstack/echo/v4"
	"github.com/novelshelf/novelshelf/pkg/novels"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers review routes on a pre-configured group. Review
// creation and listing hang off the novel they belong to; deletion addresses
// the review directly.
func RegisterRoutes(g *echo.Group, db *bun.DB) {
	h := &handler{
		reviewService: NewService(db),
		novelService:  novels.NewService(db),
	}

	g.GET("/novels/:id/reviews", h.list)
	g.POST("/novels/:id/reviews", h.create)
	g.DELETE("/reviews/:id", h.deleteReview)
}
