package reviews

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/novelshelf/novelshelf/pkg/errcodes"
	"github.com/novelshelf/novelshelf/pkg/models"
	"github.com/novelshelf/novelshelf/pkg/novels"
	"github.com/pkg/errors"
)

type handler struct {
	reviewService *Service
	novelService  *novels.Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Novel")
	}

	reviews, err := h.reviewService.ListReviews(ctx, ListReviewsOptions{
		NovelID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}
	if reviews == nil {
		reviews = []*models.Review{}
	}

	return errors.WithStack(c.JSON(http.StatusOK, reviews))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Novel")
	}

	// The novel must exist before a review can reference it.
	novel, err := h.novelService.RetrieveNovel(ctx, novels.RetrieveNovelOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	params := CreateReviewPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	review := &models.Review{
		NovelID:  novel.ID,
		Username: params.Username,
		Rating:   params.Rating,
		Body:     params.Body,
	}

	if err := h.reviewService.CreateReview(ctx, review); err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Message string         `json:"message"`
		Review  *models.Review `json:"review"`
	}{"Review submitted successfully", review}

	return errors.WithStack(c.JSON(http.StatusCreated, resp))
}

func (h *handler) deleteReview(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.BadRequest("Invalid review ID")
	}

	if err := h.reviewService.DeleteReview(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	resp := map[string]string{"message": "Review deleted successfully"}
	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
