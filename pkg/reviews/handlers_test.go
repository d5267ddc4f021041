package reviews

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/novelshelf/novelshelf/pkg/binder"
	"github.com/novelshelf/novelshelf/pkg/errcodes"
	"github.com/novelshelf/novelshelf/pkg/models"
	"github.com/novelshelf/novelshelf/pkg/novels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newReviewsTestContext(t *testing.T, method, path, payload string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	var req *http.Request
	if payload == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(payload))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr), rr
}

func newReviewsHandler(db *bun.DB) *handler {
	return &handler{
		reviewService: NewService(db),
		novelService:  novels.NewService(db),
	}
}

func httpCode(t *testing.T, err error) int {
	t.Helper()

	var e *errcodes.Error
	require.ErrorAs(t, err, &e)
	return e.HTTPCode
}

func TestHandlerCreateReview(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := newReviewsHandler(db)
	ctx := context.Background()

	novel := createTestNovel(ctx, t, db, "Reviewed")

	c, rr := newReviewsTestContext(t, http.MethodPost, "/api/novels/1/reviews", `{
		"username": "  reader1  ",
		"rating": 4,
		"body": "Solid pacing."
	}`)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(novel.ID))

	require.NoError(t, h.create(c))
	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Message string         `json:"message"`
		Review  *models.Review `json:"review"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Review submitted successfully", resp.Message)
	assert.Equal(t, "reader1", resp.Review.Username)
	assert.Equal(t, 4, resp.Review.Rating)
	assert.Equal(t, novel.ID, resp.Review.NovelID)
}

func TestHandlerCreateReview_RatingOutOfRange(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := newReviewsHandler(db)
	ctx := context.Background()

	novel := createTestNovel(ctx, t, db, "Reviewed")

	for _, payload := range []string{
		`{"username":"reader1","rating":0,"body":"b"}`,
		`{"username":"reader1","rating":6,"body":"b"}`,
	} {
		c, _ := newReviewsTestContext(t, http.MethodPost, "/api/novels/1/reviews", payload)
		c.SetParamNames("id")
		c.SetParamValues(fmt.Sprint(novel.ID))

		err := h.create(c)
		assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
	}
}

func TestHandlerCreateReview_BoundaryRatingsAccepted(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := newReviewsHandler(db)
	ctx := context.Background()

	novel := createTestNovel(ctx, t, db, "Reviewed")

	for _, rating := range []int{1, 5} {
		payload := fmt.Sprintf(`{"username":"reader1","rating":%d,"body":"b"}`, rating)
		c, rr := newReviewsTestContext(t, http.MethodPost, "/api/novels/1/reviews", payload)
		c.SetParamNames("id")
		c.SetParamValues(fmt.Sprint(novel.ID))

		require.NoError(t, h.create(c))
		assert.Equal(t, http.StatusCreated, rr.Code)
	}
}

func TestHandlerCreateReview_NovelMissing(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := newReviewsHandler(db)

	c, _ := newReviewsTestContext(t, http.MethodPost, "/api/novels/99/reviews", `{"username":"reader1","rating":3,"body":"b"}`)
	c.SetParamNames("id")
	c.SetParamValues("99")

	err := h.create(c)
	assert.Equal(t, http.StatusNotFound, httpCode(t, err))
}

func TestHandlerListReviews_EmptyIsNotNull(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := newReviewsHandler(db)
	ctx := context.Background()

	novel := createTestNovel(ctx, t, db, "Unreviewed")

	c, rr := newReviewsTestContext(t, http.MethodGet, "/api/novels/1/reviews", "")
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(novel.ID))

	require.NoError(t, h.list(c))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
}

func TestHandlerDeleteReview(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := newReviewsHandler(db)
	ctx := context.Background()

	novel := createTestNovel(ctx, t, db, "Reviewed")
	review := &models.Review{NovelID: novel.ID, Username: "reader1", Rating: 3, Body: "b"}
	require.NoError(t, h.reviewService.CreateReview(ctx, review))

	c, rr := newReviewsTestContext(t, http.MethodDelete, "/api/reviews/1", "")
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(review.ID))

	require.NoError(t, h.deleteReview(c))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Review deleted successfully")

	c, _ = newReviewsTestContext(t, http.MethodDelete, "/api/reviews/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	err := h.deleteReview(c)
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
}
