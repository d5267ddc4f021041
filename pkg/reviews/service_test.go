package reviews

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/novelshelf/novelshelf/pkg/errcodes"
	"github.com/novelshelf/novelshelf/pkg/migrations"
	"github.com/novelshelf/novelshelf/pkg/models"
	"github.com/novelshelf/novelshelf/pkg/novels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	// a second pooled connection would get its own empty in-memory database
	sqldb.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqldb.Close()
	})

	db := bun.NewDB(sqldb, sqlitedialect.New())
	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)
	return db
}

func createTestNovel(ctx context.Context, t *testing.T, db *bun.DB, name string) *models.Novel {
	t.Helper()

	novel := &models.Novel{
		BookName:    name,
		Author:      "Author",
		Description: "Description",
		Genre:       "Xianxia",
		SourceURL:   "https://example.com",
	}
	require.NoError(t, novels.NewService(db).CreateNovel(ctx, novel))
	return novel
}

func TestServiceCreateReview(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	novel := createTestNovel(ctx, t, db, "Reviewed")

	review := &models.Review{
		NovelID:  novel.ID,
		Username: "reader1",
		Rating:   5,
		Body:     "Loved it.",
	}
	require.NoError(t, svc.CreateReview(ctx, review))
	assert.Equal(t, 1, review.ID)
	assert.False(t, review.CreatedAt.IsZero())
}

func TestServiceListReviews_NewestFirst(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	novel := createTestNovel(ctx, t, db, "Reviewed")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, body := range []string{"first", "second", "third"} {
		review := &models.Review{
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			NovelID:   novel.ID,
			Username:  "reader1",
			Rating:    4,
			Body:      body,
		}
		require.NoError(t, svc.CreateReview(ctx, review))
	}

	reviews, err := svc.ListReviews(ctx, ListReviewsOptions{NovelID: &novel.ID})
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	assert.Equal(t, "third", reviews[0].Body)
	assert.Equal(t, "second", reviews[1].Body)
	assert.Equal(t, "first", reviews[2].Body)
}

func TestServiceListReviews_FiltersByNovel(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	first := createTestNovel(ctx, t, db, "First")
	second := createTestNovel(ctx, t, db, "Second")

	require.NoError(t, svc.CreateReview(ctx, &models.Review{NovelID: first.ID, Username: "a", Rating: 3, Body: "ok"}))
	require.NoError(t, svc.CreateReview(ctx, &models.Review{NovelID: second.ID, Username: "b", Rating: 5, Body: "great"}))

	reviews, err := svc.ListReviews(ctx, ListReviewsOptions{NovelID: &second.ID})
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "great", reviews[0].Body)
}

func TestServiceDeleteReview(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	novel := createTestNovel(ctx, t, db, "Reviewed")
	review := &models.Review{NovelID: novel.ID, Username: "reader1", Rating: 2, Body: "meh"}
	require.NoError(t, svc.CreateReview(ctx, review))

	require.NoError(t, svc.DeleteReview(ctx, review.ID))

	reviews, err := svc.ListReviews(ctx, ListReviewsOptions{NovelID: &novel.ID})
	require.NoError(t, err)
	assert.Empty(t, reviews)

	err = svc.DeleteReview(ctx, review.ID)
	var e *errcodes.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 404, e.HTTPCode)
}
