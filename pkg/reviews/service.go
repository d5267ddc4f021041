package reviews

import (
	"context"
	"time"

	"github.com/novelshelf/novelshelf/pkg/errcodes"
	"github.com/novelshelf/novelshelf/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListReviewsOptions struct {
	NovelID *int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateReview(ctx context.Context, review *models.Review) error {
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}

	_, err := svc.db.
		NewInsert().
		Model(review).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

// ListReviews returns reviews newest first.
func (svc *Service) ListReviews(ctx context.Context, opts ListReviewsOptions) ([]*models.Review, error) {
	var reviews []*models.Review

	q := svc.db.
		NewSelect().
		Model(&reviews).
		Order("r.created_at DESC").
		Order("r.id DESC")

	if opts.NovelID != nil {
		q = q.Where("r.novel_id = ?", *opts.NovelID)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return reviews, nil
}

func (svc *Service) DeleteReview(ctx context.Context, reviewID int) error {
	result, err := svc.db.
		NewDelete().
		Model((*models.Review)(nil)).
		Where("id = ?", reviewID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if deleted == 0 {
		return errcodes.NotFound("Review")
	}
	return nil
}
