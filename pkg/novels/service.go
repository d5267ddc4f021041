package novels

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/novelshelf/novelshelf/pkg/errcodes"
	"github.com/novelshelf/novelshelf/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveNovelOptions struct {
	ID *int
}

type ListNovelsOptions struct {
	Search  *string
	Genre   *string
	Tags    []string
	Exclude []string
	Limit   *int
	Offset  *int

	includeTotal bool
}

type UpdateNovelOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateNovel inserts a new novel. Duplicates of (book_name, author) are
// rejected case-insensitively; the pre-check gives the friendly message and
// the unique index on the table backstops concurrent submissions.
func (svc *Service) CreateNovel(ctx context.Context, novel *models.Novel) error {
	now := time.Now()
	if novel.CreatedAt.IsZero() {
		novel.CreatedAt = now
	}
	novel.UpdatedAt = novel.CreatedAt
	if novel.Status == "" {
		novel.Status = models.StatusOngoing
	}

	exists, err := svc.db.
		NewSelect().
		Model((*models.Novel)(nil)).
		Where("n.book_name = ? COLLATE NOCASE", novel.BookName).
		Where("n.author = ? COLLATE NOCASE", novel.Author).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if exists {
		return errcodes.Conflict("This novel already exists in the database")
	}

	_, err = svc.db.
		NewInsert().
		Model(novel).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return errcodes.Conflict("This novel already exists in the database")
		}
		return errors.WithStack(err)
	}

	return nil
}

func (svc *Service) RetrieveNovel(ctx context.Context, opts RetrieveNovelOptions) (*models.Novel, error) {
	novel := &models.Novel{}

	q := svc.db.
		NewSelect().
		Model(novel)

	if opts.ID != nil {
		q = q.Where("n.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Novel")
		}
		return nil, errors.WithStack(err)
	}

	return novel, nil
}

func (svc *Service) ListNovels(ctx context.Context, opts ListNovelsOptions) ([]*models.Novel, error) {
	novels, _, err := svc.listNovelsWithTotal(ctx, opts)
	return novels, errors.WithStack(err)
}

func (svc *Service) ListNovelsWithTotal(ctx context.Context, opts ListNovelsOptions) ([]*models.Novel, int, error) {
	opts.includeTotal = true
	return svc.listNovelsWithTotal(ctx, opts)
}

func (svc *Service) listNovelsWithTotal(ctx context.Context, opts ListNovelsOptions) ([]*models.Novel, int, error) {
	var novels []*models.Novel
	var total int
	var err error

	// Insertion order; ids are assigned monotonically.
	q := svc.db.
		NewSelect().
		Model(&novels).
		Order("n.id ASC")

	if opts.Search != nil && *opts.Search != "" {
		q = q.Where(`lower(n.book_name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(*opts.Search))+"%")
	}
	if opts.Genre != nil && *opts.Genre != "" {
		q = q.Where("n.genre = ? COLLATE NOCASE", *opts.Genre)
	}
	// Every include token must match at least one tag slot.
	for _, tag := range opts.Tags {
		q = q.Where("(n.tag1 = ? COLLATE NOCASE OR n.tag2 = ? COLLATE NOCASE OR n.tag3 = ? COLLATE NOCASE)", tag, tag, tag)
	}
	// No tag slot may match any exclude token.
	for _, tag := range opts.Exclude {
		q = q.Where("NOT (n.tag1 = ? COLLATE NOCASE OR n.tag2 = ? COLLATE NOCASE OR n.tag3 = ? COLLATE NOCASE)", tag, tag, tag)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return novels, total, nil
}

func (svc *Service) UpdateNovel(ctx context.Context, novel *models.Novel, opts UpdateNovelOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	novel.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	_, err := svc.db.
		NewUpdate().
		Model(novel).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return errcodes.Conflict("This novel already exists in the database")
		}
		return errors.WithStack(err)
	}
	return nil
}

// DeleteNovel deletes a novel and cascade-deletes its reviews in one
// transaction.
func (svc *Service) DeleteNovel(ctx context.Context, novelID int) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		result, err := tx.NewDelete().
			Model((*models.Novel)(nil)).
			Where("id = ?", novelID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		deleted, err := result.RowsAffected()
		if err != nil {
			return errors.WithStack(err)
		}
		if deleted == 0 {
			return errcodes.NotFound("Novel")
		}

		_, err = tx.NewDelete().
			Model((*models.Review)(nil)).
			Where("novel_id = ?", novelID).
			Exec(ctx)
		return errors.WithStack(err)
	})
}

// IncrementRead bumps the read counter and returns the new value.
func (svc *Service) IncrementRead(ctx context.Context, novelID int) (int, error) {
	result, err := svc.db.
		NewUpdate().
		Model((*models.Novel)(nil)).
		Set("read = read + 1").
		Set("updated_at = ?", time.Now()).
		Where("id = ?", novelID).
		Exec(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return 0, errors.WithStack(err)
	}
	if updated == 0 {
		return 0, errcodes.NotFound("Novel")
	}

	novel, err := svc.RetrieveNovel(ctx, RetrieveNovelOptions{ID: &novelID})
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return novel.Read, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "constraint failed (1555)") ||
		strings.Contains(errStr, "constraint failed (2067)")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
