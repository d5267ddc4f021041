package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		// Plain INTEGER PRIMARY KEY so SQLite assigns the next-highest
		// existing id + 1 (1 when the table is empty).
		_, err := db.Exec(`
			CREATE TABLE novels (
				id INTEGER PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				book_name TEXT NOT NULL,
				author TEXT NOT NULL,
				description TEXT NOT NULL,
				genre TEXT NOT NULL,
				tag1 TEXT NOT NULL DEFAULT '',
				tag2 TEXT NOT NULL DEFAULT '',
				tag3 TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL DEFAULT 'Ongoing',
				source_url TEXT NOT NULL,
				cover_url TEXT NOT NULL DEFAULT '',
				read INTEGER NOT NULL DEFAULT 0
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		// Case-insensitive unique constraint on (book_name, author).
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_novels_book_name_author ON novels (book_name COLLATE NOCASE, author COLLATE NOCASE)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE reviews (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				novel_id INTEGER NOT NULL,
				username TEXT NOT NULL,
				rating INTEGER NOT NULL,
				body TEXT NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_reviews_novel_id ON reviews (novel_id)`)
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec("DROP TABLE IF EXISTS reviews")
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec("DROP TABLE IF EXISTS novels")
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
