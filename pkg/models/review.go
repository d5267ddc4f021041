package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Review struct {
	bun.BaseModel `bun:"table:reviews,alias:r"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	NovelID   int       `bun:",nullzero" json:"novel_id"`
	Username  string    `bun:",nullzero" json:"username"`
	Rating    int       `bun:",nullzero" json:"rating"`
	Body      string    `bun:",nullzero" json:"body"`
}
