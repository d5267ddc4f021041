package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Novel statuses.
const (
	StatusOngoing   = "Ongoing"
	StatusCompleted = "Completed"
	StatusHiatus    = "Hiatus"
)

// ValidStatus reports whether s is a known novel status.
func ValidStatus(s string) bool {
	switch s {
	case StatusOngoing, StatusCompleted, StatusHiatus:
		return true
	}
	return false
}

type Novel struct {
	bun.BaseModel `bun:"table:novels,alias:n"`

	ID          int       `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	BookName    string    `bun:",nullzero" json:"book_name"`
	Author      string    `bun:",nullzero" json:"author"`
	Description string    `bun:",nullzero" json:"description"`
	Genre       string    `bun:",nullzero" json:"genre"`
	Tag1        string    `json:"tag1"`
	Tag2        string    `json:"tag2"`
	Tag3        string    `json:"tag3"`
	Status      string    `bun:",nullzero" json:"status"`
	SourceURL   string    `bun:",nullzero" json:"source_url"`
	CoverURL    string    `json:"cover_url"`
	Read        int       `json:"read"`
}

// Tags returns the non-empty trimmed tag slot values in slot order.
// Duplicate values are kept; the slots are free-form.
func (n *Novel) Tags() []string {
	tags := make([]string, 0, 3)
	for _, tag := range []string{n.Tag1, n.Tag2, n.Tag3} {
		if v := strings.TrimSpace(tag); v != "" {
			tags = append(tags, v)
		}
	}
	return tags
}

// SetTags assigns up to three tag values to the tag slots in order,
// clearing any slots beyond the given values.
func (n *Novel) SetTags(tags []string) {
	slots := [3]string{}
	copy(slots[:], tags)
	n.Tag1 = slots[0]
	n.Tag2 = slots[1]
	n.Tag3 = slots[2]
}
