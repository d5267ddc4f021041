package novels

import (
	"sort"
	"strings"

	"github.com/novelshelf/novelshelf/pkg/models"
)

const maxRecommendations = 5

// Tier 2 scoring weights: a shared genre outweighs any single shared tag,
// but three shared tags outweigh a shared genre.
const (
	genreWeight = 0.4
	tagWeight   = 0.2
)

// Recommend ranks novels related to current and returns at most five,
// de-duplicated by id and never including current itself.
//
// Same-author novels come first, ordered by read count descending. The
// remaining novels are scored by overlap: genreWeight when the genre matches
// exactly, plus tagWeight for each of the candidate's tag slots whose trimmed
// value appears among current's tags (a slot counts at most once). Zero-score
// candidates are dropped; the rest are ordered by score, then read count,
// then input order.
func Recommend(current *models.Novel, all []*models.Novel) []*models.Novel {
	currentTags := current.Tags()

	results := make([]*models.Novel, 0, maxRecommendations)
	seen := map[int]bool{current.ID: true}
	add := func(n *models.Novel) {
		if seen[n.ID] {
			return
		}
		seen[n.ID] = true
		results = append(results, n)
	}

	// Tier 1: same author, by read count descending.
	sameAuthor := make([]*models.Novel, 0, len(all))
	for _, n := range all {
		if n.ID != current.ID && n.Author == current.Author {
			sameAuthor = append(sameAuthor, n)
		}
	}
	sort.SliceStable(sameAuthor, func(i, j int) bool {
		return sameAuthor[i].Read > sameAuthor[j].Read
	})
	for _, n := range sameAuthor {
		add(n)
	}

	// Tier 2: genre and tag overlap.
	type candidate struct {
		novel *models.Novel
		score float64
	}
	candidates := make([]candidate, 0, len(all))
	for _, n := range all {
		if seen[n.ID] {
			continue
		}
		score := 0.0
		if n.Genre != "" && n.Genre == current.Genre {
			score += genreWeight
		}
		for _, tag := range []string{n.Tag1, n.Tag2, n.Tag3} {
			if v := strings.TrimSpace(tag); v != "" && containsTag(currentTags, v) {
				score += tagWeight
			}
		}
		if score > 0 {
			candidates = append(candidates, candidate{n, score})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].novel.Read > candidates[j].novel.Read
	})
	for _, cand := range candidates {
		add(cand.novel)
	}

	if len(results) > maxRecommendations {
		results = results[:maxRecommendations]
	}
	return results
}

func containsTag(tags []string, v string) bool {
	for _, tag := range tags {
		if tag == v {
			return true
		}
	}
	return false
}
