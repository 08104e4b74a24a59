package scorer

import (
	"sort"

	"github.com/staffstream/recommendation-service/internal/domain"
)

type ScoredContent struct {
	Content *domain.Content
	Score   float64
}

// Rank orders candidates by score descending, tie-broken by published_at
// descending then content id ascending. The comparator is a total order
// (ids are unique), so repeated calls with the same inputs produce the same
// sequence regardless of input order. Pagination correctness depends on
// this: an unstable sort could skip or duplicate items across page
// boundaries.
func Rank(scored []ScoredContent) {
	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Content.PublishedAt.Equal(b.Content.PublishedAt) {
			return a.Content.PublishedAt.After(b.Content.PublishedAt)
		}
		return a.Content.ID < b.Content.ID
	})
}

// RankAndPaginate sorts in place and returns the 1-indexed page of content
// ids along with the total candidate count. A page past the end yields an
// empty item list with the correct total.
func RankAndPaginate(scored []ScoredContent, page, pageSize int) domain.RankedPage {
	Rank(scored)

	total := len(scored)
	if page < 1 || pageSize < 1 {
		return domain.RankedPage{Items: []string{}, Total: total}
	}

	start := (page - 1) * pageSize
	if start >= total {
		return domain.RankedPage{Items: []string{}, Total: total}
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	items := make([]string, 0, end-start)
	for _, sc := range scored[start:end] {
		items = append(items, sc.Content.ID)
	}
	return domain.RankedPage{Items: items, Total: total}
}
