// Package search ranks catalog records against a free-text query. It is
// the fuzzy-matching collaborator used by product listing: candidates in,
// ranked subset out, no storage access.
package search

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"webshop/internal/models"
)

type Ranker struct{}

func NewRanker() *Ranker {
	return &Ranker{}
}

// Rank returns the candidates matching query, best match first. Name
// matches outrank brand and category matches, which outrank description
// matches. An empty query returns the candidates unchanged.
func (*Ranker) Rank(query string, candidates []*models.Product) []*models.Product {
	if query == "" {
		return candidates
	}

	type scored struct {
		product *models.Product
		score   int
	}
	var matches []scored
	for _, p := range candidates {
		if s, ok := score(query, p); ok {
			matches = append(matches, scored{p, s})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score < matches[j].score
	})

	ranked := make([]*models.Product, len(matches))
	for i, m := range matches {
		ranked[i] = m.product
	}
	return ranked
}

// Field weights keep a name hit ahead of an equally close brand or
// description hit.
const (
	nameWeight        = 0
	brandWeight       = 100
	categoryWeight    = 100
	descriptionWeight = 1000
)

func score(query string, p *models.Product) (int, bool) {
	best := -1
	for _, field := range []struct {
		text   string
		weight int
	}{
		{p.Name, nameWeight},
		{p.Brand, brandWeight},
		{p.Category, categoryWeight},
		{p.Description, descriptionWeight},
	} {
		if field.text == "" {
			continue
		}
		rank := fuzzy.RankMatchNormalizedFold(query, field.text)
		if rank < 0 {
			continue
		}
		weighted := rank + field.weight
		if best < 0 || weighted < best {
			best = weighted
		}
	}
	return best, best >= 0
}
