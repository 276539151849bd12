package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webshop/internal/models"
	"webshop/internal/search"
)

func product(name, brand, category, description string) *models.Product {
	return &models.Product{Name: name, Brand: brand, Category: category, Description: description}
}

func names(ps []*models.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestRank(t *testing.T) {
	ranker := search.NewRanker()

	candidates := []*models.Product{
		product("USB Hub", "Genero", "accessories", "seven port hub"),
		product("Mechanical Keyboard", "Clacky", "keyboards", "tactile switches"),
		product("Keybord Cleaner", "Dusty", "accessories", "brush for keyboards"),
		product("Office Chair", "Sitwell", "furniture", "lumbar support"),
	}

	t.Run("EmptyQueryPassesThrough", func(t *testing.T) {
		ranked := ranker.Rank("", candidates)
		assert.Equal(t, names(candidates), names(ranked))
	})

	t.Run("ExcludesNonMatches", func(t *testing.T) {
		ranked := ranker.Rank("keyboard", candidates)
		assert.NotContains(t, names(ranked), "Office Chair")
	})

	t.Run("ToleratesTypos", func(t *testing.T) {
		ranked := ranker.Rank("keybord", candidates)
		require.NotEmpty(t, ranked)
		assert.Contains(t, names(ranked), "Keybord Cleaner")
	})

	t.Run("NameMatchOutranksDescriptionMatch", func(t *testing.T) {
		ranked := ranker.Rank("keyboard", candidates)
		require.NotEmpty(t, ranked)
		assert.Equal(t, "Mechanical Keyboard", ranked[0].Name)
	})

	t.Run("NoMatches", func(t *testing.T) {
		ranked := ranker.Rank("teapot", candidates)
		assert.Empty(t, ranked)
	})
}
