package search

import (
	"math"
	"sort"

	"github.com/siaa-cloud/siaa/internal/domain"
)

// rank orders scored listings by similarity descending, breaking ties by
// listing ID ascending so that equal-score results have a stable order,
// truncates to topK and attaches the match-score percentage.
func rank(scored []domain.ScoredListing, topK int) []domain.ScoredListing {
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Similarity != scored[j].Similarity {
			return scored[i].Similarity > scored[j].Similarity
		}
		return scored[i].Listing.ID < scored[j].Listing.ID
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}

	for i := range scored {
		scored[i].MatchScore = matchScore(scored[i].Similarity)
	}
	return scored
}

// matchScore converts a similarity to a percentage with one decimal.
func matchScore(similarity float64) float64 {
	return math.Round(similarity*1000) / 10
}
