package search

import (
	"context"

	"github.com/siaa-cloud/siaa/internal/domain"
)

// mockListings returns a fixed slice of listings.
type mockListings struct {
	items []domain.Listing
	err   error
}

func (m *mockListings) GetAll(_ context.Context) ([]domain.Listing, error) {
	return m.items, m.err
}

// mockEmbedder returns a fixed vector and records the embedded texts.
type mockEmbedder struct {
	vector []float32
	tokens int
	err    error
	texts  []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.texts = append(m.texts, text)
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	vec := make([]float32, len(m.vector))
	copy(vec, m.vector)
	return domain.EmbeddingResult{Embedding: vec, TotalTokens: m.tokens}, nil
}

func unitListing(id int64, vec []float32) domain.Listing {
	domain.Normalize(vec)
	return domain.Listing{
		ID:        id,
		Title:     "listing",
		Embedding: vec,
	}
}

func ptr(f float64) *float64 { return &f }
