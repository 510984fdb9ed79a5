package search

import (
	"context"

	"github.com/siaa-cloud/siaa/internal/domain"
)

// ListingReader reads the listings to rank.
type ListingReader interface {
	GetAll(ctx context.Context) ([]domain.Listing, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
