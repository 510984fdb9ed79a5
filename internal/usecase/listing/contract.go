package listing

import (
	"context"

	"github.com/siaa-cloud/siaa/internal/domain"
)

// Repository defines the storage contract for listings.
type Repository interface {
	Insert(ctx context.Context, l *domain.Listing) error
	Update(ctx context.Context, l *domain.Listing) error
	GetAll(ctx context.Context) ([]domain.Listing, error)
	GetByID(ctx context.Context, id int64) (domain.Listing, error)
	Count(ctx context.Context) (int, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
