// Package listing handles storage-space listing CRUD with automatic
// vectorization.
package listing

import (
	"context"
	"fmt"
	"time"

	"github.com/siaa-cloud/siaa/internal/domain"
)

// Service handles listing CRUD with automatic vectorization.
type Service struct {
	repo       Repository
	embedder   Embedder
	dimensions int
}

// New creates a listing service. dimensions is the configured embedding
// dimensionality; 0 disables the dimension check.
func New(repo Repository, embedder Embedder, dimensions int) *Service {
	return &Service{repo: repo, embedder: embedder, dimensions: dimensions}
}

// Create validates, vectorizes and stores a new listing, assigning its ID.
func (s *Service) Create(ctx context.Context, l *domain.Listing) error {
	if err := validate(l); err != nil {
		return err
	}

	if err := s.vectorize(ctx, l); err != nil {
		return err
	}

	if l.CreatedAt == 0 {
		l.CreatedAt = time.Now().UnixMilli()
	}
	if err := s.repo.Insert(ctx, l); err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

// Update replaces a listing's fields. The embedding is recomputed only
// when a textual field changed; a price-only edit keeps the stored vector.
func (s *Service) Update(ctx context.Context, l *domain.Listing) error {
	if err := validate(l); err != nil {
		return err
	}

	existing, err := s.repo.GetByID(ctx, l.ID)
	if err != nil {
		return fmt.Errorf("get listing: %w", err)
	}

	l.CreatedAt = existing.CreatedAt
	if l.TextFieldsEqual(&existing) {
		l.Embedding = existing.Embedding
	} else if err := s.vectorize(ctx, l); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, l); err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	return nil
}

// Get returns one listing by ID.
func (s *Service) Get(ctx context.Context, id int64) (domain.Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("get listing: %w", err)
	}
	return l, nil
}

// List returns all listings ordered by ID.
func (s *Service) List(ctx context.Context) ([]domain.Listing, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return items, nil
}

func (s *Service) vectorize(ctx context.Context, l *domain.Listing) error {
	result, err := s.embedder.Embed(ctx, domain.ComposeListingText(l))
	if err != nil {
		return fmt.Errorf("vectorize listing: %w", err)
	}

	domain.UsageFromContext(ctx).AddTokens(result.TotalTokens)

	if s.dimensions > 0 && len(result.Embedding) != s.dimensions {
		return fmt.Errorf("vector dimension mismatch: got %d, want %d: %w",
			len(result.Embedding), s.dimensions, domain.ErrEmbeddingProviderError)
	}

	domain.Normalize(result.Embedding)
	l.Embedding = result.Embedding
	return nil
}

func validate(l *domain.Listing) error {
	switch {
	case l.Title == "":
		return fmt.Errorf("title is required: %w", domain.ErrInvalidInput)
	case l.Size < 0:
		return fmt.Errorf("size must not be negative: %w", domain.ErrInvalidInput)
	case l.Price < 0:
		return fmt.Errorf("price must not be negative: %w", domain.ErrInvalidInput)
	}
	return nil
}
