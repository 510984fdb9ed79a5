// Package search ranks storage-space listings against a free-text query
// plus structured filters by embedding similarity.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/siaa-cloud/siaa/internal/domain"
)

// DefaultTopK caps the result set when the request does not set one.
const DefaultTopK = 20

// Service executes semantic searches over the listing store.
type Service struct {
	listings ListingReader
	embedder Embedder
	topK     int
}

// New creates a search service. topK is the configured result cap;
// 0 falls back to DefaultTopK.
func New(listings ListingReader, embedder Embedder, topK int) *Service {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Service{listings: listings, embedder: embedder, topK: topK}
}

// Result is the outcome of one search: the composed text that was embedded
// plus the ranked listings.
type Result struct {
	ComposedQuery string
	Items         []domain.ScoredListing
}

// Search composes the query text, embeds it once and ranks all stored
// listings. Structured filters act twice: neighborhood and price_max are
// hard pre-filters, every textual filter also feeds the composed query.
func (s *Service) Search(ctx context.Context, q domain.SearchQuery) (Result, error) {
	text, err := domain.ComposeQueryText(q.Query, q.Filters)
	if err != nil {
		return Result{}, err
	}

	embResult, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return Result{}, fmt.Errorf("vectorize query: %w", err)
	}

	domain.UsageFromContext(ctx).AddTokens(embResult.TotalTokens)

	queryVec := embResult.Embedding
	domain.Normalize(queryVec)

	items, err := s.listings.GetAll(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load listings: %w", err)
	}

	scored := make([]domain.ScoredListing, 0, len(items))
	for _, l := range items {
		if !matchesFilters(&l, q.Filters) {
			continue
		}
		if !l.Scoreable(len(queryVec)) {
			continue
		}
		scored = append(scored, domain.ScoredListing{
			Listing:    l,
			Similarity: domain.Dot(queryVec, l.Embedding),
		})
	}

	topK := q.TopK
	if topK <= 0 {
		topK = s.topK
	}
	return Result{ComposedQuery: text, Items: rank(scored, topK)}, nil
}

// matchesFilters applies the hard pre-filters. Neighborhood compares
// case-insensitively since stored values are lowercase slugs while
// clients may send display casing.
func matchesFilters(l *domain.Listing, f domain.SearchFilters) bool {
	if f.Neighborhood != "" && !strings.EqualFold(l.Neighborhood, f.Neighborhood) {
		return false
	}
	if f.PriceMax != nil && l.Price > *f.PriceMax {
		return false
	}
	return true
}
