package listing

import (
	"context"

	"github.com/siaa-cloud/siaa/internal/domain"
)

// mockRepo is an in-memory Repository fake.
type mockRepo struct {
	items     map[int64]domain.Listing
	nextID    int64
	insertErr error
	updateErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: map[int64]domain.Listing{}, nextID: 1}
}

func (m *mockRepo) Insert(_ context.Context, l *domain.Listing) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	l.ID = m.nextID
	m.nextID++
	m.items[l.ID] = *l
	return nil
}

func (m *mockRepo) Update(_ context.Context, l *domain.Listing) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.items[l.ID]; !ok {
		return domain.ErrListingNotFound
	}
	m.items[l.ID] = *l
	return nil
}

func (m *mockRepo) GetAll(_ context.Context) ([]domain.Listing, error) {
	out := make([]domain.Listing, 0, len(m.items))
	for _, l := range m.items {
		out = append(out, l)
	}
	return out, nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (domain.Listing, error) {
	l, ok := m.items[id]
	if !ok {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	return l, nil
}

func (m *mockRepo) Count(_ context.Context) (int, error) {
	return len(m.items), nil
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
	return domain.EmbeddingResult{Embedding: vec, PromptTokens: m.tokens, TotalTokens: m.tokens}, nil
}
