package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/siaa-cloud/siaa/internal/domain"
)

// Repo is the flat-file listing store: an in-memory collection loaded fully
// at startup and rewritten fully on every mutation. A single writer holds
// the lock across the mutate-then-persist sequence; readers work against
// snapshots.
type Repo struct {
	path string

	mu     sync.RWMutex
	items  map[int64]domain.Listing
	nextID int64
}

// fileFormat is the persisted shape of the collection.
type fileFormat struct {
	NextID   int64            `json:"next_id"`
	Listings []domain.Listing `json:"listings"`
}

// New opens the store at path, loading the existing collection if present.
func New(path string) (*Repo, error) {
	r := &Repo{
		path:   path,
		items:  make(map[int64]domain.Listing),
		nextID: 1,
	}
	if err := r.load(); err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}
	return r, nil
}

// Insert assigns the next sequential ID, stores the listing, and persists
// the whole collection.
func (r *Repo) Insert(_ context.Context, l *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l.ID = r.nextID
	r.nextID++
	r.items[l.ID] = *l

	if err := r.persistLocked(); err != nil {
		// Roll back so a failed persist does not leave a phantom listing.
		delete(r.items, l.ID)
		r.nextID--
		l.ID = 0
		return fmt.Errorf("persist listings: %w", err)
	}
	return nil
}

// Update replaces an existing listing and persists the collection.
func (r *Repo) Update(_ context.Context, l *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.items[l.ID]
	if !ok {
		return domain.ErrListingNotFound
	}
	r.items[l.ID] = *l

	if err := r.persistLocked(); err != nil {
		r.items[l.ID] = prev
		return fmt.Errorf("persist listings: %w", err)
	}
	return nil
}

// GetAll returns a snapshot of all listings ordered by ID ascending.
func (r *Repo) GetAll(_ context.Context) ([]domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Listing, 0, len(r.items))
	for _, l := range r.items {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetByID returns a single listing.
func (r *Repo) GetByID(_ context.Context, id int64) (domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[id]
	if !ok {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	return l, nil
}

// Count returns the number of stored listings.
func (r *Repo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

func (r *Repo) load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", r.path, err)
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse %s: %w", r.path, err)
	}

	for _, l := range f.Listings {
		r.items[l.ID] = l
		if l.ID >= r.nextID {
			r.nextID = l.ID + 1
		}
	}
	if f.NextID > r.nextID {
		r.nextID = f.NextID
	}
	return nil
}

// persistLocked serializes the entire collection and replaces the backing
// file atomically (write to a temp file, then rename) so a crash mid-write
// cannot corrupt it. Caller must hold the write lock.
func (r *Repo) persistLocked() error {
	f := fileFormat{
		NextID:   r.nextID,
		Listings: make([]domain.Listing, 0, len(r.items)),
	}
	for _, l := range r.items {
		f.Listings = append(f.Listings, l)
	}
	sort.Slice(f.Listings, func(i, j int) bool { return f.Listings[i].ID < f.Listings[j].ID })

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal listings: %w", err)
	}

	dir := filepath.Dir(r.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", r.path, err)
	}
	return nil
}
