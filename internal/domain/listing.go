package domain

// Listing is a storage space offered for rent.
//
// JSON tags describe the flat-file persistence format. The HTTP layer maps
// listings to its own DTOs and never serializes the embedding.
type Listing struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Type           string    `json:"type"`
	Neighborhood   string    `json:"neighborhood"`
	Size           float64   `json:"size"`
	Price          float64   `json:"price"`
	Conditions     []string  `json:"conditions,omitempty"`
	ItemsType      string    `json:"items_type"`
	AccessType     string    `json:"access_type"`
	RentalDuration string    `json:"rental_duration"`
	Embedding      []float32 `json:"embedding,omitempty"`
	CreatedAt      int64     `json:"created_at"` // unix millis
}

// Scoreable reports whether the listing can participate in ranking:
// it must carry an embedding of the model-fixed dimensionality.
// A listing embedded under a different dimensionality is incompatible
// and is excluded rather than causing a mismatch fault.
func (l *Listing) Scoreable(dim int) bool {
	return len(l.Embedding) > 0 && len(l.Embedding) == dim
}

// TextFieldsEqual reports whether the textual fields feeding the embedding
// are unchanged between two versions of a listing. Used to decide whether
// an update requires re-vectorization.
func (l *Listing) TextFieldsEqual(other *Listing) bool {
	if l.Title != other.Title ||
		l.Description != other.Description ||
		l.Type != other.Type ||
		l.Neighborhood != other.Neighborhood ||
		l.Size != other.Size ||
		l.ItemsType != other.ItemsType ||
		l.AccessType != other.AccessType {
		return false
	}
	if len(l.Conditions) != len(other.Conditions) {
		return false
	}
	for i := range l.Conditions {
		if l.Conditions[i] != other.Conditions[i] {
			return false
		}
	}
	return true
}

// ScoredListing pairs a listing with its similarity against a query embedding.
// MatchScore is the human-facing percentage (similarity x 100, one decimal).
type ScoredListing struct {
	Listing    Listing
	Similarity float64
	MatchScore float64
}
