package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// defaultQueryText is the fallback when composition yields an
// empty string despite passing the criteria check.
const defaultQueryText = "storage space"

// ComposeQueryText assembles the raw query and the structured filters into
// one descriptive string for embedding. Fragments are appended in a fixed
// order and joined with single spaces. An empty query with empty filters is
// rejected with ErrNoSearchCriteria; filters alone suffice.
func ComposeQueryText(query string, f SearchFilters) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" && f.IsEmpty() {
		return "", ErrNoSearchCriteria
	}

	var parts []string
	if query != "" {
		parts = append(parts, query)
	}
	if f.Neighborhood != "" {
		parts = append(parts, "Location: "+f.Neighborhood)
	}
	if f.Size != "" {
		parts = append(parts, "Size: "+f.Size)
	}
	if f.ItemsType != "" {
		parts = append(parts, "Items: "+f.ItemsType)
	}
	if f.RentalDuration != "" {
		parts = append(parts, "Duration: "+f.RentalDuration)
	}
	if len(f.Environment) > 0 {
		parts = append(parts, "Features: "+strings.Join(f.Environment, ", "))
	}

	text := strings.Join(parts, " ")
	if text == "" {
		text = defaultQueryText
	}
	return text, nil
}

// ComposeListingText builds the canonical embedding text for a listing from
// its own textual fields. Computed once at insert time and again whenever a
// textual field changes.
func ComposeListingText(l *Listing) string {
	parts := []string{l.Title, l.Description}
	if l.Type != "" {
		parts = append(parts, "Type: "+l.Type)
	}
	if l.Neighborhood != "" {
		parts = append(parts, "Location: "+l.Neighborhood)
	}
	if l.Size > 0 {
		parts = append(parts, fmt.Sprintf("Size: %s sqm", formatSize(l.Size)))
	}
	if len(l.Conditions) > 0 {
		parts = append(parts, "Conditions: "+strings.Join(l.Conditions, ", "))
	}
	if l.ItemsType != "" {
		parts = append(parts, "Items: "+l.ItemsType)
	}
	if l.AccessType != "" {
		parts = append(parts, "Access: "+l.AccessType)
	}
	return strings.Join(parts, " ")
}

func formatSize(size float64) string {
	return strconv.FormatFloat(size, 'f', -1, 64)
}
