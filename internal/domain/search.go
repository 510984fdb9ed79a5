package domain

// SearchFilters are the optional structured criteria of a search request.
// Neighborhood and PriceMax are hard pre-filters; the rest only contribute
// to the composed query text.
type SearchFilters struct {
	Neighborhood   string
	Size           string
	ItemsType      string
	RentalDuration string
	PriceMax       *float64
	Environment    []string
}

// IsEmpty reports whether no filter field is set.
func (f SearchFilters) IsEmpty() bool {
	return f.Neighborhood == "" &&
		f.Size == "" &&
		f.ItemsType == "" &&
		f.RentalDuration == "" &&
		f.PriceMax == nil &&
		len(f.Environment) == 0
}

// SearchQuery is a transient search request: raw query text plus filters.
// It produces one derived embedding per invocation and is never persisted.
type SearchQuery struct {
	Query   string
	Filters SearchFilters
	TopK    int // 0 = service default
}
