package health

import "context"

// DBPinger checks relational store availability.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// CachePinger checks embedding cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// ListingCounter reports the number of stored listings.
type ListingCounter interface {
	Count(ctx context.Context) (int, error)
}
