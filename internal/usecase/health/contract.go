package health

import "context"

// IndexStats reports the semantic index load state.
type IndexStats interface {
	Len() int
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// CachePinger checks the optional embedding cache backend.
type CachePinger interface {
	Ping(ctx context.Context) error
}
