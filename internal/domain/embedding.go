package domain

import (
	"context"
	"fmt"
)

// Embedder vectorizes a single query text into a unit-norm vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// BatchEmbedder vectorizes multiple document texts in a single call.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// InstructionEmbedder prepends a fixed instruction before embedding.
// Asymmetric encoders embed queries and documents differently; the
// instruction prefix is how that asymmetry is expressed over a symmetric
// provider API.
type InstructionEmbedder struct {
	inner       Embedder
	instruction string
}

// NewInstructionEmbedder creates a decorator that prepends instruction text.
func NewInstructionEmbedder(inner Embedder, instruction string) *InstructionEmbedder {
	return &InstructionEmbedder{inner: inner, instruction: instruction}
}

// Embed prepends the instruction and delegates to the inner embedder.
func (e *InstructionEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := e.inner.Embed(ctx, e.instruction+text)
	if err != nil {
		return nil, fmt.Errorf("instruction embed: %w", err)
	}
	return vec, nil
}

// BatchEmbed prepends the instruction to each text and delegates to the inner
// BatchEmbedder, falling back to one Embed call per text when the inner
// embedder has no native batch support.
func (e *InstructionEmbedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	prefixed := make([]string, len(texts))
	for i, t := range texts {
		prefixed[i] = e.instruction + t
	}

	if be, ok := e.inner.(BatchEmbedder); ok {
		vecs, err := be.BatchEmbed(ctx, prefixed)
		if err != nil {
			return nil, fmt.Errorf("instruction batch embed: %w", err)
		}
		return vecs, nil
	}

	vecs, err := BatchFallback(ctx, e.inner, prefixed)
	if err != nil {
		return nil, fmt.Errorf("instruction batch embed fallback: %w", err)
	}
	return vecs, nil
}

// BatchFallback calls Embed once per text. Safety net for providers without
// native batch support.
func BatchFallback(ctx context.Context, e Embedder, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("fallback embed [%d]: %w", i, err)
		}
		vecs[i] = vec
	}
	return vecs, nil
}
