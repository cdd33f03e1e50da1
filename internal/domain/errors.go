package domain

import "errors"

var (
	// ErrEmptyMessage signals a blank user message, rejected before any work.
	ErrEmptyMessage = errors.New("message must not be empty")
	// ErrInvalidEntry signals a malformed knowledge-base record.
	ErrInvalidEntry = errors.New("invalid knowledge entry")
	// ErrIndexMismatch signals an entry/embedding count mismatch at load time.
	ErrIndexMismatch = errors.New("entry and embedding counts differ")
	// ErrEmbeddingProvider signals an embedding provider failure.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrGenerationProvider signals a generation provider failure.
	ErrGenerationProvider = errors.New("generation provider error")
)
