package domain

import "context"

// Generator drives the external text-generation capability.
type Generator interface {
	// Generate produces the full response for a prompt in one call.
	Generate(ctx context.Context, prompt string) (string, error)
	// GenerateStream produces the response as a lazy sequence of text
	// fragments. The returned stream reports io.EOF from Recv when the
	// model is done and must be closed by the caller.
	GenerateStream(ctx context.Context, prompt string) (TextStream, error)
}

// TextStream is a pull-based sequence of generated text fragments.
type TextStream interface {
	// Recv returns the next fragment, io.EOF at the end of the stream, or
	// a provider error. Fragments may be empty strings.
	Recv() (string, error)
	Close() error
}
