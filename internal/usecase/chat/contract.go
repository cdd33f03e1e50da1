package chat

import (
	"context"

	"github.com/RazakHamidu/lottomatica-support-ai/internal/domain"
)

// Retriever returns the ranked, relevance-filtered context set for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]domain.ScoredDoc, error)
}

// Composer builds a generation-ready prompt.
type Composer interface {
	Compose(userMessage string, docs []domain.ScoredDoc, history []domain.Turn) string
}

// History is the conversation state store.
type History interface {
	Turns(conversationID string) []domain.Turn
	Append(conversationID string, turns ...domain.Turn)
}
