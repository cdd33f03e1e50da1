package retrieval

import (
	"context"

	"github.com/RazakHamidu/lottomatica-support-ai/internal/domain"
)

// Searcher answers top-k similarity queries over the knowledge base.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]domain.ScoredDoc, error)
}
