// Package retrieval turns a user query into a ranked, filtered context set.
package retrieval

import (
	"context"
	"fmt"

	"github.com/RazakHamidu/lottomatica-support-ai/internal/domain"
)

// Service retrieves the most relevant knowledge-base entries for a query.
type Service struct {
	index    Searcher
	topK     int
	minScore float32
}

// New creates a retrieval service. minScore is the low relevance bar that
// drops obviously unrelated matches; the prompt composer applies its own,
// stricter bar on top.
func New(index Searcher, topK int, minScore float32) *Service {
	return &Service{index: index, topK: topK, minScore: minScore}
}

// Retrieve runs a top-k search and discards results at or below the
// relevance bar, keeping descending score order. It never mutates the index
// and caches nothing between calls.
func (s *Service) Retrieve(ctx context.Context, query string) ([]domain.ScoredDoc, error) {
	docs, err := s.index.Search(ctx, query, s.topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	relevant := docs[:0]
	for _, d := range docs {
		if d.Score > s.minScore {
			relevant = append(relevant, d)
		}
	}
	return relevant, nil
}
