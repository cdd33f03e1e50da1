// Package index holds the in-memory semantic index over the knowledge base.
package index

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/RazakHamidu/lottomatica-support-ai/internal/domain"
)

// Index answers top-k cosine similarity queries over the loaded entries.
// Load happens once at startup; after that the index is read-only and
// Search needs no locking beyond the loaded snapshot.
type Index struct {
	embed domain.Embedder

	mu      sync.RWMutex
	entries []domain.KnowledgeEntry
	matrix  [][]float32
	loaded  bool
}

// New creates an empty index using the query-mode embedder.
func New(queryEmbedder domain.Embedder) *Index {
	return &Index{embed: queryEmbedder}
}

// Load installs the entries and their embedding matrix. Rows must be
// unit-normalized and positionally aligned with entries. A second call is a
// no-op, so repeated startup hooks do not re-index.
func (ix *Index) Load(entries []domain.KnowledgeEntry, matrix [][]float32) error {
	if len(entries) != len(matrix) {
		return fmt.Errorf("%w: %d entries, %d vectors",
			domain.ErrIndexMismatch, len(entries), len(matrix))
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.loaded {
		return nil
	}
	ix.entries = entries
	ix.matrix = matrix
	ix.loaded = true
	return nil
}

// Len returns the number of indexed entries.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Search embeds the query and returns the topK most similar entries in
// descending score order, ties broken by insertion order. Before Load, and
// on an empty knowledge base, it returns an empty result rather than an
// error.
func (ix *Index) Search(ctx context.Context, query string, topK int) ([]domain.ScoredDoc, error) {
	ix.mu.RLock()
	entries, matrix := ix.entries, ix.matrix
	ix.mu.RUnlock()

	if len(entries) == 0 || topK <= 0 {
		return nil, nil
	}
	if topK > len(entries) {
		topK = len(entries)
	}

	qvec, err := ix.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scores := make([]float32, len(entries))
	for i, row := range matrix {
		scores[i] = domain.Dot(row, qvec)
	}

	order := make([]int, len(entries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	docs := make([]domain.ScoredDoc, topK)
	for rank, idx := range order[:topK] {
		docs[rank] = domain.ScoredDoc{
			Entry: entries[idx],
			Score: scores[idx],
			Rank:  rank,
		}
	}
	return docs, nil
}
