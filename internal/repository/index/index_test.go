package index

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/RazakHamidu/lottomatica-support-ai/internal/domain"
)

type stubEmbedder struct {
	vec    []float32
	err    error
	called int
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	s.called++
	return s.vec, s.err
}

func entry(t *testing.T, id string) domain.KnowledgeEntry {
	t.Helper()
	e, err := domain.NewKnowledgeEntry(id, "cat", "q"+id, "a"+id)
	if err != nil {
		t.Fatalf("entry %s: %v", id, err)
	}
	return e
}

func TestSearch_Ordering(t *testing.T) {
	embed := &stubEmbedder{vec: []float32{1, 0}}
	ix := New(embed)
	entries := []domain.KnowledgeEntry{entry(t, "1"), entry(t, "2"), entry(t, "3")}
	matrix := [][]float32{
		{0, 1},           // orthogonal -> 0
		{1, 0},           // identical -> 1
		{0.7071, 0.7071}, // 45 degrees -> ~0.7071
	}
	if err := ix.Load(entries, matrix); err != nil {
		t.Fatalf("load: %v", err)
	}

	docs, err := ix.Search(context.Background(), "query", 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 docs, got %d", len(docs))
	}
	if docs[0].Entry.ID() != "2" || docs[1].Entry.ID() != "3" || docs[2].Entry.ID() != "1" {
		t.Errorf("unexpected order: %s %s %s",
			docs[0].Entry.ID(), docs[1].Entry.ID(), docs[2].Entry.ID())
	}
	if math.Abs(float64(docs[0].Score)-1) > 1e-6 {
		t.Errorf("expected top score 1.0, got %v", docs[0].Score)
	}
	for i, d := range docs {
		if d.Rank != i {
			t.Errorf("doc %d has rank %d", i, d.Rank)
		}
	}
}

func TestSearch_TiesKeepInsertionOrder(t *testing.T) {
	embed := &stubEmbedder{vec: []float32{1, 0}}
	ix := New(embed)
	entries := []domain.KnowledgeEntry{entry(t, "1"), entry(t, "2")}
	matrix := [][]float32{{1, 0}, {1, 0}}
	if err := ix.Load(entries, matrix); err != nil {
		t.Fatalf("load: %v", err)
	}

	docs, err := ix.Search(context.Background(), "q", 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if docs[0].Entry.ID() != "1" || docs[1].Entry.ID() != "2" {
		t.Errorf("tie broke insertion order: %s %s", docs[0].Entry.ID(), docs[1].Entry.ID())
	}
}

func TestSearch_ClampsTopK(t *testing.T) {
	embed := &stubEmbedder{vec: []float32{1, 0}}
	ix := New(embed)
	entries := []domain.KnowledgeEntry{entry(t, "1")}
	if err := ix.Load(entries, [][]float32{{1, 0}}); err != nil {
		t.Fatalf("load: %v", err)
	}

	docs, err := ix.Search(context.Background(), "q", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("expected clamp to 1, got %d", len(docs))
	}

	docs, err = ix.Search(context.Background(), "q", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no docs for topK=0, got %d", len(docs))
	}
}

func TestSearch_BeforeLoad(t *testing.T) {
	embed := &stubEmbedder{vec: []float32{1}}
	ix := New(embed)

	docs, err := ix.Search(context.Background(), "q", 4)
	if err != nil {
		t.Fatalf("expected nil error before load, got %v", err)
	}
	if docs != nil {
		t.Errorf("expected empty result, got %v", docs)
	}
	if embed.called != 0 {
		t.Errorf("embedder should not be called on an empty index")
	}
}

func TestLoad_Idempotent(t *testing.T) {
	ix := New(&stubEmbedder{vec: []float32{1}})
	first := []domain.KnowledgeEntry{entry(t, "1")}
	if err := ix.Load(first, [][]float32{{1}}); err != nil {
		t.Fatalf("load: %v", err)
	}

	second := []domain.KnowledgeEntry{entry(t, "1"), entry(t, "2")}
	if err := ix.Load(second, [][]float32{{1}, {1}}); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if ix.Len() != 1 {
		t.Errorf("second load should be a no-op, len=%d", ix.Len())
	}
}

func TestLoad_Mismatch(t *testing.T) {
	ix := New(&stubEmbedder{})
	err := ix.Load([]domain.KnowledgeEntry{entry(t, "1")}, nil)
	if !errors.Is(err, domain.ErrIndexMismatch) {
		t.Fatalf("expected ErrIndexMismatch, got %v", err)
	}
}

func TestSearch_EmbedError(t *testing.T) {
	embed := &stubEmbedder{err: domain.ErrEmbeddingProvider}
	ix := New(embed)
	if err := ix.Load([]domain.KnowledgeEntry{entry(t, "1")}, [][]float32{{1}}); err != nil {
		t.Fatalf("load: %v", err)
	}

	_, err := ix.Search(context.Background(), "q", 1)
	if !errors.Is(err, domain.ErrEmbeddingProvider) {
		t.Fatalf("expected embedding error to propagate, got %v", err)
	}
}
