package domain

import (
	"errors"
	"testing"
)

func TestNewKnowledgeEntry_DerivesText(t *testing.T) {
	e, err := NewKnowledgeEntry("1", "Pagamenti", "Come deposito?", "Vai su Portafoglio.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Domanda: Come deposito?\nRisposta: Vai su Portafoglio."
	if e.Text() != want {
		t.Errorf("text:\ngot:  %q\nwant: %q", e.Text(), want)
	}
	if e.Category() != "Pagamenti" {
		t.Errorf("category: got %q", e.Category())
	}
}

func TestNewKnowledgeEntry_Invalid(t *testing.T) {
	tests := []struct {
		name                 string
		id, question, answer string
	}{
		{"missing id", "", "q", "a"},
		{"missing question", "1", "", "a"},
		{"missing answer", "1", "q", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKnowledgeEntry(tt.id, "", tt.question, tt.answer)
			if !errors.Is(err, ErrInvalidEntry) {
				t.Fatalf("expected ErrInvalidEntry, got %v", err)
			}
		})
	}
}

func TestTopSources_RoundsAndClamps(t *testing.T) {
	e1, _ := NewKnowledgeEntry("1", "Pagamenti", "q1", "a1")
	e2, _ := NewKnowledgeEntry("2", "Conto", "q2", "a2")
	docs := []ScoredDoc{
		{Entry: e1, Score: 0.876, Rank: 0},
		{Entry: e2, Score: 0.344, Rank: 1},
	}

	sources := TopSources(docs, 5)
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[0].Score != 0.88 {
		t.Errorf("expected rounded score 0.88, got %v", sources[0].Score)
	}
	if sources[1].Category != "Conto" {
		t.Errorf("expected category Conto, got %q", sources[1].Category)
	}

	if got := TopSources(docs, 1); len(got) != 1 {
		t.Errorf("expected 1 source, got %d", len(got))
	}
	if got := TopSources(nil, 2); len(got) != 0 {
		t.Errorf("expected no sources for empty docs, got %d", len(got))
	}
}
