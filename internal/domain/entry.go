package domain

import (
	"fmt"
	"math"
)

// KnowledgeEntry is one question/answer record of the support knowledge base.
// Entries are built once at load time and never mutated.
type KnowledgeEntry struct {
	id       string
	category string
	question string
	answer   string
	text     string
}

// NewKnowledgeEntry validates a source record and derives the canonical text
// used for embedding and display. Category may be empty.
func NewKnowledgeEntry(id, category, question, answer string) (KnowledgeEntry, error) {
	if id == "" {
		return KnowledgeEntry{}, fmt.Errorf("%w: missing id", ErrInvalidEntry)
	}
	if question == "" {
		return KnowledgeEntry{}, fmt.Errorf("%w: entry %q missing question", ErrInvalidEntry, id)
	}
	if answer == "" {
		return KnowledgeEntry{}, fmt.Errorf("%w: entry %q missing answer", ErrInvalidEntry, id)
	}
	return KnowledgeEntry{
		id:       id,
		category: category,
		question: question,
		answer:   answer,
		text:     fmt.Sprintf("Domanda: %s\nRisposta: %s", question, answer),
	}, nil
}

// ID returns the unique entry identifier.
func (e KnowledgeEntry) ID() string { return e.id }

// Category returns the entry category label (may be empty).
func (e KnowledgeEntry) Category() string { return e.category }

// Question returns the source question.
func (e KnowledgeEntry) Question() string { return e.question }

// Answer returns the source answer.
func (e KnowledgeEntry) Answer() string { return e.answer }

// Text returns the canonical question+answer concatenation.
func (e KnowledgeEntry) Text() string { return e.text }

// ScoredDoc is a transient view of a knowledge entry with its similarity
// score and rank position for one query. Never persisted.
type ScoredDoc struct {
	Entry KnowledgeEntry
	Score float32
	Rank  int
}

// Source is the user-facing summary of a retrieved document.
type Source struct {
	Category string  `json:"category"`
	Question string  `json:"question"`
	Score    float64 `json:"score"`
}

// TopSources summarizes the n highest-ranked docs. Scores are rounded to two
// decimals for display.
func TopSources(docs []ScoredDoc, n int) []Source {
	if n > len(docs) {
		n = len(docs)
	}
	sources := make([]Source, 0, n)
	for _, d := range docs[:n] {
		sources = append(sources, Source{
			Category: d.Entry.Category(),
			Question: d.Entry.Question(),
			Score:    math.Round(float64(d.Score)*100) / 100,
		})
	}
	return sources
}
