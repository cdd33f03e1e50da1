// Package history holds in-memory conversation state.
package history

import (
	"sync"

	"github.com/RazakHamidu/lottomatica-support-ai/internal/domain"
)

// Store owns the conversation mapping for the lifetime of the process.
// Nothing is evicted or persisted. The lock protects map and slice
// integrity only: two requests appending to the same conversation id may
// interleave their turns in either order.
type Store struct {
	mu            sync.RWMutex
	conversations map[string][]domain.Turn
}

// NewStore creates an empty conversation store.
func NewStore() *Store {
	return &Store{conversations: make(map[string][]domain.Turn)}
}

// Turns returns a snapshot of the conversation's turn list, oldest first.
// Unknown ids yield an empty snapshot.
func (s *Store) Turns(conversationID string) []domain.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.conversations[conversationID]
	out := make([]domain.Turn, len(turns))
	copy(out, turns)
	return out
}

// Append adds turns to the conversation, creating it on first use.
func (s *Store) Append(conversationID string, turns ...domain.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[conversationID] = append(s.conversations[conversationID], turns...)
}

// Len returns the number of turns recorded for the conversation.
func (s *Store) Len(conversationID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations[conversationID])
}
