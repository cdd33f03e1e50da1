package history

import (
	"testing"

	"github.com/RazakHamidu/lottomatica-support-ai/internal/domain"
)

func TestStore_AppendAndSnapshot(t *testing.T) {
	s := NewStore()

	if got := s.Turns("c1"); len(got) != 0 {
		t.Fatalf("expected empty snapshot for new id, got %d turns", len(got))
	}

	s.Append("c1", domain.Turn{Role: domain.RoleUser, Content: "ciao"})
	s.Append("c1",
		domain.Turn{Role: domain.RoleAssistant, Content: "salve"},
	)

	turns := s.Turns("c1")
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Role != domain.RoleUser || turns[1].Role != domain.RoleAssistant {
		t.Errorf("unexpected roles: %v", turns)
	}
	if s.Len("c1") != 2 {
		t.Errorf("expected len 2, got %d", s.Len("c1"))
	}
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.Append("c1", domain.Turn{Role: domain.RoleUser, Content: "ciao"})

	snap := s.Turns("c1")
	snap[0].Content = "mutated"

	if s.Turns("c1")[0].Content != "ciao" {
		t.Error("snapshot mutation leaked into store")
	}
}

func TestStore_SeparateConversations(t *testing.T) {
	s := NewStore()
	s.Append("c1", domain.Turn{Role: domain.RoleUser, Content: "a"})
	s.Append("c2", domain.Turn{Role: domain.RoleUser, Content: "b"})

	if s.Len("c1") != 1 || s.Len("c2") != 1 {
		t.Errorf("conversations bled: c1=%d c2=%d", s.Len("c1"), s.Len("c2"))
	}
}
