package domain

// Role identifies the author of a conversation turn.
type Role string

const (
	// RoleUser marks a customer message.
	RoleUser Role = "user"
	// RoleAssistant marks a generated reply.
	RoleAssistant Role = "assistant"
)

// Turn is one role-tagged message in a conversation's history.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
