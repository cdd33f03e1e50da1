package domain

// EventType discriminates streaming chat events.
type EventType string

const (
	// EventInit opens a stream and carries the conversation id.
	EventInit EventType = "init"
	// EventChunk carries one fragment of generated text.
	EventChunk EventType = "chunk"
	// EventDone terminates a successful stream and carries the sources.
	EventDone EventType = "done"
	// EventError terminates a failed stream and carries a message.
	EventError EventType = "error"
)

// StreamEvent is one element of the streaming chat response. Exactly one
// terminal event (done or error) ends every stream; the terminal state is
// part of the type rather than an implicit exception path.
type StreamEvent struct {
	Type           EventType `json:"type"`
	ConversationID string    `json:"conversation_id,omitempty"`
	Text           string    `json:"text,omitempty"`
	Sources        []Source  `json:"sources,omitempty"`
	Message        string    `json:"message,omitempty"`
}

// InitEvent builds the stream-opening event.
func InitEvent(conversationID string) StreamEvent {
	return StreamEvent{Type: EventInit, ConversationID: conversationID}
}

// ChunkEvent builds a text fragment event.
func ChunkEvent(text string) StreamEvent {
	return StreamEvent{Type: EventChunk, Text: text}
}

// DoneEvent builds the successful terminal event.
func DoneEvent(sources []Source) StreamEvent {
	return StreamEvent{Type: EventDone, Sources: sources}
}

// ErrorEvent builds the failed terminal event.
func ErrorEvent(message string) StreamEvent {
	return StreamEvent{Type: EventError, Message: message}
}
