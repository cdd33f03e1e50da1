package sdk

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// Source is a knowledge base entry that informed a response.
type Source struct {
	Category string  `json:"category"`
	Question string  `json:"question"`
	Score    float64 `json:"score"`
}

// ChatReply is a complete assistant response.
type ChatReply struct {
	Response       string   `json:"response"`
	ConversationID string   `json:"conversation_id"`
	Sources        []Source `json:"sources"`
}

// EventType identifies a streaming event.
type EventType string

// Streaming event types.
const (
	EventInit  EventType = "init"
	EventChunk EventType = "chunk"
	EventDone  EventType = "done"
	EventError EventType = "error"
)

// Event is one streaming response event.
type Event struct {
	Type           EventType `json:"type"`
	ConversationID string    `json:"conversation_id,omitempty"`
	Text           string    `json:"text,omitempty"`
	Sources        []Source  `json:"sources,omitempty"`
	Message        string    `json:"message,omitempty"`
}

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// Chat sends a message and waits for the complete response.
// Pass an empty conversationID to start a new conversation.
func (c *Client) Chat(ctx context.Context, message, conversationID string) (ChatReply, error) {
	var reply ChatReply
	err := c.postJSON(ctx, "/api/chat", chatRequest{
		Message:        message,
		ConversationID: conversationID,
	}, &reply)
	return reply, err
}

// ChatStream sends a message and returns the response as a channel of
// events. The channel closes when the stream ends; cancel ctx to stop
// reading early.
func (c *Client) ChatStream(ctx context.Context, message, conversationID string) (<-chan Event, error) {
	resp, err := c.post(ctx, c.stream, "/api/chat/stream", chatRequest{
		Message:        message,
		ConversationID: conversationID,
	})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, apiErrorFromResponse(resp)
	}

	events := make(chan Event)
	go func() {
		defer close(events)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			var ev Event
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}

// Retrieve searches the knowledge base without generating a response.
// topK <= 0 returns everything the server's relevance filter keeps.
func (c *Client) Retrieve(ctx context.Context, query string, topK int) ([]Source, error) {
	var out struct {
		Results []Source `json:"results"`
	}
	err := c.postJSON(ctx, "/api/retrieve", map[string]any{
		"query": query,
		"top_k": topK,
	}, &out)
	return out.Results, err
}

// Feedback rates one assistant message: rating 1 is positive, -1 negative.
func (c *Client) Feedback(ctx context.Context, conversationID string, messageIndex, rating int) error {
	return c.postJSON(ctx, "/api/feedback", map[string]any{
		"conversation_id": conversationID,
		"message_index":   messageIndex,
		"rating":          rating,
	}, nil)
}
