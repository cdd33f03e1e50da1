// Package chat orchestrates the conversation-turn lifecycle: retrieve
// context, compose the prompt, drive generation, commit history.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RazakHamidu/lottomatica-support-ai/internal/domain"
)

// FallbackText is recorded and shown when streaming generation fails.
const FallbackText = "Mi dispiace, si è verificato un errore. Contatta il supporto al **800 900 009**."

// sourceCount is how many top retriever results are surfaced to the user.
const sourceCount = 2

// Reply is the non-streaming response.
type Reply struct {
	Text           string
	ConversationID string
	Sources        []domain.Source
}

// Service drives the generation capability and owns conversation commits.
type Service struct {
	retriever Retriever
	composer  Composer
	generator domain.Generator
	history   History
	logger    *zap.Logger
}

// New creates the chat orchestrator.
func New(
	retriever Retriever,
	composer Composer,
	generator domain.Generator,
	history History,
	logger *zap.Logger,
) *Service {
	return &Service{
		retriever: retriever,
		composer:  composer,
		generator: generator,
		history:   history,
		logger:    logger,
	}
}

// Respond answers a message in one shot. The user and assistant turns are
// committed together after generation succeeds, so a failure leaves no
// dangling user turn.
func (s *Service) Respond(ctx context.Context, message, conversationID string) (Reply, error) {
	if strings.TrimSpace(message) == "" {
		return Reply{}, domain.ErrEmptyMessage
	}
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	// History snapshot before the new user turn: the model must not see the
	// upcoming message as past conversation.
	history := s.history.Turns(conversationID)

	docs, err := s.retriever.Retrieve(ctx, message)
	if err != nil {
		return Reply{}, fmt.Errorf("retrieve context: %w", err)
	}

	prompt := s.composer.Compose(message, docs, history)

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return Reply{}, fmt.Errorf("generate response: %w", err)
	}

	s.history.Append(conversationID,
		domain.Turn{Role: domain.RoleUser, Content: message},
		domain.Turn{Role: domain.RoleAssistant, Content: text},
	)

	return Reply{
		Text:           text,
		ConversationID: conversationID,
		Sources:        domain.TopSources(docs, sourceCount),
	}, nil
}

// RespondStream answers a message as a lazy event sequence: one init event,
// zero or more chunks, and exactly one terminal done or error event.
//
// Validation and retrieval failures are reported synchronously, before any
// state change. Once the request is accepted the user turn is committed
// immediately, and the assistant turn is committed exactly once when the
// stream terminates, whether generation completed, failed, or the consumer
// went away.
func (s *Service) RespondStream(ctx context.Context, message, conversationID string) (<-chan domain.StreamEvent, error) {
	if strings.TrimSpace(message) == "" {
		return nil, domain.ErrEmptyMessage
	}
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	history := s.history.Turns(conversationID)

	docs, err := s.retriever.Retrieve(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	prompt := s.composer.Compose(message, docs, history)
	sources := domain.TopSources(docs, sourceCount)

	s.history.Append(conversationID, domain.Turn{Role: domain.RoleUser, Content: message})

	events := make(chan domain.StreamEvent)
	go s.stream(ctx, conversationID, prompt, sources, events)

	return events, nil
}

func (s *Service) stream(
	ctx context.Context,
	conversationID, prompt string,
	sources []domain.Source,
	events chan<- domain.StreamEvent,
) {
	var full strings.Builder
	failed := false

	// The assistant turn is committed on every exit path, exactly once:
	// completion, generation error, or consumer cancellation.
	defer func() {
		content := full.String()
		if failed {
			content = FallbackText
		}
		s.history.Append(conversationID, domain.Turn{Role: domain.RoleAssistant, Content: content})
		close(events)
	}()

	if !s.emit(ctx, events, domain.InitEvent(conversationID)) {
		return
	}

	stream, err := s.generator.GenerateStream(ctx, prompt)
	if err != nil {
		s.logger.Error("generation stream failed to start",
			zap.String("conversation_id", conversationID), zap.Error(err))
		failed = true
		s.emit(ctx, events, domain.ErrorEvent(err.Error()))
		return
	}
	defer func() { _ = stream.Close() }()

	for {
		fragment, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			s.emit(ctx, events, domain.DoneEvent(sources))
			return
		}
		if err != nil {
			if ctx.Err() != nil {
				// Consumer went away; keep whatever text was streamed.
				return
			}
			s.logger.Error("generation stream failed",
				zap.String("conversation_id", conversationID), zap.Error(err))
			failed = true
			s.emit(ctx, events, domain.ErrorEvent(err.Error()))
			return
		}
		if fragment == "" {
			continue
		}

		full.WriteString(fragment)
		if !s.emit(ctx, events, domain.ChunkEvent(fragment)) {
			return
		}
	}
}

// emit delivers an event unless the consumer is gone. Returns false when the
// context was canceled before the event could be sent.
func (s *Service) emit(ctx context.Context, events chan<- domain.StreamEvent, ev domain.StreamEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
