package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/RazakHamidu/lottomatica-support-ai/internal/domain"
	"github.com/RazakHamidu/lottomatica-support-ai/internal/metrics"
)

// Generator drives chat completions over the OpenAI-compatible API, in both
// single-shot and streaming form.
type Generator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	logger      *zap.Logger
}

// GeneratorConfig holds the generation provider settings.
type GeneratorConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Logger      *zap.Logger
}

// NewGenerator creates an OpenAI-compatible generation provider.
func NewGenerator(cfg *GeneratorConfig) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Generator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      cfg.Logger,
	}
}

func (g *Generator) completionRequest(prompt string) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
}

// Generate implements domain.Generator for the non-streaming path.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, g.completionRequest(prompt))
	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(g.model, "batch", "error").Inc()
		return "", wrapGenerationError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.GenerationRequestsTotal.WithLabelValues(g.model, "batch", "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrGenerationProvider)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(g.model, "batch", "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues(g.model, "batch").Observe(time.Since(start).Seconds())

	return resp.Choices[0].Message.Content, nil
}

// GenerateStream implements domain.Generator for the streaming path.
func (g *Generator) GenerateStream(ctx context.Context, prompt string) (domain.TextStream, error) {
	start := time.Now()

	stream, err := g.client.CreateChatCompletionStream(ctx, g.completionRequest(prompt))
	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(g.model, "stream", "error").Inc()
		return nil, wrapGenerationError(err)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(g.model, "stream", "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues(g.model, "stream").Observe(time.Since(start).Seconds())

	return &completionStream{inner: stream, model: g.model}, nil
}

// completionStream adapts the SDK stream to domain.TextStream.
type completionStream struct {
	inner *openai.ChatCompletionStream
	model string
}

// Recv returns the next text fragment, io.EOF at the end, or a wrapped
// provider error.
func (s *completionStream) Recv() (string, error) {
	resp, err := s.inner.Recv()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", wrapGenerationError(err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}

	metrics.GenerationChunksTotal.WithLabelValues(s.model).Inc()
	return resp.Choices[0].Delta.Content, nil
}

func (s *completionStream) Close() error {
	if err := s.inner.Close(); err != nil {
		return fmt.Errorf("close completion stream: %w", err)
	}
	return nil
}

// wrapGenerationError wraps SDK errors with domain.ErrGenerationProvider for
// correct 502 mapping.
func wrapGenerationError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("generation API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, domain.ErrGenerationProvider)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("generation API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), domain.ErrGenerationProvider)
	}

	return fmt.Errorf("generation request failed: %w", domain.ErrGenerationProvider)
}
