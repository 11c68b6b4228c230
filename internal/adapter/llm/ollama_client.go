package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"

	"chat-quiz/internal/config"
	"chat-quiz/internal/domain"
	"chat-quiz/internal/logger"
)

// OllamaClient implements domain.Completer on a local Ollama server through langchaingo.
type OllamaClient struct {
	model llms.Model
	name  string
}

// NewOllamaClient connects to cfg.OllamaServer using cfg.Model.
func NewOllamaClient(cfg config.LLMConfig) (*OllamaClient, error) {
	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     10 * time.Second,
		},
	}

	model, err := ollama.New(
		ollama.WithServerURL(cfg.OllamaServer),
		ollama.WithModel(cfg.Model),
		ollama.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}
	return NewOllamaClientWithModel(model, cfg.Model), nil
}

// NewOllamaClientWithModel wraps an already constructed langchaingo model.
func NewOllamaClientWithModel(model llms.Model, name string) *OllamaClient {
	return &OllamaClient{model: model, name: name}
}

func (c *OllamaClient) Complete(ctx context.Context, messages []domain.ChatMessage, opts domain.CompletionOptions) (string, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	content := make([]llms.MessageContent, len(messages))
	for i, m := range messages {
		content[i] = llms.TextParts(chatMessageType(m.Role), m.Content)
	}

	callOpts := []llms.CallOption{llms.WithTemperature(opts.Temperature)}
	if opts.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(opts.MaxTokens))
	}

	resp, err := c.model.GenerateContent(ctx, content, callOpts...)
	if err != nil {
		classified := classifyOllamaError(ctx, err)
		logger.Get().Error("Ollama completion failed",
			zap.String("model", c.name),
			zap.String("kind", string(classified.Kind)),
			zap.Error(err))
		return "", classified
	}
	if resp == nil || len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", &CompletionError{
			Kind:    MalformedBackendResponse,
			Message: "Invalid response format from Ollama",
			Err:     errors.New("response has no content"),
		}
	}
	return resp.Choices[0].Content, nil
}

func chatMessageType(role domain.ChatRole) schema.ChatMessageType {
	switch role {
	case domain.ChatRoleSystem:
		return schema.ChatMessageTypeSystem
	case domain.ChatRoleAssistant:
		return schema.ChatMessageTypeAI
	default:
		return schema.ChatMessageTypeHuman
	}
}

func classifyOllamaError(ctx context.Context, err error) *CompletionError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil || errors.As(err, &netErr) {
		return &CompletionError{
			Kind:    BackendUnavailable,
			Message: "Ollama service is currently unavailable. Please try again later.",
			Err:     err,
		}
	}
	return &CompletionError{Kind: UnknownBackendError, Message: "Ollama error: " + err.Error(), Err: err}
}

var _ domain.Completer = (*OllamaClient)(nil)
