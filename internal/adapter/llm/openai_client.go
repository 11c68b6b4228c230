package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"chat-quiz/internal/config"
	"chat-quiz/internal/domain"
	"chat-quiz/internal/logger"
)

// OpenAIClient implements domain.Completer against the OpenAI chat completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient builds a client from cfg. An empty API key yields a client
// whose calls fail with NotConfigured without touching the network.
func NewOpenAIClient(cfg config.LLMConfig) *OpenAIClient {
	return newOpenAIClient(cfg, nil)
}

func newOpenAIClient(cfg config.LLMConfig, httpClient *http.Client) *OpenAIClient {
	c := &OpenAIClient{model: cfg.Model}
	if c.model == "" {
		c.model = openai.GPT3Dot5Turbo
	}
	if cfg.APIKey == "" {
		return c
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if httpClient != nil {
		clientCfg.HTTPClient = httpClient
	}
	c.client = openai.NewClientWithConfig(clientCfg)
	return c
}

// Complete sends one chat completion request. There is no retry.
func (c *OpenAIClient) Complete(ctx context.Context, messages []domain.ChatMessage, opts domain.CompletionOptions) (string, error) {
	if c.client == nil {
		return "", NewCompletionError(NotConfigured, nil)
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    make([]openai.ChatCompletionMessage, len(messages)),
		MaxTokens:   opts.MaxTokens,
		Temperature: float32(opts.Temperature),
	}
	for i, m := range messages {
		req.Messages[i] = openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		classified := classifyOpenAIError(err)
		logger.Get().Error("OpenAI chat completion failed",
			zap.String("model", c.model),
			zap.String("kind", string(classified.Kind)),
			zap.Error(err))
		return "", classified
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", NewCompletionError(MalformedBackendResponse, errors.New("response has no message content"))
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyOpenAIError maps a go-openai error onto a FailureKind. The error
// code from the body wins; the HTTP status is used when no code was sent.
func classifyOpenAIError(err error) *CompletionError {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewCompletionError(BackendUnavailable, err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code := errorCode(apiErr)
		switch code {
		case "insufficient_quota":
			return NewCompletionError(QuotaExceeded, err)
		case "invalid_api_key":
			return NewCompletionError(InvalidCredentials, err)
		case "rate_limit_exceeded":
			return NewCompletionError(RateLimited, err)
		case "internal_error":
			return &CompletionError{
				Kind:    BackendUnavailable,
				Message: "OpenAI service is temporarily unavailable. Please try again in a few moments.",
				Err:     err,
			}
		case "service_unavailable":
			return NewCompletionError(BackendUnavailable, err)
		case "":
			if kind, ok := kindForStatus(apiErr.HTTPStatusCode); ok {
				return NewCompletionError(kind, err)
			}
		}
		msg := apiErr.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return &CompletionError{Kind: UnknownBackendError, Message: "OpenAI API error: " + msg, Err: err}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if kind, ok := kindForStatus(reqErr.HTTPStatusCode); ok {
			return NewCompletionError(kind, err)
		}
		return &CompletionError{Kind: UnknownBackendError, Message: "Failed to get response from OpenAI", Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return NewCompletionError(BackendUnavailable, err)
	}
	return NewCompletionError(BackendUnavailable, fmt.Errorf("request failed: %w", err))
}

// errorCode reads the string error code, falling back to the error type for
// quota errors. Numeric codes sent by some compatible servers are ignored.
func errorCode(apiErr *openai.APIError) string {
	if code, ok := apiErr.Code.(string); ok && code != "" {
		return code
	}
	if apiErr.Type == "insufficient_quota" {
		return apiErr.Type
	}
	return ""
}

func kindForStatus(status int) (FailureKind, bool) {
	switch {
	case status == http.StatusUnauthorized:
		return InvalidCredentials, true
	case status == http.StatusTooManyRequests:
		return RateLimited, true
	case status >= http.StatusInternalServerError:
		return BackendUnavailable, true
	}
	return "", false
}

var _ domain.Completer = (*OpenAIClient)(nil)
