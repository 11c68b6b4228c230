package domain

import (
	"context"
	"time"
)

type ChatRole string

const (
	ChatRoleSystem    ChatRole = "system"
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	Role    ChatRole
	Content string
}

// CompletionOptions bounds a single completion call.
type CompletionOptions struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Completer is the port to a chat-completion backend.
// Implementations return errors from the adapter/llm package so callers can
// classify the failure.
type Completer interface {
	Complete(ctx context.Context, messages []ChatMessage, opts CompletionOptions) (string, error)
}
