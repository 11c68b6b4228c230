package llm

import (
	"fmt"

	"chat-quiz/internal/config"
	"chat-quiz/internal/domain"
)

// NewCompleter returns the backend selected by cfg.Provider.
func NewCompleter(cfg config.LLMConfig) (domain.Completer, error) {
	switch cfg.Provider {
	case "", config.ProviderOpenAI:
		return NewOpenAIClient(cfg), nil
	case config.ProviderOllama:
		return NewOllamaClient(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
