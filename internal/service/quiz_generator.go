package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"chat-quiz/internal/adapter/llm"
	"chat-quiz/internal/config"
	"chat-quiz/internal/domain"
	"chat-quiz/internal/logger"
	"chat-quiz/internal/quizgen"
)

// QuizGenerator turns a conversation into a quiz. Generation never fails
// because of the backend: any completion or parse error yields the fallback quiz.
type QuizGenerator struct {
	completer domain.Completer
	cfg       config.LLMConfig
	now       func() time.Time
}

func NewQuizGenerator(completer domain.Completer, cfg config.LLMConfig) *QuizGenerator {
	return &QuizGenerator{completer: completer, cfg: cfg, now: time.Now}
}

// Generate builds an unsaved quiz for conv from msgs. Ownership and the
// message minimum are the caller's concern.
func (g *QuizGenerator) Generate(ctx context.Context, conv *domain.Conversation, msgs []*domain.Message, opts domain.GenerationOptions) (*domain.Quiz, error) {
	if conv == nil {
		return nil, errors.New("quiz generator: nil conversation")
	}
	requested := opts
	opts = opts.WithDefaults()
	transcript := quizgen.Transcript(msgs)

	l := logger.Get().With(zap.String("conversationID", conv.ID))

	generated, err := g.complete(ctx, transcript, opts)
	fallbackReason := ""
	if err != nil {
		fallbackReason = fallbackReasonFor(err)
		l.Warn("Quiz generation fell back to placeholder quiz",
			zap.String("reason", fallbackReason),
			zap.Error(err))
		generated = quizgen.FallbackQuiz(transcript, opts.QuestionCount, opts.Difficulty)
	} else if generated.Quarantined > 0 {
		l.Warn("Quiz contains questions of an unsupported shape",
			zap.Int("quarantined", generated.Quarantined),
			zap.Int("questions", len(generated.Questions)))
	}

	difficulty := generated.Difficulty
	if !difficulty.Valid() {
		difficulty = opts.Difficulty
	}

	return &domain.Quiz{
		Title:          generated.Title,
		Description:    generated.Description,
		ConversationID: conv.ID,
		UserID:         conv.UserID,
		Difficulty:     difficulty,
		EstimatedTime:  quizgen.EstimateTime(generated.Questions),
		Questions:      generated.Questions,
		Metadata: domain.QuizMetadata{
			GeneratedAt:        g.now(),
			SourceMessageCount: len(msgs),
			GenerationOptions:  requested,
			Fallback:           err != nil,
			FallbackReason:     fallbackReason,
		},
	}, nil
}

func (g *QuizGenerator) complete(ctx context.Context, transcript string, opts domain.GenerationOptions) (*quizgen.GeneratedQuiz, error) {
	if g.completer == nil {
		return nil, llm.NewCompletionError(llm.NotConfigured, nil)
	}

	raw, err := g.completer.Complete(ctx, []domain.ChatMessage{
		{Role: domain.ChatRoleSystem, Content: quizgen.SystemPrompt},
		{Role: domain.ChatRoleUser, Content: quizgen.BuildPrompt(transcript, opts)},
	}, domain.CompletionOptions{
		MaxTokens:   g.cfg.QuizMaxTokens,
		Temperature: g.cfg.Temperature,
		Timeout:     g.cfg.QuizTimeout,
	})
	if err != nil {
		return nil, err
	}
	return quizgen.ParseResponse(raw)
}

func fallbackReasonFor(err error) string {
	var ce *llm.CompletionError
	if errors.As(err, &ce) {
		return llm.UserMessage(err)
	}
	return err.Error()
}
