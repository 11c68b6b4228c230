package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chat-quiz/internal/adapter/llm"
	"chat-quiz/internal/config"
	"chat-quiz/internal/domain"
	"chat-quiz/internal/quizgen"
)

func testLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		ChatTimeout:   30 * time.Second,
		QuizTimeout:   60 * time.Second,
		Temperature:   0.7,
		ChatMaxTokens: 1000,
		QuizMaxTokens: 2000,
		HistoryLimit:  10,
	}
}

func testConversation() (*domain.Conversation, []*domain.Message) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	conv := &domain.Conversation{ID: "conv-1", UserID: "user-1", Title: "Learning Go"}
	msgs := []*domain.Message{
		{ID: "m1", ConversationID: "conv-1", Role: domain.RoleUser, Content: "Explain goroutines please", CreatedAt: start},
		{ID: "m2", ConversationID: "conv-1", Role: domain.RoleAssistant, Content: "Goroutines are lightweight threads managed by the runtime", CreatedAt: start.Add(time.Minute)},
	}
	return conv, msgs
}

const generatedQuizJSON = "```json\n" + `{
	"title": "Goroutines",
	"description": "Concurrency basics",
	"difficulty": "hard",
	"questions": [
		{"id": "q1", "type": "true_false", "question": "Goroutines are OS threads", "correct_answer": false, "points": 1},
		{"type": "short_answer", "question": "Keyword to start one?", "correct_answers": ["go"], "points": 0},
		{"id": "q3", "type": "hotspot", "question": "Click the scheduler", "points": 2}
	]
}` + "\n```"

func TestQuizGenerator_Generate_Success(t *testing.T) {
	completer := new(MockCompleter)
	gen := NewQuizGenerator(completer, testLLMConfig())
	conv, msgs := testConversation()
	opts := domain.GenerationOptions{QuestionCount: 3, Difficulty: domain.DifficultyEasy, Language: domain.LanguageEnglish}

	completer.On("Complete", mock.Anything, mock.MatchedBy(func(m []domain.ChatMessage) bool {
		return len(m) == 2 &&
			m[0].Role == domain.ChatRoleSystem && m[0].Content == quizgen.SystemPrompt &&
			m[1].Role == domain.ChatRoleUser
	}), domain.CompletionOptions{MaxTokens: 2000, Temperature: 0.7, Timeout: 60 * time.Second}).
		Return(generatedQuizJSON, nil).Once()

	quiz, err := gen.Generate(context.Background(), conv, msgs, opts)
	require.NoError(t, err)

	assert.Equal(t, "Goroutines", quiz.Title)
	assert.Equal(t, domain.DifficultyHard, quiz.Difficulty)
	assert.Equal(t, "conv-1", quiz.ConversationID)
	assert.Equal(t, "user-1", quiz.UserID)
	require.Len(t, quiz.Questions, 3)
	assert.NotEmpty(t, quiz.Questions[1].ID)
	assert.Equal(t, 1, quiz.Questions[1].Points)
	assert.True(t, quiz.Questions[2].Quarantined())
	assert.Equal(t, 4, quiz.EstimatedTime) // 0.5 + 2 + 1 rounds to 4
	assert.False(t, quiz.Metadata.Fallback)
	assert.Equal(t, 2, quiz.Metadata.SourceMessageCount)
	assert.Equal(t, opts, quiz.Metadata.GenerationOptions)
	assert.False(t, quiz.Metadata.GeneratedAt.IsZero())

	prompt := completer.Calls[0].Arguments.Get(1).([]domain.ChatMessage)[1].Content
	assert.Contains(t, prompt, "User: Explain goroutines please\n\nAssistant: Goroutines are lightweight")
	assert.Contains(t, prompt, "generate a quiz with 3 questions of easy difficulty")
	completer.AssertExpectations(t)
}

func TestQuizGenerator_Generate_InvalidDifficultyKeepsRequested(t *testing.T) {
	completer := new(MockCompleter)
	gen := NewQuizGenerator(completer, testLLMConfig())
	conv, msgs := testConversation()

	completer.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"title":"T","difficulty":"extreme","questions":[]}`, nil).Once()

	quiz, err := gen.Generate(context.Background(), conv, msgs, domain.GenerationOptions{Difficulty: domain.DifficultyEasy})
	require.NoError(t, err)
	assert.Equal(t, domain.DifficultyEasy, quiz.Difficulty)
	assert.Empty(t, quiz.Questions)
	assert.Equal(t, 1, quiz.EstimatedTime)
}

func TestQuizGenerator_Generate_RateLimitedFallsBack(t *testing.T) {
	completer := new(MockCompleter)
	gen := NewQuizGenerator(completer, testLLMConfig())
	conv, msgs := testConversation()
	opts := domain.GenerationOptions{
		QuestionCount: 5,
		QuestionTypes: []domain.QuestionType{domain.QuestionTypeTrueFalse},
	}

	completer.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("", llm.NewCompletionError(llm.RateLimited, errors.New("429"))).Once()

	quiz, err := gen.Generate(context.Background(), conv, msgs, opts)
	require.NoError(t, err)

	assert.Equal(t, domain.DifficultyMedium, quiz.Difficulty)
	assert.Equal(t, quizgen.FallbackTitle, quiz.Title)
	assert.LessOrEqual(t, len(quiz.Questions), 3)
	assert.NotEmpty(t, quiz.Questions)
	for _, q := range quiz.Questions {
		assert.Equal(t, domain.QuestionTypeMultipleChoice, q.Type)
	}
	assert.True(t, quiz.Metadata.Fallback)
	assert.Equal(t, "OpenAI API rate limit exceeded. Please try again later.", quiz.Metadata.FallbackReason)
	assert.Equal(t, opts, quiz.Metadata.GenerationOptions)
	assert.Empty(t, quiz.Metadata.GenerationOptions.Difficulty)
}

func TestQuizGenerator_Generate_UnparseableFallsBack(t *testing.T) {
	completer := new(MockCompleter)
	gen := NewQuizGenerator(completer, testLLMConfig())
	conv, msgs := testConversation()

	completer.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("Sure! Here is your quiz.", nil).Once()

	quiz, err := gen.Generate(context.Background(), conv, msgs, domain.GenerationOptions{})
	require.NoError(t, err)
	assert.True(t, quiz.Metadata.Fallback)
	assert.Contains(t, quiz.Metadata.FallbackReason, "invalid JSON response from AI")
}

func TestQuizGenerator_Generate_NoCompleter(t *testing.T) {
	gen := NewQuizGenerator(nil, testLLMConfig())
	conv, msgs := testConversation()

	quiz, err := gen.Generate(context.Background(), conv, msgs, domain.GenerationOptions{})
	require.NoError(t, err)
	assert.True(t, quiz.Metadata.Fallback)
	assert.Equal(t, "OpenAI API key is not configured", quiz.Metadata.FallbackReason)

	_, err = gen.Generate(context.Background(), nil, msgs, domain.GenerationOptions{})
	assert.Error(t, err)
}
