package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"chat-quiz/internal/domain"
	"chat-quiz/internal/dto"
	"chat-quiz/internal/handler"
	"chat-quiz/internal/middleware"
	"chat-quiz/internal/service"
)

// --- Manual Mocks ---

type MockQuizService struct {
	GenerateQuizFunc      func(ctx context.Context, userID, conversationID string, opts domain.GenerationOptions) (*dto.QuizResponse, error)
	GetQuizFunc           func(ctx context.Context, userID, quizID string) (*dto.QuizResponse, error)
	ListQuizzesFunc       func(ctx context.Context, userID string, limit, offset int) ([]dto.QuizResponse, error)
	UpdateQuizDetailsFunc func(ctx context.Context, userID, quizID string, update domain.QuizUpdate) (*dto.QuizResponse, error)
	DeleteQuizFunc        func(ctx context.Context, userID, quizID string) error
	ScoreQuizFunc         func(ctx context.Context, userID, quizID string, answers domain.Answers) (*domain.ScoreResult, error)
	ExportQuizFunc        func(ctx context.Context, userID, quizID, format string) (*service.ExportedFile, error)
}

func (m *MockQuizService) GenerateQuiz(ctx context.Context, userID, conversationID string, opts domain.GenerationOptions) (*dto.QuizResponse, error) {
	if m.GenerateQuizFunc != nil {
		return m.GenerateQuizFunc(ctx, userID, conversationID, opts)
	}
	panic("MockQuizService.GenerateQuizFunc not implemented")
}

func (m *MockQuizService) GetQuiz(ctx context.Context, userID, quizID string) (*dto.QuizResponse, error) {
	if m.GetQuizFunc != nil {
		return m.GetQuizFunc(ctx, userID, quizID)
	}
	panic("MockQuizService.GetQuizFunc not implemented")
}

func (m *MockQuizService) ListQuizzes(ctx context.Context, userID string, limit, offset int) ([]dto.QuizResponse, error) {
	if m.ListQuizzesFunc != nil {
		return m.ListQuizzesFunc(ctx, userID, limit, offset)
	}
	panic("MockQuizService.ListQuizzesFunc not implemented")
}

func (m *MockQuizService) UpdateQuizDetails(ctx context.Context, userID, quizID string, update domain.QuizUpdate) (*dto.QuizResponse, error) {
	if m.UpdateQuizDetailsFunc != nil {
		return m.UpdateQuizDetailsFunc(ctx, userID, quizID, update)
	}
	panic("MockQuizService.UpdateQuizDetailsFunc not implemented")
}

func (m *MockQuizService) DeleteQuiz(ctx context.Context, userID, quizID string) error {
	if m.DeleteQuizFunc != nil {
		return m.DeleteQuizFunc(ctx, userID, quizID)
	}
	panic("MockQuizService.DeleteQuizFunc not implemented")
}

func (m *MockQuizService) ScoreQuiz(ctx context.Context, userID, quizID string, answers domain.Answers) (*domain.ScoreResult, error) {
	if m.ScoreQuizFunc != nil {
		return m.ScoreQuizFunc(ctx, userID, quizID, answers)
	}
	panic("MockQuizService.ScoreQuizFunc not implemented")
}

func (m *MockQuizService) ExportQuiz(ctx context.Context, userID, quizID, format string) (*service.ExportedFile, error) {
	if m.ExportQuizFunc != nil {
		return m.ExportQuizFunc(ctx, userID, quizID, format)
	}
	panic("MockQuizService.ExportQuizFunc not implemented")
}

func (m *MockQuizService) QuestionTypes() []domain.QuestionTypeInfo {
	return domain.QuestionTypeCatalogue()
}

type MockChatService struct {
	SendMessageFunc func(ctx context.Context, userID, conversationID, content string) (*service.ChatReply, error)
}

func (m *MockChatService) SendMessage(ctx context.Context, userID, conversationID, content string) (*service.ChatReply, error) {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, userID, conversationID, content)
	}
	panic("MockChatService.SendMessageFunc not implemented")
}

// --- Helpers ---

func setupApp(quizSvc service.QuizService, chatSvc service.ChatService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Use(middleware.RequestLogger())
	handler.RegisterRoutes(app, handler.NewQuizHandler(quizSvc), handler.NewChatHandler(chatSvc))
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.UserIDHeader, "user-1")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func sampleQuizResponse(id string) *dto.QuizResponse {
	return &dto.QuizResponse{
		ID:             id,
		Title:          "Goroutines",
		Difficulty:     domain.DifficultyMedium,
		QuestionsCount: 1,
		TotalPoints:    1,
		Questions:      []domain.Question{},
		Conversation:   dto.ConversationSummary{ID: "conv", Title: "Learning Go"},
	}
}
