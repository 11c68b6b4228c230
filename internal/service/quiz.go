package service

import (
	"context"

	"go.uber.org/zap"

	"chat-quiz/internal/domain"
	"chat-quiz/internal/dto"
	"chat-quiz/internal/evaluator"
	"chat-quiz/internal/export"
	"chat-quiz/internal/logger"
)

// QuizService defines the interface for quiz-related operations.
// Every operation on an existing quiz requires userID to own it.
type QuizService interface {
	GenerateQuiz(ctx context.Context, userID, conversationID string, opts domain.GenerationOptions) (*dto.QuizResponse, error)
	GetQuiz(ctx context.Context, userID, quizID string) (*dto.QuizResponse, error)
	ListQuizzes(ctx context.Context, userID string, limit, offset int) ([]dto.QuizResponse, error)
	UpdateQuizDetails(ctx context.Context, userID, quizID string, update domain.QuizUpdate) (*dto.QuizResponse, error)
	DeleteQuiz(ctx context.Context, userID, quizID string) error
	ScoreQuiz(ctx context.Context, userID, quizID string, answers domain.Answers) (*domain.ScoreResult, error)
	ExportQuiz(ctx context.Context, userID, quizID, format string) (*ExportedFile, error)
	QuestionTypes() []domain.QuestionTypeInfo
}

// ExportedFile is a rendered quiz ready to be sent as an attachment.
type ExportedFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

type quizService struct {
	quizzes       domain.QuizRepository
	conversations domain.ConversationRepository
	generator     *QuizGenerator
}

// NewQuizService creates a new instance of quizService
func NewQuizService(
	quizzes domain.QuizRepository,
	conversations domain.ConversationRepository,
	generator *QuizGenerator,
) QuizService {
	return &quizService{
		quizzes:       quizzes,
		conversations: conversations,
		generator:     generator,
	}
}

func (s *quizService) GenerateQuiz(ctx context.Context, userID, conversationID string, opts domain.GenerationOptions) (*dto.QuizResponse, error) {
	conv, err := s.ownedConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	msgs, err := s.conversations.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load conversation messages", err)
	}
	if len(msgs) < domain.MinQuizMessages {
		return nil, domain.NewInsufficientMessagesError(len(msgs))
	}

	quiz, err := s.generator.Generate(ctx, conv, msgs, opts)
	if err != nil {
		return nil, domain.NewInternalError("Failed to generate quiz", err)
	}
	if err := s.quizzes.SaveQuiz(ctx, quiz); err != nil {
		return nil, domain.NewInternalError("Failed to save quiz", err)
	}

	logger.Get().Info("Quiz generated",
		zap.String("quizID", quiz.ID),
		zap.String("conversationID", conversationID),
		zap.Int("questions", quiz.QuestionsCount()),
		zap.Bool("fallback", quiz.Metadata.Fallback))

	resp := dto.NewQuizResponse(quiz, conv)
	return &resp, nil
}

func (s *quizService) GetQuiz(ctx context.Context, userID, quizID string) (*dto.QuizResponse, error) {
	quiz, err := s.ownedQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewQuizResponse(quiz, s.conversationFor(ctx, quiz.ConversationID))
	return &resp, nil
}

func (s *quizService) ListQuizzes(ctx context.Context, userID string, limit, offset int) ([]dto.QuizResponse, error) {
	quizzes, err := s.quizzes.ListQuizzesByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list quizzes", err)
	}

	convs := make(map[string]*domain.Conversation)
	out := make([]dto.QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		conv, seen := convs[quiz.ConversationID]
		if !seen {
			conv = s.conversationFor(ctx, quiz.ConversationID)
			convs[quiz.ConversationID] = conv
		}
		out = append(out, dto.NewQuizResponse(quiz, conv))
	}
	return out, nil
}

func (s *quizService) UpdateQuizDetails(ctx context.Context, userID, quizID string, update domain.QuizUpdate) (*dto.QuizResponse, error) {
	if _, err := s.ownedQuiz(ctx, userID, quizID); err != nil {
		return nil, err
	}
	if err := s.quizzes.UpdateQuizDetails(ctx, quizID, update); err != nil {
		return nil, domain.NewInternalError("Failed to update quiz", err)
	}
	return s.GetQuiz(ctx, userID, quizID)
}

func (s *quizService) DeleteQuiz(ctx context.Context, userID, quizID string) error {
	if _, err := s.ownedQuiz(ctx, userID, quizID); err != nil {
		return err
	}
	if err := s.quizzes.DeleteQuiz(ctx, quizID); err != nil {
		return domain.NewInternalError("Failed to delete quiz", err)
	}
	return nil
}

func (s *quizService) ScoreQuiz(ctx context.Context, userID, quizID string, answers domain.Answers) (*domain.ScoreResult, error) {
	quiz, err := s.ownedQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}
	result := evaluator.Score(quiz, answers)
	return &result, nil
}

func (s *quizService) ExportQuiz(ctx context.Context, userID, quizID, format string) (*ExportedFile, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	quiz, err := s.ownedQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}

	content, err := export.Export(quiz, f)
	if err != nil {
		return nil, domain.NewInternalError("Failed to export quiz", err)
	}
	return &ExportedFile{
		Filename:    export.Filename(quiz.ID, f),
		ContentType: export.ContentType(f),
		Content:     content,
	}, nil
}

func (s *quizService) QuestionTypes() []domain.QuestionTypeInfo {
	return domain.QuestionTypeCatalogue()
}

func (s *quizService) ownedQuiz(ctx context.Context, userID, quizID string) (*domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}
	if !quiz.OwnedBy(userID) {
		return nil, domain.NewForbiddenError("You do not have access to this quiz")
	}
	return quiz, nil
}

func (s *quizService) ownedConversation(ctx context.Context, userID, conversationID string) (*domain.Conversation, error) {
	conv, err := s.conversations.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get conversation", err)
	}
	if conv == nil {
		return nil, domain.NewConversationNotFoundError(conversationID)
	}
	if !conv.OwnedBy(userID) {
		return nil, domain.NewForbiddenError("You do not have access to this conversation")
	}
	return conv, nil
}

// conversationFor is best effort: a quiz is still returned when its
// conversation cannot be loaded.
func (s *quizService) conversationFor(ctx context.Context, conversationID string) *domain.Conversation {
	conv, err := s.conversations.GetConversation(ctx, conversationID)
	if err != nil {
		logger.Get().Warn("Failed to load conversation for quiz response",
			zap.String("conversationID", conversationID), zap.Error(err))
		return nil
	}
	return conv
}
