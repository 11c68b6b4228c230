package dto

import (
	"time"

	"chat-quiz/internal/domain"
)

// TimestampLayout renders timestamps as ISO-8601 UTC with milliseconds.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// GenerateQuizRequest is the body of POST /api/conversations/{id}/quizzes.
// Omitted fields take their defaults.
// @Description Quiz generation options
type GenerateQuizRequest struct {
	QuestionCount *int                  `json:"question_count,omitempty" example:"5"`
	Difficulty    domain.Difficulty     `json:"difficulty,omitempty" example:"medium"`
	QuestionTypes []domain.QuestionType `json:"question_types,omitempty"`
	Language      domain.Language       `json:"language,omitempty" example:"Japanese"`
}

// Options converts the request into generation options as sent. Omitted fields stay zero.
func (r *GenerateQuizRequest) Options() domain.GenerationOptions {
	opts := domain.GenerationOptions{
		Difficulty:    r.Difficulty,
		QuestionTypes: r.QuestionTypes,
		Language:      r.Language,
	}
	if r.QuestionCount != nil {
		opts.QuestionCount = *r.QuestionCount
	}
	return opts
}

// UpdateQuizRequest is the body of PATCH /api/quizzes/{id}.
type UpdateQuizRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ScoreQuizRequest maps question ids to answers.
type ScoreQuizRequest struct {
	Answers domain.Answers `json:"answers"`
}

// ConversationSummary identifies the source conversation of a quiz.
type ConversationSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// QuizResponse represents a quiz in the API response
// @Description Quiz information
type QuizResponse struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Difficulty     domain.Difficulty   `json:"difficulty"`
	EstimatedTime  int                 `json:"estimated_time"`
	QuestionsCount int                 `json:"questions_count"`
	TotalPoints    int                 `json:"total_points"`
	Questions      []domain.Question   `json:"questions"`
	Conversation   ConversationSummary `json:"conversation"`
	Fallback       bool                `json:"fallback,omitempty"`
	FallbackReason string              `json:"fallback_reason,omitempty"`
	CreatedAt      string              `json:"created_at"`
	UpdatedAt      string              `json:"updated_at"`
}

// NewQuizResponse builds the response for quiz. conv may be nil when the
// conversation could not be loaded.
func NewQuizResponse(quiz *domain.Quiz, conv *domain.Conversation) QuizResponse {
	questions := quiz.Questions
	if questions == nil {
		questions = []domain.Question{}
	}
	summary := ConversationSummary{ID: quiz.ConversationID}
	if conv != nil {
		summary.Title = conv.Title
	}
	return QuizResponse{
		ID:             quiz.ID,
		Title:          quiz.Title,
		Description:    quiz.Description,
		Difficulty:     quiz.Difficulty,
		EstimatedTime:  quiz.EstimatedTime,
		QuestionsCount: quiz.QuestionsCount(),
		TotalPoints:    quiz.TotalPoints(),
		Questions:      questions,
		Conversation:   summary,
		Fallback:       quiz.Metadata.Fallback,
		FallbackReason: quiz.Metadata.FallbackReason,
		CreatedAt:      FormatTimestamp(quiz.CreatedAt),
		UpdatedAt:      FormatTimestamp(quiz.UpdatedAt),
	}
}

type QuizEnvelope struct {
	Success bool          `json:"success"`
	Quiz    *QuizResponse `json:"quiz"`
}

type QuizListResponse struct {
	Success bool           `json:"success"`
	Quizzes []QuizResponse `json:"quizzes"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
}

type ScoreQuizResponse struct {
	Success bool               `json:"success"`
	Result  domain.ScoreResult `json:"result"`
}

type QuestionTypesResponse struct {
	Success       bool                      `json:"success"`
	QuestionTypes []domain.QuestionTypeInfo `json:"question_types"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Success bool                     `json:"success"`
	Code    string                   `json:"code"`
	Error   string                   `json:"error"`
	Errors  []domain.ValidationError `json:"errors,omitempty"`
}
