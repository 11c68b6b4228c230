package domain

import (
	"time"
)

// MinQuizMessages is the smallest conversation a quiz can be generated from.
const MinQuizMessages = 2

// Difficulty of a generated quiz.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Language the quiz text is generated in.
type Language string

const (
	LanguageJapanese Language = "Japanese"
	LanguageEnglish  Language = "English"
)

func (l Language) Valid() bool {
	return l == LanguageJapanese || l == LanguageEnglish
}

const (
	DefaultQuestionCount = 5
	MinQuestionCount     = 1
	MaxQuestionCount     = 20
)

// GenerationOptions controls what the LLM is asked to produce.
type GenerationOptions struct {
	QuestionCount int            `json:"question_count"`
	Difficulty    Difficulty     `json:"difficulty"`
	QuestionTypes []QuestionType `json:"question_types"`
	Language      Language       `json:"language"`
}

// WithDefaults returns a copy of o with every zero field replaced by its default.
func (o GenerationOptions) WithDefaults() GenerationOptions {
	if o.QuestionCount == 0 {
		o.QuestionCount = DefaultQuestionCount
	}
	if o.Difficulty == "" {
		o.Difficulty = DifficultyMedium
	}
	if len(o.QuestionTypes) == 0 {
		o.QuestionTypes = []QuestionType{
			QuestionTypeMultipleChoice,
			QuestionTypeTrueFalse,
			QuestionTypeShortAnswer,
		}
	}
	if o.Language == "" {
		o.Language = LanguageJapanese
	}
	return o
}

// QuizMetadata records how a quiz was produced.
type QuizMetadata struct {
	GeneratedAt        time.Time         `json:"generated_at"`
	SourceMessageCount int               `json:"source_messages_count"`
	GenerationOptions  GenerationOptions `json:"generation_options"`
	Fallback           bool              `json:"fallback,omitempty"`
	FallbackReason     string            `json:"fallback_reason,omitempty"`
}

// Quiz is a persisted, gradable set of questions generated from one conversation.
type Quiz struct {
	ID             string
	Title          string
	Description    string
	ConversationID string
	UserID         string
	Difficulty     Difficulty
	EstimatedTime  int // minutes
	Questions      []Question
	Metadata       QuizMetadata
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (q *Quiz) QuestionsCount() int {
	return len(q.Questions)
}

// TotalPoints sums the points of every question.
func (q *Quiz) TotalPoints() int {
	total := 0
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}

// QuestionsByType returns the questions of the given type in quiz order.
func (q *Quiz) QuestionsByType(t QuestionType) []Question {
	var out []Question
	for _, question := range q.Questions {
		if question.Type == t {
			out = append(out, question)
		}
	}
	return out
}

func (q *Quiz) OwnedBy(userID string) bool {
	return q.UserID == userID
}

// QuizUpdate carries the user-editable quiz fields. Nil fields are left as they are.
type QuizUpdate struct {
	Title       *string
	Description *string
}
