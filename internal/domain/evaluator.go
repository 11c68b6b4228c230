package domain

import "encoding/json"

// Answers maps question IDs to the raw answer value submitted by the client.
// The expected shape depends on the question type.
type Answers map[string]json.RawMessage

// QuestionResult is the grading outcome of a single question.
type QuestionResult struct {
	QuestionID  string       `json:"question_id"`
	Type        QuestionType `json:"type"`
	Points      int          `json:"points"`
	Earned      int          `json:"earned"`
	Correct     bool         `json:"correct"`
	Answered    bool         `json:"answered"`
	NeedsReview bool         `json:"needs_review,omitempty"`
}

// ScoreResult is the grading outcome of a whole quiz.
type ScoreResult struct {
	TotalPoints  int              `json:"total_points"`
	EarnedPoints int              `json:"earned_points"`
	Percentage   int              `json:"percentage"`
	CorrectCount int              `json:"correct_count"`
	Results      []QuestionResult `json:"results"`
}
