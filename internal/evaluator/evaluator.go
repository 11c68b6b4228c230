// Package evaluator grades submitted answers against a quiz.
package evaluator

import (
	"bytes"
	"encoding/json"
	"math"
	"slices"
	"strings"

	"chat-quiz/internal/domain"
)

// Score grades answers against quiz. Questions without an answer are
// incorrect, essays always need manual review, and questions made of several
// parts (blanks, matches, positions) only count when every part is right.
// A present but empty part list is vacuously right; a missing one is not.
func Score(quiz *domain.Quiz, answers domain.Answers) domain.ScoreResult {
	result := domain.ScoreResult{Results: make([]domain.QuestionResult, 0, len(quiz.Questions))}

	for _, q := range quiz.Questions {
		points := max(q.Points, 1)
		raw, answered := answers[q.ID]
		answered = answered && !isEmptyAnswer(raw)

		qr := domain.QuestionResult{
			QuestionID: q.ID,
			Type:       q.Type,
			Points:     points,
			Answered:   answered,
		}
		if _, essay := q.Body.(*domain.EssayBody); essay {
			qr.NeedsReview = answered
		} else if answered && isCorrect(q, raw) {
			qr.Correct = true
			qr.Earned = points
		}

		result.TotalPoints += points
		result.EarnedPoints += qr.Earned
		if qr.Correct {
			result.CorrectCount++
		}
		result.Results = append(result.Results, qr)
	}

	if result.TotalPoints > 0 {
		result.Percentage = int(math.Round(float64(result.EarnedPoints) / float64(result.TotalPoints) * 100))
	}
	return result
}

// isEmptyAnswer treats null and the empty string as no answer. false and 0 are answers.
func isEmptyAnswer(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`))
}

func isCorrect(q domain.Question, raw json.RawMessage) bool {
	switch body := q.Body.(type) {
	case *domain.MultipleChoiceBody:
		return gradeMultipleChoice(body, raw)
	case *domain.TrueFalseBody:
		return gradeTrueFalse(body, raw)
	case *domain.ShortAnswerBody:
		var answer string
		if json.Unmarshal(raw, &answer) != nil {
			return false
		}
		return matchesAny(answer, body.CorrectAnswers, body.CaseSensitive)
	case *domain.FillInBlankBody:
		return gradeFillInBlank(body, raw)
	case *domain.MatchingBody:
		return gradeMatching(body, raw)
	case *domain.OrderingBody:
		return gradeOrdering(body, raw)
	case *domain.EssayBody, *domain.UnsupportedBody, nil:
		return false
	default:
		return false
	}
}

func gradeMultipleChoice(body *domain.MultipleChoiceBody, raw json.RawMessage) bool {
	var selected string
	if json.Unmarshal(raw, &selected) != nil {
		return false
	}
	for _, opt := range body.Options {
		if opt.ID == selected && opt.IsCorrect {
			return true
		}
	}
	return false
}

func gradeTrueFalse(body *domain.TrueFalseBody, raw json.RawMessage) bool {
	var b bool
	if json.Unmarshal(raw, &b) == nil {
		return b == body.CorrectAnswer
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return false
	}
	switch strings.ToLower(s) {
	case "true":
		return body.CorrectAnswer
	case "false":
		return !body.CorrectAnswer
	}
	return false
}

func gradeFillInBlank(body *domain.FillInBlankBody, raw json.RawMessage) bool {
	var filled map[string]string
	if json.Unmarshal(raw, &filled) != nil || body.Blanks == nil {
		return false
	}
	for _, blank := range body.Blanks {
		answer := filled[blank.ID]
		if answer == "" || !matchesAny(answer, blank.CorrectAnswers, blank.CaseSensitive) {
			return false
		}
	}
	return true
}

func gradeMatching(body *domain.MatchingBody, raw json.RawMessage) bool {
	var pairs map[string]string
	if json.Unmarshal(raw, &pairs) != nil || body.CorrectMatches == nil {
		return false
	}
	for _, m := range body.CorrectMatches {
		if got, ok := pairs[m.LeftID]; !ok || got != m.RightID {
			return false
		}
	}
	return true
}

func gradeOrdering(body *domain.OrderingBody, raw json.RawMessage) bool {
	var order []string
	if json.Unmarshal(raw, &order) != nil || body.Items == nil {
		return false
	}
	for _, item := range body.Items {
		idx := slices.Index(order, item.ID)
		if idx == -1 || idx != item.CorrectOrder-1 {
			return false
		}
	}
	return true
}

func matchesAny(answer string, accepted []string, caseSensitive bool) bool {
	if !caseSensitive {
		answer = strings.ToLower(answer)
	}
	for _, a := range accepted {
		if !caseSensitive {
			a = strings.ToLower(a)
		}
		if a == answer {
			return true
		}
	}
	return false
}
