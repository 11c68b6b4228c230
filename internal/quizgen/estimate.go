package quizgen

import (
	"math"

	"chat-quiz/internal/domain"
)

// Minutes per question, by type.
var timePerQuestion = map[domain.QuestionType]float64{
	domain.QuestionTypeMultipleChoice: 1,
	domain.QuestionTypeTrueFalse:      0.5,
	domain.QuestionTypeShortAnswer:    2,
	domain.QuestionTypeEssay:          5,
	domain.QuestionTypeFillInBlank:    1.5,
	domain.QuestionTypeMatching:       2,
	domain.QuestionTypeOrdering:       1.5,
}

const defaultQuestionTime = 1.0

// EstimateTime returns the expected completion time in whole minutes, at least 1.
func EstimateTime(questions []domain.Question) int {
	total := 0.0
	for _, q := range questions {
		if w, ok := timePerQuestion[q.Type]; ok {
			total += w
		} else {
			total += defaultQuestionTime
		}
	}
	return max(1, int(math.Round(total)))
}
