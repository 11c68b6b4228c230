package quizgen

import (
	"fmt"
	"strings"
	"unicode"

	"chat-quiz/internal/domain"
)

const (
	FallbackTitle       = "Quiz from Conversation"
	FallbackDescription = "A quiz generated from your conversation."

	maxFallbackTopics    = 10
	maxFallbackQuestions = 3
)

// FallbackQuiz builds a placeholder multiple choice quiz from the words of a
// transcript. It never fails; a transcript without words yields no questions.
func FallbackQuiz(transcript string, count int, difficulty domain.Difficulty) *GeneratedQuiz {
	topics := topicCandidates(transcript, maxFallbackTopics)

	n := min(count, maxFallbackQuestions, len(topics))
	questions := make([]domain.Question, 0, max(n, 0))
	for i := 0; i < n; i++ {
		questions = append(questions, domain.Question{
			ID:          fmt.Sprintf("q%d", i+1),
			Type:        domain.QuestionTypeMultipleChoice,
			Text:        fmt.Sprintf("What was discussed about %s in the conversation?", topics[i]),
			Explanation: "This question is based on the conversation content.",
			Points:      1,
			Body: &domain.MultipleChoiceBody{Options: []domain.Option{
				{ID: "a", Text: "Option A", IsCorrect: true},
				{ID: "b", Text: "Option B"},
				{ID: "c", Text: "Option C"},
				{ID: "d", Text: "Option D"},
			}},
		})
	}

	return &GeneratedQuiz{
		Title:       FallbackTitle,
		Description: FallbackDescription,
		Difficulty:  difficulty,
		Questions:   questions,
	}
}

// topicCandidates returns up to limit distinct words in order of first
// appearance. Words are runs of letters, apostrophes and hyphens, speaker
// labels included.
func topicCandidates(transcript string, limit int) []string {
	words := strings.FieldsFunc(transcript, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\'' && r != '-'
	})

	seen := make(map[string]bool)
	topics := make([]string, 0, limit)
	for _, w := range words {
		if len(topics) == limit {
			break
		}
		if !strings.ContainsFunc(w, unicode.IsLetter) {
			continue
		}
		if seen[w] {
			continue
		}
		seen[w] = true
		topics = append(topics, w)
	}
	return topics
}
