package quizgen

import (
	"slices"
	"strings"

	"chat-quiz/internal/domain"
)

// Transcript renders messages in creation order as "{Role}: {content}" blocks.
func Transcript(messages []*domain.Message) string {
	ordered := slices.Clone(messages)
	slices.SortStableFunc(ordered, func(a, b *domain.Message) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	var b strings.Builder
	for _, m := range ordered {
		b.WriteString(m.Role.Label())
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}
	return b.String()
}
