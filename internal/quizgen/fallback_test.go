package quizgen

import (
	"testing"

	"chat-quiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackQuiz(t *testing.T) {
	transcript := "User: Tell me about channels\n\nAssistant: Channels connect goroutines.\n\n"

	quiz := FallbackQuiz(transcript, 5, domain.DifficultyMedium)
	require.NotNil(t, quiz)
	assert.Equal(t, FallbackTitle, quiz.Title)
	assert.Equal(t, FallbackDescription, quiz.Description)
	assert.Equal(t, domain.DifficultyMedium, quiz.Difficulty)
	require.Len(t, quiz.Questions, 3)

	assert.Equal(t, "What was discussed about User in the conversation?", quiz.Questions[0].Text)
	assert.Equal(t, "What was discussed about Tell in the conversation?", quiz.Questions[1].Text)
	for i, q := range quiz.Questions {
		assert.Equal(t, domain.QuestionTypeMultipleChoice, q.Type)
		assert.Equal(t, 1, q.Points)
		assert.Equal(t, []string{"q1", "q2", "q3"}[i], q.ID)
		mc, ok := q.Body.(*domain.MultipleChoiceBody)
		require.True(t, ok)
		require.Len(t, mc.Options, 4)
		assert.True(t, mc.Options[0].IsCorrect)
		for _, o := range mc.Options[1:] {
			assert.False(t, o.IsCorrect)
		}
	}
}

func TestFallbackQuiz_RespectsCount(t *testing.T) {
	quiz := FallbackQuiz("User: alpha beta gamma delta\n\n", 2, domain.DifficultyHard)
	assert.Len(t, quiz.Questions, 2)
	assert.Equal(t, domain.DifficultyHard, quiz.Difficulty)
}

func TestFallbackQuiz_EmptyTranscript(t *testing.T) {
	for _, transcript := range []string{"", "   \n\n", "123 456 !!!"} {
		quiz := FallbackQuiz(transcript, 5, domain.DifficultyEasy)
		require.NotNil(t, quiz)
		assert.Empty(t, quiz.Questions, transcript)
		assert.Equal(t, domain.DifficultyEasy, quiz.Difficulty)
		assert.Equal(t, FallbackTitle, quiz.Title)
	}
}

func TestFallbackQuiz_SpeakerLabelsAreWords(t *testing.T) {
	quiz := FallbackQuiz("User: 42\n\nAssistant: 7\n\n", 5, domain.DifficultyMedium)
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, "What was discussed about User in the conversation?", quiz.Questions[0].Text)
	assert.Equal(t, "What was discussed about Assistant in the conversation?", quiz.Questions[1].Text)
}

func TestTopicCandidates(t *testing.T) {
	topics := topicCandidates("User: don't re-run it, don't stop -- it", 10)
	assert.Equal(t, []string{"User", "don't", "re-run", "it", "stop"}, topics)

	many := topicCandidates("a b c d e f g h i j k l m", 10)
	assert.Len(t, many, 10)
}
