package evaluator

import (
	"encoding/json"
	"testing"

	"chat-quiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuiz() *domain.Quiz {
	return &domain.Quiz{
		ID: "quiz1",
		Questions: []domain.Question{
			{ID: "mc", Type: domain.QuestionTypeMultipleChoice, Points: 1, Body: &domain.MultipleChoiceBody{Options: []domain.Option{
				{ID: "a", Text: "A"}, {ID: "b", Text: "B", IsCorrect: true},
			}}},
			{ID: "tf", Type: domain.QuestionTypeTrueFalse, Points: 1, Body: &domain.TrueFalseBody{CorrectAnswer: false}},
			{ID: "sa", Type: domain.QuestionTypeShortAnswer, Points: 2, Body: &domain.ShortAnswerBody{CorrectAnswers: []string{"Tokyo"}}},
			{ID: "es", Type: domain.QuestionTypeEssay, Points: 5, Body: &domain.EssayBody{SampleAnswer: "..."}},
			{ID: "fb", Type: domain.QuestionTypeFillInBlank, Points: 2, Body: &domain.FillInBlankBody{Blanks: []domain.Blank{
				{ID: "b1", CorrectAnswers: []string{"go"}},
				{ID: "b2", CorrectAnswers: []string{"Rust"}, CaseSensitive: true},
			}}},
			{ID: "ma", Type: domain.QuestionTypeMatching, Points: 2, Body: &domain.MatchingBody{
				LeftItems:      []domain.MatchItem{{ID: "a"}, {ID: "b"}},
				RightItems:     []domain.MatchItem{{ID: "x"}, {ID: "y"}, {ID: "z"}},
				CorrectMatches: []domain.Match{{LeftID: "a", RightID: "x"}, {LeftID: "b", RightID: "y"}},
			}},
			{ID: "or", Type: domain.QuestionTypeOrdering, Points: 1, Body: &domain.OrderingBody{Items: []domain.OrderItem{
				{ID: "i1", CorrectOrder: 2}, {ID: "i2", CorrectOrder: 1}, {ID: "i3", CorrectOrder: 3},
			}}},
			{ID: "un", Type: "hotspot", Points: 1, Body: &domain.UnsupportedBody{Raw: json.RawMessage(`{}`)}},
		},
	}
}

func answersOf(t *testing.T, values map[string]any) domain.Answers {
	t.Helper()
	answers := domain.Answers{}
	for k, v := range values {
		b, err := json.Marshal(v)
		require.NoError(t, err)
		answers[k] = b
	}
	return answers
}

func resultFor(t *testing.T, res domain.ScoreResult, id string) domain.QuestionResult {
	t.Helper()
	for _, r := range res.Results {
		if r.QuestionID == id {
			return r
		}
	}
	t.Fatalf("no result for %s", id)
	return domain.QuestionResult{}
}

func TestScore_AllCorrect(t *testing.T) {
	answers := answersOf(t, map[string]any{
		"mc": "b",
		"tf": false,
		"sa": "tokyo",
		"es": "A long essay",
		"fb": map[string]string{"b1": "GO", "b2": "Rust"},
		"ma": map[string]string{"a": "x", "b": "y"},
		"or": []string{"i2", "i1", "i3"},
		"un": "anything",
	})

	res := Score(sampleQuiz(), answers)
	assert.Equal(t, 15, res.TotalPoints)
	assert.Equal(t, 9, res.EarnedPoints)
	assert.Equal(t, 6, res.CorrectCount)
	assert.Equal(t, 60, res.Percentage)

	essay := resultFor(t, res, "es")
	assert.False(t, essay.Correct)
	assert.True(t, essay.NeedsReview)
	assert.Equal(t, 0, essay.Earned)

	assert.False(t, resultFor(t, res, "un").Correct)
	assert.True(t, resultFor(t, res, "tf").Correct, "false is a valid true/false answer")
}

func TestScore_NoAnswers(t *testing.T) {
	quiz := sampleQuiz()
	for _, answers := range []domain.Answers{nil, {}, answersOf(t, map[string]any{"mc": nil, "sa": ""})} {
		res := Score(quiz, answers)
		assert.Equal(t, 0, res.EarnedPoints)
		assert.Equal(t, 0, res.CorrectCount)
		assert.Equal(t, 0, res.Percentage)
		for _, r := range res.Results {
			assert.False(t, r.Answered, r.QuestionID)
			assert.False(t, r.NeedsReview, r.QuestionID)
		}
	}
}

func TestScore_NoAnswersPerType(t *testing.T) {
	for _, q := range sampleQuiz().Questions {
		quiz := &domain.Quiz{Questions: []domain.Question{q}}
		res := Score(quiz, domain.Answers{})
		assert.Equal(t, 0, res.EarnedPoints, q.Type)
		assert.Equal(t, 0, res.CorrectCount, q.Type)
	}
}

func TestScore_EssayNeverEarns(t *testing.T) {
	quiz := &domain.Quiz{Questions: []domain.Question{
		{ID: "es", Type: domain.QuestionTypeEssay, Points: 5, Body: &domain.EssayBody{SampleAnswer: "exact sample"}},
	}}
	for _, answer := range []any{"exact sample", true, 5, map[string]string{"x": "y"}} {
		res := Score(quiz, answersOf(t, map[string]any{"es": answer}))
		assert.Equal(t, 0, res.EarnedPoints)
		assert.Equal(t, 0, res.Percentage)
	}
}

func TestScore_MatchingIsAllOrNothing(t *testing.T) {
	quiz := &domain.Quiz{Questions: []domain.Question{
		{ID: "m", Type: domain.QuestionTypeMatching, Points: 2, Body: &domain.MatchingBody{
			CorrectMatches: []domain.Match{{LeftID: "a", RightID: "x"}, {LeftID: "b", RightID: "y"}},
		}},
	}}
	res := Score(quiz, answersOf(t, map[string]any{"m": map[string]string{"a": "x", "b": "z"}}))
	assert.False(t, res.Results[0].Correct)
	assert.Equal(t, 0, res.EarnedPoints)

	res = Score(quiz, answersOf(t, map[string]any{"m": map[string]string{"a": "x"}}))
	assert.False(t, res.Results[0].Correct)
}

func TestScore_FillInBlankIsAllOrNothing(t *testing.T) {
	quiz := sampleQuiz()
	tests := []struct {
		name   string
		answer map[string]string
		want   bool
	}{
		{"all right", map[string]string{"b1": "Go", "b2": "Rust"}, true},
		{"case sensitive blank wrong case", map[string]string{"b1": "go", "b2": "rust"}, false},
		{"missing blank", map[string]string{"b1": "go"}, false},
		{"empty blank", map[string]string{"b1": "go", "b2": ""}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Score(quiz, answersOf(t, map[string]any{"fb": tt.answer}))
			assert.Equal(t, tt.want, resultFor(t, res, "fb").Correct)
		})
	}
}

func TestScore_OrderingIsAllOrNothing(t *testing.T) {
	quiz := sampleQuiz()
	tests := []struct {
		name  string
		order any
		want  bool
	}{
		{"right order", []string{"i2", "i1", "i3"}, true},
		{"one swapped", []string{"i1", "i2", "i3"}, false},
		{"item missing", []string{"i2", "i1"}, false},
		{"not a list", "i2,i1,i3", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Score(quiz, answersOf(t, map[string]any{"or": tt.order}))
			assert.Equal(t, tt.want, resultFor(t, res, "or").Correct)
		})
	}
}

func TestScore_EmptyPartLists(t *testing.T) {
	quiz := &domain.Quiz{Questions: []domain.Question{
		{ID: "fb", Type: domain.QuestionTypeFillInBlank, Points: 1, Body: &domain.FillInBlankBody{Blanks: []domain.Blank{}}},
		{ID: "ma", Type: domain.QuestionTypeMatching, Points: 1, Body: &domain.MatchingBody{CorrectMatches: []domain.Match{}}},
		{ID: "or", Type: domain.QuestionTypeOrdering, Points: 1, Body: &domain.OrderingBody{Items: []domain.OrderItem{}}},
		{ID: "fb-missing", Type: domain.QuestionTypeFillInBlank, Points: 1, Body: &domain.FillInBlankBody{}},
		{ID: "ma-missing", Type: domain.QuestionTypeMatching, Points: 1, Body: &domain.MatchingBody{}},
		{ID: "or-missing", Type: domain.QuestionTypeOrdering, Points: 1, Body: &domain.OrderingBody{}},
	}}
	res := Score(quiz, answersOf(t, map[string]any{
		"fb": map[string]string{}, "ma": map[string]string{}, "or": []string{},
		"fb-missing": map[string]string{}, "ma-missing": map[string]string{}, "or-missing": []string{},
	}))
	for _, id := range []string{"fb", "ma", "or"} {
		assert.True(t, resultFor(t, res, id).Correct, id)
	}
	for _, id := range []string{"fb-missing", "ma-missing", "or-missing"} {
		assert.False(t, resultFor(t, res, id).Correct, id)
	}
	assert.Equal(t, 3, res.CorrectCount)
}

func TestScore_EmptyPartListsDecodedFromJSON(t *testing.T) {
	var q domain.Question
	require.NoError(t, json.Unmarshal([]byte(`{"id":"fb","type":"fill_in_blank","question":"none","points":1,"blanks":[]}`), &q))
	res := Score(&domain.Quiz{Questions: []domain.Question{q}}, answersOf(t, map[string]any{"fb": map[string]string{}}))
	assert.True(t, res.Results[0].Correct)
}

func TestScore_ShortAnswerCaseSensitivity(t *testing.T) {
	quiz := &domain.Quiz{Questions: []domain.Question{
		{ID: "ci", Type: domain.QuestionTypeShortAnswer, Points: 1, Body: &domain.ShortAnswerBody{CorrectAnswers: []string{"GoLang"}}},
		{ID: "cs", Type: domain.QuestionTypeShortAnswer, Points: 1, Body: &domain.ShortAnswerBody{CorrectAnswers: []string{"GoLang"}, CaseSensitive: true}},
	}}
	res := Score(quiz, answersOf(t, map[string]any{"ci": "golang", "cs": "golang"}))
	assert.True(t, resultFor(t, res, "ci").Correct)
	assert.False(t, resultFor(t, res, "cs").Correct)
}

func TestScore_TrueFalseAnswerForms(t *testing.T) {
	quiz := &domain.Quiz{Questions: []domain.Question{
		{ID: "tf", Type: domain.QuestionTypeTrueFalse, Points: 1, Body: &domain.TrueFalseBody{CorrectAnswer: true}},
	}}
	for answer, want := range map[any]bool{true: true, false: false, "true": true, "False": false, "yes": false} {
		res := Score(quiz, answersOf(t, map[string]any{"tf": answer}))
		assert.Equal(t, want, res.Results[0].Correct, "%v", answer)
	}
}

func TestScore_PercentageBounds(t *testing.T) {
	quiz := &domain.Quiz{Questions: []domain.Question{
		{ID: "q1", Type: domain.QuestionTypeTrueFalse, Points: 1, Body: &domain.TrueFalseBody{CorrectAnswer: true}},
		{ID: "q2", Type: domain.QuestionTypeTrueFalse, Points: 1, Body: &domain.TrueFalseBody{CorrectAnswer: true}},
		{ID: "q3", Type: domain.QuestionTypeTrueFalse, Points: 1, Body: &domain.TrueFalseBody{CorrectAnswer: true}},
	}}
	res := Score(quiz, answersOf(t, map[string]any{"q1": true, "q2": true}))
	assert.Equal(t, 67, res.Percentage)

	res = Score(quiz, answersOf(t, map[string]any{"q1": true, "q2": true, "q3": true}))
	assert.Equal(t, 100, res.Percentage)

	empty := Score(&domain.Quiz{}, nil)
	assert.Equal(t, 0, empty.TotalPoints)
	assert.Equal(t, 0, empty.Percentage)
}

func TestScore_Deterministic(t *testing.T) {
	answers := answersOf(t, map[string]any{"mc": "b", "ma": map[string]string{"a": "x", "b": "y"}})
	assert.Equal(t, Score(sampleQuiz(), answers), Score(sampleQuiz(), answers))
}
