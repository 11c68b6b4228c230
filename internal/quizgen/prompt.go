package quizgen

import (
	"fmt"
	"strings"

	"chat-quiz/internal/domain"
)

// SystemPrompt is sent ahead of every quiz generation prompt.
const SystemPrompt = "You are a helpful assistant that creates educational quizzes from conversations. Always respond with valid JSON only."

const schemaTemplate = `{
    "title": "Quiz title based on conversation topic",
    "description": "Brief description of what the quiz covers",
    "difficulty": "%s",
    "questions": [
        {
            "id": "q1",
            "type": "multiple_choice",
            "question": "Question text",
            "options": [
                {"id": "a", "text": "Option A", "is_correct": true},
                {"id": "b", "text": "Option B", "is_correct": false},
                {"id": "c", "text": "Option C", "is_correct": false},
                {"id": "d", "text": "Option D", "is_correct": false}
            ],
            "explanation": "Explanation of the correct answer",
            "points": 1
        },
        {
            "id": "q2",
            "type": "true_false",
            "question": "Question text",
            "correct_answer": true,
            "explanation": "Explanation",
            "points": 1
        },
        {
            "id": "q3",
            "type": "short_answer",
            "question": "Question text",
            "correct_answers": ["answer1", "answer2"],
            "case_sensitive": false,
            "explanation": "Explanation",
            "points": 1
        },
        {
            "id": "q4",
            "type": "essay",
            "question": "Question text",
            "sample_answer": "A model answer",
            "grading_criteria": [{"criterion": "Mentions the main idea", "points": 2}],
            "min_words": 50,
            "max_words": 300,
            "explanation": "Explanation",
            "points": 5
        },
        {
            "id": "q5",
            "type": "fill_in_blank",
            "question": "Text with ___ for each blank",
            "blanks": [{"id": "b1", "correct_answers": ["word"], "case_sensitive": false}],
            "explanation": "Explanation",
            "points": 1
        },
        {
            "id": "q6",
            "type": "matching",
            "question": "Match each item on the left with one on the right",
            "left_items": [{"id": "l1", "text": "Left item"}],
            "right_items": [{"id": "r1", "text": "Right item"}],
            "correct_matches": [{"left_id": "l1", "right_id": "r1"}],
            "explanation": "Explanation",
            "points": 2
        },
        {
            "id": "q7",
            "type": "ordering",
            "question": "Put the items in the correct order",
            "items": [{"id": "i1", "text": "First step", "correct_order": 1}],
            "explanation": "Explanation",
            "points": 1
        }
    ]
}`

// BuildPrompt renders the quiz generation instruction for a transcript.
// opts must already carry resolved values; no defaults are applied here.
func BuildPrompt(transcript string, opts domain.GenerationOptions) string {
	types := make([]string, len(opts.QuestionTypes))
	for i, t := range opts.QuestionTypes {
		types[i] = string(t)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on the following conversation, generate a quiz with %d questions of %s difficulty.\n\n",
		opts.QuestionCount, opts.Difficulty)
	fmt.Fprintf(&b, "Use these question types: %s\n\n", strings.Join(types, ", "))
	fmt.Fprintf(&b, "Generate all questions, options, and explanations in %s language.\n\n", opts.Language)
	b.WriteString("Conversation:\n")
	b.WriteString(transcript)
	b.WriteString("\n\nGenerate a JSON response with the following structure. ")
	b.WriteString("Each question object uses only the keys of its own type:\n")
	fmt.Fprintf(&b, schemaTemplate, opts.Difficulty)
	b.WriteString("\n\nMake sure all questions are directly related to the conversation content and test understanding of the topics discussed.")
	return b.String()
}
