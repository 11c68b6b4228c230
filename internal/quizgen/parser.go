package quizgen

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"chat-quiz/internal/domain"
	"chat-quiz/internal/util"
)

var (
	ErrInvalidJSONResponse   = errors.New("invalid JSON response from AI")
	ErrMissingRequiredFields = errors.New("missing required fields in AI response")
)

// GeneratedQuiz is the parsed, repaired form of a model response.
type GeneratedQuiz struct {
	Title       string
	Description string
	Difficulty  domain.Difficulty
	Questions   []domain.Question
	Quarantined int
}

var (
	// wrappingFence matches a fence that opens the text and closes it.
	wrappingFence = regexp.MustCompile("(?s)^```[A-Za-z]*[ \\t]*\\n?(.*)```$")
	// embeddedFence spans from the first fence opener to the last closer.
	embeddedFence = regexp.MustCompile("(?s)```[A-Za-z]*[ \\t]*\\n?(.*)```")
)

// StripCodeFence removes reasoning tags and the markdown code block around the
// payload. Text that already is JSON is returned untouched, so fences inside
// JSON strings survive.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if thinkStart := strings.Index(s, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(s, "</think>"); thinkEnd > thinkStart {
			s = strings.TrimSpace(s[:thinkStart] + s[thinkEnd+len("</think>"):])
		}
	}
	if json.Valid([]byte(s)) {
		return s
	}
	if m := wrappingFence.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := embeddedFence.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}

// ParseResponse decodes a model response into a GeneratedQuiz.
func ParseResponse(raw string) (*GeneratedQuiz, error) {
	cleaned := StripCodeFence(raw)

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSONResponse, err)
	}

	titleRaw, hasTitle := top["title"]
	questionsRaw, hasQuestions := top["questions"]
	if !hasTitle || !hasQuestions || isNull(titleRaw) || isNull(questionsRaw) {
		return nil, ErrMissingRequiredFields
	}

	out := &GeneratedQuiz{}
	if err := json.Unmarshal(titleRaw, &out.Title); err != nil {
		return nil, fmt.Errorf("%w: title must be a string", ErrMissingRequiredFields)
	}
	if d, ok := top["description"]; ok {
		_ = json.Unmarshal(d, &out.Description)
	}
	if d, ok := top["difficulty"]; ok {
		_ = json.Unmarshal(d, &out.Difficulty)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(questionsRaw, &elements); err != nil {
		return nil, fmt.Errorf("%w: questions must be an array: %v", ErrInvalidJSONResponse, err)
	}

	objects := make([]map[string]json.RawMessage, len(elements))
	for i, el := range elements {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(el, &obj); err != nil || obj == nil {
			// Not an object: keep the raw element so the repair pass gives it an id and points.
			obj = map[string]json.RawMessage{"value": el}
		}
		objects[i] = obj
	}
	RepairQuestions(objects, newQuestionID)

	out.Questions = make([]domain.Question, 0, len(objects))
	for i, obj := range objects {
		encoded, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("%w: question %d: %v", ErrInvalidJSONResponse, i, err)
		}
		var q domain.Question
		if err := json.Unmarshal(encoded, &q); err != nil {
			return nil, fmt.Errorf("%w: question %d: %v", ErrInvalidJSONResponse, i, err)
		}
		if q.Quarantined() {
			out.Quarantined++
		}
		out.Questions = append(out.Questions, q)
	}
	return out, nil
}

func newQuestionID() string {
	return "q" + util.RandomAlphanumeric(8)
}

// RepairQuestions fills in what the model left out of each question object:
// ids that are missing, not a non-empty string, or duplicated get a fresh id
// from newID that is unique within the set, and points that are missing,
// not a number, or below 1 are set to 1.
func RepairQuestions(questions []map[string]json.RawMessage, newID func() string) {
	seen := make(map[string]bool, len(questions))
	for _, q := range questions {
		var id string
		if raw, ok := q["id"]; ok {
			if err := json.Unmarshal(raw, &id); err != nil {
				id = ""
			}
		}
		if id == "" || seen[id] {
			id = newID()
			for seen[id] {
				id = newID()
			}
			q["id"] = mustMarshal(id)
		}
		seen[id] = true

		q["points"] = mustMarshal(repairPoints(q["points"]))
	}
}

func repairPoints(raw json.RawMessage) int {
	if raw == nil {
		return 1
	}
	var points float64
	if err := json.Unmarshal(raw, &points); err != nil {
		return 1
	}
	rounded := int(math.Round(points))
	if rounded < 1 {
		return 1
	}
	return rounded
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
