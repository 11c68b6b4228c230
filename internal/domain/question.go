package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// QuestionType identifies the shape of a question body.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeTrueFalse      QuestionType = "true_false"
	QuestionTypeShortAnswer    QuestionType = "short_answer"
	QuestionTypeEssay          QuestionType = "essay"
	QuestionTypeFillInBlank    QuestionType = "fill_in_blank"
	QuestionTypeMatching       QuestionType = "matching"
	QuestionTypeOrdering       QuestionType = "ordering"
)

// QuestionTypes lists every supported question type in catalogue order.
var QuestionTypes = []QuestionType{
	QuestionTypeMultipleChoice,
	QuestionTypeTrueFalse,
	QuestionTypeShortAnswer,
	QuestionTypeEssay,
	QuestionTypeFillInBlank,
	QuestionTypeMatching,
	QuestionTypeOrdering,
}

// Valid reports whether t is one of the supported question types.
func (t QuestionType) Valid() bool {
	for _, known := range QuestionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// QuestionTypeInfo describes a question type for pickers in the client.
type QuestionTypeInfo struct {
	Value       QuestionType `json:"value"`
	Label       string       `json:"label"`
	Description string       `json:"description"`
}

// QuestionTypeCatalogue returns the human readable description of every question type.
func QuestionTypeCatalogue() []QuestionTypeInfo {
	return []QuestionTypeInfo{
		{QuestionTypeMultipleChoice, "Multiple Choice", "Questions with multiple options, one correct answer"},
		{QuestionTypeTrueFalse, "True/False", "Questions with true or false answers"},
		{QuestionTypeShortAnswer, "Short Answer", "Questions requiring brief written responses"},
		{QuestionTypeEssay, "Essay", "Questions requiring longer written responses"},
		{QuestionTypeFillInBlank, "Fill in the Blank", "Questions with missing words to be filled in"},
		{QuestionTypeMatching, "Matching", "Questions requiring matching items between two lists"},
		{QuestionTypeOrdering, "Ordering", "Questions requiring items to be put in correct order"},
	}
}

// Question is a single quiz question. The type-specific part lives in Body,
// which is one of the *Body types declared below.
type Question struct {
	ID          string
	Type        QuestionType
	Text        string
	Explanation string
	Points      int
	Body        QuestionBody
}

// QuestionBody is implemented by the per-type payloads of a Question.
type QuestionBody interface {
	questionType() QuestionType
}

type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type MultipleChoiceBody struct {
	Options []Option `json:"options"`
}

type TrueFalseBody struct {
	CorrectAnswer bool `json:"correct_answer"`
}

type ShortAnswerBody struct {
	CorrectAnswers []string `json:"correct_answers"`
	CaseSensitive  bool     `json:"case_sensitive"`
}

type GradingCriterion struct {
	Criterion string `json:"criterion"`
	Points    int    `json:"points"`
}

// EssayBody is never graded automatically.
type EssayBody struct {
	SampleAnswer    string             `json:"sample_answer,omitempty"`
	GradingCriteria []GradingCriterion `json:"grading_criteria,omitempty"`
	MinWords        int                `json:"min_words,omitempty"`
	MaxWords        int                `json:"max_words,omitempty"`
}

type Blank struct {
	ID             string   `json:"id"`
	CorrectAnswers []string `json:"correct_answers"`
	CaseSensitive  bool     `json:"case_sensitive"`
}

// FillInBlankBody holds blanks in the order their placeholders appear in the question text.
type FillInBlankBody struct {
	Blanks []Blank `json:"blanks"`
}

type MatchItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type Match struct {
	LeftID  string `json:"left_id"`
	RightID string `json:"right_id"`
}

type MatchingBody struct {
	LeftItems      []MatchItem `json:"left_items"`
	RightItems     []MatchItem `json:"right_items"`
	CorrectMatches []Match     `json:"correct_matches"`
}

type OrderItem struct {
	ID           string `json:"id"`
	Text         string `json:"text"`
	CorrectOrder int    `json:"correct_order"` // 1-based
}

type OrderingBody struct {
	Items []OrderItem `json:"items"`
}

// UnsupportedBody quarantines a question whose type tag is unknown or whose
// body could not be decoded. Raw keeps the original object for lossless export.
type UnsupportedBody struct {
	Raw    json.RawMessage
	Reason string
}

func (*MultipleChoiceBody) questionType() QuestionType { return QuestionTypeMultipleChoice }
func (*TrueFalseBody) questionType() QuestionType      { return QuestionTypeTrueFalse }
func (*ShortAnswerBody) questionType() QuestionType    { return QuestionTypeShortAnswer }
func (*EssayBody) questionType() QuestionType          { return QuestionTypeEssay }
func (*FillInBlankBody) questionType() QuestionType    { return QuestionTypeFillInBlank }
func (*MatchingBody) questionType() QuestionType       { return QuestionTypeMatching }
func (*OrderingBody) questionType() QuestionType       { return QuestionTypeOrdering }
func (*UnsupportedBody) questionType() QuestionType    { return "" }

// Quarantined reports whether the question could not be mapped onto a known type.
func (q Question) Quarantined() bool {
	_, ok := q.Body.(*UnsupportedBody)
	return ok || q.Body == nil
}

type questionHeader struct {
	ID          string       `json:"id"`
	Type        QuestionType `json:"type"`
	Question    string       `json:"question"`
	Explanation string       `json:"explanation,omitempty"`
	Points      int          `json:"points"`
}

func (q Question) header() questionHeader {
	return questionHeader{
		ID:          q.ID,
		Type:        q.Type,
		Question:    q.Text,
		Explanation: q.Explanation,
		Points:      q.Points,
	}
}

// MarshalJSON writes the question as one flat object: header keys first, then body keys.
func (q Question) MarshalJSON() ([]byte, error) {
	h := q.header()
	switch b := q.Body.(type) {
	case *MultipleChoiceBody:
		return json.Marshal(struct {
			questionHeader
			*MultipleChoiceBody
		}{h, b})
	case *TrueFalseBody:
		return json.Marshal(struct {
			questionHeader
			*TrueFalseBody
		}{h, b})
	case *ShortAnswerBody:
		return json.Marshal(struct {
			questionHeader
			*ShortAnswerBody
		}{h, b})
	case *EssayBody:
		return json.Marshal(struct {
			questionHeader
			*EssayBody
		}{h, b})
	case *FillInBlankBody:
		return json.Marshal(struct {
			questionHeader
			*FillInBlankBody
		}{h, b})
	case *MatchingBody:
		return json.Marshal(struct {
			questionHeader
			*MatchingBody
		}{h, b})
	case *OrderingBody:
		return json.Marshal(struct {
			questionHeader
			*OrderingBody
		}{h, b})
	case *UnsupportedBody:
		return marshalUnsupported(h, b)
	case nil:
		return json.Marshal(h)
	default:
		return nil, fmt.Errorf("unhandled question body %T", q.Body)
	}
}

// marshalUnsupported re-emits the raw object with the header fields applied on top.
// Keys come out sorted so the output stays byte-stable.
func marshalUnsupported(h questionHeader, b *UnsupportedBody) ([]byte, error) {
	fields := map[string]json.RawMessage{}
	if len(b.Raw) > 0 {
		if err := json.Unmarshal(b.Raw, &fields); err != nil {
			fields = map[string]json.RawMessage{}
		}
	}
	headerBytes, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	var headerFields map[string]json.RawMessage
	if err := json.Unmarshal(headerBytes, &headerFields); err != nil {
		return nil, err
	}
	for k, v := range headerFields {
		fields[k] = v
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf := []byte{'{'}
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, _ := json.Marshal(k)
		buf = append(buf, kb...)
		buf = append(buf, ':')
		buf = append(buf, fields[k]...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// UnmarshalJSON decodes a flat question object. It never fails on a well-formed
// JSON object: unknown type tags and bodies of the wrong shape are quarantined
// in an UnsupportedBody instead.
func (q *Question) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("question must be a JSON object: %w", err)
	}

	*q = Question{}
	decodeField(fields, "id", &q.ID)
	decodeField(fields, "type", &q.Type)
	decodeField(fields, "question", &q.Text)
	decodeField(fields, "explanation", &q.Explanation)
	decodeField(fields, "points", &q.Points)

	raw := make(json.RawMessage, len(data))
	copy(raw, data)

	body, err := decodeBody(q.Type, raw)
	if err != nil {
		q.Body = &UnsupportedBody{Raw: raw, Reason: err.Error()}
		return nil
	}
	q.Body = body
	return nil
}

// decodeField decodes fields[key] into dst, leaving dst untouched when the key
// is missing or holds a value of the wrong JSON type.
func decodeField(fields map[string]json.RawMessage, key string, dst any) {
	v, ok := fields[key]
	if !ok {
		return
	}
	_ = json.Unmarshal(v, dst)
}

func decodeBody(t QuestionType, raw json.RawMessage) (QuestionBody, error) {
	var body QuestionBody
	switch t {
	case QuestionTypeMultipleChoice:
		body = &MultipleChoiceBody{}
	case QuestionTypeTrueFalse:
		body = &TrueFalseBody{}
	case QuestionTypeShortAnswer:
		body = &ShortAnswerBody{}
	case QuestionTypeEssay:
		body = &EssayBody{}
	case QuestionTypeFillInBlank:
		body = &FillInBlankBody{}
	case QuestionTypeMatching:
		body = &MatchingBody{}
	case QuestionTypeOrdering:
		body = &OrderingBody{}
	case "":
		return nil, fmt.Errorf("question type is missing")
	default:
		return nil, fmt.Errorf("unknown question type %q", t)
	}
	if err := json.Unmarshal(raw, body); err != nil {
		return nil, fmt.Errorf("invalid %s body: %w", t, err)
	}
	return body, nil
}
