// Package export renders quizzes as downloadable JSON or YAML documents.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"chat-quiz/internal/domain"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

const createdAtLayout = "2006-01-02T15:04:05.000000Z07:00"

// YAML nodes at this depth and below are written in flow style.
const yamlInlineDepth = 4

// ParseFormat accepts json, yaml and yml in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", domain.NewUnsupportedFormatError(s)
}

func ContentType(f Format) string {
	if f == FormatYAML {
		return "application/x-yaml"
	}
	return "application/json"
}

// Filename returns the attachment name for an exported quiz.
func Filename(quizID string, f Format) string {
	return fmt.Sprintf("quiz-%s.%s", quizID, f)
}

// Export renders quiz in the given format.
func Export(quiz *domain.Quiz, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return JSON(quiz)
	case FormatYAML:
		return YAML(quiz)
	}
	return nil, domain.NewUnsupportedFormatError(string(f))
}

type document struct {
	Quiz exportedQuiz `json:"quiz"`
}

type exportedQuiz struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	ConversationID string            `json:"conversation_id"`
	CreatedAt      string            `json:"created_at"`
	Difficulty     domain.Difficulty `json:"difficulty"`
	EstimatedTime  int               `json:"estimated_time"`
	Questions      []domain.Question `json:"questions"`
}

func newDocument(quiz *domain.Quiz) document {
	questions := quiz.Questions
	if questions == nil {
		questions = []domain.Question{}
	}
	return document{Quiz: exportedQuiz{
		ID:             quiz.ID,
		Title:          quiz.Title,
		Description:    quiz.Description,
		ConversationID: quiz.ConversationID,
		CreatedAt:      formatCreatedAt(quiz.CreatedAt),
		Difficulty:     quiz.Difficulty,
		EstimatedTime:  quiz.EstimatedTime,
		Questions:      questions,
	}}
}

func formatCreatedAt(t time.Time) string {
	return t.UTC().Format(createdAtLayout)
}

// JSON renders quiz pretty printed with four space indents. Non-ASCII text and
// HTML characters are written as is.
func JSON(quiz *domain.Quiz) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(newDocument(quiz)); err != nil {
		return nil, fmt.Errorf("encode quiz %s as json: %w", quiz.ID, err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// YAML renders quiz with two space indents, switching to flow style for
// collections nested four levels down.
func YAML(quiz *domain.Quiz) ([]byte, error) {
	raw, err := json.Marshal(newDocument(quiz))
	if err != nil {
		return nil, fmt.Errorf("encode quiz %s: %w", quiz.ID, err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("convert quiz %s to yaml: %w", quiz.ID, err)
	}
	if root.Kind == yaml.DocumentNode {
		for _, n := range root.Content {
			restyle(n, 0)
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&root); err != nil {
		return nil, fmt.Errorf("encode quiz %s as yaml: %w", quiz.ID, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode quiz %s as yaml: %w", quiz.ID, err)
	}
	return buf.Bytes(), nil
}

// restyle drops the JSON quoting of scalars and picks block or flow style by depth.
func restyle(n *yaml.Node, depth int) {
	switch n.Kind {
	case yaml.ScalarNode:
		n.Style = 0
	case yaml.MappingNode, yaml.SequenceNode:
		if depth >= yamlInlineDepth {
			n.Style = yaml.FlowStyle
		} else {
			n.Style = 0
		}
		for i, child := range n.Content {
			if n.Kind == yaml.MappingNode && i%2 == 0 {
				restyle(child, depth) // key
				continue
			}
			restyle(child, depth+1)
		}
	}
}
