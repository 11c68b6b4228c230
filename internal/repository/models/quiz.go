package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"chat-quiz/internal/domain"
)

// Questions stores a quiz's question list as a JSON CLOB.
type Questions []domain.Question

// Value implements the driver.Valuer interface
func (q Questions) Value() (driver.Value, error) {
	if q == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal([]domain.Question(q))
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (q *Questions) Scan(value interface{}) error {
	data, err := jsonBytes("Questions", value)
	if err != nil {
		return err
	}
	if data == nil {
		*q = Questions{}
		return nil
	}
	var out []domain.Question
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("Questions Scan: %w", err)
	}
	*q = out
	return nil
}

// Metadata stores quiz generation metadata as a JSON CLOB.
type Metadata domain.QuizMetadata

// Value implements the driver.Valuer interface
func (m Metadata) Value() (driver.Value, error) {
	jsonData, err := json.Marshal(domain.QuizMetadata(m))
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (m *Metadata) Scan(value interface{}) error {
	data, err := jsonBytes("Metadata", value)
	if err != nil {
		return err
	}
	if data == nil {
		*m = Metadata{}
		return nil
	}
	var out domain.QuizMetadata
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("Metadata Scan: %w", err)
	}
	*m = Metadata(out)
	return nil
}

// jsonBytes normalizes a CLOB column value. NULL, empty and "null" yield nil.
func jsonBytes(typeName string, value interface{}) ([]byte, error) {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return nil, errors.New(typeName + " Scan: unsupported type " + fmt.Sprintf("%T", value))
	}
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	return data, nil
}

// Quiz is the row shape of the quizzes table.
type Quiz struct {
	ID             string         `db:"id"`
	Title          string         `db:"title"`
	Description    sql.NullString `db:"description"`
	ConversationID string         `db:"conversation_id"`
	UserID         string         `db:"user_id"`
	Difficulty     string         `db:"difficulty"`
	EstimatedTime  int            `db:"estimated_time"`
	Questions      Questions      `db:"questions"`
	Metadata       Metadata       `db:"metadata"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

// Conversation is the row shape of the conversations table.
type Conversation struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Title     string    `db:"title"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Message is the row shape of the messages table.
type Message struct {
	ID             string    `db:"id"`
	ConversationID string    `db:"conversation_id"`
	Role           string    `db:"role"`
	Content        string    `db:"content"`
	CreatedAt      time.Time `db:"created_at"`
}
