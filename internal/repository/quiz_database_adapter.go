package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"chat-quiz/internal/domain"
	"chat-quiz/internal/repository/models"
	"chat-quiz/internal/util"
)

const quizColumns = `id "id",
		title "title",
		description "description",
		conversation_id "conversation_id",
		user_id "user_id",
		difficulty "difficulty",
		estimated_time "estimated_time",
		questions "questions",
		metadata "metadata",
		created_at "created_at",
		updated_at "updated_at"`

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.DB
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

// SaveQuiz inserts quiz, assigning an id and timestamps when they are unset.
func (a *QuizDatabaseAdapter) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if quiz == nil {
		return fmt.Errorf("cannot save nil quiz")
	}
	if quiz.ID == "" {
		quiz.ID = util.NewULID()
	}
	now := time.Now()
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = now
	}
	quiz.UpdatedAt = now
	modelQuiz := toModelQuiz(quiz)

	query := `INSERT INTO quizzes (
		id, title, description, conversation_id, user_id,
		difficulty, estimated_time, questions, metadata, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8, :9, :10, :11
	)`

	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		modelQuiz.ID,
		modelQuiz.Title,
		modelQuiz.Description,
		modelQuiz.ConversationID,
		modelQuiz.UserID,
		modelQuiz.Difficulty,
		modelQuiz.EstimatedTime,
		modelQuiz.Questions,
		modelQuiz.Metadata,
		modelQuiz.CreatedAt,
		modelQuiz.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save quiz: %w", err)
	}
	return nil
}

// GetQuizByID returns (nil, nil) when the quiz does not exist.
func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	var modelQuiz models.Quiz
	query := `SELECT ` + quizColumns + `
	FROM quizzes
	WHERE id = :1`

	if err := GetExecutor(ctx, a.db).GetContext(ctx, &modelQuiz, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by ID %s: %w", id, err)
	}
	return toDomainQuiz(&modelQuiz), nil
}

// ListQuizzesByUser returns the user's quizzes, newest first.
func (a *QuizDatabaseAdapter) ListQuizzesByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Quiz, error) {
	var rows []models.Quiz
	query := `SELECT ` + quizColumns + `
	FROM quizzes
	WHERE user_id = :1
	ORDER BY created_at DESC, id DESC
	OFFSET :2 ROWS FETCH NEXT :3 ROWS ONLY`

	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, userID, offset, limit); err != nil {
		return nil, fmt.Errorf("failed to list quizzes for user %s: %w", userID, err)
	}

	quizzes := make([]*domain.Quiz, len(rows))
	for i := range rows {
		quizzes[i] = toDomainQuiz(&rows[i])
	}
	return quizzes, nil
}

// UpdateQuizDetails changes the title and/or description of a quiz.
func (a *QuizDatabaseAdapter) UpdateQuizDetails(ctx context.Context, id string, update domain.QuizUpdate) error {
	var (
		sets []string
		args []any
	)
	if update.Title != nil {
		args = append(args, *update.Title)
		sets = append(sets, fmt.Sprintf("title = :%d", len(args)))
	}
	if update.Description != nil {
		args = append(args, nullableText(*update.Description))
		sets = append(sets, fmt.Sprintf("description = :%d", len(args)))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, time.Now())
	sets = append(sets, fmt.Sprintf("updated_at = :%d", len(args)))
	args = append(args, id)

	query := fmt.Sprintf("UPDATE quizzes SET %s WHERE id = :%d", strings.Join(sets, ", "), len(args))
	if _, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update quiz %s: %w", id, err)
	}
	return nil
}

func (a *QuizDatabaseAdapter) DeleteQuiz(ctx context.Context, id string) error {
	query := `DELETE FROM quizzes WHERE id = :1`
	if _, err := GetExecutor(ctx, a.db).ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete quiz %s: %w", id, err)
	}
	return nil
}

// nullableText stores an empty description as NULL.
func nullableText(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func toModelQuiz(q *domain.Quiz) *models.Quiz {
	return &models.Quiz{
		ID:             q.ID,
		Title:          q.Title,
		Description:    nullableText(q.Description),
		ConversationID: q.ConversationID,
		UserID:         q.UserID,
		Difficulty:     string(q.Difficulty),
		EstimatedTime:  q.EstimatedTime,
		Questions:      models.Questions(q.Questions),
		Metadata:       models.Metadata(q.Metadata),
		CreatedAt:      q.CreatedAt,
		UpdatedAt:      q.UpdatedAt,
	}
}

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	return &domain.Quiz{
		ID:             m.ID,
		Title:          m.Title,
		Description:    m.Description.String,
		ConversationID: m.ConversationID,
		UserID:         m.UserID,
		Difficulty:     domain.Difficulty(m.Difficulty),
		EstimatedTime:  m.EstimatedTime,
		Questions:      []domain.Question(m.Questions),
		Metadata:       domain.QuizMetadata(m.Metadata),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
