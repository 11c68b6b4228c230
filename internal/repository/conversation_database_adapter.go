package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"chat-quiz/internal/domain"
	"chat-quiz/internal/repository/models"
	"chat-quiz/internal/util"
)

// ConversationDatabaseAdapter implements domain.ConversationRepository using sqlx.DB
type ConversationDatabaseAdapter struct {
	db *sqlx.DB
	tx domain.TransactionManager
}

func NewConversationDatabaseAdapter(db *sqlx.DB) domain.ConversationRepository {
	return &ConversationDatabaseAdapter{db: db, tx: NewTransactionManagerAdapter(db)}
}

// GetConversation returns (nil, nil) when the conversation does not exist.
func (a *ConversationDatabaseAdapter) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	var row models.Conversation
	query := `SELECT
		id "id",
		user_id "user_id",
		title "title",
		created_at "created_at",
		updated_at "updated_at"
	FROM conversations
	WHERE id = :1`

	if err := GetExecutor(ctx, a.db).GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get conversation %s: %w", id, err)
	}
	return &domain.Conversation{
		ID:        row.ID,
		UserID:    row.UserID,
		Title:     row.Title,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// ListMessages returns the conversation's messages in creation order.
func (a *ConversationDatabaseAdapter) ListMessages(ctx context.Context, conversationID string) ([]*domain.Message, error) {
	var rows []models.Message
	query := `SELECT
		id "id",
		conversation_id "conversation_id",
		role "role",
		content "content",
		created_at "created_at"
	FROM messages
	WHERE conversation_id = :1
	ORDER BY created_at ASC, id ASC`

	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, conversationID); err != nil {
		return nil, fmt.Errorf("failed to list messages for conversation %s: %w", conversationID, err)
	}

	messages := make([]*domain.Message, len(rows))
	for i, row := range rows {
		messages[i] = &domain.Message{
			ID:             row.ID,
			ConversationID: row.ConversationID,
			Role:           domain.Role(row.Role),
			Content:        row.Content,
			CreatedAt:      row.CreatedAt,
		}
	}
	return messages, nil
}

// AddMessage appends msg and bumps the conversation's updated_at in one transaction.
func (a *ConversationDatabaseAdapter) AddMessage(ctx context.Context, msg *domain.Message) error {
	if msg.ID == "" {
		msg.ID = util.NewULID()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	return a.tx.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, a.db)
		insert := `INSERT INTO messages (id, conversation_id, role, content, created_at)
		VALUES (:1, :2, :3, :4, :5)`
		if _, err := exec.ExecContext(ctx, insert,
			msg.ID, msg.ConversationID, string(msg.Role), msg.Content, msg.CreatedAt); err != nil {
			return fmt.Errorf("failed to add message to conversation %s: %w", msg.ConversationID, err)
		}

		touch := `UPDATE conversations SET updated_at = :1 WHERE id = :2`
		if _, err := exec.ExecContext(ctx, touch, msg.CreatedAt, msg.ConversationID); err != nil {
			return fmt.Errorf("failed to touch conversation %s: %w", msg.ConversationID, err)
		}
		return nil
	})
}
