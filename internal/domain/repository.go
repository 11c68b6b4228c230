package domain

import "context"

// QuizRepository persists quizzes. Get returns (nil, nil) when no quiz exists.
type QuizRepository interface {
	SaveQuiz(ctx context.Context, quiz *Quiz) error
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)
	ListQuizzesByUser(ctx context.Context, userID string, limit, offset int) ([]*Quiz, error)
	UpdateQuizDetails(ctx context.Context, id string, update QuizUpdate) error
	DeleteQuiz(ctx context.Context, id string) error
}

// ConversationRepository reads conversations and appends messages to them.
// GetConversation returns (nil, nil) when no conversation exists.
type ConversationRepository interface {
	GetConversation(ctx context.Context, id string) (*Conversation, error)
	ListMessages(ctx context.Context, conversationID string) ([]*Message, error)
	AddMessage(ctx context.Context, msg *Message) error
}

// TransactionManager runs fn inside a database transaction carried by ctx.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
