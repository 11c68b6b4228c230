package service

import (
	"context"

	"go.uber.org/zap"

	"chat-quiz/internal/adapter/llm"
	"chat-quiz/internal/config"
	"chat-quiz/internal/domain"
	"chat-quiz/internal/logger"
)

// ChatSystemPrompt opens every chat completion.
const ChatSystemPrompt = "You are a helpful assistant. Please provide helpful, accurate, and conversational responses."

// ChatService appends a user message to a conversation and records the assistant reply.
type ChatService interface {
	SendMessage(ctx context.Context, userID, conversationID, content string) (*ChatReply, error)
}

// ChatReply is the stored assistant message. When Fallback is set the
// message is a canned reply and ErrorMessage says why.
type ChatReply struct {
	Message      *domain.Message
	Fallback     bool
	ErrorMessage string
}

type chatService struct {
	conversations domain.ConversationRepository
	completer     domain.Completer
	cfg           config.LLMConfig
}

func NewChatService(conversations domain.ConversationRepository, completer domain.Completer, cfg config.LLMConfig) ChatService {
	return &chatService{conversations: conversations, completer: completer, cfg: cfg}
}

func (s *chatService) SendMessage(ctx context.Context, userID, conversationID, content string) (*ChatReply, error) {
	conv, err := s.conversations.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get conversation", err)
	}
	if conv == nil {
		return nil, domain.NewConversationNotFoundError(conversationID)
	}
	if !conv.OwnedBy(userID) {
		return nil, domain.NewForbiddenError("You do not have access to this conversation")
	}

	history, err := s.conversations.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load conversation messages", err)
	}

	if err := s.conversations.AddMessage(ctx, &domain.Message{
		ConversationID: conversationID,
		Role:           domain.RoleUser,
		Content:        content,
	}); err != nil {
		return nil, domain.NewInternalError("Failed to save message", err)
	}

	reply := &ChatReply{}
	answer, err := s.complete(ctx, history, content)
	if err != nil {
		reply.Fallback = true
		reply.ErrorMessage = llm.UserMessage(err)
		answer = FallbackReply(content)
		logger.Get().Error("Chat completion failed, sending fallback reply",
			zap.String("conversationID", conversationID),
			zap.Error(err))
	}

	reply.Message = &domain.Message{
		ConversationID: conversationID,
		Role:           domain.RoleAssistant,
		Content:        answer,
	}
	if err := s.conversations.AddMessage(ctx, reply.Message); err != nil {
		return nil, domain.NewInternalError("Failed to save assistant reply", err)
	}
	return reply, nil
}

// complete sends the system prompt, the most recent history and the new
// user message.
func (s *chatService) complete(ctx context.Context, history []*domain.Message, content string) (string, error) {
	if s.completer == nil {
		return "", llm.NewCompletionError(llm.NotConfigured, nil)
	}

	if limit := s.cfg.HistoryLimit; limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}

	messages := make([]domain.ChatMessage, 0, len(history)+2)
	messages = append(messages, domain.ChatMessage{Role: domain.ChatRoleSystem, Content: ChatSystemPrompt})
	for _, m := range history {
		role := domain.ChatRoleUser
		if m.Role == domain.RoleAssistant {
			role = domain.ChatRoleAssistant
		}
		messages = append(messages, domain.ChatMessage{Role: role, Content: m.Content})
	}
	messages = append(messages, domain.ChatMessage{Role: domain.ChatRoleUser, Content: content})

	return s.completer.Complete(ctx, messages, domain.CompletionOptions{
		MaxTokens:   s.cfg.ChatMaxTokens,
		Temperature: s.cfg.Temperature,
		Timeout:     s.cfg.ChatTimeout,
	})
}
