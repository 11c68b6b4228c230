package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chat-quiz/internal/adapter/llm"
	"chat-quiz/internal/config"
	"chat-quiz/internal/domain"
)

func TestChatService_SendMessage(t *testing.T) {
	conversations := new(MockConversationRepository)
	completer := new(MockCompleter)
	svc := NewChatService(conversations, completer, testLLMConfig())
	conv, msgs := testConversation()

	conversations.On("GetConversation", mock.Anything, "conv-1").Return(conv, nil)
	conversations.On("ListMessages", mock.Anything, "conv-1").Return(msgs, nil)
	conversations.On("AddMessage", mock.Anything, mock.MatchedBy(func(m *domain.Message) bool {
		return m.Role == domain.RoleUser && m.Content == "And channels?"
	})).Return(nil).Once()
	conversations.On("AddMessage", mock.Anything, mock.MatchedBy(func(m *domain.Message) bool {
		return m.Role == domain.RoleAssistant
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Message).ID = "m4"
	}).Return(nil).Once()

	completer.On("Complete", mock.Anything, mock.MatchedBy(func(m []domain.ChatMessage) bool {
		return len(m) == 4 &&
			m[0].Role == domain.ChatRoleSystem && m[0].Content == ChatSystemPrompt &&
			m[1].Role == domain.ChatRoleUser &&
			m[2].Role == domain.ChatRoleAssistant &&
			m[3].Role == domain.ChatRoleUser && m[3].Content == "And channels?"
	}), domain.CompletionOptions{MaxTokens: 1000, Temperature: 0.7, Timeout: 30 * time.Second}).
		Return("Channels connect goroutines.", nil).Once()

	reply, err := svc.SendMessage(context.Background(), "user-1", "conv-1", "And channels?")
	require.NoError(t, err)
	assert.False(t, reply.Fallback)
	assert.Empty(t, reply.ErrorMessage)
	assert.Equal(t, "m4", reply.Message.ID)
	assert.Equal(t, "Channels connect goroutines.", reply.Message.Content)
	conversations.AssertExpectations(t)
	completer.AssertExpectations(t)
}

func TestChatService_SendMessage_HistoryIsWindowed(t *testing.T) {
	conversations := new(MockConversationRepository)
	completer := new(MockCompleter)
	svc := NewChatService(conversations, completer, testLLMConfig())
	conv, _ := testConversation()

	history := make([]*domain.Message, 15)
	for i := range history {
		history[i] = &domain.Message{Role: domain.RoleUser, Content: fmt.Sprintf("msg %d", i)}
	}
	conversations.On("GetConversation", mock.Anything, "conv-1").Return(conv, nil)
	conversations.On("ListMessages", mock.Anything, "conv-1").Return(history, nil)
	conversations.On("AddMessage", mock.Anything, mock.Anything).Return(nil)
	completer.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("ok", nil)

	_, err := svc.SendMessage(context.Background(), "user-1", "conv-1", "latest")
	require.NoError(t, err)

	sent := completer.Calls[0].Arguments.Get(1).([]domain.ChatMessage)
	require.Len(t, sent, 12)
	assert.Equal(t, "msg 5", sent[1].Content)
	assert.Equal(t, "msg 14", sent[10].Content)
	assert.Equal(t, "latest", sent[11].Content)
}

func TestChatService_SendMessage_FallsBack(t *testing.T) {
	tests := []struct {
		name      string
		completer domain.Completer
		wantError string
	}{
		{
			name: "backend unavailable",
			completer: func() domain.Completer {
				c := new(MockCompleter)
				c.On("Complete", mock.Anything, mock.Anything, mock.Anything).
					Return("", llm.NewCompletionError(llm.BackendUnavailable, errors.New("503")))
				return c
			}(),
			wantError: "OpenAI service is currently unavailable. Please try again later.",
		},
		{
			name:      "not configured",
			completer: nil,
			wantError: "OpenAI API key is not configured",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conversations := new(MockConversationRepository)
			svc := NewChatService(conversations, tt.completer, config.LLMConfig{})
			conv, msgs := testConversation()

			conversations.On("GetConversation", mock.Anything, "conv-1").Return(conv, nil)
			conversations.On("ListMessages", mock.Anything, "conv-1").Return(msgs, nil)
			conversations.On("AddMessage", mock.Anything, mock.Anything).Return(nil).Twice()

			reply, err := svc.SendMessage(context.Background(), "user-1", "conv-1", "Thanks for the help!")
			require.NoError(t, err)
			assert.True(t, reply.Fallback)
			assert.Equal(t, tt.wantError, reply.ErrorMessage)
			assert.Equal(t, FallbackReply("Thanks for the help!"), reply.Message.Content)
			assert.Equal(t, domain.RoleAssistant, reply.Message.Role)
			conversations.AssertExpectations(t)
		})
	}
}

func TestChatService_SendMessage_Errors(t *testing.T) {
	conv, _ := testConversation()

	conversations := new(MockConversationRepository)
	svc := NewChatService(conversations, new(MockCompleter), testLLMConfig())
	conversations.On("GetConversation", mock.Anything, "conv-1").Return(conv, nil)
	conversations.On("GetConversation", mock.Anything, "missing").Return(nil, nil)

	_, err := svc.SendMessage(context.Background(), "user-2", "conv-1", "hi")
	code, _ := domain.CodeOf(err)
	assert.Equal(t, domain.ErrForbidden, code)

	_, err = svc.SendMessage(context.Background(), "user-1", "missing", "hi")
	code, _ = domain.CodeOf(err)
	assert.Equal(t, domain.ErrConversationNotFound, code)

	conversations.AssertNotCalled(t, "AddMessage", mock.Anything, mock.Anything)
}

func TestFallbackReply(t *testing.T) {
	tests := []struct {
		message string
		prefix  string
	}{
		{"Hello there", "👋 Hello!"},
		{"HI", "👋 Hello!"},
		{"how are you", "🤖"},
		{"this is hard", "👋 Hello!"}, // substring match: "this" contains "hi"
		{"help me", "🆘"},
		{"Why is the sky blue", "❓"},
		{"thank you", "🙏"},
		{"goodbye", "👋 Goodbye!"},
		{"tell me a joke", "🚧"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Contains(t, FallbackReply(tt.message), tt.prefix)
		})
	}
}
