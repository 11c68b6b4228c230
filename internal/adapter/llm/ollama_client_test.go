package llm

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"chat-quiz/internal/domain"
)

// fakeModel is a scripted llms.Model.
type fakeModel struct {
	response *llms.ContentResponse
	err      error

	messages []llms.MessageContent
	options  llms.CallOptions
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, opt := range options {
		opt(&f.options)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestOllamaClient_Complete(t *testing.T) {
	model := &fakeModel{response: &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: `{"title":"Quiz"}`}},
	}}
	client := NewOllamaClientWithModel(model, "qwen3:0.6b")

	out, err := client.Complete(context.Background(), []domain.ChatMessage{
		{Role: domain.ChatRoleSystem, Content: "sys"},
		{Role: domain.ChatRoleUser, Content: "question"},
		{Role: domain.ChatRoleAssistant, Content: "answer"},
	}, domain.CompletionOptions{MaxTokens: 2000, Temperature: 0.7, Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Quiz"}`, out)

	require.Len(t, model.messages, 3)
	assert.Equal(t, schema.ChatMessageTypeSystem, model.messages[0].Role)
	assert.Equal(t, schema.ChatMessageTypeHuman, model.messages[1].Role)
	assert.Equal(t, schema.ChatMessageTypeAI, model.messages[2].Role)
	assert.Equal(t, 2000, model.options.MaxTokens)
	assert.InDelta(t, 0.7, model.options.Temperature, 0.0001)
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestOllamaClient_Complete_Errors(t *testing.T) {
	tests := []struct {
		name  string
		model *fakeModel
		want  error
	}{
		{"transport", &fakeModel{err: &net.OpError{Op: "dial", Err: timeoutErr{}}}, ErrBackendUnavailable},
		{"deadline", &fakeModel{err: context.DeadlineExceeded}, ErrBackendUnavailable},
		{"model error", &fakeModel{err: errors.New("model 'x' not found")}, ErrUnknownBackendError},
		{"empty", &fakeModel{response: &llms.ContentResponse{}}, ErrMalformedBackendResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewOllamaClientWithModel(tt.model, "qwen3:0.6b")
			_, err := client.Complete(context.Background(), testMessages, domain.CompletionOptions{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
