package dto

import "chat-quiz/internal/domain"

// SendMessageRequest is the body of POST /api/chat/send.
type SendMessageRequest struct {
	Message        string `json:"message" example:"What is a goroutine?"`
	ConversationID string `json:"conversation_id" example:"01HZX3N7V4Q2W8K5M9R6T1Y0AB"`
}

type ChatMessageResponse struct {
	ID        string      `json:"id"`
	Content   string      `json:"content"`
	Role      domain.Role `json:"role"`
	Timestamp string      `json:"timestamp"`
}

// SendMessageResponse carries the assistant reply. Fallback is set when the
// reply is a canned text because the completion backend failed.
type SendMessageResponse struct {
	Success      bool                `json:"success"`
	Message      ChatMessageResponse `json:"message"`
	Fallback     bool                `json:"fallback,omitempty"`
	ErrorMessage string              `json:"error_message,omitempty"`
}

func NewChatMessageResponse(msg *domain.Message) ChatMessageResponse {
	return ChatMessageResponse{
		ID:        msg.ID,
		Content:   msg.Content,
		Role:      msg.Role,
		Timestamp: FormatTimestamp(msg.CreatedAt),
	}
}
