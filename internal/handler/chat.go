package handler

import (
	"github.com/gofiber/fiber/v2"

	"chat-quiz/internal/domain"
	"chat-quiz/internal/dto"
	"chat-quiz/internal/middleware"
	"chat-quiz/internal/service"
	"chat-quiz/internal/validation"
)

// ChatHandler handles chat HTTP requests
type ChatHandler struct {
	service   service.ChatService
	validator *validation.Validator
}

func NewChatHandler(service service.ChatService) *ChatHandler {
	return &ChatHandler{service: service, validator: validation.NewValidator()}
}

// SendMessage godoc
// @Summary Send a chat message
// @Description Stores the message and the assistant reply. When the LLM fails the reply is a canned text and fallback is true.
// @Tags chat
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param request body dto.SendMessageRequest true "Message"
// @Success 200 {object} dto.SendMessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /chat/send [post]
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateSendMessageRequest(&req); len(errs) > 0 {
		return domain.NewValidationError(errs)
	}

	reply, err := h.service.SendMessage(c.UserContext(), middleware.UserID(c), req.ConversationID, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(dto.SendMessageResponse{
		Success:      true,
		Message:      dto.NewChatMessageResponse(reply.Message),
		Fallback:     reply.Fallback,
		ErrorMessage: reply.ErrorMessage,
	})
}
