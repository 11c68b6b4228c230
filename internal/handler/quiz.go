package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"chat-quiz/internal/domain"
	"chat-quiz/internal/dto"
	"chat-quiz/internal/middleware"
	"chat-quiz/internal/service"
	"chat-quiz/internal/validation"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// GenerateQuiz godoc
// @Summary Generate a quiz from a conversation
// @Description Asks the LLM for a quiz; falls back to a placeholder quiz when the backend fails
// @Tags quiz
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Conversation ID"
// @Param request body dto.GenerateQuizRequest false "Generation options"
// @Success 200 {object} dto.QuizEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /conversations/{id}/quizzes [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return domain.NewInvalidInputError("Invalid request body")
		}
	}
	if errs := h.validator.ValidateGenerateQuizRequest(&req); len(errs) > 0 {
		return domain.NewValidationError(errs)
	}

	quiz, err := h.service.GenerateQuiz(c.UserContext(), middleware.UserID(c), c.Params("id"), req.Options())
	if err != nil {
		return err
	}
	return c.JSON(dto.QuizEnvelope{Success: true, Quiz: quiz})
}

// ListQuizzes godoc
// @Summary List the caller's quizzes
// @Tags quiz
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} dto.QuizListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	limit, offset, errs := h.validator.ValidatePagination(c.QueryInt("limit", 0), c.QueryInt("offset", 0))
	if len(errs) > 0 {
		return domain.NewValidationError(errs)
	}

	quizzes, err := h.service.ListQuizzes(c.UserContext(), middleware.UserID(c), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(dto.QuizListResponse{Success: true, Quizzes: quizzes, Limit: limit, Offset: offset})
}

// GetQuiz godoc
// @Summary Get a quiz
// @Tags quiz
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizEnvelope
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	quiz, err := h.service.GetQuiz(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.QuizEnvelope{Success: true, Quiz: quiz})
}

// UpdateQuiz godoc
// @Summary Edit a quiz title or description
// @Tags quiz
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Quiz ID"
// @Param request body dto.UpdateQuizRequest true "Fields to change"
// @Success 200 {object} dto.QuizEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{id} [patch]
func (h *QuizHandler) UpdateQuiz(c *fiber.Ctx) error {
	var req dto.UpdateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateUpdateQuizRequest(&req); len(errs) > 0 {
		return domain.NewValidationError(errs)
	}

	quiz, err := h.service.UpdateQuizDetails(c.UserContext(), middleware.UserID(c), c.Params("id"),
		domain.QuizUpdate{Title: req.Title, Description: req.Description})
	if err != nil {
		return err
	}
	return c.JSON(dto.QuizEnvelope{Success: true, Quiz: quiz})
}

// DeleteQuiz godoc
// @Summary Delete a quiz
// @Tags quiz
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *fiber.Ctx) error {
	if err := h.service.DeleteQuiz(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Quiz deleted successfully"})
}

// ScoreQuiz godoc
// @Summary Grade a set of answers
// @Description Essays are never auto-graded and come back with needs_review
// @Tags quiz
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Quiz ID"
// @Param request body dto.ScoreQuizRequest true "Answers keyed by question id"
// @Success 200 {object} dto.ScoreQuizResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{id}/score [post]
func (h *QuizHandler) ScoreQuiz(c *fiber.Ctx) error {
	var req dto.ScoreQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateScoreQuizRequest(&req); len(errs) > 0 {
		return domain.NewValidationError(errs)
	}

	result, err := h.service.ScoreQuiz(c.UserContext(), middleware.UserID(c), c.Params("id"), req.Answers)
	if err != nil {
		return err
	}
	return c.JSON(dto.ScoreQuizResponse{Success: true, Result: *result})
}

// ExportQuiz godoc
// @Summary Download a quiz as JSON or YAML
// @Tags quiz
// @Produce json
// @Produce application/x-yaml
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Quiz ID"
// @Param format path string true "json or yaml"
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{id}/export/{format} [get]
func (h *QuizHandler) ExportQuiz(c *fiber.Ctx) error {
	file, err := h.service.ExportQuiz(c.UserContext(), middleware.UserID(c), c.Params("id"), c.Params("format"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	return c.Send(file.Content)
}

// QuestionTypes godoc
// @Summary List the supported question types
// @Tags quiz
// @Produce json
// @Success 200 {object} dto.QuestionTypesResponse
// @Router /quizzes/question-types [get]
func (h *QuizHandler) QuestionTypes(c *fiber.Ctx) error {
	return c.JSON(dto.QuestionTypesResponse{Success: true, QuestionTypes: h.service.QuestionTypes()})
}
