package middleware

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"chat-quiz/internal/domain"
	"chat-quiz/internal/dto"
	"chat-quiz/internal/logger"
)

// ErrorHandler is a centralized error handling middleware
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		l := logger.Get().With(zap.String("path", c.Path()), zap.String("requestID", RequestID(c)))

		// Bare field errors returned by handlers
		var validationErrs domain.ValidationErrors
		if errors.As(err, &validationErrs) {
			if _, isDomain := domain.CodeOf(err); !isDomain {
				err = domain.NewValidationError(validationErrs)
			}
		}

		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			statusCode := StatusForCode(domainErr.Code)
			resp := dto.ErrorResponse{
				Code:  string(domainErr.Code),
				Error: domainErr.Message,
			}
			if errors.As(domainErr, &validationErrs) {
				resp.Errors = validationErrs
			}

			if statusCode >= http.StatusInternalServerError {
				l.Error("Domain error occurred",
					zap.String("code", string(domainErr.Code)),
					zap.Int("status", statusCode),
					zap.Error(domainErr))
			} else {
				l.Warn("Request rejected",
					zap.String("code", string(domainErr.Code)),
					zap.Int("status", statusCode),
					zap.String("message", domainErr.Message))
			}
			return c.Status(statusCode).JSON(resp)
		}

		// Handle fiber errors
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			l.Warn("Fiber error occurred",
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message))
			return c.Status(fiberErr.Code).JSON(dto.ErrorResponse{
				Code:  "HTTP_ERROR",
				Error: fiberErr.Message,
			})
		}

		l.Error("Unknown error occurred", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code:  string(domain.ErrInternal),
			Error: "Internal server error",
		})
	}
}

// StatusForCode maps domain error codes to HTTP status codes
func StatusForCode(code domain.ErrorCode) int {
	switch code {
	case domain.ErrNotFound, domain.ErrQuizNotFound, domain.ErrConversationNotFound:
		return http.StatusNotFound
	case domain.ErrInvalidInput, domain.ErrValidation, domain.ErrInsufficientMessages, domain.ErrUnsupportedFormat:
		return http.StatusBadRequest
	case domain.ErrUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrForbidden:
		return http.StatusForbidden
	case domain.ErrLLMServiceError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
