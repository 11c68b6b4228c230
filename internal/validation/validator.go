package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"chat-quiz/internal/domain"
	"chat-quiz/internal/dto"
	"chat-quiz/internal/util"
)

const (
	MaxChatMessageLength = 2000
	MaxTitleLength       = 255
	MaxDescriptionLength = 1000

	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateGenerateQuizRequest checks the optional generation options; absent
// fields are not errors.
func (v *Validator) ValidateGenerateQuizRequest(req *dto.GenerateQuizRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if req.QuestionCount != nil {
		if n := *req.QuestionCount; n < domain.MinQuestionCount || n > domain.MaxQuestionCount {
			errs = append(errs, outOfRange("question_count", n, domain.MinQuestionCount, domain.MaxQuestionCount))
		}
	}
	if req.Difficulty != "" && !req.Difficulty.Valid() {
		errs = append(errs, invalidValue("difficulty", req.Difficulty, "easy, medium, hard"))
	}
	if req.QuestionTypes != nil && len(req.QuestionTypes) == 0 {
		errs = append(errs, domain.ValidationError{Field: "question_types", Message: "must not be empty"})
	}
	for i, qt := range req.QuestionTypes {
		if !qt.Valid() {
			errs = append(errs, invalidValue(fmt.Sprintf("question_types.%d", i), qt, questionTypeList()))
		}
	}
	if req.Language != "" && !req.Language.Valid() {
		errs = append(errs, invalidValue("language", req.Language, "Japanese, English"))
	}
	return errs
}

// ValidateSendMessageRequest validates the chat send request
func (v *Validator) ValidateSendMessageRequest(req *dto.SendMessageRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if strings.TrimSpace(req.Message) == "" {
		errs = append(errs, missingField("message"))
	} else if n := utf8.RuneCountInString(req.Message); n > MaxChatMessageLength {
		errs = append(errs, tooLong("message", n, MaxChatMessageLength))
	}
	errs = append(errs, v.ValidateID("conversation_id", req.ConversationID)...)
	return errs
}

// ValidateUpdateQuizRequest requires at least one field and a non-blank title.
func (v *Validator) ValidateUpdateQuizRequest(req *dto.UpdateQuizRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if req.Title == nil && req.Description == nil {
		return append(errs, domain.ValidationError{Field: "title", Message: "title or description is required"})
	}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			errs = append(errs, missingField("title"))
		} else if n := utf8.RuneCountInString(*req.Title); n > MaxTitleLength {
			errs = append(errs, tooLong("title", n, MaxTitleLength))
		}
	}
	if req.Description != nil {
		if n := utf8.RuneCountInString(*req.Description); n > MaxDescriptionLength {
			errs = append(errs, tooLong("description", n, MaxDescriptionLength))
		}
	}
	return errs
}

func (v *Validator) ValidateScoreQuizRequest(req *dto.ScoreQuizRequest) domain.ValidationErrors {
	if req.Answers == nil {
		return domain.ValidationErrors{missingField("answers")}
	}
	return nil
}

// ValidateID checks that value is a ULID.
func (v *Validator) ValidateID(field, value string) domain.ValidationErrors {
	if strings.TrimSpace(value) == "" {
		return domain.ValidationErrors{missingField(field)}
	}
	if !util.IsULID(value) {
		return domain.ValidationErrors{{Field: field, Message: "invalid format", Value: value}}
	}
	return nil
}

// ValidatePagination checks limit and offset; zero limit means the default.
func (v *Validator) ValidatePagination(limit, offset int) (int, int, domain.ValidationErrors) {
	var errs domain.ValidationErrors
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit < 1 || limit > MaxListLimit {
		errs = append(errs, outOfRange("limit", limit, 1, MaxListLimit))
	}
	if offset < 0 {
		errs = append(errs, domain.ValidationError{Field: "offset", Message: "must not be negative", Value: offset})
	}
	return limit, offset, errs
}

// Helper functions for validation

func missingField(field string) domain.ValidationError {
	return domain.ValidationError{Field: field, Message: "is required"}
}

func outOfRange(field string, value, min, max int) domain.ValidationError {
	return domain.ValidationError{Field: field, Message: fmt.Sprintf("must be between %d and %d", min, max), Value: value}
}

func tooLong(field string, length, max int) domain.ValidationError {
	return domain.ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", max), Value: length}
}

func invalidValue(field string, value any, allowed string) domain.ValidationError {
	return domain.ValidationError{Field: field, Message: "must be one of: " + allowed, Value: value}
}

func questionTypeList() string {
	names := make([]string, len(domain.QuestionTypes))
	for i, qt := range domain.QuestionTypes {
		names[i] = string(qt)
	}
	return strings.Join(names, ", ")
}
