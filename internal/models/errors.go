package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code,omitempty"`
	Details    string `json:"details,omitempty"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

// Error codes form a closed set; handlers and services branch on these
// rather than on concrete error types.
const (
	CodeNotFound            = "NOT_FOUND"
	CodeValidation          = "VALIDATION_ERROR"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInternal            = "INTERNAL_ERROR"
	CodeRateLimited         = "RATE_LIMITED"
	CodeAPIKeyMissing       = "API_KEY_MISSING"
	CodeInvalidAPIKey       = "INVALID_API_KEY"
	CodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
	CodeEmptyResponse       = "EMPTY_RESPONSE"
	CodeAPIError            = "API_ERROR"
	CodeGenerationFailed    = "GENERATION_FAILED"
	CodeParsingError        = "PARSING_ERROR"
	CodeInsufficientContext = "INSUFFICIENT_CONTEXT"
	CodeNoResources         = "NO_RESOURCES"
	CodeInsufficientPosts   = "INSUFFICIENT_POSTS"
)

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error

	// RetryAfter is the suggested wait in seconds, set only for CodeRateLimited.
	RetryAfter int
	// RawResponse carries the unparsed model output, set only for CodeParsingError.
	RawResponse string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrorCode extracts the application error code from err, or CodeInternal
// when err is not an AppError.
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsCode reports whether err is an AppError carrying the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// NewRateLimitError reports an exhausted request or token budget. retryAfter
// is the number of seconds until the current window expires.
func NewRateLimitError(retryAfter int) *AppError {
	return &AppError{
		Code:       CodeRateLimited,
		Message:    fmt.Sprintf("Rate limit exceeded, retry in %d seconds", retryAfter),
		RetryAfter: retryAfter,
	}
}

// NewLLMError wraps a provider failure under one of the LLM error codes.
func NewLLMError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewParsingError reports unusable model output, keeping the raw response
// so retrying callers can log what the model actually said.
func NewParsingError(message, rawResponse string) *AppError {
	return &AppError{
		Code:        CodeParsingError,
		Message:     message,
		RawResponse: rawResponse,
	}
}

func NewInsufficientContextError(message string) *AppError {
	return &AppError{
		Code:    CodeInsufficientContext,
		Message: message,
	}
}

func NewNoResourcesError(message string) *AppError {
	return &AppError{
		Code:    CodeNoResources,
		Message: message,
	}
}

func NewInsufficientPostsError(have, need int) *AppError {
	return &AppError{
		Code:    CodeInsufficientPosts,
		Message: fmt.Sprintf("Need at least %d substantial posts to analyze, have %d", need, have),
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error:      appErr.Message,
			Code:       appErr.Code,
			RetryAfter: appErr.RetryAfter,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
