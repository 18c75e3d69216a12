// Package errors provides the standardized error type shared by the recommendation services
// and its mapping onto HTTP responses.
package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Surfaced to the caller.
const (
	ErrCodeInvalidRequest      ErrorCode = "INVALID_REQUEST"
	ErrCodeLLMGenerationFailed ErrorCode = "LLM_GENERATION_FAILED"
	ErrCodeLLMTimeout          ErrorCode = "LLM_TIMEOUT"
	ErrCodePromptRenderFailed  ErrorCode = "PROMPT_RENDER_FAILED"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// Degradation codes: logged and counted, never returned to the client.
const (
	ErrCodeCatalogSearchFailed   ErrorCode = "CATALOG_SEARCH_FAILED"
	ErrCodeWeatherLookupFailed   ErrorCode = "WEATHER_LOOKUP_FAILED"
	ErrCodeCategoryListingFailed ErrorCode = "CATEGORY_LISTING_FAILED"
	ErrCodeCacheUnavailable      ErrorCode = "CACHE_UNAVAILABLE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Detail is the string shown to the client: the underlying failure verbatim when there is one.
func (e *StandardError) Detail() string {
	if e.Details != "" {
		return e.Details
	}
	return e.Message
}

// NewInvalidRequestError creates a non-retryable validation error.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMGenerationFailedError wraps a language model failure.
func NewLLMGenerationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMGenerationFailed,
		Message:   "Language model call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewLLMTimeoutError wraps a language model deadline.
func NewLLMTimeoutError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "Language model call timed out",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewPromptRenderFailedError reports a template that could not be rendered with the given fields.
func NewPromptRenderFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePromptRenderFailed,
		Message:   "Prompt template rendering failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewUpstreamError builds a degradation record for an upstream that failed.
func NewUpstreamError(code ErrorCode, service string, err error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   fmt.Sprintf("%s unavailable", service),
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"service": service},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewInternalError normalizes an unexpected error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// HTTPStatus returns the status code a handler answers with for the given code.
// Every generator-side failure is a 500.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// IsDegradation reports whether the code is absorbed locally rather than surfaced.
func IsDegradation(code ErrorCode) bool {
	switch code {
	case ErrCodeCatalogSearchFailed, ErrCodeWeatherLookupFailed,
		ErrCodeCategoryListingFailed, ErrCodeCacheUnavailable:
		return true
	}
	return false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	s := string(code)
	switch {
	case strings.HasPrefix(s, "LLM_"), strings.HasPrefix(s, "PROMPT_"):
		return "generation"
	case strings.HasPrefix(s, "CATALOG_"), strings.HasPrefix(s, "CATEGORY_"):
		return "catalog"
	case strings.HasPrefix(s, "WEATHER_"):
		return "weather"
	case s == string(ErrCodeInvalidRequest):
		return "validation"
	default:
		return "system"
	}
}
