// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
)

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// ErrorHandler renders failures as JSON error bodies.
type ErrorHandler struct {
	logger Logger
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// ErrorBody is the JSON shape of every non-2xx response.
type ErrorBody struct {
	Detail string    `json:"detail"`
	Code   ErrorCode `json:"code"`
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// WriteError logs err and writes it to w with the status matching its code.
func (h *ErrorHandler) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := Normalize(err)
	// Upstream degradation codes are absorbed by the services; one reaching a
	// handler is answered as an internal failure.
	if IsDegradation(stdErr.Code) {
		stdErr = NewInternalError(stdErr)
	}
	status := HTTPStatus(stdErr.Code)

	h.logger.Error("request failed", map[string]interface{}{
		"method":        r.Method,
		"path":          r.URL.Path,
		"status":        status,
		"errorCode":     string(stdErr.Code),
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{
		Detail: stdErr.Detail(),
		Code:   stdErr.Code,
	})
}
