package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	fields []map[string]interface{}
}

func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {
	l.fields = append(l.fields, fields)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(ErrCodeInvalidRequest))
	for _, code := range []ErrorCode{ErrCodeLLMGenerationFailed, ErrCodeLLMTimeout, ErrCodePromptRenderFailed, ErrCodeInternal} {
		assert.Equal(t, http.StatusInternalServerError, HTTPStatus(code), code)
	}
}

func TestNormalize(t *testing.T) {
	cause := stderrors.New("boom")
	wrapped := fmt.Errorf("generate: %w", NewLLMGenerationFailedError(cause))

	stdErr := Normalize(wrapped)
	assert.Equal(t, ErrCodeLLMGenerationFailed, stdErr.Code)
	assert.True(t, stderrors.Is(stdErr, cause))

	plain := Normalize(stderrors.New("unexpected"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "unexpected", plain.Detail())
}

func TestWriteError(t *testing.T) {
	log := &recordingLogger{}
	h := NewErrorHandler(log)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/recommend", nil)
	h.WriteError(rec, req, NewLLMGenerationFailedError(stderrors.New("401 invalid api key")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "401 invalid api key", body.Detail)
	assert.Equal(t, ErrCodeLLMGenerationFailed, body.Code)

	require.Len(t, log.fields, 1)
	assert.Equal(t, "generation", log.fields[0]["errorCategory"])
	assert.Equal(t, "/recommend", log.fields[0]["path"])
}

func TestWriteError_DegradationCodeAnsweredAsInternal(t *testing.T) {
	log := &recordingLogger{}
	h := NewErrorHandler(log)
	cause := NewUpstreamError(ErrCodeWeatherLookupFailed, "weather-lookup", stderrors.New("connection refused"))

	rec := httptest.NewRecorder()
	h.WriteError(rec, httptest.NewRequest(http.MethodPost, "/recommend", nil), cause)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrCodeInternal, body.Code)

	require.Len(t, log.fields, 1)
	assert.Equal(t, string(ErrCodeInternal), log.fields[0]["errorCode"])
}

func TestCategories(t *testing.T) {
	assert.True(t, IsDegradation(ErrCodeCatalogSearchFailed))
	assert.True(t, IsDegradation(ErrCodeCacheUnavailable))
	assert.False(t, IsDegradation(ErrCodeLLMGenerationFailed))

	assert.Equal(t, "catalog", GetErrorCategory(ErrCodeCategoryListingFailed))
	assert.Equal(t, "weather", GetErrorCategory(ErrCodeWeatherLookupFailed))
	assert.Equal(t, "validation", GetErrorCategory(ErrCodeInvalidRequest))
	assert.Equal(t, "system", GetErrorCategory(ErrCodeInternal))
}

func TestInvalidRequestDetail(t *testing.T) {
	err := NewInvalidRequestError("user_prompt: String length must be greater than or equal to 1")
	assert.Equal(t, "user_prompt: String length must be greater than or equal to 1", err.Detail())
	assert.False(t, err.Retryable)
	assert.Contains(t, err.Error(), "INVALID_REQUEST")
}
