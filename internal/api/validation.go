package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "product-recommender/internal/common/errors"
	"product-recommender/internal/common/validation"
)

const maxBodyBytes = 1 << 20

var catalogRequestSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["user_prompt"],
	"properties": {
		"user_prompt": {"type": "string", "minLength": 1, "pattern": "\\S"}
	}
}`)

var weatherRequestSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["user_prompt", "location"],
	"properties": {
		"user_prompt": {"type": "string", "minLength": 1, "pattern": "\\S"},
		"location":    {"type": "string", "minLength": 1, "pattern": "\\S"},
		"date":        {"type": ["string", "null"]}
	}
}`)

// decodeRequest validates the body against schema before decoding it into out.
func decodeRequest(r *http.Request, schema *validation.Schema, out interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return apperrors.NewInvalidRequestError(fmt.Sprintf("read body: %v", err))
	}
	if result := schema.Validate(body); !result.Valid {
		return apperrors.NewInvalidRequestError(result.Error())
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.NewInvalidRequestError(err.Error())
	}
	return nil
}
