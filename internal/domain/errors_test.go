package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternalError("Failed to get question", cause)

	assert.Equal(t, "Failed to get question: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("service: %w", err)
	var domainErr *DomainError
	require.ErrorAs(t, wrapped, &domainErr)
	assert.Equal(t, ErrInternal, domainErr.Code)
}

func TestDomainError_MarshalJSONHidesCause(t *testing.T) {
	err := NewUpstreamError("Failed to upload image.", errors.New("secret bucket key rejected")).
		WithContext("provider", "supabase")

	data, mErr := json.Marshal(err)
	require.NoError(t, mErr)
	assert.JSONEq(t, `{"code":"UPSTREAM_ERROR","message":"Failed to upload image.","context":{"provider":"supabase"}}`, string(data))
}

func TestNewMissingFieldsError(t *testing.T) {
	err := NewMissingFieldsError([]string{"question", "options", "type"})

	assert.Equal(t, ErrMissingField, err.Code)
	assert.Equal(t, "Missing required fields: question, options, type.", err.Message)
	assert.Equal(t, []string{"question", "options", "type"}, err.Context["fields"])
}

func TestNewQuestionNotFoundError(t *testing.T) {
	err := NewQuestionNotFoundError("abc")

	assert.Equal(t, ErrQuestionNotFound, err.Code)
	assert.Equal(t, "Question not found.", err.Error())
	assert.Equal(t, "abc", err.Context["questionId"])
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "question", Tag: "required", Message: "question is required"},
		{Field: "type", Tag: "oneof", Message: "type must be one of: quiz practice_paper"},
	}
	assert.Contains(t, errs.Error(), "question is required")
	assert.Contains(t, errs.Error(), "type must be one of")
}
