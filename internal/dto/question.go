package dto

import (
	"encoding/json"

	"quiz-bank/internal/domain"
)

// QuestionPayload is a create or update item as received over HTTP.
// A nil pointer (or nil RawMessage) means the field was not sent.
// Options and Tags stay raw because they may arrive as a list, a keyed
// mapping, or serialized text.
// @Description Question fields for create and update requests
type QuestionPayload struct {
	Question         *string         `json:"question,omitempty"`
	Options          json.RawMessage `json:"options,omitempty" swaggertype:"array,string"`
	CorrectAnswer    *string         `json:"correctAnswer,omitempty"`
	Explanation      *string         `json:"explanation,omitempty"`
	VideoSolutionURL *string         `json:"videoSolutionUrl,omitempty"`
	Subject          *string         `json:"subject,omitempty"`
	Type             *string         `json:"type,omitempty"`
	Tags             json.RawMessage `json:"tags,omitempty" swaggertype:"array,string"`
}

// HasOptions reports whether options were sent with a non-null value.
func (p *QuestionPayload) HasOptions() bool {
	return isPresent(p.Options)
}

// HasTags reports whether tags were sent with a non-null value.
func (p *QuestionPayload) HasTags() bool {
	return isPresent(p.Tags)
}

func isPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// CreateQuestionsResponse is returned after a successful create.
type CreateQuestionsResponse struct {
	Message   string             `json:"message"`
	Count     int                `json:"count"`
	Questions []*domain.Question `json:"questions"`
}

// QuestionResponse wraps a single question.
type QuestionResponse struct {
	Message  string           `json:"message"`
	Question *domain.Question `json:"question"`
}

// QuestionListResponse wraps a filtered question list.
type QuestionListResponse struct {
	Message   string             `json:"message"`
	Questions []*domain.Question `json:"questions"`
}

// MessageResponse represents a generic message response.
// @Description Generic message response
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Status  int            `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}
