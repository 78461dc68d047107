package domain

import (
	"context"
	"time"
)

// QuestionType classifies where a question is used.
type QuestionType string

const (
	QuestionTypeQuiz          QuestionType = "quiz"
	QuestionTypePracticePaper QuestionType = "practice_paper"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	return t == QuestionTypeQuiz || t == QuestionTypePracticePaper
}

// Question is a multiple-choice question. CorrectAnswer is always one of Options.
type Question struct {
	ID               string       `json:"id"`
	Question         string       `json:"question" validate:"required"`
	Options          []string     `json:"options" validate:"required,min=2"`
	QuestionImage    *string      `json:"questionImage"`
	CorrectAnswer    string       `json:"correctAnswer" validate:"required"`
	Explanation      string       `json:"explanation" validate:"required"`
	VideoSolutionURL *string      `json:"videoSolutionUrl" validate:"omitempty,httpurl"`
	Subject          string       `json:"subject" validate:"required"`
	Type             QuestionType `json:"type" validate:"required,oneof=quiz practice_paper"`
	Tags             []string     `json:"tags"`
	CreatedAt        time.Time    `json:"createdAt"`
}

// HasOption reports whether answer matches one of the options exactly.
func (q *Question) HasOption(answer string) bool {
	for _, opt := range q.Options {
		if opt == answer {
			return true
		}
	}
	return false
}

// QuestionFilter holds the optional equality filters for listing.
// Empty fields are ignored; set fields are AND-composed.
type QuestionFilter struct {
	Subject string
	Type    string
	Tag     string
}

// QuestionRepository persists questions.
type QuestionRepository interface {
	// Create assigns ID and CreatedAt (when zero) and stores q.
	Create(ctx context.Context, q *Question) error
	// Update replaces every mutable field of the stored question with q's values.
	// It returns a QUESTION_NOT_FOUND error when the id does not resolve.
	Update(ctx context.Context, q *Question) error
	// FindByID returns (nil, nil) when the id does not resolve, including ids
	// that are malformed for the backing store.
	FindByID(ctx context.Context, id string) (*Question, error)
	// Find returns matching questions ordered by CreatedAt descending.
	Find(ctx context.Context, filter QuestionFilter) ([]*Question, error)
	Ping(ctx context.Context) error
}
