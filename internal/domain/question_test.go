package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionType_Valid(t *testing.T) {
	assert.True(t, QuestionTypeQuiz.Valid())
	assert.True(t, QuestionTypePracticePaper.Valid())
	assert.False(t, QuestionType("exam").Valid())
	assert.False(t, QuestionType("").Valid())
}

func TestQuestion_HasOption(t *testing.T) {
	q := &Question{Options: []string{"Paris", "Berlin"}}

	assert.True(t, q.HasOption("Paris"))
	assert.False(t, q.HasOption("paris"), "match is exact")
	assert.False(t, q.HasOption("Paris "))
	assert.False(t, q.HasOption(""))
}

func TestNewUser(t *testing.T) {
	u := NewUser("Ada", "ada@example.com", "hash", true)

	assert.Empty(t, u.ID)
	assert.True(t, u.IsAdmin)
	assert.False(t, u.CreatedAt.IsZero())
}
