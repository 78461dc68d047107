package domain

import "context"

// TextGenerator sends a single prompt to a language model and returns its raw text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratedQuestion is a candidate question produced by the language model.
// It is returned to the caller as-is and never persisted automatically.
type GeneratedQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Subject       string   `json:"subject,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}
