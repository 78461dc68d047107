package dto

import "quiz-bank/internal/domain"

// GenerateQuestionsRequest asks the language model for candidate questions.
// @Description Request body for AI-assisted question generation
type GenerateQuestionsRequest struct {
	Topic        string `json:"topic"`
	NumQuestions int    `json:"numQuestions"`
}

// GenerateQuestionsResponse carries the unsaved candidates.
type GenerateQuestionsResponse struct {
	Questions []domain.GeneratedQuestion `json:"questions"`
}
