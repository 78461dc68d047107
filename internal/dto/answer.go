package dto

import "encoding/json"

// AnswerSubmission is one answer to check.
type AnswerSubmission struct {
	QuestionID string `json:"questionId"`
	UserAnswer string `json:"userAnswer"`
}

// ValidateAnswersRequest is the batch answer-check body.
// @Description Request body for checking several answers at once
type ValidateAnswersRequest struct {
	Answers []AnswerSubmission `json:"answers"`
}

// ValidateAnswerRequest is the single answer-check body; the id comes from the path.
type ValidateAnswerRequest struct {
	UserAnswer string `json:"userAnswer"`
}

// AnswerResult reports whether a submission was correct. CorrectAnswer is
// only populated for incorrect submissions.
type AnswerResult struct {
	QuestionID       string  `json:"questionId"`
	IsCorrect        bool    `json:"isCorrect"`
	Explanation      string  `json:"explanation"`
	VideoSolutionURL *string `json:"videoSolutionUrl"`
	CorrectAnswer    *string `json:"correctAnswer,omitempty"`
	Message          string  `json:"message"`
}

// AnswerError is the per-entry failure in a batch answer check.
type AnswerError struct {
	QuestionID string `json:"questionId"`
	Error      string `json:"error"`
}

// AnswerOutcome is one slot of a batch answer check: exactly one of Result or Err is set.
type AnswerOutcome struct {
	Result *AnswerResult
	Err    *AnswerError
}

func (o AnswerOutcome) MarshalJSON() ([]byte, error) {
	if o.Err != nil {
		return json.Marshal(o.Err)
	}
	return json.Marshal(o.Result)
}

// ValidateAnswersResponse keeps the input order of the request.
type ValidateAnswersResponse struct {
	Results []AnswerOutcome `json:"results"`
}
