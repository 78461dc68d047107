package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"quiz-bank/internal/domain"
	"quiz-bank/internal/dto"

	"github.com/gofiber/fiber/v2"
)

const imageField = "file"

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm)
}

// parseQuestionItems accepts {questions: [...] | {...}}, a bare list, or a single object.
func parseQuestionItems(body []byte) ([]dto.QuestionPayload, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, domain.NewInvalidInputError("Request body is required.")
	}

	switch body[0] {
	case '[':
		var items []dto.QuestionPayload
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, domain.NewInvalidInputError("Invalid request body.")
		}
		return items, nil
	case '{':
		var wrapper struct {
			Questions json.RawMessage `json:"questions"`
		}
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return nil, domain.NewInvalidInputError("Invalid request body.")
		}
		if len(wrapper.Questions) > 0 && string(wrapper.Questions) != "null" {
			return parseQuestionItems(wrapper.Questions)
		}
		var item dto.QuestionPayload
		if err := json.Unmarshal(body, &item); err != nil {
			return nil, domain.NewInvalidInputError("Invalid request body.")
		}
		return []dto.QuestionPayload{item}, nil
	case '"':
		// questions sent as serialized text, typically from a form field
		var text string
		if err := json.Unmarshal(body, &text); err != nil {
			return nil, domain.NewInvalidInputError("Invalid request body.")
		}
		return parseQuestionItems([]byte(text))
	default:
		return nil, domain.NewInvalidInputError("Invalid request body.")
	}
}

// parseQuestionPatch reads one partial question. An empty body is an empty patch.
func parseQuestionPatch(body []byte) (dto.QuestionPayload, error) {
	var payload dto.QuestionPayload
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return payload, nil
	}
	if body[0] != '{' {
		return payload, domain.NewInvalidInputError("Request body must be a JSON object.")
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return payload, domain.NewInvalidInputError("Invalid request body.")
	}
	return payload, nil
}

// payloadFromForm maps individual form fields onto a payload. Empty values count as absent.
func payloadFromForm(form *multipart.Form) dto.QuestionPayload {
	text := func(key string) *string {
		values := form.Value[key]
		if len(values) == 0 || values[0] == "" {
			return nil
		}
		v := values[0]
		return &v
	}
	list := func(key string) json.RawMessage {
		var values []string
		for _, v := range form.Value[key] {
			if v != "" {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			values = form.Value[key+"[]"]
		}
		var raw []byte
		switch len(values) {
		case 0:
			return nil
		case 1:
			v := strings.TrimSpace(values[0])
			if strings.HasPrefix(v, "[") || strings.HasPrefix(v, "{") {
				// serialized JSON text; the service parses it
				raw, _ = json.Marshal(v)
			} else {
				raw, _ = json.Marshal(values)
			}
		default:
			raw, _ = json.Marshal(values)
		}
		return raw
	}

	return dto.QuestionPayload{
		Question:         text("question"),
		Options:          list("options"),
		CorrectAnswer:    text("correctAnswer"),
		Explanation:      text("explanation"),
		VideoSolutionURL: text("videoSolutionUrl"),
		Subject:          text("subject"),
		Type:             text("type"),
		Tags:             list("tags"),
	}
}

// imageFromForm returns the uploaded image, or nil when no file was sent.
func imageFromForm(form *multipart.Form) (*domain.MediaFile, error) {
	files := form.File[imageField]
	if len(files) == 0 {
		return nil, nil
	}
	fh := files[0]

	contentType := fh.Header.Get(fiber.HeaderContentType)
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return nil, domain.NewValidationError("Only image files can be uploaded.").
			WithContext("contentType", contentType)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, domain.NewInvalidInputError("Could not read uploaded file.")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.NewInvalidInputError("Could not read uploaded file.")
	}
	if len(data) == 0 {
		return nil, domain.NewValidationError("Uploaded file is empty.")
	}
	detected, _, _ := strings.Cut(http.DetectContentType(data), ";")
	if !strings.HasPrefix(detected, "image/") {
		return nil, domain.NewValidationError("Only image files can be uploaded.").
			WithContext("contentType", detected)
	}

	return &domain.MediaFile{
		Filename:    fh.Filename,
		ContentType: detected,
		Data:        data,
	}, nil
}

const msgInvalidAnswerEntry = "Invalid answer entry."

// parseAnswerSubmissions decodes the batch answer body entry by entry. Entries
// that do not decode are returned as per-index errors instead of failing the batch.
func parseAnswerSubmissions(body []byte) ([]dto.AnswerSubmission, []int, map[int]*dto.AnswerError, error) {
	var req struct {
		Answers []json.RawMessage `json:"answers"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, nil, nil, domain.NewInvalidInputError("Invalid request body.")
	}

	valid := make([]dto.AnswerSubmission, 0, len(req.Answers))
	indexes := make([]int, 0, len(req.Answers))
	invalid := map[int]*dto.AnswerError{}
	for i, raw := range req.Answers {
		var a dto.AnswerSubmission
		if err := json.Unmarshal(raw, &a); err != nil {
			invalid[i] = &dto.AnswerError{QuestionID: looseQuestionID(raw), Error: msgInvalidAnswerEntry}
			continue
		}
		valid = append(valid, a)
		indexes = append(indexes, i)
	}
	return valid, indexes, invalid, nil
}

// looseQuestionID recovers a string questionId from an entry that failed to decode.
func looseQuestionID(raw json.RawMessage) string {
	var entry map[string]json.RawMessage
	if json.Unmarshal(raw, &entry) != nil {
		return ""
	}
	var id string
	if json.Unmarshal(entry["questionId"], &id) != nil {
		return ""
	}
	return id
}
