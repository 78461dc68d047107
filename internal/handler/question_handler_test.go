package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"quiz-bank/internal/domain"
	"quiz-bank/internal/dto"
	"quiz-bank/internal/handler"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupQuestionApp(svc *MockQuestionService) *fiber.App {
	app := newTestApp()
	h := handler.NewQuestionHandler(svc)
	api := app.Group("/api/questions")
	api.Post("/createquestion", h.CreateQuestion)
	api.Patch("/updatequestion/:id", h.UpdateQuestion)
	api.Post("/validateanswer", h.ValidateAnswers)
	api.Post("/validateanswer/:id", h.ValidateAnswer)
	api.Get("/getquestions", h.GetQuestions)
	api.Get("/:id", h.GetQuestion)
	return app
}

func storedQuestion(id string) *domain.Question {
	return &domain.Question{
		ID:            id,
		Question:      "What is the capital of France?",
		Options:       []string{"Paris", "Berlin", "Rome", "Madrid"},
		CorrectAnswer: "Paris",
		Explanation:   "Paris is the capital city of France.",
		Subject:       "geography",
		Type:          domain.QuestionTypeQuiz,
		Tags:          []string{},
		CreatedAt:     time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func jsonRequest(method, url, body string) *http.Request {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestQuestionHandler_CreateQuestion_JSONShapes(t *testing.T) {
	item := `{"question":"Q","options":["a","b"],"correctAnswer":"a","explanation":"e","subject":"s","type":"quiz"}`
	tests := []struct {
		name      string
		body      string
		wantItems int
	}{
		{name: "single object", body: item, wantItems: 1},
		{name: "bare list", body: "[" + item + "," + item + "]", wantItems: 2},
		{name: "wrapped list", body: `{"questions":[` + item + `]}`, wantItems: 1},
		{name: "wrapped object", body: `{"questions":` + item + `}`, wantItems: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockQuestionService{
				CreateQuestionsFunc: func(ctx context.Context, items []dto.QuestionPayload, image *domain.MediaFile) ([]*domain.Question, error) {
					assert.Len(t, items, tt.wantItems)
					assert.Nil(t, image)
					require.NotNil(t, items[0].Question)
					assert.Equal(t, "Q", *items[0].Question)
					assert.JSONEq(t, `["a","b"]`, string(items[0].Options))
					out := make([]*domain.Question, len(items))
					for i := range items {
						out[i] = storedQuestion("q")
					}
					return out, nil
				},
			}
			app := setupQuestionApp(svc)

			resp, err := app.Test(jsonRequest("POST", "/api/questions/createquestion", tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
			var body dto.CreateQuestionsResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantItems, body.Count)
			assert.Len(t, body.Questions, tt.wantItems)
		})
	}
}

func TestQuestionHandler_CreateQuestion_InvalidBody(t *testing.T) {
	app := setupQuestionApp(&MockQuestionService{})

	for _, body := range []string{"", "not json", "42", `{"question": 5}`} {
		resp, err := app.Test(jsonRequest("POST", "/api/questions/createquestion", body))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, body)
		resp.Body.Close()
	}
}

func TestQuestionHandler_CreateQuestion_ServiceError(t *testing.T) {
	svc := &MockQuestionService{
		CreateQuestionsFunc: func(ctx context.Context, items []dto.QuestionPayload, image *domain.MediaFile) ([]*domain.Question, error) {
			return nil, domain.NewValidationError("Correct answer must be one of the provided options.").
				WithContext("index", 0)
		},
	}
	app := setupQuestionApp(svc)

	resp, err := app.Test(jsonRequest("POST", "/api/questions/createquestion", `{"question":"Q"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "Correct answer must be one of the provided options.", body.Error)
	assert.EqualValues(t, 0, body.Details["index"])
}

func multipartBody(t *testing.T, fields map[string]string, fileContentType string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileData != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="diagram.png"`)
		h.Set("Content-Type", fileContentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(fileData)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func TestQuestionHandler_CreateQuestion_MultipartWithImage(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	svc := &MockQuestionService{
		CreateQuestionsFunc: func(ctx context.Context, items []dto.QuestionPayload, image *domain.MediaFile) ([]*domain.Question, error) {
			require.Len(t, items, 1)
			assert.Equal(t, "Q", *items[0].Question)
			assert.Equal(t, "quiz", *items[0].Type)
			assert.Nil(t, items[0].VideoSolutionURL)
			// serialized text is passed through for the service to parse
			var optionsText string
			require.NoError(t, json.Unmarshal(items[0].Options, &optionsText))
			assert.Equal(t, `{"A":"a","B":"b"}`, optionsText)
			assert.JSONEq(t, `["algebra"]`, string(items[0].Tags))

			require.NotNil(t, image)
			assert.Equal(t, "diagram.png", image.Filename)
			assert.Equal(t, "image/png", image.ContentType)
			assert.Equal(t, png, image.Data)
			return []*domain.Question{storedQuestion("q1")}, nil
		},
	}
	app := setupQuestionApp(svc)

	body, contentType := multipartBody(t, map[string]string{
		"question":         "Q",
		"options":          `{"A":"a","B":"b"}`,
		"correctAnswer":    "a",
		"explanation":      "e",
		"subject":          "math",
		"type":             "quiz",
		"tags":             "algebra",
		"videoSolutionUrl": "",
	}, "image/png", png)
	req := httptest.NewRequest("POST", "/api/questions/createquestion", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestQuestionHandler_CreateQuestion_MultipartQuestionsField(t *testing.T) {
	svc := &MockQuestionService{
		CreateQuestionsFunc: func(ctx context.Context, items []dto.QuestionPayload, image *domain.MediaFile) ([]*domain.Question, error) {
			assert.Len(t, items, 2)
			assert.Nil(t, image)
			return []*domain.Question{storedQuestion("1"), storedQuestion("2")}, nil
		},
	}
	app := setupQuestionApp(svc)

	body, contentType := multipartBody(t, map[string]string{
		"questions": `[{"question":"A"},{"question":"B"}]`,
	}, "", nil)
	req := httptest.NewRequest("POST", "/api/questions/createquestion", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var out dto.CreateQuestionsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Questions created successfully", out.Message)
}

func TestQuestionHandler_CreateQuestion_RejectsNonImageFile(t *testing.T) {
	app := setupQuestionApp(&MockQuestionService{})

	body, contentType := multipartBody(t, map[string]string{"question": "Q"}, "application/pdf", []byte("%PDF"))
	req := httptest.NewRequest("POST", "/api/questions/createquestion", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestQuestionHandler_CreateQuestion_RejectsMislabeledImage(t *testing.T) {
	called := false
	svc := &MockQuestionService{
		CreateQuestionsFunc: func(ctx context.Context, items []dto.QuestionPayload, image *domain.MediaFile) ([]*domain.Question, error) {
			called = true
			return nil, nil
		},
	}
	app := setupQuestionApp(svc)

	body, contentType := multipartBody(t, map[string]string{"question": "Q"}, "image/png",
		[]byte("<html><script>alert(1)</script></html>"))
	req := httptest.NewRequest("POST", "/api/questions/createquestion", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.False(t, called)
}

func TestQuestionHandler_UpdateQuestion(t *testing.T) {
	t.Run("partial JSON", func(t *testing.T) {
		svc := &MockQuestionService{
			UpdateQuestionFunc: func(ctx context.Context, id string, payload dto.QuestionPayload, image *domain.MediaFile) (*domain.Question, error) {
				assert.Equal(t, "q1", id)
				require.NotNil(t, payload.Explanation)
				assert.Equal(t, "better", *payload.Explanation)
				assert.Nil(t, payload.Question)
				assert.False(t, payload.HasOptions())
				q := storedQuestion(id)
				q.Explanation = "better"
				return q, nil
			},
		}
		app := setupQuestionApp(svc)

		resp, err := app.Test(jsonRequest("PATCH", "/api/questions/updatequestion/q1", `{"explanation":"better"}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		var body dto.QuestionResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Question updated successfully", body.Message)
		assert.Equal(t, "better", body.Question.Explanation)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &MockQuestionService{
			UpdateQuestionFunc: func(ctx context.Context, id string, payload dto.QuestionPayload, image *domain.MediaFile) (*domain.Question, error) {
				return nil, domain.NewQuestionNotFoundError(id)
			},
		}
		app := setupQuestionApp(svc)

		resp, err := app.Test(jsonRequest("PATCH", "/api/questions/updatequestion/missing", `{"subject":"x"}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Question not found.", decodeError(t, resp).Error)
	})

	t.Run("array body rejected", func(t *testing.T) {
		app := setupQuestionApp(&MockQuestionService{})

		resp, err := app.Test(jsonRequest("PATCH", "/api/questions/updatequestion/q1", `[{"subject":"x"}]`))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("multipart image only", func(t *testing.T) {
		svc := &MockQuestionService{
			UpdateQuestionFunc: func(ctx context.Context, id string, payload dto.QuestionPayload, image *domain.MediaFile) (*domain.Question, error) {
				assert.Nil(t, payload.Question)
				assert.Nil(t, payload.Options)
				require.NotNil(t, image)
				return storedQuestion(id), nil
			},
		}
		app := setupQuestionApp(svc)

		body, contentType := multipartBody(t, map[string]string{}, "image/jpeg", []byte{0xff, 0xd8, 0xff})
		req := httptest.NewRequest("PATCH", "/api/questions/updatequestion/q1", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestQuestionHandler_ValidateAnswers(t *testing.T) {
	correct := "Paris"
	svc := &MockQuestionService{
		ValidateAnswersFunc: func(ctx context.Context, answers []dto.AnswerSubmission) ([]dto.AnswerOutcome, error) {
			require.Len(t, answers, 2)
			return []dto.AnswerOutcome{
				{Result: &dto.AnswerResult{QuestionID: "q1", IsCorrect: false, CorrectAnswer: &correct, Message: "Incorrect answer."}},
				{Err: &dto.AnswerError{QuestionID: "q2", Error: "Question not found."}},
			}, nil
		},
	}
	app := setupQuestionApp(svc)

	resp, err := app.Test(jsonRequest("POST", "/api/questions/validateanswer",
		`{"answers":[{"questionId":"q1","userAnswer":"Berlin"},{"questionId":"q2","userAnswer":"x"}]}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body struct {
		Results []map[string]any `json:"results"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Results, 2)
	assert.Equal(t, false, body.Results[0]["isCorrect"])
	assert.Equal(t, "Paris", body.Results[0]["correctAnswer"])
	assert.Equal(t, "Question not found.", body.Results[1]["error"])
}

func TestQuestionHandler_ValidateAnswers_MalformedEntry(t *testing.T) {
	svc := &MockQuestionService{
		ValidateAnswersFunc: func(ctx context.Context, answers []dto.AnswerSubmission) ([]dto.AnswerOutcome, error) {
			require.Equal(t, []dto.AnswerSubmission{{QuestionID: "q2", UserAnswer: "Paris"}}, answers)
			return []dto.AnswerOutcome{
				{Result: &dto.AnswerResult{QuestionID: "q2", IsCorrect: true, Message: "Correct answer!"}},
			}, nil
		},
	}
	app := setupQuestionApp(svc)

	resp, err := app.Test(jsonRequest("POST", "/api/questions/validateanswer",
		`{"answers":[{"questionId":5},{"questionId":"q2","userAnswer":"Paris"},{"questionId":"q3","userAnswer":7}]}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body struct {
		Results []map[string]any `json:"results"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Results, 3)
	assert.Equal(t, "Invalid answer entry.", body.Results[0]["error"])
	assert.Equal(t, true, body.Results[1]["isCorrect"])
	assert.Equal(t, "q3", body.Results[2]["questionId"])
	assert.Equal(t, "Invalid answer entry.", body.Results[2]["error"])
}

func TestQuestionHandler_ValidateAnswers_AllEntriesMalformed(t *testing.T) {
	called := false
	svc := &MockQuestionService{
		ValidateAnswersFunc: func(ctx context.Context, answers []dto.AnswerSubmission) ([]dto.AnswerOutcome, error) {
			called = true
			return nil, nil
		},
	}
	app := setupQuestionApp(svc)

	resp, err := app.Test(jsonRequest("POST", "/api/questions/validateanswer", `{"answers":[42]}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body struct {
		Results []map[string]any `json:"results"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "Invalid answer entry.", body.Results[0]["error"])
	assert.False(t, called)
}

func TestQuestionHandler_ValidateAnswers_EmptyList(t *testing.T) {
	svc := &MockQuestionService{
		ValidateAnswersFunc: func(ctx context.Context, answers []dto.AnswerSubmission) ([]dto.AnswerOutcome, error) {
			return nil, domain.NewValidationError("answers must be a non-empty list.")
		},
	}
	app := setupQuestionApp(svc)

	resp, err := app.Test(jsonRequest("POST", "/api/questions/validateanswer", `{"answers":[]}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestQuestionHandler_ValidateAnswer(t *testing.T) {
	svc := &MockQuestionService{
		ValidateAnswerFunc: func(ctx context.Context, id, userAnswer string) (*dto.AnswerResult, error) {
			assert.Equal(t, "q1", id)
			assert.Equal(t, "Paris", userAnswer)
			return &dto.AnswerResult{QuestionID: id, IsCorrect: true, Explanation: "e", Message: "Correct answer!"}, nil
		},
	}
	app := setupQuestionApp(svc)

	resp, err := app.Test(jsonRequest("POST", "/api/questions/validateanswer/q1", `{"userAnswer":"Paris"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["isCorrect"])
	assert.Equal(t, "Correct answer!", body["message"])
	assert.NotContains(t, body, "correctAnswer")
}

func TestQuestionHandler_ValidateAnswer_MissingAnswer(t *testing.T) {
	svc := &MockQuestionService{
		ValidateAnswerFunc: func(ctx context.Context, id, userAnswer string) (*dto.AnswerResult, error) {
			assert.Empty(t, userAnswer)
			return nil, domain.NewValidationError("userAnswer is required in the request body.")
		},
	}
	app := setupQuestionApp(svc)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/questions/validateanswer/q1", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestQuestionHandler_GetQuestions(t *testing.T) {
	t.Run("filters passed through", func(t *testing.T) {
		svc := &MockQuestionService{
			GetQuestionsFunc: func(ctx context.Context, filter domain.QuestionFilter) ([]*domain.Question, error) {
				assert.Equal(t, domain.QuestionFilter{Subject: "geography", Type: "quiz", Tag: "europe"}, filter)
				return []*domain.Question{storedQuestion("q1")}, nil
			},
		}
		app := setupQuestionApp(svc)

		resp, err := app.Test(httptest.NewRequest("GET", "/api/questions/getquestions?subject=geography&type=quiz&tag=europe", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		var body dto.QuestionListResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Questions fetched successfully", body.Message)
		assert.Len(t, body.Questions, 1)
	})

	t.Run("no matches", func(t *testing.T) {
		svc := &MockQuestionService{
			GetQuestionsFunc: func(ctx context.Context, filter domain.QuestionFilter) ([]*domain.Question, error) {
				return nil, domain.NewNotFoundError("No questions found matching your criteria.")
			},
		}
		app := setupQuestionApp(svc)

		resp, err := app.Test(httptest.NewRequest("GET", "/api/questions/getquestions?subject=none", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "No questions found matching your criteria.", decodeError(t, resp).Error)
	})
}

func TestQuestionHandler_GetQuestion(t *testing.T) {
	svc := &MockQuestionService{
		GetQuestionFunc: func(ctx context.Context, id string) (*domain.Question, error) {
			if id == "q1" {
				return storedQuestion(id), nil
			}
			return nil, domain.NewQuestionNotFoundError(id)
		},
	}
	app := setupQuestionApp(svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/questions/q1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest("GET", "/api/questions/other", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
