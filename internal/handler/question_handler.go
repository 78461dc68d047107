package handler

import (
	"quiz-bank/internal/domain"
	"quiz-bank/internal/dto"
	"quiz-bank/internal/logger"
	"quiz-bank/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuestionHandler handles question-bank HTTP requests
type QuestionHandler struct {
	service service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler instance
func NewQuestionHandler(service service.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		service: service,
	}
}

// CreateQuestion godoc
// @Summary Create one or more questions
// @Description Accepts a single question, a list, or {questions: [...]} as JSON or multipart form data.
// @Description An optional image ("file") is only allowed when exactly one question is sent.
// @Tags questions
// @Accept json,mpfd
// @Produce json
// @Param request body dto.QuestionPayload true "Question"
// @Param file formData file false "Question image"
// @Success 201 {object} dto.CreateQuestionsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /questions/createquestion [post]
func (h *QuestionHandler) CreateQuestion(c *fiber.Ctx) error {
	var (
		items []dto.QuestionPayload
		image *domain.MediaFile
		err   error
	)

	if isMultipart(c) {
		form, ferr := c.MultipartForm()
		if ferr != nil {
			return domain.NewInvalidInputError("Invalid multipart form.")
		}
		if raw := form.Value["questions"]; len(raw) > 0 && raw[0] != "" {
			items, err = parseQuestionItems([]byte(raw[0]))
		} else {
			items = []dto.QuestionPayload{payloadFromForm(form)}
		}
		if err != nil {
			return err
		}
		if image, err = imageFromForm(form); err != nil {
			return err
		}
	} else if items, err = parseQuestionItems(c.Body()); err != nil {
		return err
	}

	created, err := h.service.CreateQuestions(c.UserContext(), items, image)
	if err != nil {
		logger.Get().Warn("Failed to create questions",
			zap.Int("items", len(items)),
			zap.Int("created", len(created)),
			zap.Error(err))
		return err
	}

	message := "Question created successfully"
	if len(created) > 1 {
		message = "Questions created successfully"
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateQuestionsResponse{
		Message:   message,
		Count:     len(created),
		Questions: created,
	})
}

// UpdateQuestion godoc
// @Summary Partially update a question
// @Description Only fields present in the body are changed. An optional image replaces questionImage.
// @Tags questions
// @Accept json,mpfd
// @Produce json
// @Param id path string true "Question ID"
// @Param request body dto.QuestionPayload false "Fields to change"
// @Param file formData file false "Question image"
// @Success 200 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /questions/updatequestion/{id} [patch]
func (h *QuestionHandler) UpdateQuestion(c *fiber.Ctx) error {
	id := c.Params("id")

	var (
		payload dto.QuestionPayload
		image   *domain.MediaFile
		err     error
	)
	if isMultipart(c) {
		form, ferr := c.MultipartForm()
		if ferr != nil {
			return domain.NewInvalidInputError("Invalid multipart form.")
		}
		payload = payloadFromForm(form)
		if image, err = imageFromForm(form); err != nil {
			return err
		}
	} else if payload, err = parseQuestionPatch(c.Body()); err != nil {
		return err
	}

	updated, err := h.service.UpdateQuestion(c.UserContext(), id, payload, image)
	if err != nil {
		return err
	}

	return c.JSON(dto.QuestionResponse{
		Message:  "Question updated successfully",
		Question: updated,
	})
}

// ValidateAnswers godoc
// @Summary Check several answers
// @Description Each entry is checked independently; failures are reported per entry in input order.
// @Tags questions
// @Accept json
// @Produce json
// @Param request body dto.ValidateAnswersRequest true "Answers"
// @Success 200 {object} dto.ValidateAnswersResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /questions/validateanswer [post]
func (h *QuestionHandler) ValidateAnswers(c *fiber.Ctx) error {
	answers, indexes, invalid, err := parseAnswerSubmissions(c.Body())
	if err != nil {
		return err
	}

	results := make([]dto.AnswerOutcome, len(answers)+len(invalid))
	for i, e := range invalid {
		results[i].Err = e
	}
	if len(answers) > 0 || len(invalid) == 0 {
		checked, err := h.service.ValidateAnswers(c.UserContext(), answers)
		if err != nil {
			return err
		}
		for j, outcome := range checked {
			results[indexes[j]] = outcome
		}
	}
	return c.JSON(dto.ValidateAnswersResponse{Results: results})
}

// ValidateAnswer godoc
// @Summary Check one answer
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param request body dto.ValidateAnswerRequest true "Answer"
// @Success 200 {object} dto.AnswerResult
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/validateanswer/{id} [post]
func (h *QuestionHandler) ValidateAnswer(c *fiber.Ctx) error {
	var req dto.ValidateAnswerRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return domain.NewInvalidInputError("Invalid request body.")
		}
	}

	result, err := h.service.ValidateAnswer(c.UserContext(), c.Params("id"), req.UserAnswer)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GetQuestions godoc
// @Summary List questions
// @Description Filters are optional and combined with AND. Newest first.
// @Tags questions
// @Produce json
// @Param subject query string false "Subject"
// @Param type query string false "Question type" Enums(quiz, practice_paper)
// @Param tag query string false "Tag"
// @Success 200 {object} dto.QuestionListResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/getquestions [get]
func (h *QuestionHandler) GetQuestions(c *fiber.Ctx) error {
	filter := domain.QuestionFilter{
		Subject: c.Query("subject"),
		Type:    c.Query("type"),
		Tag:     c.Query("tag"),
	}

	questions, err := h.service.GetQuestions(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.QuestionListResponse{
		Message:   "Questions fetched successfully",
		Questions: questions,
	})
}

// GetQuestion godoc
// @Summary Get a question by id
// @Tags questions
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} dto.QuestionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{id} [get]
func (h *QuestionHandler) GetQuestion(c *fiber.Ctx) error {
	q, err := h.service.GetQuestion(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.QuestionResponse{
		Message:  "Question fetched successfully",
		Question: q,
	})
}
