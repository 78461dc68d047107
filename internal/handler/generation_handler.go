package handler

import (
	"quiz-bank/internal/domain"
	"quiz-bank/internal/dto"
	"quiz-bank/internal/service"

	"github.com/gofiber/fiber/v2"
)

type GenerationHandler struct {
	service service.GenerationService
}

func NewGenerationHandler(service service.GenerationService) *GenerationHandler {
	return &GenerationHandler{service: service}
}

// GenerateQuestions godoc
// @Summary Draft questions with a language model
// @Description Returns candidate questions for review. Nothing is saved.
// @Tags questions
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuestionsRequest true "Topic and count"
// @Success 200 {object} dto.GenerateQuestionsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /questions/aiassist [post]
func (h *GenerationHandler) GenerateQuestions(c *fiber.Ctx) error {
	var req dto.GenerateQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body.")
	}

	questions, err := h.service.GenerateQuestions(c.UserContext(), req.Topic, req.NumQuestions)
	if err != nil {
		return err
	}
	return c.JSON(dto.GenerateQuestionsResponse{Questions: questions})
}
