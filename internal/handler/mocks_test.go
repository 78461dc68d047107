package handler_test

import (
	"context"

	"quiz-bank/internal/domain"
	"quiz-bank/internal/dto"
	"quiz-bank/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// --- Manual Mocks ---

type MockQuestionService struct {
	CreateQuestionsFunc func(ctx context.Context, items []dto.QuestionPayload, image *domain.MediaFile) ([]*domain.Question, error)
	UpdateQuestionFunc  func(ctx context.Context, id string, payload dto.QuestionPayload, image *domain.MediaFile) (*domain.Question, error)
	GetQuestionFunc     func(ctx context.Context, id string) (*domain.Question, error)
	GetQuestionsFunc    func(ctx context.Context, filter domain.QuestionFilter) ([]*domain.Question, error)
	ValidateAnswerFunc  func(ctx context.Context, id, userAnswer string) (*dto.AnswerResult, error)
	ValidateAnswersFunc func(ctx context.Context, answers []dto.AnswerSubmission) ([]dto.AnswerOutcome, error)
}

func (m *MockQuestionService) CreateQuestions(ctx context.Context, items []dto.QuestionPayload, image *domain.MediaFile) ([]*domain.Question, error) {
	if m.CreateQuestionsFunc != nil {
		return m.CreateQuestionsFunc(ctx, items, image)
	}
	panic("MockQuestionService.CreateQuestionsFunc not implemented")
}
func (m *MockQuestionService) UpdateQuestion(ctx context.Context, id string, payload dto.QuestionPayload, image *domain.MediaFile) (*domain.Question, error) {
	if m.UpdateQuestionFunc != nil {
		return m.UpdateQuestionFunc(ctx, id, payload, image)
	}
	panic("MockQuestionService.UpdateQuestionFunc not implemented")
}
func (m *MockQuestionService) GetQuestion(ctx context.Context, id string) (*domain.Question, error) {
	if m.GetQuestionFunc != nil {
		return m.GetQuestionFunc(ctx, id)
	}
	panic("MockQuestionService.GetQuestionFunc not implemented")
}
func (m *MockQuestionService) GetQuestions(ctx context.Context, filter domain.QuestionFilter) ([]*domain.Question, error) {
	if m.GetQuestionsFunc != nil {
		return m.GetQuestionsFunc(ctx, filter)
	}
	panic("MockQuestionService.GetQuestionsFunc not implemented")
}
func (m *MockQuestionService) ValidateAnswer(ctx context.Context, id, userAnswer string) (*dto.AnswerResult, error) {
	if m.ValidateAnswerFunc != nil {
		return m.ValidateAnswerFunc(ctx, id, userAnswer)
	}
	panic("MockQuestionService.ValidateAnswerFunc not implemented")
}
func (m *MockQuestionService) ValidateAnswers(ctx context.Context, answers []dto.AnswerSubmission) ([]dto.AnswerOutcome, error) {
	if m.ValidateAnswersFunc != nil {
		return m.ValidateAnswersFunc(ctx, answers)
	}
	panic("MockQuestionService.ValidateAnswersFunc not implemented")
}

type MockGenerationService struct {
	GenerateQuestionsFunc func(ctx context.Context, topic string, numQuestions int) ([]domain.GeneratedQuestion, error)
}

func (m *MockGenerationService) GenerateQuestions(ctx context.Context, topic string, numQuestions int) ([]domain.GeneratedQuestion, error) {
	if m.GenerateQuestionsFunc != nil {
		return m.GenerateQuestionsFunc(ctx, topic, numQuestions)
	}
	panic("MockGenerationService.GenerateQuestionsFunc not implemented")
}

type MockAuthService struct {
	SignupFunc      func(ctx context.Context, req dto.SignupRequest) (string, *domain.User, error)
	SigninFunc      func(ctx context.Context, req dto.SigninRequest) (string, *domain.User, error)
	CreateJWTFunc   func(ctx context.Context, user *domain.User) (string, error)
	ValidateJWTFunc func(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

func (m *MockAuthService) Signup(ctx context.Context, req dto.SignupRequest) (string, *domain.User, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, req)
	}
	panic("MockAuthService.SignupFunc not implemented")
}
func (m *MockAuthService) Signin(ctx context.Context, req dto.SigninRequest) (string, *domain.User, error) {
	if m.SigninFunc != nil {
		return m.SigninFunc(ctx, req)
	}
	panic("MockAuthService.SigninFunc not implemented")
}
func (m *MockAuthService) CreateJWT(ctx context.Context, user *domain.User) (string, error) {
	if m.CreateJWTFunc != nil {
		return m.CreateJWTFunc(ctx, user)
	}
	panic("MockAuthService.CreateJWTFunc not implemented")
}
func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	if m.ValidateJWTFunc != nil {
		return m.ValidateJWTFunc(ctx, tokenString)
	}
	panic("MockAuthService.ValidateJWTFunc not implemented")
}

type MockPinger struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockPinger) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
}
