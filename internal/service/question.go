package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quiz-bank/internal/domain"
	"quiz-bank/internal/dto"
	"quiz-bank/internal/logger"
	"quiz-bank/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	msgCorrectAnswerNotInOptions = "Correct answer must be one of the provided options."
	msgCorrectAnswerNotInUpdated = "Correct answer must be one of the updated options."
	msgNoQuestions               = "No questions found matching your criteria."
	msgUserAnswerRequired        = "userAnswer is required in the request body."
)

// QuestionService defines the question CRUD and answer-checking operations.
type QuestionService interface {
	CreateQuestions(ctx context.Context, items []dto.QuestionPayload, image *domain.MediaFile) ([]*domain.Question, error)
	UpdateQuestion(ctx context.Context, id string, payload dto.QuestionPayload, image *domain.MediaFile) (*domain.Question, error)
	GetQuestion(ctx context.Context, id string) (*domain.Question, error)
	GetQuestions(ctx context.Context, filter domain.QuestionFilter) ([]*domain.Question, error)
	ValidateAnswer(ctx context.Context, id, userAnswer string) (*dto.AnswerResult, error)
	ValidateAnswers(ctx context.Context, answers []dto.AnswerSubmission) ([]dto.AnswerOutcome, error)
}

// QuestionServiceConfig controls image handling.
type QuestionServiceConfig struct {
	MediaFolder  string
	MediaTimeout time.Duration
}

type questionService struct {
	repo      domain.QuestionRepository
	uploader  domain.MediaUploader
	validator *validation.Validator
	cfg       QuestionServiceConfig
}

// NewQuestionService creates a new instance of questionService
func NewQuestionService(
	repo domain.QuestionRepository,
	uploader domain.MediaUploader,
	validator *validation.Validator,
	cfg QuestionServiceConfig,
) QuestionService {
	if cfg.MediaFolder == "" {
		cfg.MediaFolder = "questionImages"
	}
	return &questionService{
		repo:      repo,
		uploader:  uploader,
		validator: validator,
		cfg:       cfg,
	}
}

// CreateQuestions validates and persists items in order. The first failing item
// aborts the batch; items before it stay persisted.
func (s *questionService) CreateQuestions(ctx context.Context, items []dto.QuestionPayload, image *domain.MediaFile) ([]*domain.Question, error) {
	if len(items) == 0 {
		return nil, domain.NewValidationError("At least one question is required.")
	}
	if image != nil && len(items) > 1 {
		return nil, domain.NewValidationError("An image can only be attached when creating a single question.").
			WithContext("count", len(items))
	}

	created := make([]*domain.Question, 0, len(items))
	for i := range items {
		q, err := s.buildQuestion(&items[i])
		if err != nil {
			return created, batchError(err, i, created)
		}

		if image != nil {
			url, err := s.upload(ctx, image)
			if err != nil {
				return created, batchError(err, i, created)
			}
			q.QuestionImage = &url
		}

		if err := s.repo.Create(ctx, q); err != nil {
			logger.Get().Error("Failed to create question",
				zap.Int("index", i),
				zap.Error(err))
			return created, batchError(domain.NewInternalError("Failed to create question", err), i, created)
		}
		created = append(created, q)
	}

	logger.Get().Info("Questions created", zap.Int("count", len(created)))
	return created, nil
}

func batchError(err error, index int, created []*domain.Question) error {
	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		domainErr = domain.NewInternalError("Failed to create question", err)
	}
	ids := make([]string, 0, len(created))
	for _, q := range created {
		ids = append(ids, q.ID)
	}
	return domainErr.WithContext("index", index).WithContext("createdIds", ids)
}

func (s *questionService) buildQuestion(p *dto.QuestionPayload) (*domain.Question, error) {
	var missing []string
	for _, f := range []struct {
		name    string
		present bool
	}{
		{"question", nonEmpty(p.Question)},
		{"options", p.HasOptions()},
		{"correctAnswer", nonEmpty(p.CorrectAnswer)},
		{"explanation", nonEmpty(p.Explanation)},
		{"subject", nonEmpty(p.Subject)},
		{"type", nonEmpty(p.Type)},
	} {
		if !f.present {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, domain.NewMissingFieldsError(missing)
	}

	options, err := NormalizeOptions(p.Options)
	if err != nil {
		return nil, err
	}

	tags := []string{}
	if p.HasTags() {
		if tags, err = ParseTags(p.Tags); err != nil {
			return nil, err
		}
	}

	q := &domain.Question{
		Question:         *p.Question,
		Options:          options,
		CorrectAnswer:    *p.CorrectAnswer,
		Explanation:      *p.Explanation,
		VideoSolutionURL: optionalText(p.VideoSolutionURL),
		Subject:          *p.Subject,
		Type:             domain.QuestionType(*p.Type),
		Tags:             tags,
	}
	if !q.HasOption(q.CorrectAnswer) {
		return nil, domain.NewValidationError(msgCorrectAnswerNotInOptions)
	}
	if err := s.validator.Struct(q); err != nil {
		return nil, err
	}
	return q, nil
}

// UpdateQuestion applies the fields present in payload to the stored question.
func (s *questionService) UpdateQuestion(ctx context.Context, id string, payload dto.QuestionPayload, image *domain.MediaFile) (*domain.Question, error) {
	existing, err := s.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := *existing
	for _, f := range []struct {
		name   string
		value  *string
		target *string
	}{
		{"question", payload.Question, &merged.Question},
		{"correctAnswer", payload.CorrectAnswer, &merged.CorrectAnswer},
		{"explanation", payload.Explanation, &merged.Explanation},
		{"subject", payload.Subject, &merged.Subject},
	} {
		if f.value == nil {
			continue
		}
		if *f.value == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("%s cannot be empty.", f.name))
		}
		*f.target = *f.value
	}

	if payload.Type != nil {
		merged.Type = domain.QuestionType(*payload.Type)
	}
	if payload.VideoSolutionURL != nil {
		merged.VideoSolutionURL = optionalText(payload.VideoSolutionURL)
	}
	if payload.HasOptions() {
		if merged.Options, err = NormalizeOptions(payload.Options); err != nil {
			return nil, err
		}
	}
	if payload.HasTags() {
		if merged.Tags, err = ParseTags(payload.Tags); err != nil {
			return nil, err
		}
	}

	if (payload.HasOptions() || payload.CorrectAnswer != nil) && !merged.HasOption(merged.CorrectAnswer) {
		return nil, domain.NewValidationError(msgCorrectAnswerNotInUpdated)
	}
	if err := s.validator.Struct(&merged); err != nil {
		return nil, err
	}

	if image != nil {
		url, err := s.upload(ctx, image)
		if err != nil {
			return nil, err
		}
		merged.QuestionImage = &url
	}

	if err := s.repo.Update(ctx, &merged); err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, domainErr
		}
		logger.Get().Error("Failed to update question", zap.String("id", id), zap.Error(err))
		return nil, domain.NewInternalError("Failed to update question", err)
	}
	return &merged, nil
}

func (s *questionService) GetQuestion(ctx context.Context, id string) (*domain.Question, error) {
	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get question", err)
	}
	if q == nil {
		return nil, domain.NewQuestionNotFoundError(id)
	}
	return q, nil
}

func (s *questionService) GetQuestions(ctx context.Context, filter domain.QuestionFilter) ([]*domain.Question, error) {
	questions, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, domain.NewInternalError("Failed to fetch questions", err)
	}
	if len(questions) == 0 {
		return nil, domain.NewNotFoundError(msgNoQuestions)
	}
	return questions, nil
}

// ValidateAnswer compares userAnswer with the stored correct answer by exact equality.
// The correct answer is only revealed when the submission is wrong.
func (s *questionService) ValidateAnswer(ctx context.Context, id, userAnswer string) (*dto.AnswerResult, error) {
	if userAnswer == "" {
		return nil, domain.NewValidationError(msgUserAnswerRequired)
	}

	q, err := s.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}

	isCorrect := q.CorrectAnswer == userAnswer
	result := &dto.AnswerResult{
		QuestionID:       id,
		IsCorrect:        isCorrect,
		Explanation:      q.Explanation,
		VideoSolutionURL: q.VideoSolutionURL,
		Message:          "Correct answer!",
	}
	if !isCorrect {
		correct := q.CorrectAnswer
		result.CorrectAnswer = &correct
		result.Message = "Incorrect answer."
	}
	return result, nil
}

// ValidateAnswers checks every submission concurrently. Failures are reported
// per entry; the output order matches the input order.
func (s *questionService) ValidateAnswers(ctx context.Context, answers []dto.AnswerSubmission) ([]dto.AnswerOutcome, error) {
	if len(answers) == 0 {
		return nil, domain.NewValidationError("answers must be a non-empty list.")
	}

	outcomes := make([]dto.AnswerOutcome, len(answers))
	var g errgroup.Group
	for i, a := range answers {
		g.Go(func() error {
			if a.QuestionID == "" || a.UserAnswer == "" {
				outcomes[i].Err = &dto.AnswerError{
					QuestionID: a.QuestionID,
					Error:      "questionId and userAnswer are required.",
				}
				return nil
			}

			result, err := s.ValidateAnswer(ctx, a.QuestionID, a.UserAnswer)
			if err != nil {
				outcomes[i].Err = &dto.AnswerError{QuestionID: a.QuestionID, Error: errorMessage(err)}
				return nil
			}
			outcomes[i].Result = result
			return nil
		})
	}
	_ = g.Wait()
	return outcomes, nil
}

func (s *questionService) upload(ctx context.Context, image *domain.MediaFile) (string, error) {
	if s.uploader == nil {
		return "", domain.NewInternalError("Image upload is not configured", nil)
	}
	if s.cfg.MediaTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.MediaTimeout)
		defer cancel()
	}

	url, err := s.uploader.Upload(ctx, s.cfg.MediaFolder, image)
	if err != nil {
		logger.Get().Error("Failed to upload question image",
			zap.String("filename", image.Filename),
			zap.Error(err))
		return "", domain.NewUpstreamError("Failed to upload image.", err)
	}
	return url, nil
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}

// optionalText maps an absent or empty value to nil.
func optionalText(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

// errorMessage returns the client-facing text of err.
func errorMessage(err error) string {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}
