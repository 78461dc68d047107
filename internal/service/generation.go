package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"quiz-bank/internal/domain"
	"quiz-bank/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// GenerationService produces candidate questions with a language model.
type GenerationService interface {
	GenerateQuestions(ctx context.Context, topic string, numQuestions int) ([]domain.GeneratedQuestion, error)
}

// GenerationConfig tunes prompt content, limits and caching.
type GenerationConfig struct {
	MaxQuestions int
	RichPrompt   bool
	Timeout      time.Duration
	CacheTTL     time.Duration
}

type generationService struct {
	generator domain.TextGenerator
	cache     domain.Cache
	cfg       GenerationConfig
	group     singleflight.Group
}

// NewGenerationService creates a generation service. cache may be nil.
func NewGenerationService(generator domain.TextGenerator, cache domain.Cache, cfg GenerationConfig) GenerationService {
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = 50
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &generationService{
		generator: generator,
		cache:     cache,
		cfg:       cfg,
	}
}

func (s *generationService) GenerateQuestions(ctx context.Context, topic string, numQuestions int) ([]domain.GeneratedQuestion, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, domain.NewValidationError("topic is required")
	}
	if numQuestions < 1 || numQuestions > s.cfg.MaxQuestions {
		return nil, domain.NewValidationError(
			fmt.Sprintf("numQuestions must be between 1 and %d", s.cfg.MaxQuestions))
	}

	key := generationCacheKey(topic, numQuestions, s.cfg.RichPrompt)
	if cached, ok := s.fromCache(ctx, key); ok {
		return cached, nil
	}

	// The shared call outlives the caller that started it; each caller waits on its own ctx.
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return s.generate(context.WithoutCancel(ctx), topic, numQuestions)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, domain.NewLLMServiceError(ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared {
		logger.Get().Debug("Generation result shared with concurrent caller", zap.String("topic", topic))
	}

	questions := res.Val.([]domain.GeneratedQuestion)
	s.toCache(ctx, key, questions)
	return questions, nil
}

func (s *generationService) generate(ctx context.Context, topic string, numQuestions int) ([]domain.GeneratedQuestion, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	prompt := BuildGenerationPrompt(topic, numQuestions, s.cfg.RichPrompt)
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		logger.Get().Error("Language model call failed",
			zap.String("topic", topic),
			zap.Int("num_questions", numQuestions),
			zap.Error(err))
		return nil, domain.NewLLMServiceError(err)
	}

	questions, err := ParseGeneratedQuestions(text)
	if err != nil {
		logger.Get().Error("Failed to parse language model response",
			zap.String("topic", topic),
			zap.String("response_snippet", snippet(text, 200)),
			zap.Error(err))
		return nil, domain.NewUpstreamError("Failed to generate questions.", err)
	}

	logger.Get().Info("Generated candidate questions",
		zap.String("topic", topic),
		zap.Int("requested", numQuestions),
		zap.Int("returned", len(questions)))
	return questions, nil
}

// BuildGenerationPrompt asks for exactly n questions on topic as a bare JSON array.
func BuildGenerationPrompt(topic string, n int, rich bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d high-quality multiple-choice questions on the topic %q.\n", n, topic)
	b.WriteString("Each question must include:\n\n")
	b.WriteString("- A \"question\" string\n")
	b.WriteString("- An array of 4 \"options\"\n")
	b.WriteString("- A \"correctAnswer\" that exactly matches one of the options\n")
	b.WriteString("- An \"explanation\" string that justifies the correct answer\n")
	if rich {
		fmt.Fprintf(&b, "- A \"subject\" string set to %q\n", topic)
		b.WriteString("- An array of 1 to 3 short lowercase \"tags\"\n")
	}

	b.WriteString("\nReturn the response as a JSON array in the following format:\n\n[\n  {\n")
	b.WriteString("    \"question\": \"What is the capital of France?\",\n")
	b.WriteString("    \"options\": [\"Paris\", \"Berlin\", \"Rome\", \"Madrid\"],\n")
	b.WriteString("    \"correctAnswer\": \"Paris\",\n")
	if rich {
		b.WriteString("    \"explanation\": \"Paris is the capital city of France.\",\n")
		b.WriteString("    \"subject\": \"geography\",\n")
		b.WriteString("    \"tags\": [\"capitals\", \"europe\"]\n")
	} else {
		b.WriteString("    \"explanation\": \"Paris is the capital city of France.\"\n")
	}
	b.WriteString("  },\n  ...\n]\n\n")
	b.WriteString("Make sure:\n")
	fmt.Fprintf(&b, "- There are exactly %d items\n", n)
	b.WriteString("- There are no markdown characters\n")
	b.WriteString("- The format is valid JSON\n")
	return b.String()
}

// ExtractJSONArray returns the text from the first '[' to the last ']' inclusive.
func ExtractJSONArray(text string) (string, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end < 0 || end < start {
		return "", errors.New("no JSON array found in model response")
	}
	return text[start : end+1], nil
}

// ParseGeneratedQuestions extracts and decodes the JSON array in text.
func ParseGeneratedQuestions(text string) ([]domain.GeneratedQuestion, error) {
	raw, err := ExtractJSONArray(text)
	if err != nil {
		return nil, err
	}
	var questions []domain.GeneratedQuestion
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}
	return questions, nil
}

const generationKeyPrefix = "quizbank:generation:"

// generationCacheKey is "quizbank:generation:<topic hash>:<n>:<rich|plain>".
// Topics differing only in case share an entry.
func generationCacheKey(topic string, n int, rich bool) string {
	sum := sha256.Sum256([]byte(strings.ToLower(topic)))
	variant := "plain"
	if rich {
		variant = "rich"
	}
	return generationKeyPrefix + hex.EncodeToString(sum[:8]) + ":" + strconv.Itoa(n) + ":" + variant
}

func (s *generationService) fromCache(ctx context.Context, key string) ([]domain.GeneratedQuestion, bool) {
	if s.cache == nil {
		return nil, false
	}
	val, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Generation cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var questions []domain.GeneratedQuestion
	if err := json.Unmarshal([]byte(val), &questions); err != nil {
		logger.Get().Warn("Discarding undecodable generation cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return questions, true
}

func (s *generationService) toCache(ctx context.Context, key string, questions []domain.GeneratedQuestion) {
	if s.cache == nil || s.cfg.CacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(questions)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(data), s.cfg.CacheTTL); err != nil {
		logger.Get().Warn("Generation cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
