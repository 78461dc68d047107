package quizgen

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"quiz-bank/internal/config"
	"quiz-bank/internal/domain"
	"quiz-bank/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

// Reasoning models served by Ollama prefix their answer with a <think> block.
var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// LLMTextGenerator implements domain.TextGenerator over any langchaingo model.
type LLMTextGenerator struct {
	model       llms.Model
	provider    string
	temperature float64
}

// NewLLMTextGenerator wraps model. provider is only used for logging.
func NewLLMTextGenerator(model llms.Model, provider string) *LLMTextGenerator {
	return &LLMTextGenerator{
		model:       model,
		provider:    provider,
		temperature: 0.7,
	}
}

// Generate sends prompt as a single human message and returns the first choice.
func (g *LLMTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt, llms.WithTemperature(g.temperature))
	if err != nil {
		return "", fmt.Errorf("%s generate: %w", g.provider, err)
	}

	text = strings.TrimSpace(thinkBlock.ReplaceAllString(text, ""))
	logger.Get().Debug("Language model responded",
		zap.String("provider", g.provider),
		zap.Duration("duration", time.Since(start)),
		zap.Int("response_length", len(text)))
	return text, nil
}

// New builds the generator selected by cfg.Provider.
func New(ctx context.Context, cfg config.GenerationConfig) (domain.TextGenerator, error) {
	switch cfg.Provider {
	case "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini API key cannot be empty")
		}
		model, err := googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return NewLLMTextGenerator(model, "gemini"), nil

	case "ollama":
		model, err := ollama.New(
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
		return NewLLMTextGenerator(model, "ollama"), nil

	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", cfg.Provider)
	}
}

var _ domain.TextGenerator = (*LLMTextGenerator)(nil)
