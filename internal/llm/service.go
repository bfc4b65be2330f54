package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"csv-analyzer/internal/logger"
)

// ErrNotConfigured is returned when no API key was provided.
var ErrNotConfigured = errors.New("gemini API key is not configured")

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	// RPM caps model calls per minute.
	RPM int
}

// Service sends prompts to the chat model.
type Service struct {
	config  Config
	chat    model.BaseChatModel
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewService builds a Gemini-backed service through its OpenAI compatible
// endpoint. Without an API key the service is returned unconfigured.
func NewService(ctx context.Context, cfg Config) (*Service, error) {
	if cfg.APIKey == "" {
		return NewServiceWithModel(cfg, nil), nil
	}

	chat, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}
	return NewServiceWithModel(cfg, chat), nil
}

// NewServiceWithModel wraps an existing chat model. A nil chat leaves the
// service unconfigured.
func NewServiceWithModel(cfg Config, chat model.BaseChatModel) *Service {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.RPM <= 0 {
		cfg.RPM = 60
	}
	burst := cfg.RPM / 60
	if burst < 1 {
		burst = 1
	}

	return &Service{
		config:  cfg,
		chat:    chat,
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RPM)/60.0), burst),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "gemini",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Log.Warnf("⚠️ Circuit breaker '%s' changed from %v to %v", name, from, to)
			},
		}),
	}
}

// Configured reports whether calls can be made.
func (s *Service) Configured() bool {
	return s.chat != nil
}

// Model returns the configured model name.
func (s *Service) Model() string {
	return s.config.Model
}

// Reply sends the system prompt and the user's message and returns the
// model's text. Failures are not retried.
func (s *Service) Reply(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	if !s.Configured() {
		return "", ErrNotConfigured
	}

	out, err := s.breaker.Execute(func() (interface{}, error) {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}

		messages := []*schema.Message{
			{Role: schema.System, Content: systemPrompt},
			{Role: schema.User, Content: "Usuário: " + userMessage},
		}
		resp, err := s.chat.Generate(ctx, messages)
		if err != nil {
			return nil, err
		}
		if resp == nil {
			return nil, errors.New("empty response from model")
		}
		return resp.Content, nil
	})
	if err != nil {
		return "", err
	}

	return out.(string), nil
}
