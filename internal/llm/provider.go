package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Provider is a single-shot chat completion: one system prompt, one user
// prompt, the model's text back. Implementations make exactly one attempt.
type Provider interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type Config struct {
	Provider    string
	Model       string
	APIKey      string
	APIURL      string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 60 * time.Second
	}
	return c.Timeout
}

func (c Config) maxTokens() int {
	if c.MaxTokens <= 0 {
		return 500
	}
	return c.MaxTokens
}

func NewProvider(cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai", "":
		return NewOpenAIProvider(cfg), nil
	case "anthropic":
		return NewAnthropicProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
