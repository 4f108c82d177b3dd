package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned by client constructors when no key is configured
var ErrMissingAPIKey = errors.New("API key is required")

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateContent returns the raw text the model produced for prompt
	GenerateContent(ctx context.Context, prompt string) (string, error)
	// Model returns the provider model name
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig(ProviderGroq)
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	case ProviderGroq:
		return NewGroqClient(config, apiKey, nil), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", config.Provider)
	}
}
