// Package llm provides text-generation clients for the enrichment features.
package llm

import (
	"fmt"
	"strings"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGroq is Groq's OpenAI-compatible chat completions API
	ProviderGroq Provider = "groq"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Default model names per provider
const (
	DefaultGroqModel   = "openai/gpt-oss-20b"
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"
)

// Config holds the model configuration for one provider
type Config struct {
	Provider    Provider
	Model       string
	BaseURL     string // only used by HTTP providers
	Temperature float32
}

// DefaultConfig returns the default configuration for a provider
func DefaultConfig(p Provider) *Config {
	switch p {
	case ProviderGemini:
		return &Config{Provider: ProviderGemini, Model: DefaultGeminiModel, Temperature: 0.2}
	default:
		return &Config{Provider: ProviderGroq, Model: DefaultGroqModel, BaseURL: DefaultGroqBaseURL, Temperature: 1}
	}
}

// ParseProvider maps a configuration string to a Provider
func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderGroq, "":
		return ProviderGroq, nil
	case ProviderGemini:
		return ProviderGemini, nil
	}
	return "", fmt.Errorf("unknown llm provider %q", s)
}

// WithModel returns a copy of the config using model, or c itself when model is empty
func (c *Config) WithModel(model string) *Config {
	if model == "" {
		return c
	}
	out := *c
	out.Model = model
	return &out
}
