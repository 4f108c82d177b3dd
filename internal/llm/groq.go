package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// APIError is a non-2xx answer from an HTTP provider
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm API error: status %d: %s", e.StatusCode, e.Body)
}

// GroqClient implements Client for Groq's OpenAI-compatible chat completions endpoint
type GroqClient struct {
	client *openai.Client
	config *Config
}

// NewGroqClient creates a new Groq client. A nil httpClient uses http.DefaultClient.
func NewGroqClient(config *Config, apiKey string, httpClient *http.Client) *GroqClient {
	oc := openai.DefaultConfig(apiKey)
	oc.BaseURL = DefaultGroqBaseURL
	if config.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(config.BaseURL, "/")
	}
	if httpClient != nil {
		oc.HTTPClient = httpClient
	}
	return &GroqClient{client: openai.NewClientWithConfig(oc), config: config}
}

// GenerateContent sends prompt as a single user message and returns the first choice
func (c *GroqClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.config.Temperature,
	})
	if err != nil {
		return "", apiError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// apiError maps go-openai's error types onto APIError. Transport failures keep
// their cause so context errors stay visible to errors.Is.
func apiError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		body := ""
		if reqErr.Err != nil {
			body = reqErr.Err.Error()
		}
		return &APIError{StatusCode: reqErr.HTTPStatusCode, Body: body}
	}
	return fmt.Errorf("failed to call chat completions: %w", err)
}

// Model returns the configured model name
func (c *GroqClient) Model() string {
	return c.config.Model
}

// Close is a no-op; the HTTP client is shared
func (c *GroqClient) Close() error {
	return nil
}
