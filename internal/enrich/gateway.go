package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/resume"
	"go.uber.org/zap"
)

// DefaultTimeout bounds one provider call when no timeout is configured
const DefaultTimeout = 60 * time.Second

// FeedbackKey is the extra key the enhance answer carries
const FeedbackKey = "feedback"

// ClientFactory builds a provider client for one call
type ClientFactory func(ctx context.Context, apiKey string) (llm.Client, error)

// Gateway runs adapt and enhance calls against one provider
type Gateway struct {
	newClient ClientFactory
	timeout   time.Duration
	logger    *zap.Logger
}

// Option configures a Gateway
type Option func(*Gateway)

// WithTimeout sets the per-call timeout
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithClientFactory replaces the provider client constructor
func WithClientFactory(f ClientFactory) Option {
	return func(g *Gateway) {
		g.newClient = f
	}
}

// NewGateway creates a Gateway for the given provider configuration
func NewGateway(cfg *llm.Config, opts ...Option) *Gateway {
	g := &Gateway{
		newClient: func(ctx context.Context, apiKey string) (llm.Client, error) {
			return llm.NewClient(ctx, cfg, apiKey)
		},
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Adapt asks the provider to tailor doc to a job description and returns the
// candidate document. doc is not modified.
func (g *Gateway) Adapt(ctx context.Context, doc *resume.Document, jobDescription, credential string) (*resume.Document, error) {
	if credential == "" {
		return nil, ErrNoCredential
	}
	encoded, err := encodeDocument(doc)
	if err != nil {
		return nil, err
	}
	prompt, err := prompts.Render(prompts.EnrichmentFile, prompts.KeyAdapt, map[string]string{
		"Resume":         encoded,
		"JobDescription": jobDescription,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render adapt prompt: %w", err)
	}

	obj, err := g.call(ctx, "adapt", prompt, credential)
	if err != nil {
		return nil, err
	}
	return resume.Normalize(obj), nil
}

// Enhance asks the provider to improve doc. The answer's feedback field is
// returned separately and never becomes part of the candidate.
func (g *Gateway) Enhance(ctx context.Context, doc *resume.Document, credential string) (*resume.Document, string, error) {
	if credential == "" {
		return nil, "", ErrNoCredential
	}
	encoded, err := encodeDocument(doc)
	if err != nil {
		return nil, "", err
	}
	prompt, err := prompts.Render(prompts.EnrichmentFile, prompts.KeyEnhance, map[string]string{
		"Resume": encoded,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to render enhance prompt: %w", err)
	}

	obj, err := g.call(ctx, "enhance", prompt, credential)
	if err != nil {
		return nil, "", err
	}
	feedback := feedbackText(obj[FeedbackKey])
	delete(obj, FeedbackKey)
	return resume.Normalize(obj), feedback, nil
}

func (g *Gateway) call(ctx context.Context, op, prompt, credential string) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	client, err := g.newClient(ctx, credential)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "failed to create client", Cause: err}
	}
	defer client.Close()

	text, err := client.GenerateContent(ctx, prompt)
	if err != nil {
		timeout := errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
		g.logger.Warn("enrichment call failed",
			zap.String("op", op),
			zap.String("model", client.Model()),
			zap.Bool("timeout", timeout),
			zap.Error(err),
		)
		return nil, &Error{Kind: KindTransport, Message: "provider call failed", Cause: err, Timeout: timeout}
	}

	obj, err := llm.ExtractJSONObject(text)
	if err != nil {
		kind := KindMalformedJSON
		if errors.Is(err, llm.ErrNoJSONFound) {
			kind = KindNoJSONFound
		}
		g.logger.Warn("enrichment answer unusable",
			zap.String("op", op),
			zap.String("kind", string(kind)),
			zap.Int("response_bytes", len(text)),
		)
		return nil, &Error{Kind: kind, Message: "could not parse provider answer", Cause: err}
	}

	g.logger.Info("enrichment completed",
		zap.String("op", op),
		zap.String("model", client.Model()),
		zap.Duration("duration", time.Since(start)),
	)
	return obj, nil
}

func encodeDocument(doc *resume.Document) (string, error) {
	if doc == nil {
		doc = &resume.Document{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}
	return string(data), nil
}

// feedbackText flattens the feedback value: lists become one line per item
func feedbackText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []any:
		lines := make([]string, 0, len(t))
		for _, item := range t {
			if s := feedbackText(item); s != "" {
				lines = append(lines, s)
			}
		}
		return strings.Join(lines, "\n")
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	}
}
