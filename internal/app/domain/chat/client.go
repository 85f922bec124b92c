package chat

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/japasea/japasea-server/internal/app/models"
)

// generateTimeout bounds a single upstream call; the Gemini SDK alone has no
// request deadline.
const generateTimeout = 30 * time.Second

// GenerativeClient sends one prompt to a text-generation model and returns
// the raw response text.
type GenerativeClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var _ GenerativeClient = (*GeminiClient)(nil)

// GeminiClient talks to the Gemini API. Thinking is disabled and the
// temperature kept low: the pipeline wants fast, parseable JSON, not prose.
type GeminiClient struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGeminiClient builds the client. A missing API key is not a construction
// error; it surfaces as models.ErrUpstreamUnavailable on the first Generate
// call so the server can boot in environments without the credential.
func NewGeminiClient(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiClient, error) {
	c := &GeminiClient{model: model, logger: logger}
	if apiKey == "" {
		logger.Warn("GEMINI_API_KEY is not set, chat endpoint will answer 500 until configured")
		return c, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	c.client = client
	return c, nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "Generate", trace.WithAttributes(
		attribute.Int("prompt.length", len(prompt)),
		attribute.String("model", c.model),
	))
	defer span.End()

	if c.client == nil {
		span.SetStatus(codes.Error, "API key not configured")
		return "", models.ErrUpstreamUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.2),
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr[int32](0),
		},
	}

	start := time.Now()
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to generate content")
		c.logger.Error("Gemini call failed", zap.Error(err), zap.String("model", c.model))
		return "", fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}

	responseText := result.Text()
	if responseText == "" {
		err := fmt.Errorf("%w: empty response", models.ErrUpstream)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Empty response from model")
		return "", err
	}

	span.SetAttributes(
		attribute.Int("response.length", len(responseText)),
		attribute.Int64("response.latency_ms", time.Since(start).Milliseconds()),
	)
	span.SetStatus(codes.Ok, "Content generated")
	return responseText, nil
}
