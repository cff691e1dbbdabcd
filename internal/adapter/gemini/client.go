// Package gemini adapts the Google Gemini API to the domain Advisor interface.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/aquaforesee/water-scenario-service/internal/observability"
)

// Client implements domain.Advisor using the Gemini generative API.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewClient creates a Gemini advisory client. The timeout bounds each
// Generate call independently of the caller's context.
func NewClient(ctx context.Context, apiKey, model string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{
		client:  client,
		model:   model,
		timeout: timeout,
		metrics: metrics,
		logger:  logger,
	}, nil
}

// Generate sends the prompt and returns the raw response text. An empty
// response reports as an error so callers always fall back on silence.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	c.metrics.AdvisoryDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.AdvisoryRequests.WithLabelValues("error").Inc()
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		c.metrics.AdvisoryRequests.WithLabelValues("empty").Inc()
		return "", errors.New("gemini returned an empty response")
	}

	c.metrics.AdvisoryRequests.WithLabelValues("success").Inc()
	c.logger.Debug("gemini response received",
		"model", c.model,
		"chars", len(text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}
