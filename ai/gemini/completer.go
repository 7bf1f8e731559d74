package gemini

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/poiesic/enrichproxy/ai"
	"google.golang.org/genai"
)

// Completer implements ai.Completer on the Gemini API.
type Completer struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

var _ ai.Completer = (*Completer)(nil)

func newCompleter(ctx context.Context, config *ai.Config) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	cc := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(config.APIKey),
		Backend: genai.BackendGeminiAPI,
	}
	if host := strings.TrimSpace(config.Host); host != "" {
		cc.HTTPOptions.BaseURL = host
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client: client,
		model:  strings.TrimSpace(config.Model),
		logger: slog.Default().With("component", "gemini-completer"),
	}, nil
}

// NewCompleter creates a Gemini completer.
func NewCompleter(ctx context.Context, config *ai.Config) (ai.Completer, error) {
	return newCompleter(ctx, config)
}

// Model returns the configured model identifier.
func (c *Completer) Model() string {
	return c.model
}

// Complete asks for a single JSON candidate at temperature 0.
func (c *Completer) Complete(ctx context.Context, system, user string) (string, error) {
	var temperature float32

	resp, err := c.client.Models.GenerateContent(
		ctx,
		c.model,
		genai.Text(user),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
			Temperature:       &temperature,
			CandidateCount:    1,
			ResponseMIMEType:  "application/json",
		},
	)
	if err != nil {
		c.logger.Error("failed to generate content", "err", err)
		return "", classifyErr(err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", &ai.ServiceError{Code: ai.CodeInvalidResponse, Message: "empty response from model"}
	}
	return text, nil
}

// classifyErr maps API rejections to *ai.ServiceError and everything else,
// such as network failures, to *ai.ClientError.
func classifyErr(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ai.ServiceError{
			StatusCode: apiErr.Code,
			Code:       apiErr.Status,
			Message:    apiErr.Message,
		}
	}
	return &ai.ClientError{Err: err}
}
