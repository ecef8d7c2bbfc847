package extract

import (
	"context"
	"errors"
	"strings"

	"github.com/hifzlog/hifzlog/internal/llm"
)

// ErrEmptyUtterance is returned for blank input before any network call.
var ErrEmptyUtterance = errors.New("utterance is empty")

// Config holds extraction call limits.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the extraction defaults. Temperature stays at 0:
// extraction should be deterministic, not creative.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1024,
		Temperature: 0,
	}
}

// Client turns one utterance plus optional conversation context into a
// validated ExtractionResult. It is stateless and safe for concurrent use.
type Client struct {
	provider llm.Provider
	config   Config
}

// NewClient creates an extraction client over the given provider.
func NewClient(provider llm.Provider, cfg Config) *Client {
	return &Client{provider: provider, config: cfg}
}

// Extract sends the utterance to the model with the extraction schema and
// returns the validated result. On failure the error is a *Failure
// carrying the classified kind, except for blank input which returns
// ErrEmptyUtterance without touching the network.
func (c *Client) Extract(ctx context.Context, utterance string, cctx Context) (*ExtractionResult, error) {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return nil, ErrEmptyUtterance
	}

	ctx = llm.WithPurpose(ctx, "extraction")

	req := llm.Request{
		System: systemPrompt + "\n" + taxonomyReminder(),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(utterance, cctx)},
		},
		Schema:      ResultSchema,
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
	}

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		return nil, classify(err)
	}

	result, err := Validate(resp.Content)
	if err != nil {
		return nil, classify(err)
	}

	return result, nil
}
