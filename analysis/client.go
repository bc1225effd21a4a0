package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"r42copilot/core"
	"r42copilot/insight"
	"r42copilot/logging"
)

// Generation settings for the two attempts. The retry runs cooler and
// shorter so the model sticks to the example structure.
var (
	firstAttemptParams = GenerationParams{Temperature: 0.3, MaxTokens: 2000}
	retryAttemptParams = GenerationParams{Temperature: 0.1, MaxTokens: 1500}
)

// ErrUnusableResponse is returned when both attempts produced output that
// could not be parsed and validated as insights.
var ErrUnusableResponse = errors.New("model response could not be understood after retry")

// Client runs the analysis pipeline against one provider.
type Client struct {
	completer Completer
	platforms []PlatformInfo
	timeout   time.Duration
	logger    *logging.Logger
}

// NewClient builds a client around an already constructed Completer.
func NewClient(completer Completer, platforms []PlatformInfo, timeout time.Duration, logger *logging.Logger) *Client {
	if len(platforms) == 0 {
		platforms = DefaultPlatforms()
	}
	return &Client{
		completer: completer,
		platforms: platforms,
		timeout:   timeout,
		logger:    logger,
	}
}

// NewClientFromConfig selects the provider adapter from config. It fails
// fast when the selected provider has no API key, before any network use.
func NewClientFromConfig(cfg *core.Config, logger *logging.Logger) (*Client, error) {
	if cfg.APIKey() == "" {
		return nil, core.ErrMissingAPIKey(cfg.Provider)
	}

	var completer Completer
	switch cfg.Provider {
	case core.ProviderOpenAI:
		completer = NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.Model)
	case core.ProviderAnthropic:
		completer = NewAnthropicCompleter(cfg.AnthropicAPIKey, cfg.Model)
	default:
		return nil, core.ErrUnknownProvider(cfg.Provider)
	}

	platforms, err := LoadPlatforms(cfg.PlatformsFile)
	if err != nil {
		return nil, err
	}
	return NewClient(completer, platforms, cfg.AnalysisTimeout, logger), nil
}

// Analyze sends the report content to the model and returns validated
// insights. A response that fails to parse or validate gets exactly one
// stricter retry; a second failure returns ErrUnusableResponse.
func (c *Client) Analyze(ctx context.Context, req Request) (*insight.Insights, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.logger.Info("starting analysis",
		zap.String("platform", req.Platform),
		zap.String("filename", req.Filename),
		zap.Int("content_chars", len(req.Content)))

	prompt := BuildPrompt(req, c.platforms)
	raw, err := c.completer.Complete(ctx, prompt, firstAttemptParams)
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}

	insights, parseErr := c.interpret(raw)
	if parseErr == nil {
		c.logger.Info("analysis complete",
			zap.String("filename", req.Filename),
			zap.Int("key_metrics", len(insights.KeyMetrics)))
		return insights, nil
	}
	c.logger.Warn("first attempt unusable, retrying with stricter prompt",
		zap.String("filename", req.Filename),
		zap.String("reason", parseErr.Error()))

	raw, err = c.completer.Complete(ctx, BuildRetryPrompt(req), retryAttemptParams)
	if err != nil {
		return nil, fmt.Errorf("analysis retry request failed: %w", err)
	}

	insights, parseErr = c.interpret(raw)
	if parseErr != nil {
		c.logger.Error("retry attempt also unusable",
			zap.String("filename", req.Filename),
			zap.String("reason", parseErr.Error()))
		return nil, fmt.Errorf("%w: %v", ErrUnusableResponse, parseErr)
	}
	c.logger.Info("analysis complete after retry",
		zap.String("filename", req.Filename),
		zap.Int("key_metrics", len(insights.KeyMetrics)))
	return insights, nil
}

// interpret turns one raw model response into validated insights. It tries
// the cleaned text first and falls back to a brace-delimited salvage before
// giving up.
func (c *Client) interpret(raw string) (*insight.Insights, error) {
	cleaned := StripCodeFences(raw)

	ins, err := decodeAndValidate(cleaned)
	if err == nil {
		return ins, nil
	}

	salvaged, ok := SalvageJSON(cleaned)
	if ok && salvaged != cleaned {
		if ins, salvageErr := decodeAndValidate(salvaged); salvageErr == nil {
			return ins, nil
		}
	}
	return nil, err
}

func decodeAndValidate(text string) (*insight.Insights, error) {
	data := []byte(text)
	if err := insight.ValidateRaw(data); err != nil {
		return nil, err
	}
	ins, err := insight.Decode(data)
	if err != nil {
		return nil, err
	}
	if err := insight.Validate(ins); err != nil {
		return nil, err
	}
	return &ins, nil
}
