// Package analysis sends extracted report text to a hosted LLM and turns the
// response into validated insights. The provider-specific response envelopes
// are normalized behind the Completer interface, so everything past that
// point works on one raw text string.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/sashabaranov/go-openai"
)

// GenerationParams are the per-call generation settings. They are fixed
// constants on the client side; the model output stays format-stable because
// callers cannot tune them.
type GenerationParams struct {
	Temperature float32
	MaxTokens   int
}

// Completer issues one completion request and returns the model's raw text
// output, whatever envelope the provider wrapped it in.
type Completer interface {
	Complete(ctx context.Context, prompt string, params GenerationParams) (string, error)
}

// HTTPError carries the status of a failed provider call so the caller can
// distinguish a request failure from a malformed response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("analysis request failed with status %d: %s", e.StatusCode, e.Body)
}

// EnvelopeError indicates the provider returned 2xx but the response shape
// was not what the adapter expected.
type EnvelopeError struct {
	Detail string
}

func (e *EnvelopeError) Error() string {
	return fmt.Sprintf("unexpected response envelope: %s", e.Detail)
}

// DefaultOpenAIModel is used when no model override is configured.
const DefaultOpenAIModel = openai.GPT4o

// OpenAICompleter adapts the OpenAI chat completions API to Completer.
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

// NewOpenAICompleter creates an adapter for the OpenAI API.
// An empty model selects DefaultOpenAIModel.
func NewOpenAICompleter(apiKey, model string) *OpenAICompleter {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAICompleter{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Complete sends one chat completion request and returns the first choice's
// message content.
func (o *OpenAICompleter) Complete(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &HTTPError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
		}
		return "", fmt.Errorf("openai request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", &EnvelopeError{Detail: "no choices in completion response"}
	}
	return resp.Choices[0].Message.Content, nil
}

// DefaultAnthropicModel is used when no model override is configured.
const DefaultAnthropicModel = string(anthropic.ModelClaudeSonnet4_20250514)

// Messager is the slice of the Anthropic client the adapter needs. Tests
// substitute a fake.
type Messager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicCompleter adapts the Anthropic messages API to Completer.
type AnthropicCompleter struct {
	messages Messager
	model    string
}

// NewAnthropicCompleter creates an adapter for the Anthropic API.
// An empty model selects DefaultAnthropicModel.
func NewAnthropicCompleter(apiKey, model string) *AnthropicCompleter {
	if model == "" {
		model = DefaultAnthropicModel
	}
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicCompleter{
		messages: &c.Messages,
		model:    model,
	}
}

// Complete sends one messages request and concatenates the text blocks of
// the response.
func (a *AnthropicCompleter) Complete(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   int64(params.MaxTokens),
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Temperature: anthropic.Float(float64(params.Temperature)),
	})
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", &EnvelopeError{Detail: "no text blocks in message response"}
	}
	return sb.String(), nil
}
