// Package llm provides a uniform client interface over the supported LLM
// vendors (OpenAI, Anthropic). It uses the Adapter pattern to hide each
// vendor's wire format, authentication scheme, and error shapes behind a
// common contract, the way callers would use a single provider.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Message roles accepted in a Prompt.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged message in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Prompt is a complete multi-message request to a vendor.
//
// Temperature and MaxTokens override the client defaults when set; Model
// overrides the client's configured model when non-empty.
type Prompt struct {
	Messages    []Message
	Temperature *float64
	MaxTokens   int
	Model       string
}

// Validate checks the prompt's structural invariants: at least one message,
// and at most one system message which must come first.
func (p *Prompt) Validate() error {
	if len(p.Messages) == 0 {
		return fmt.Errorf("prompt must contain at least one message")
	}
	for i, msg := range p.Messages {
		switch msg.Role {
		case RoleSystem, RoleUser, RoleAssistant:
		default:
			return fmt.Errorf("message %d has invalid role %q", i, msg.Role)
		}
		if msg.Role == RoleSystem && i != 0 {
			return fmt.Errorf("system message must be the first message")
		}
	}
	return nil
}

// Response is the normalized result of one completion call. It is immutable
// once constructed and owned exclusively by the caller that receives it.
type Response struct {
	// Content is the generated text.
	Content string

	// Model is the model identifier the vendor actually used.
	Model string

	// PromptTokens is the input token count.
	PromptTokens int

	// CompletionTokens is the output token count.
	CompletionTokens int

	// TotalTokens is the combined token count.
	TotalTokens int

	// FinishReason is the vendor's stop reason, if reported.
	FinishReason string

	// Raw is the unparsed vendor payload, retained for diagnostics.
	Raw json.RawMessage
}

// Client is the contract every vendor adapter satisfies.
type Client interface {
	// Complete sends a full multi-message prompt. When jsonMode is true the
	// adapter requests the vendor's structured-output mode if natively
	// supported, or injects a JSON-only instruction otherwise.
	Complete(ctx context.Context, prompt Prompt, jsonMode bool) (*Response, error)

	// CompleteSimple builds a two-message prompt from a system and a user
	// string using the client's configured defaults.
	CompleteSimple(ctx context.Context, systemPrompt, userPrompt string, jsonMode bool) (*Response, error)

	// Provider returns the adapter's identity tag ("openai" or "anthropic").
	Provider() string
}

// Option configures an adapter at construction time.
type Option func(*clientOptions)

type clientOptions struct {
	apiKey      string
	model       string
	temperature *float64
	maxTokens   int
	timeout     time.Duration
	baseURL     string
	httpClient  *http.Client
}

// WithAPIKey sets an explicit vendor API key, overriding settings.
func WithAPIKey(key string) Option {
	return func(o *clientOptions) { o.apiKey = key }
}

// WithModel sets an explicit model, overriding the settings default.
func WithModel(model string) Option {
	return func(o *clientOptions) { o.model = model }
}

// WithTemperature sets an explicit default sampling temperature.
func WithTemperature(temperature float64) Option {
	return func(o *clientOptions) { o.temperature = &temperature }
}

// WithMaxTokens sets an explicit default output token limit.
func WithMaxTokens(maxTokens int) Option {
	return func(o *clientOptions) { o.maxTokens = maxTokens }
}

// WithTimeout sets the vendor HTTP request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) { o.timeout = timeout }
}

// WithBaseURL sets a custom vendor API base URL, mainly for tests.
func WithBaseURL(url string) Option {
	return func(o *clientOptions) { o.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = client }
}

func applyOptions(opts []Option) clientOptions {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// clampTemperature bounds a temperature into [0, max]. Out-of-range values
// are clamped rather than rejected so a single normalized configuration can
// be used with either vendor.
func clampTemperature(temperature, max float64) float64 {
	if temperature < 0.0 {
		return 0.0
	}
	if temperature > max {
		return max
	}
	return temperature
}

// jsonOnlyInstruction is injected into the system content for vendors
// without a native structured-output mode.
const jsonOnlyInstruction = "You must respond with valid JSON only. " +
	"Do not include any text before or after the JSON object."
