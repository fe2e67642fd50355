// Package llm provides a uniform client interface over the supported LLM vendors.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/qualityhub/ai-service/internal/config"
)

const (
	// DefaultAnthropicBaseURL is the default Anthropic API endpoint.
	DefaultAnthropicBaseURL = "https://api.anthropic.com"

	// DefaultAnthropicModel is the hardcoded fallback when neither an
	// explicit model nor a settings default is available.
	DefaultAnthropicModel = "claude-3-sonnet-20240229"

	// anthropicVersion is the required API version header value.
	anthropicVersion = "2023-06-01"

	// anthropicMaxTemperature is the upper bound of Anthropic's temperature range.
	anthropicMaxTemperature = 1.0
)

// AnthropicClient implements Client for the Anthropic messages API.
type AnthropicClient struct {
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	baseURL     string
	httpClient  *http.Client
}

// NewAnthropicClient creates an Anthropic adapter. Explicit options take
// priority, then settings values, then hardcoded fallbacks.
func NewAnthropicClient(settings *config.Settings, opts ...Option) *AnthropicClient {
	o := applyOptions(opts)

	c := &AnthropicClient{
		apiKey:      o.apiKey,
		model:       o.model,
		temperature: settings.AI.Anthropic.Temperature,
		maxTokens:   o.maxTokens,
		baseURL:     strings.TrimSuffix(o.baseURL, "/"),
	}

	if c.apiKey == "" {
		c.apiKey = settings.AI.Anthropic.APIKey
	}
	if c.model == "" {
		c.model = settings.AI.Anthropic.Model
	}
	if c.model == "" {
		c.model = DefaultAnthropicModel
	}
	if o.temperature != nil {
		c.temperature = *o.temperature
	}
	if c.maxTokens <= 0 {
		c.maxTokens = settings.AI.Anthropic.MaxTokens
	}
	if c.maxTokens <= 0 {
		c.maxTokens = 4096
	}
	if c.baseURL == "" {
		c.baseURL = DefaultAnthropicBaseURL
	}

	timeout := o.timeout
	if timeout <= 0 {
		timeout = time.Duration(settings.AI.TimeoutSeconds) * time.Second
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c.httpClient = o.httpClient
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: timeout}
	}

	return c
}

// Provider returns the adapter identity tag.
func (c *AnthropicClient) Provider() string {
	return config.ProviderAnthropic
}

// Complete sends the prompt to the Anthropic messages endpoint.
//
// Anthropic requires the system content as a separate top-level field, so
// the first system message is promoted out of the message list. Anthropic
// has no native JSON mode; jsonMode appends a JSON-only instruction to the
// system content, synthesizing one when absent.
func (c *AnthropicClient) Complete(ctx context.Context, prompt Prompt, jsonMode bool) (*Response, error) {
	if c.apiKey == "" {
		return nil, newError(KindAuthentication, c.Provider(),
			"Anthropic API key not configured. Set QH_AI_ANTHROPIC_API_KEY or pass an explicit key")
	}
	if err := prompt.Validate(); err != nil {
		return nil, wrapError(KindInvalidRequest, c.Provider(), err, "invalid prompt")
	}

	model := prompt.Model
	if model == "" {
		model = c.model
	}
	temperature := c.temperature
	if prompt.Temperature != nil {
		temperature = *prompt.Temperature
	}
	temperature = clampTemperature(temperature, anthropicMaxTemperature)
	maxTokens := prompt.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	systemContent, remaining := extractSystemMessage(prompt.Messages)

	if jsonMode && systemContent != "" {
		systemContent += "\n\nIMPORTANT: " + jsonOnlyInstruction
	} else if jsonMode {
		systemContent = jsonOnlyInstruction
	}

	wireReq := anthropicMessagesRequest{
		Model:       model,
		Messages:    make([]anthropicMessage, 0, len(remaining)),
		System:      systemContent,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	for _, msg := range remaining {
		wireReq.Messages = append(wireReq.Messages, anthropicMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	body, err := json.Marshal(wireReq)
	if err != nil {
		return nil, wrapError(KindInvalidRequest, c.Provider(), err, "failed to marshal Anthropic request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, wrapError(KindInvalidRequest, c.Provider(), err, "failed to create Anthropic request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, wrapError(KindProvider, c.Provider(), err, "failed to connect to Anthropic")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapError(KindProvider, c.Provider(), err, "failed to read Anthropic response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp.StatusCode, respBody)
	}

	var wireResp anthropicMessagesResponse
	if err := json.Unmarshal(respBody, &wireResp); err != nil {
		return nil, wrapError(KindProvider, c.Provider(), err, "failed to unmarshal Anthropic response")
	}

	// An absent or empty reply yields an empty string rather than an error.
	content := ""
	if len(wireResp.Content) > 0 {
		content = wireResp.Content[0].Text
	}

	// Anthropic reports only input/output counts; total is computed.
	return &Response{
		Content:          content,
		Model:            wireResp.Model,
		PromptTokens:     wireResp.Usage.InputTokens,
		CompletionTokens: wireResp.Usage.OutputTokens,
		TotalTokens:      wireResp.Usage.InputTokens + wireResp.Usage.OutputTokens,
		FinishReason:     wireResp.StopReason,
		Raw:              json.RawMessage(respBody),
	}, nil
}

// CompleteSimple builds a two-message prompt with the client's configured
// defaults and delegates to Complete.
func (c *AnthropicClient) CompleteSimple(ctx context.Context, systemPrompt, userPrompt string, jsonMode bool) (*Response, error) {
	prompt := Prompt{
		Messages: []Message{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: userPrompt},
		},
	}
	return c.Complete(ctx, prompt, jsonMode)
}

// apiError maps a non-200 vendor reply onto the shared error taxonomy.
func (c *AnthropicClient) apiError(status int, body []byte) *Error {
	message := strings.TrimSpace(string(body))
	var wireErr anthropicErrorResponse
	if err := json.Unmarshal(body, &wireErr); err == nil && wireErr.Error.Message != "" {
		message = wireErr.Error.Message
	}
	return newError(errorKindFromStatus(status), c.Provider(),
		"Anthropic API error [%d]: %s", status, message)
}

// extractSystemMessage pulls the first system message out of the list and
// returns its content plus the remaining messages in their original order.
func extractSystemMessage(messages []Message) (string, []Message) {
	systemContent := ""
	remaining := make([]Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == RoleSystem && systemContent == "" {
			systemContent = msg.Content
			continue
		}
		remaining = append(remaining, msg)
	}
	return systemContent, remaining
}

// ============================================================================
// Anthropic API Types
// ============================================================================

// anthropicMessagesRequest is a messages API request body.
type anthropicMessagesRequest struct {
	Model       string             `json:"model"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature"`
	MaxTokens   int                `json:"max_tokens"`
}

// anthropicMessage is a single conversation message.
type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicMessagesResponse is a messages API response body.
type anthropicMessagesResponse struct {
	ID         string                  `json:"id"`
	Model      string                  `json:"model"`
	Content    []anthropicContentBlock `json:"content"`
	StopReason string                  `json:"stop_reason"`
	Usage      anthropicUsage          `json:"usage"`
}

// anthropicContentBlock is one block of generated content.
type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// anthropicUsage reports token accounting as input/output counts only.
type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// anthropicErrorResponse is the vendor error envelope.
type anthropicErrorResponse struct {
	Error anthropicErrorDetail `json:"error"`
}

// anthropicErrorDetail contains error details.
type anthropicErrorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
