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
	// DefaultOpenAIBaseURL is the default OpenAI API endpoint.
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"

	// DefaultOpenAIModel is the hardcoded fallback when neither an explicit
	// model nor a settings default is available.
	DefaultOpenAIModel = "gpt-4-turbo-preview"

	// openAIMaxTemperature is the upper bound of OpenAI's temperature range.
	openAIMaxTemperature = 2.0

	// DefaultTimeout is the vendor HTTP timeout when settings carry none.
	DefaultTimeout = 60 * time.Second
)

// OpenAIClient implements Client for the OpenAI chat completions API.
type OpenAIClient struct {
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	baseURL     string
	httpClient  *http.Client
}

// NewOpenAIClient creates an OpenAI adapter. Explicit options take priority,
// then settings values, then hardcoded fallbacks.
func NewOpenAIClient(settings *config.Settings, opts ...Option) *OpenAIClient {
	o := applyOptions(opts)

	c := &OpenAIClient{
		apiKey:      o.apiKey,
		model:       o.model,
		temperature: settings.AI.OpenAI.Temperature,
		maxTokens:   o.maxTokens,
		baseURL:     strings.TrimSuffix(o.baseURL, "/"),
	}

	if c.apiKey == "" {
		c.apiKey = settings.AI.OpenAI.APIKey
	}
	if c.model == "" {
		c.model = settings.AI.OpenAI.Model
	}
	if c.model == "" {
		c.model = DefaultOpenAIModel
	}
	if o.temperature != nil {
		c.temperature = *o.temperature
	}
	if c.maxTokens <= 0 {
		c.maxTokens = settings.AI.OpenAI.MaxTokens
	}
	if c.maxTokens <= 0 {
		c.maxTokens = 4096
	}
	if c.baseURL == "" {
		c.baseURL = DefaultOpenAIBaseURL
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
func (c *OpenAIClient) Provider() string {
	return config.ProviderOpenAI
}

// Complete sends the prompt to the OpenAI chat completions endpoint.
// OpenAI accepts a flat message list with an inline system role, so the
// messages pass through unchanged; jsonMode maps to the native
// response_format json_object mode.
func (c *OpenAIClient) Complete(ctx context.Context, prompt Prompt, jsonMode bool) (*Response, error) {
	if c.apiKey == "" {
		return nil, newError(KindAuthentication, c.Provider(),
			"OpenAI API key not configured. Set QH_AI_OPENAI_API_KEY or pass an explicit key")
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
	temperature = clampTemperature(temperature, openAIMaxTemperature)
	maxTokens := prompt.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	wireReq := openAIChatRequest{
		Model:       model,
		Messages:    make([]openAIChatMessage, 0, len(prompt.Messages)),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	for _, msg := range prompt.Messages {
		wireReq.Messages = append(wireReq.Messages, openAIChatMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	if jsonMode {
		wireReq.ResponseFormat = &openAIResponseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(wireReq)
	if err != nil {
		return nil, wrapError(KindInvalidRequest, c.Provider(), err, "failed to marshal OpenAI request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, wrapError(KindInvalidRequest, c.Provider(), err, "failed to create OpenAI request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, wrapError(KindProvider, c.Provider(), err, "failed to connect to OpenAI")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapError(KindProvider, c.Provider(), err, "failed to read OpenAI response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp.StatusCode, respBody)
	}

	var wireResp openAIChatResponse
	if err := json.Unmarshal(respBody, &wireResp); err != nil {
		return nil, wrapError(KindProvider, c.Provider(), err, "failed to unmarshal OpenAI response")
	}

	// An absent or empty reply yields an empty string rather than an error.
	content := ""
	finishReason := ""
	if len(wireResp.Choices) > 0 {
		content = wireResp.Choices[0].Message.Content
		finishReason = wireResp.Choices[0].FinishReason
	}

	return &Response{
		Content:          content,
		Model:            wireResp.Model,
		PromptTokens:     wireResp.Usage.PromptTokens,
		CompletionTokens: wireResp.Usage.CompletionTokens,
		TotalTokens:      wireResp.Usage.TotalTokens,
		FinishReason:     finishReason,
		Raw:              json.RawMessage(respBody),
	}, nil
}

// CompleteSimple builds a two-message prompt with the client's configured
// defaults and delegates to Complete.
func (c *OpenAIClient) CompleteSimple(ctx context.Context, systemPrompt, userPrompt string, jsonMode bool) (*Response, error) {
	prompt := Prompt{
		Messages: []Message{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: userPrompt},
		},
	}
	return c.Complete(ctx, prompt, jsonMode)
}

// apiError maps a non-200 vendor reply onto the shared error taxonomy.
func (c *OpenAIClient) apiError(status int, body []byte) *Error {
	message := strings.TrimSpace(string(body))
	var wireErr openAIErrorResponse
	if err := json.Unmarshal(body, &wireErr); err == nil && wireErr.Error.Message != "" {
		message = wireErr.Error.Message
	}
	return newError(errorKindFromStatus(status), c.Provider(),
		"OpenAI API error [%d]: %s", status, message)
}

// ============================================================================
// OpenAI API Types
// ============================================================================

// openAIChatRequest is a chat completions request body.
type openAIChatRequest struct {
	Model          string                `json:"model"`
	Messages       []openAIChatMessage   `json:"messages"`
	Temperature    float64               `json:"temperature"`
	MaxTokens      int                   `json:"max_tokens"`
	ResponseFormat *openAIResponseFormat `json:"response_format,omitempty"`
}

// openAIChatMessage is a single message in OpenAI format.
type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIResponseFormat requests structured output.
type openAIResponseFormat struct {
	Type string `json:"type"`
}

// openAIChatResponse is a chat completions response body.
type openAIChatResponse struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Choices []openAIChoice `json:"choices"`
	Usage   openAIUsage    `json:"usage"`
}

// openAIChoice is a single completion candidate.
type openAIChoice struct {
	Index        int               `json:"index"`
	Message      openAIChatMessage `json:"message"`
	FinishReason string            `json:"finish_reason"`
}

// openAIUsage reports token accounting as prompt/completion/total.
type openAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// openAIErrorResponse is the vendor error envelope.
type openAIErrorResponse struct {
	Error openAIErrorDetail `json:"error"`
}

// openAIErrorDetail contains error details.
type openAIErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}
