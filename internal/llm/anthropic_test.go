package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSystemMessage(t *testing.T) {
	tests := []struct {
		name          string
		messages      []Message
		wantSystem    string
		wantRemaining int
	}{
		{
			name: "system promoted",
			messages: []Message{
				{Role: RoleSystem, Content: "be terse"},
				{Role: RoleUser, Content: "hello"},
			},
			wantSystem:    "be terse",
			wantRemaining: 1,
		},
		{
			name: "no system message",
			messages: []Message{
				{Role: RoleUser, Content: "hello"},
			},
			wantSystem:    "",
			wantRemaining: 1,
		},
		{
			name: "order preserved",
			messages: []Message{
				{Role: RoleSystem, Content: "sys"},
				{Role: RoleUser, Content: "first"},
				{Role: RoleAssistant, Content: "second"},
				{Role: RoleUser, Content: "third"},
			},
			wantSystem:    "sys",
			wantRemaining: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			system, remaining := extractSystemMessage(tt.messages)
			if system != tt.wantSystem {
				t.Errorf("system = %q, want %q", system, tt.wantSystem)
			}
			if len(remaining) != tt.wantRemaining {
				t.Fatalf("len(remaining) = %d, want %d", len(remaining), tt.wantRemaining)
			}
			for i := 1; i < len(remaining); i++ {
				// Remaining messages keep their relative order.
				if remaining[i].Role == RoleSystem {
					t.Error("system message left in remaining list")
				}
			}
		})
	}
}

func TestAnthropicComplete(t *testing.T) {
	var gotReq anthropicMessagesRequest
	var gotKey, gotVersion string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(anthropicMessagesResponse{
			ID:         "msg_1",
			Model:      "claude-sonnet-4-20250514",
			Content:    []anthropicContentBlock{{Type: "text", Text: `{"scenarios": []}`}},
			StopReason: "end_turn",
			Usage:      anthropicUsage{InputTokens: 200, OutputTokens: 80},
		})
	}))
	defer server.Close()

	client := NewAnthropicClient(testSettings(),
		WithAPIKey("sk-ant-test"),
		WithBaseURL(server.URL),
	)

	resp, err := client.CompleteSimple(context.Background(), "system text", "user text", true)
	require.NoError(t, err)

	assert.Equal(t, "sk-ant-test", gotKey)
	assert.Equal(t, "2023-06-01", gotVersion)

	// The system message is promoted out of the list with the JSON
	// instruction appended.
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, RoleUser, gotReq.Messages[0].Role)
	assert.True(t, strings.HasPrefix(gotReq.System, "system text"))
	assert.Contains(t, gotReq.System, "IMPORTANT: You must respond with valid JSON only.")

	assert.Equal(t, `{"scenarios": []}`, resp.Content)
	assert.Equal(t, 200, resp.PromptTokens)
	assert.Equal(t, 80, resp.CompletionTokens)
	// Anthropic reports input/output only; the total is computed.
	assert.Equal(t, 280, resp.TotalTokens)
	assert.Equal(t, "end_turn", resp.FinishReason)
}

func TestAnthropicJSONModeWithoutSystem(t *testing.T) {
	var gotReq anthropicMessagesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(anthropicMessagesResponse{Model: "claude"})
	}))
	defer server.Close()

	client := NewAnthropicClient(testSettings(), WithAPIKey("sk-ant-test"), WithBaseURL(server.URL))

	prompt := Prompt{Messages: []Message{{Role: RoleUser, Content: "u"}}}
	_, err := client.Complete(context.Background(), prompt, true)
	require.NoError(t, err)

	assert.Equal(t, "You must respond with valid JSON only. Do not include any text before or after the JSON object.", gotReq.System)
}

func TestAnthropicTemperatureClampedInRequest(t *testing.T) {
	var gotReq anthropicMessagesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(anthropicMessagesResponse{Model: "claude"})
	}))
	defer server.Close()

	client := NewAnthropicClient(testSettings(),
		WithAPIKey("sk-ant-test"),
		WithBaseURL(server.URL),
		WithTemperature(1.5),
	)

	_, err := client.CompleteSimple(context.Background(), "s", "u", false)
	require.NoError(t, err)
	assert.Equal(t, 1.0, gotReq.Temperature)
}

func TestAnthropicCompleteMissingKey(t *testing.T) {
	client := NewAnthropicClient(testSettings())

	_, err := client.CompleteSimple(context.Background(), "s", "u", false)
	require.Error(t, err)
	assert.True(t, IsAuthenticationError(err))
	assert.Contains(t, err.Error(), "QH_AI_ANTHROPIC_API_KEY")
}

func TestAnthropicAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(anthropicErrorResponse{
			Error: anthropicErrorDetail{Type: "rate_limit_error", Message: "slow down"},
		})
	}))
	defer server.Close()

	client := NewAnthropicClient(testSettings(), WithAPIKey("sk-ant-test"), WithBaseURL(server.URL))

	_, err := client.CompleteSimple(context.Background(), "s", "u", false)
	require.Error(t, err)
	assert.True(t, IsRateLimitError(err))
	assert.Contains(t, err.Error(), "slow down")
}

func TestAnthropicEmptyContentTolerated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(anthropicMessagesResponse{Model: "claude"})
	}))
	defer server.Close()

	client := NewAnthropicClient(testSettings(), WithAPIKey("sk-ant-test"), WithBaseURL(server.URL))

	resp, err := client.CompleteSimple(context.Background(), "s", "u", false)
	require.NoError(t, err)
	assert.Equal(t, "", resp.Content)
}
