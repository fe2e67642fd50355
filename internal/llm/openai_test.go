package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIComplete(t *testing.T) {
	var gotReq openAIChatRequest
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(openAIChatResponse{
			ID:    "chatcmpl-1",
			Model: "gpt-4o-2024-08-06",
			Choices: []openAIChoice{{
				Message:      openAIChatMessage{Role: "assistant", Content: `{"test_cases": []}`},
				FinishReason: "stop",
			}},
			Usage: openAIUsage{PromptTokens: 120, CompletionTokens: 40, TotalTokens: 160},
		})
	}))
	defer server.Close()

	client := NewOpenAIClient(testSettings(),
		WithAPIKey("sk-test"),
		WithBaseURL(server.URL),
	)

	resp, err := client.CompleteSimple(context.Background(), "system text", "user text", true)
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, RoleSystem, gotReq.Messages[0].Role)
	assert.Equal(t, "system text", gotReq.Messages[0].Content)
	require.NotNil(t, gotReq.ResponseFormat)
	assert.Equal(t, "json_object", gotReq.ResponseFormat.Type)

	assert.Equal(t, `{"test_cases": []}`, resp.Content)
	assert.Equal(t, "gpt-4o-2024-08-06", resp.Model)
	assert.Equal(t, 120, resp.PromptTokens)
	assert.Equal(t, 40, resp.CompletionTokens)
	assert.Equal(t, 160, resp.TotalTokens)
	assert.Equal(t, "stop", resp.FinishReason)
}

func TestOpenAICompleteNoJSONMode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openAIChatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.ResponseFormat != nil {
			t.Error("response_format sent without jsonMode")
		}
		json.NewEncoder(w).Encode(openAIChatResponse{Model: "gpt-4o"})
	}))
	defer server.Close()

	client := NewOpenAIClient(testSettings(), WithAPIKey("sk-test"), WithBaseURL(server.URL))

	resp, err := client.CompleteSimple(context.Background(), "s", "u", false)
	require.NoError(t, err)
	// Empty choices yield an empty string, not an error.
	assert.Equal(t, "", resp.Content)
}

func TestOpenAICompleteMissingKey(t *testing.T) {
	client := NewOpenAIClient(testSettings(), WithBaseURL("http://127.0.0.1:0"))

	_, err := client.CompleteSimple(context.Background(), "s", "u", false)
	require.Error(t, err)
	assert.True(t, IsAuthenticationError(err))
	assert.Contains(t, err.Error(), "QH_AI_OPENAI_API_KEY")
}

func TestOpenAICompleteInvalidPrompt(t *testing.T) {
	client := NewOpenAIClient(testSettings(), WithAPIKey("sk-test"))

	_, err := client.Complete(context.Background(), Prompt{}, false)
	require.Error(t, err)
	assert.True(t, IsInvalidRequestError(err))
}

func TestOpenAIAPIErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{name: "401 authentication", status: http.StatusUnauthorized, check: IsAuthenticationError},
		{name: "403 authentication", status: http.StatusForbidden, check: IsAuthenticationError},
		{name: "429 rate limit", status: http.StatusTooManyRequests, check: IsRateLimitError},
		{name: "400 invalid request", status: http.StatusBadRequest, check: IsInvalidRequestError},
		{name: "500 provider", status: http.StatusInternalServerError, check: IsProviderError},
		{name: "503 provider", status: http.StatusServiceUnavailable, check: IsProviderError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(openAIErrorResponse{
					Error: openAIErrorDetail{Message: "vendor says no", Type: "test"},
				})
			}))
			defer server.Close()

			client := NewOpenAIClient(testSettings(), WithAPIKey("sk-test"), WithBaseURL(server.URL))

			_, err := client.CompleteSimple(context.Background(), "s", "u", false)
			require.Error(t, err)
			assert.True(t, tt.check(err), "wrong error kind for status %d: %v", tt.status, err)
			assert.True(t, IsClientError(err))
			assert.Contains(t, err.Error(), "vendor says no")
		})
	}
}

func TestOpenAIConnectFailure(t *testing.T) {
	// Point at a closed server so the connection is refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewOpenAIClient(testSettings(), WithAPIKey("sk-test"), WithBaseURL(server.URL))

	_, err := client.CompleteSimple(context.Background(), "s", "u", false)
	require.Error(t, err)
	assert.True(t, IsProviderError(err))
}

func TestOpenAITemperatureClampedInRequest(t *testing.T) {
	var gotReq openAIChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(openAIChatResponse{Model: "gpt-4o"})
	}))
	defer server.Close()

	client := NewOpenAIClient(testSettings(),
		WithAPIKey("sk-test"),
		WithBaseURL(server.URL),
		WithTemperature(3.5),
	)

	_, err := client.CompleteSimple(context.Background(), "s", "u", false)
	require.NoError(t, err)
	assert.Equal(t, 2.0, gotReq.Temperature)
}

func TestOpenAIZeroTemperatureHonored(t *testing.T) {
	var gotReq openAIChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(openAIChatResponse{Model: "gpt-4o"})
	}))
	defer server.Close()

	client := NewOpenAIClient(testSettings(), WithAPIKey("sk-test"), WithBaseURL(server.URL))

	zero := 0.0
	prompt := Prompt{
		Messages:    []Message{{Role: RoleUser, Content: "u"}},
		Temperature: &zero,
	}
	_, err := client.Complete(context.Background(), prompt, false)
	require.NoError(t, err)
	assert.Equal(t, 0.0, gotReq.Temperature)
}
