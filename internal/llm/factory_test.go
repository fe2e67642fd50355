package llm

import (
	"testing"

	"github.com/qualityhub/ai-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	settings := testSettings()

	tests := []struct {
		name         string
		provider     string
		wantProvider string
		wantErr      bool
	}{
		{name: "openai", provider: "openai", wantProvider: config.ProviderOpenAI},
		{name: "anthropic", provider: "anthropic", wantProvider: config.ProviderAnthropic},
		{name: "unknown", provider: "gemini", wantErr: true},
		{name: "empty", provider: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(settings, tt.provider)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown provider")
				assert.Contains(t, err.Error(), "Available providers")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantProvider, client.Provider())
		})
	}
}

func TestDefaultClient(t *testing.T) {
	tests := []struct {
		name         string
		preferred    string
		openAIKey    string
		anthropicKey string
		wantProvider string
		wantErr      bool
	}{
		{
			name:         "preferred anthropic with key",
			preferred:    config.ProviderAnthropic,
			anthropicKey: "sk-ant-x",
			openAIKey:    "sk-x",
			wantProvider: config.ProviderAnthropic,
		},
		{
			name:         "preferred openai with key",
			preferred:    config.ProviderOpenAI,
			openAIKey:    "sk-x",
			wantProvider: config.ProviderOpenAI,
		},
		{
			name:         "preferred anthropic falls back to openai",
			preferred:    config.ProviderAnthropic,
			openAIKey:    "sk-x",
			wantProvider: config.ProviderOpenAI,
		},
		{
			name:         "preferred openai falls back to anthropic",
			preferred:    config.ProviderOpenAI,
			anthropicKey: "sk-ant-x",
			wantProvider: config.ProviderAnthropic,
		},
		{
			name:      "no keys at all",
			preferred: config.ProviderAnthropic,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := testSettings()
			settings.AI.DefaultProvider = tt.preferred
			settings.AI.OpenAI.APIKey = tt.openAIKey
			settings.AI.Anthropic.APIKey = tt.anthropicKey

			client, err := DefaultClient(settings)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsAuthenticationError(err))
				assert.Contains(t, err.Error(), "no LLM API keys configured")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantProvider, client.Provider())
		})
	}
}
