package llm

import (
	"testing"

	"github.com/qualityhub/ai-service/internal/config"
)

// testSettings returns a minimal settings value for adapter construction.
func testSettings() *config.Settings {
	return &config.Settings{
		AI: config.AIConfig{
			DefaultProvider: config.ProviderAnthropic,
			OpenAI: config.ProviderConfig{
				Model:       "gpt-4o",
				MaxTokens:   4096,
				Temperature: 0.7,
			},
			Anthropic: config.ProviderConfig{
				Model:       "claude-sonnet-4-20250514",
				MaxTokens:   4096,
				Temperature: 0.7,
			},
			TimeoutSeconds: 5,
		},
	}
}

func TestClampTemperature(t *testing.T) {
	tests := []struct {
		name        string
		temperature float64
		max         float64
		want        float64
	}{
		{name: "within openai range", temperature: 1.5, max: 2.0, want: 1.5},
		{name: "above openai max", temperature: 3.0, max: 2.0, want: 2.0},
		{name: "above anthropic max", temperature: 1.5, max: 1.0, want: 1.0},
		{name: "negative clamps to zero", temperature: -0.5, max: 1.0, want: 0.0},
		{name: "zero stays zero", temperature: 0.0, max: 2.0, want: 0.0},
		{name: "exactly at max", temperature: 2.0, max: 2.0, want: 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampTemperature(tt.temperature, tt.max); got != tt.want {
				t.Errorf("clampTemperature(%v, %v) = %v, want %v", tt.temperature, tt.max, got, tt.want)
			}
		})
	}
}

func TestPromptValidate(t *testing.T) {
	tests := []struct {
		name    string
		prompt  Prompt
		wantErr bool
	}{
		{
			name:    "empty messages",
			prompt:  Prompt{},
			wantErr: true,
		},
		{
			name: "single user message",
			prompt: Prompt{Messages: []Message{
				{Role: RoleUser, Content: "hello"},
			}},
			wantErr: false,
		},
		{
			name: "system first",
			prompt: Prompt{Messages: []Message{
				{Role: RoleSystem, Content: "be terse"},
				{Role: RoleUser, Content: "hello"},
			}},
			wantErr: false,
		},
		{
			name: "system not first",
			prompt: Prompt{Messages: []Message{
				{Role: RoleUser, Content: "hello"},
				{Role: RoleSystem, Content: "be terse"},
			}},
			wantErr: true,
		},
		{
			name: "invalid role",
			prompt: Prompt{Messages: []Message{
				{Role: "tool", Content: "output"},
			}},
			wantErr: true,
		},
		{
			name: "assistant turn allowed",
			prompt: Prompt{Messages: []Message{
				{Role: RoleUser, Content: "hello"},
				{Role: RoleAssistant, Content: "hi"},
				{Role: RoleUser, Content: "more"},
			}},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.prompt.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
