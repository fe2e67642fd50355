package handler

import "github.com/qualityhub/ai-service/internal/config"

// ResolveProvider determines which AI provider to use and whether live
// generation is available, based on the configured API keys.
//
// The preferred provider wins when its key is configured; otherwise the
// other configured provider is used. With no keys at all the preferred
// provider name is returned with useAI false, which puts the generators in
// mock mode.
func ResolveProvider(settings *config.Settings) (apiKey, provider string, useAI bool) {
	preferred := settings.AI.DefaultProvider

	switch {
	case preferred == config.ProviderAnthropic && settings.HasAnthropicKey():
		return settings.AI.Anthropic.APIKey, config.ProviderAnthropic, true
	case preferred == config.ProviderOpenAI && settings.HasOpenAIKey():
		return settings.AI.OpenAI.APIKey, config.ProviderOpenAI, true
	case settings.HasOpenAIKey():
		return settings.AI.OpenAI.APIKey, config.ProviderOpenAI, true
	case settings.HasAnthropicKey():
		return settings.AI.Anthropic.APIKey, config.ProviderAnthropic, true
	default:
		return "", preferred, false
	}
}
