// Package llm provides a uniform client interface over the supported LLM vendors.
package llm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/qualityhub/ai-service/internal/config"
)

// registry maps provider names to adapter constructors. The provider set is
// closed; exactly two adapters exist, so no runtime discovery is needed.
var registry = map[string]func(settings *config.Settings, opts ...Option) Client{
	config.ProviderOpenAI: func(settings *config.Settings, opts ...Option) Client {
		return NewOpenAIClient(settings, opts...)
	},
	config.ProviderAnthropic: func(settings *config.Settings, opts ...Option) Client {
		return NewAnthropicClient(settings, opts...)
	},
}

// NewClient creates an adapter for the named provider. Unknown providers
// produce an error naming the valid ones.
func NewClient(settings *config.Settings, provider string, opts ...Option) (Client, error) {
	build, ok := registry[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s. Available providers: %s",
			provider, strings.Join(providerNames(), ", "))
	}
	return build(settings, opts...), nil
}

// DefaultClient chooses a provider based on settings. The preferred provider
// is used when its key is configured; otherwise the other configured provider
// takes over, so a misconfigured preference never blocks callers while an
// alternative is usable.
func DefaultClient(settings *config.Settings) (Client, error) {
	switch {
	case settings.AI.DefaultProvider == config.ProviderAnthropic && settings.HasAnthropicKey():
		return NewClient(settings, config.ProviderAnthropic)
	case settings.HasOpenAIKey():
		return NewClient(settings, config.ProviderOpenAI)
	case settings.HasAnthropicKey():
		return NewClient(settings, config.ProviderAnthropic)
	default:
		return nil, newError(KindAuthentication, "",
			"no LLM API keys configured. Set QH_AI_OPENAI_API_KEY or QH_AI_ANTHROPIC_API_KEY environment variable")
	}
}

func providerNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
