// Package config provides application settings built on Viper.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultConfigName = "config"
	defaultConfigType = "yaml"
	envPrefix         = "QH"
)

// Load reads the configuration from environment variables and an optional
// config file, applies defaults, and validates the result.
//
// Priority order (highest to lowest):
//  1. Environment variables (prefixed with QH_, e.g. QH_AI_OPENAI_API_KEY)
//  2. config.yaml (local development convenience)
//  3. Default values
//
// Pass an empty path to use the default search locations.
func Load(configPath string) (*Settings, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName(defaultConfigName)
	v.SetConfigType(defaultConfigType)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/qualityhub-ai")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults carry the load.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, &ConfigError{Op: "read", Err: err}
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, &ConfigError{Op: "unmarshal", Err: err}
	}

	// Viper leaves comma-separated env values as single strings.
	settings.API.Keys = splitCommaList(settings.API.Keys)
	settings.API.CORSOrigins = splitCommaList(settings.API.CORSOrigins)

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return &settings, nil
}

// setDefaults registers every configuration key so AutomaticEnv can resolve
// env-only values during Unmarshal.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "QualityHub AI Service")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout_seconds", 30)
	v.SetDefault("server.write_timeout_seconds", 60)
	v.SetDefault("server.shutdown_timeout_seconds", 15)

	// API defaults
	v.SetDefault("api.prefix", "/api/v1")
	v.SetDefault("api.keys", []string{})
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000", "http://localhost:5173"})

	// AI provider defaults
	v.SetDefault("ai.default_provider", ProviderAnthropic)
	v.SetDefault("ai.timeout_seconds", 60)
	v.SetDefault("ai.openai.api_key", "")
	v.SetDefault("ai.openai.model", "gpt-4o")
	v.SetDefault("ai.openai.max_tokens", 4096)
	v.SetDefault("ai.openai.temperature", 0.7)
	v.SetDefault("ai.anthropic.api_key", "")
	v.SetDefault("ai.anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("ai.anthropic.max_tokens", 4096)
	v.SetDefault("ai.anthropic.temperature", 0.7)

	// Generation limits
	v.SetDefault("limits.max_test_cases_per_request", 20)
	v.SetDefault("limits.max_bdd_scenarios_per_request", 10)
}

// splitCommaList expands entries like "a,b,c" into separate elements and
// trims surrounding whitespace from each.
func splitCommaList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
