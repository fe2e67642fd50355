// Package config provides application settings loaded from environment
// variables and an optional config.yaml using Viper. The Settings value is
// constructed once at startup and passed by reference into the components
// that need it; it is never mutated after Load returns.
package config

import "fmt"

// Provider names accepted in ai.default_provider and by the client factory.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Settings holds all application configuration values.
type Settings struct {
	// App holds service identity and runtime environment settings.
	App AppConfig `json:"app" mapstructure:"app"`

	// Server holds HTTP server bind and timeout settings.
	Server ServerConfig `json:"server" mapstructure:"server"`

	// API holds routing prefix, service API keys, and CORS settings.
	API APIConfig `json:"api" mapstructure:"api"`

	// AI holds the LLM provider configuration.
	AI AIConfig `json:"ai" mapstructure:"ai"`

	// Limits bounds generation request parameters.
	Limits LimitsConfig `json:"limits" mapstructure:"limits"`
}

// AppConfig holds service identity settings.
type AppConfig struct {
	// Name is the human-readable service name.
	Name string `json:"name" mapstructure:"name"`

	// Version is the service version reported by health checks.
	Version string `json:"version" mapstructure:"version"`

	// Environment is one of development, staging, production.
	Environment string `json:"environment" mapstructure:"environment"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `json:"log_level" mapstructure:"log_level"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	// Host is the server bind address.
	Host string `json:"host" mapstructure:"host"`

	// Port is the server port number.
	Port int `json:"port" mapstructure:"port"`

	// ReadTimeoutSeconds is the maximum duration for reading the entire request.
	ReadTimeoutSeconds int `json:"read_timeout_seconds" mapstructure:"read_timeout_seconds"`

	// WriteTimeoutSeconds is the maximum duration before timing out response writes.
	WriteTimeoutSeconds int `json:"write_timeout_seconds" mapstructure:"write_timeout_seconds"`

	// ShutdownTimeoutSeconds is how long to wait for active connections on shutdown.
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds" mapstructure:"shutdown_timeout_seconds"`
}

// APIConfig holds the HTTP surface configuration.
type APIConfig struct {
	// Prefix is the versioned API prefix (e.g. /api/v1).
	Prefix string `json:"prefix" mapstructure:"prefix"`

	// Keys are the valid X-API-Key values gating access to the service.
	// When empty, requests are allowed in development and rejected in production.
	Keys []string `json:"keys" mapstructure:"keys"`

	// CORSOrigins are the allowed CORS origins.
	CORSOrigins []string `json:"cors_origins" mapstructure:"cors_origins"`
}

// AIConfig holds the LLM provider configuration.
type AIConfig struct {
	// DefaultProvider is the preferred provider (openai or anthropic).
	DefaultProvider string `json:"default_provider" mapstructure:"default_provider"`

	// OpenAI holds OpenAI credentials and generation defaults.
	OpenAI ProviderConfig `json:"openai" mapstructure:"openai"`

	// Anthropic holds Anthropic credentials and generation defaults.
	Anthropic ProviderConfig `json:"anthropic" mapstructure:"anthropic"`

	// TimeoutSeconds is the per-request timeout for vendor API calls.
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// ProviderConfig holds per-vendor credentials and generation defaults.
type ProviderConfig struct {
	// APIKey is the vendor API key. Empty means the provider is not configured.
	APIKey string `json:"-" mapstructure:"api_key"`

	// Model is the default model for this vendor.
	Model string `json:"model" mapstructure:"model"`

	// MaxTokens is the default maximum output token count.
	MaxTokens int `json:"max_tokens" mapstructure:"max_tokens"`

	// Temperature is the default sampling temperature.
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
}

// LimitsConfig bounds generation request parameters.
type LimitsConfig struct {
	// MaxTestCasesPerRequest caps the max_tests request parameter.
	MaxTestCasesPerRequest int `json:"max_test_cases_per_request" mapstructure:"max_test_cases_per_request"`

	// MaxBDDScenariosPerRequest caps the max_scenarios request parameter.
	MaxBDDScenariosPerRequest int `json:"max_bdd_scenarios_per_request" mapstructure:"max_bdd_scenarios_per_request"`
}

// IsDevelopment reports whether the service runs in the development environment.
func (s *Settings) IsDevelopment() bool {
	return s.App.Environment == "development"
}

// IsProduction reports whether the service runs in the production environment.
func (s *Settings) IsProduction() bool {
	return s.App.Environment == "production"
}

// HasOpenAIKey reports whether an OpenAI API key is configured.
func (s *Settings) HasOpenAIKey() bool {
	return s.AI.OpenAI.APIKey != ""
}

// HasAnthropicKey reports whether an Anthropic API key is configured.
func (s *Settings) HasAnthropicKey() bool {
	return s.AI.Anthropic.APIKey != ""
}

// Validate validates the configuration and returns an error if required
// fields are missing or out of range.
func (s *Settings) Validate() error {
	var validationErrors []string

	if s.Server.Port <= 0 || s.Server.Port > 65535 {
		validationErrors = append(validationErrors, "server.port must be between 1 and 65535")
	}

	if !isValidEnvironment(s.App.Environment) {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"app.environment '%s' is invalid, must be one of: development, staging, production",
			s.App.Environment,
		))
	}

	if s.App.LogLevel != "" && !isValidLogLevel(s.App.LogLevel) {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"app.log_level '%s' is invalid, must be one of: debug, info, warn, error",
			s.App.LogLevel,
		))
	}

	switch s.AI.DefaultProvider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		validationErrors = append(validationErrors, fmt.Sprintf(
			"ai.default_provider '%s' is invalid, must be one of: openai, anthropic",
			s.AI.DefaultProvider,
		))
	}

	if s.AI.OpenAI.Temperature < 0.0 || s.AI.OpenAI.Temperature > 2.0 {
		validationErrors = append(validationErrors, "ai.openai.temperature must be between 0.0 and 2.0")
	}
	if s.AI.Anthropic.Temperature < 0.0 || s.AI.Anthropic.Temperature > 1.0 {
		validationErrors = append(validationErrors, "ai.anthropic.temperature must be between 0.0 and 1.0")
	}

	if s.AI.OpenAI.MaxTokens <= 0 {
		validationErrors = append(validationErrors, "ai.openai.max_tokens must be positive")
	}
	if s.AI.Anthropic.MaxTokens <= 0 {
		validationErrors = append(validationErrors, "ai.anthropic.max_tokens must be positive")
	}

	if s.Limits.MaxTestCasesPerRequest <= 0 {
		validationErrors = append(validationErrors, "limits.max_test_cases_per_request must be positive")
	}
	if s.Limits.MaxBDDScenariosPerRequest <= 0 {
		validationErrors = append(validationErrors, "limits.max_bdd_scenarios_per_request must be positive")
	}

	if len(validationErrors) > 0 {
		return &ValidationError{Errors: validationErrors}
	}

	return nil
}

func isValidEnvironment(env string) bool {
	switch env {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}
