package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/qualityhub/ai-service/internal/config"
	"github.com/qualityhub/ai-service/internal/domain"
	"github.com/qualityhub/ai-service/internal/llm"
)

// Scenario focus values accepted by the request surface.
const (
	ScenarioFocusHappyPath     = "happy_path"
	ScenarioFocusErrorHandling = "error_handling"
	ScenarioFocusValidation    = "validation"
	ScenarioFocusSecurity      = "security"
	ScenarioFocusComprehensive = "comprehensive"

	defaultMaxScenarios = 3

	// featureNameLimit bounds the feature name extracted from a
	// description; longer first sentences are cut with an ellipsis.
	featureNameLimit = 50
)

// BDDGenerationParams are the caller-supplied options for one run.
type BDDGenerationParams struct {
	// FeatureDescription is the feature text to derive scenarios from.
	FeatureDescription string

	// Context is optional additional application context.
	Context string

	// ScenarioFocus selects the kind of scenarios to emphasize.
	ScenarioFocus string

	// MaxScenarios bounds the result size.
	MaxScenarios int

	// IncludeExamples controls Scenario Outline example tables.
	IncludeExamples bool

	// IncludeTags controls scenario tags (@smoke, @regression, ...).
	IncludeTags bool
}

// BDDGenerator generates Gherkin scenarios from feature descriptions using
// an LLM provider, with a deterministic mock path when no provider is
// usable.
type BDDGenerator struct {
	settings *config.Settings
	apiKey   string
	provider string
	useAI    bool
	logger   *slog.Logger

	client llm.Client
}

// NewBDDGenerator creates a BDD scenario generator. When useAI is false the
// generator produces deterministic mock output without any network call.
func NewBDDGenerator(settings *config.Settings, apiKey, provider string, useAI bool) *BDDGenerator {
	return &BDDGenerator{
		settings: settings,
		apiKey:   apiKey,
		provider: provider,
		useAI:    useAI,
		logger:   slog.Default(),
	}
}

func (g *BDDGenerator) getClient() (llm.Client, error) {
	if g.client == nil {
		opts := []llm.Option{}
		if g.apiKey != "" {
			opts = append(opts, llm.WithAPIKey(g.apiKey))
		}
		client, err := llm.NewClient(g.settings, g.provider, opts...)
		if err != nil {
			return nil, newGenerationError(err, "Failed to create LLM client: %v", err)
		}
		g.client = client
	}
	return g.client, nil
}

// GenerateScenarios generates BDD scenarios from a feature description and
// renders them as a Gherkin feature file.
//
// The feature name comes from the model reply when present, falling back to
// the first sentence of the description. The rendered Gherkin always embeds
// the original description, not a model paraphrase.
func (g *BDDGenerator) GenerateScenarios(ctx context.Context, params BDDGenerationParams) (*domain.BDDGenerationResult, error) {
	if params.ScenarioFocus == "" {
		params.ScenarioFocus = ScenarioFocusComprehensive
	}
	if params.MaxScenarios <= 0 {
		params.MaxScenarios = defaultMaxScenarios
	}

	if !g.useAI {
		return g.generateMockResult(params), nil
	}

	client, err := g.getClient()
	if err != nil {
		return nil, err
	}

	systemPrompt := buildBDDGenerationSystemPrompt()
	userPrompt := buildBDDGenerationUserPrompt(
		params.FeatureDescription, params.MaxScenarios, params.Context,
		params.ScenarioFocus, params.IncludeExamples, params.IncludeTags)

	g.logger.Debug("generating BDD scenarios",
		slog.String("provider", g.provider),
		slog.String("scenario_focus", params.ScenarioFocus),
		slog.Int("max_scenarios", params.MaxScenarios),
	)

	response, err := client.CompleteSimple(ctx, systemPrompt, userPrompt, true)
	if err != nil {
		return nil, g.wrapError(err)
	}

	scenarios, featureName, err := parseScenarios(response.Content)
	if err != nil {
		return nil, g.wrapError(err)
	}
	if featureName == "" {
		featureName = extractFeatureName(params.FeatureDescription)
	}

	if len(scenarios) > params.MaxScenarios {
		scenarios = scenarios[:params.MaxScenarios]
	}

	gherkin := FormatGherkin(featureName, params.FeatureDescription, scenarios, params.IncludeTags)

	return &domain.BDDGenerationResult{
		FeatureName:        featureName,
		FeatureDescription: params.FeatureDescription,
		Scenarios:          scenarios,
		Gherkin:            gherkin,
		Metadata: domain.Metadata{
			"provider":           g.provider,
			"model":              response.Model,
			"scenario_focus":     params.ScenarioFocus,
			"description_length": len(params.FeatureDescription),
			"prompt_tokens":      response.PromptTokens,
			"completion_tokens":  response.CompletionTokens,
			"total_tokens":       response.TotalTokens,
		},
	}, nil
}

func (g *BDDGenerator) wrapError(err error) *GenerationError {
	switch {
	case llm.IsClientError(err):
		g.logger.Error("LLM client error during BDD generation", slog.String("error", err.Error()))
		return newGenerationError(err, "AI provider error: %v", err)
	case isDecodeError(err):
		g.logger.Error("failed to parse AI response as JSON", slog.String("error", err.Error()))
		return newGenerationError(err, "Failed to parse AI response: %v", err)
	case isSchemaError(err):
		g.logger.Error("response validation error during BDD generation", slog.String("error", err.Error()))
		return newGenerationError(err, "Invalid response format: %v", err)
	default:
		g.logger.Error("unexpected error during BDD generation", slog.String("error", err.Error()))
		return newGenerationError(err, "BDD generation failed: %v", err)
	}
}

// scenarioEnvelope is the keyed reply shape; the bare-array shape is decoded
// separately. Fields are RawMessage so example tables keep column order.
type scenarioEnvelope struct {
	FeatureName string            `json:"feature_name"`
	Scenarios   []json.RawMessage `json:"scenarios"`
}

// rawScenario is the tolerant wire shape of one scenario. Step fields accept
// both a string and a list of strings.
type rawScenario struct {
	Name     string              `json:"name"`
	Given    stringList          `json:"given"`
	When     stringList          `json:"when"`
	Then     stringList          `json:"then"`
	Examples []domain.ExampleRow `json:"examples"`
	Tags     []string            `json:"tags"`
}

// stringList decodes either a JSON string or an array of strings.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "\"") {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*s = stringList{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*s = stringList(list)
	return nil
}

// parseScenarios parses the raw LLM reply into scenarios plus an optional
// model-supplied feature name. A fenced code block is stripped, and both a
// bare array and an object with a scenarios key are accepted.
func parseScenarios(content string) ([]domain.BDDScenario, string, error) {
	content = stripCodeFence(content)

	var items []json.RawMessage
	var featureName string

	trimmed := strings.TrimSpace(content)
	switch {
	case strings.HasPrefix(trimmed, "["):
		if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
			return nil, "", err
		}
	case strings.HasPrefix(trimmed, "{"):
		var envelope scenarioEnvelope
		if err := json.Unmarshal([]byte(trimmed), &envelope); err != nil {
			return nil, "", err
		}
		if envelope.Scenarios == nil {
			return nil, "", newSchemaError("Expected array or object with 'scenarios' key")
		}
		items = envelope.Scenarios
		featureName = envelope.FeatureName
	default:
		if !json.Valid([]byte(trimmed)) {
			var probe any
			return nil, "", json.Unmarshal([]byte(trimmed), &probe)
		}
		return nil, "", newSchemaError("Expected JSON array or object")
	}

	scenarios := make([]domain.BDDScenario, 0, len(items))
	for _, item := range items {
		scenario, err := parseScenario(item)
		if err != nil {
			return nil, "", err
		}
		scenarios = append(scenarios, scenario)
	}

	return scenarios, featureName, nil
}

func parseScenario(data json.RawMessage) (domain.BDDScenario, error) {
	// Probe for the required name before the tolerant decode so a missing
	// name reports a schema problem, not a zero value.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return domain.BDDScenario{}, err
	}
	if _, ok := probe["name"]; !ok {
		return domain.BDDScenario{}, newSchemaError("Scenario missing required field: name")
	}

	var raw rawScenario
	if err := json.Unmarshal(data, &raw); err != nil {
		// A malformed examples table is discarded rather than fatal. A
		// type mismatch in the remaining fields is a structural violation
		// of well-formed JSON, not a decode failure.
		raw.Examples = nil
		type scenarioNoExamples struct {
			Name  string     `json:"name"`
			Given stringList `json:"given"`
			When  stringList `json:"when"`
			Then  stringList `json:"then"`
			Tags  []string   `json:"tags"`
		}
		var fallback scenarioNoExamples
		if err := json.Unmarshal(data, &fallback); err != nil {
			return domain.BDDScenario{}, newSchemaError("Invalid scenario structure: %v", err)
		}
		raw.Name = fallback.Name
		raw.Given = fallback.Given
		raw.When = fallback.When
		raw.Then = fallback.Then
		raw.Tags = fallback.Tags
	}

	return domain.BDDScenario{
		Name:     raw.Name,
		Given:    raw.Given,
		When:     raw.When,
		Then:     raw.Then,
		Examples: raw.Examples,
		Tags:     raw.Tags,
	}, nil
}

// extractFeatureName derives a concise feature name from a description:
// the first sentence, cut to 50 characters with an ellipsis if longer.
func extractFeatureName(description string) string {
	firstSentence := strings.TrimSpace(strings.SplitN(description, ".", 2)[0])
	runes := []rune(firstSentence)
	if len(runes) > featureNameLimit {
		return string(runes[:featureNameLimit-3]) + "..."
	}
	return firstSentence
}

// generateMockResult builds deterministic placeholder scenarios for
// development and testing without API keys.
func (g *BDDGenerator) generateMockResult(params BDDGenerationParams) *domain.BDDGenerationResult {
	featureName := extractFeatureName(params.FeatureDescription)
	scenarios := generateMockScenarios(params)
	gherkin := FormatGherkin(featureName, params.FeatureDescription, scenarios, params.IncludeTags)

	return &domain.BDDGenerationResult{
		FeatureName:        featureName,
		FeatureDescription: params.FeatureDescription,
		Scenarios:          scenarios,
		Gherkin:            gherkin,
		Metadata: domain.Metadata{
			"provider":           g.provider,
			"model":              "mock",
			"scenario_focus":     ScenarioFocusComprehensive,
			"description_length": len(params.FeatureDescription),
			"prompt_tokens":      0,
			"completion_tokens":  0,
			"total_tokens":       0,
		},
	}
}

func generateMockScenarios(params BDDGenerationParams) []domain.BDDScenario {
	var scenarios []domain.BDDScenario

	tagsIf := func(tags ...string) []string {
		if !params.IncludeTags {
			return nil
		}
		return tags
	}

	if len(scenarios) < params.MaxScenarios {
		scenarios = append(scenarios, domain.BDDScenario{
			Name:  "Successfully complete the main flow",
			Given: []string{"the user is logged in", "the user has required permissions"},
			When:  []string{"the user performs the main action"},
			Then: []string{
				"the action is completed successfully",
				"the user sees a success message",
			},
			Tags: tagsIf("@smoke", "@happy-path"),
		})
	}

	if len(scenarios) < params.MaxScenarios {
		var examples []domain.ExampleRow
		if params.IncludeExamples {
			examples = []domain.ExampleRow{
				mockExampleRow("valid_value", "success"),
				mockExampleRow("invalid_value", "error"),
				mockExampleRow("empty", "error"),
			}
		}
		scenarios = append(scenarios, domain.BDDScenario{
			Name:     "Validate input data",
			Given:    []string{"the user is on the input form"},
			When:     []string{"the user enters <input>", "the user submits the form"},
			Then:     []string{"the system shows <result>"},
			Examples: examples,
			Tags:     tagsIf("@validation", "@regression"),
		})
	}

	if len(scenarios) < params.MaxScenarios {
		scenarios = append(scenarios, domain.BDDScenario{
			Name:  "Handle error conditions gracefully",
			Given: []string{"the system is in an error state"},
			When:  []string{"the user attempts to perform an action"},
			Then: []string{
				"the user sees an appropriate error message",
				"the user can recover from the error",
			},
			Tags: tagsIf("@error-handling", "@regression"),
		})
	}

	return scenarios
}

func mockExampleRow(input, result string) domain.ExampleRow {
	var row domain.ExampleRow
	row.Set("input", input)
	row.Set("result", result)
	return row
}
