// Package service contains the generation services.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/qualityhub/ai-service/internal/config"
	"github.com/qualityhub/ai-service/internal/domain"
	"github.com/qualityhub/ai-service/internal/llm"
)

// Test type values accepted by the request surface. "all" requests a mix.
const (
	TestTypeAll = "all"

	defaultMaxTests = 5
)

// TestGenerationParams are the caller-supplied options for one run.
// They are transient and validated at the HTTP boundary.
type TestGenerationParams struct {
	// Description is the requirement or feature text to generate tests from.
	Description string

	// Context is optional additional application context.
	Context string

	// TestType restricts generation (functional, edge_case, negative, all).
	TestType string

	// MaxTests bounds the result size; generation output is truncated to it.
	MaxTests int

	// Priority, when set, is assigned to all generated tests.
	Priority string
}

// TestGenerator generates structured test cases from requirement
// descriptions using an LLM provider, with a deterministic mock path when
// no provider is usable.
type TestGenerator struct {
	settings *config.Settings
	apiKey   string
	provider string
	useAI    bool
	logger   *slog.Logger

	// client is built lazily on first use and reused afterwards. A
	// concurrent pair of first calls may build it twice with identical
	// configuration; both results are usable, so no lock is held.
	client llm.Client
}

// NewTestGenerator creates a test generator. When useAI is false the
// generator produces deterministic mock output without any network call.
func NewTestGenerator(settings *config.Settings, apiKey, provider string, useAI bool) *TestGenerator {
	return &TestGenerator{
		settings: settings,
		apiKey:   apiKey,
		provider: provider,
		useAI:    useAI,
		logger:   slog.Default(),
	}
}

// getClient returns the lazily constructed LLM client.
func (g *TestGenerator) getClient() (llm.Client, error) {
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

// GenerateTests generates test cases from a requirement description.
//
// The live path builds the prompts, invokes the provider in JSON mode,
// parses and repairs the reply, filters by the requested test type, and
// truncates to MaxTests. The mock path returns schema-valid placeholder
// cases and never fails for valid input.
func (g *TestGenerator) GenerateTests(ctx context.Context, params TestGenerationParams) (*domain.TestGenerationResult, error) {
	if params.TestType == "" {
		params.TestType = TestTypeAll
	}
	if params.MaxTests <= 0 {
		params.MaxTests = defaultMaxTests
	}

	if !g.useAI {
		return g.generateMockResult(params), nil
	}

	client, err := g.getClient()
	if err != nil {
		return nil, err
	}

	systemPrompt := buildTestGenerationSystemPrompt()
	userPrompt := buildTestGenerationUserPrompt(
		params.Description, params.TestType, params.MaxTests, params.Context, params.Priority)

	g.logger.Debug("generating tests",
		slog.String("provider", g.provider),
		slog.String("test_type", params.TestType),
		slog.Int("max_tests", params.MaxTests),
	)

	response, err := client.CompleteSimple(ctx, systemPrompt, userPrompt, true)
	if err != nil {
		return nil, g.wrapError(err)
	}

	testCases, err := parseTestCases(response.Content)
	if err != nil {
		return nil, g.wrapError(err)
	}

	// Restrict to the requested type when a single type was asked for.
	if params.TestType != TestTypeAll {
		filtered := testCases[:0]
		for _, tc := range testCases {
			if string(tc.TestType) == params.TestType {
				filtered = append(filtered, tc)
			}
		}
		testCases = filtered
	}

	// Truncation is the enforced bound, not vendor-side limiting.
	if len(testCases) > params.MaxTests {
		testCases = testCases[:params.MaxTests]
	}

	return &domain.TestGenerationResult{
		TestCases: testCases,
		Metadata: domain.Metadata{
			"provider":           g.provider,
			"model":              response.Model,
			"test_type":          params.TestType,
			"description_length": len(params.Description),
			"prompt_tokens":      response.PromptTokens,
			"completion_tokens":  response.CompletionTokens,
			"total_tokens":       response.TotalTokens,
		},
	}, nil
}

// wrapError maps any failure onto a GenerationError with a cause-specific
// message. Callers see a single error kind regardless of the origin.
func (g *TestGenerator) wrapError(err error) *GenerationError {
	switch {
	case llm.IsClientError(err):
		g.logger.Error("LLM client error during test generation", slog.String("error", err.Error()))
		return newGenerationError(err, "AI provider error: %v", err)
	case isDecodeError(err):
		g.logger.Error("failed to parse AI response as JSON", slog.String("error", err.Error()))
		return newGenerationError(err, "Failed to parse AI response: %v", err)
	case isSchemaError(err):
		g.logger.Error("response validation error during test generation", slog.String("error", err.Error()))
		return newGenerationError(err, "Invalid response format: %v", err)
	default:
		g.logger.Error("unexpected error during test generation", slog.String("error", err.Error()))
		return newGenerationError(err, "Test generation failed: %v", err)
	}
}

// parseTestCases parses the raw LLM reply into typed test cases.
// The reply is expected to be JSON but is not guaranteed to be clean: a
// fenced code block is stripped, and both a bare array and an object with a
// test_cases key are accepted.
func parseTestCases(content string) ([]domain.GeneratedTestCase, error) {
	content = stripCodeFence(content)

	var data any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return nil, err
	}

	var items []any
	switch v := data.(type) {
	case []any:
		items = v
	case map[string]any:
		raw, ok := v["test_cases"]
		if !ok {
			return nil, newSchemaError("Expected array or object with 'test_cases' key")
		}
		items, ok = raw.([]any)
		if !ok {
			return nil, newSchemaError("'test_cases' must be a JSON array")
		}
	default:
		return nil, newSchemaError("Expected array or object with 'test_cases' key")
	}

	testCases := make([]domain.GeneratedTestCase, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, newSchemaError("test case must be a JSON object")
		}
		tc, err := parseTestCase(obj)
		if err != nil {
			return nil, err
		}
		testCases = append(testCases, tc)
	}

	return testCases, nil
}

// parseTestCase normalizes a single test case object. The title is the only
// required field; step numbers default to their 1-based position, and
// priority/test_type are coerced to their defaults rather than rejected.
func parseTestCase(obj map[string]any) (domain.GeneratedTestCase, error) {
	titleRaw, ok := obj["title"]
	if !ok {
		return domain.GeneratedTestCase{}, newSchemaError("Test case missing required field: title")
	}

	var steps []domain.TestStep
	if rawSteps, ok := obj["steps"].([]any); ok {
		steps = make([]domain.TestStep, 0, len(rawSteps))
		for i, rawStep := range rawSteps {
			stepObj, _ := rawStep.(map[string]any)
			steps = append(steps, domain.TestStep{
				StepNumber:     asInt(stepObj["step_number"], i+1),
				Action:         asString(stepObj["action"]),
				ExpectedResult: asString(stepObj["expected_result"]),
			})
		}
	}

	return domain.GeneratedTestCase{
		Title:          asString(titleRaw),
		Preconditions:  asString(obj["preconditions"]),
		Steps:          steps,
		ExpectedResult: asString(obj["expected_result"]),
		Priority:       domain.NormalizePriority(asString(obj["priority"])),
		TestType:       domain.NormalizeTestType(asString(obj["test_type"])),
	}, nil
}

// generateMockResult builds deterministic placeholder test cases for
// development and testing without API keys.
func (g *TestGenerator) generateMockResult(params TestGenerationParams) *domain.TestGenerationResult {
	return &domain.TestGenerationResult{
		TestCases: g.generateMockTests(params),
		Metadata: domain.Metadata{
			"provider":           g.provider,
			"model":              "mock",
			"test_type":          params.TestType,
			"description_length": len(params.Description),
			"prompt_tokens":      0,
			"completion_tokens":  0,
			"total_tokens":       0,
		},
	}
}

func (g *TestGenerator) generateMockTests(params TestGenerationParams) []domain.GeneratedTestCase {
	var tests []domain.GeneratedTestCase
	priority := domain.PriorityMedium
	if params.Priority != "" {
		priority = domain.NormalizePriority(params.Priority)
	}
	summary := truncateRunes(params.Description, 50)

	if (params.TestType == string(domain.TestTypeFunctional) || params.TestType == TestTypeAll) && len(tests) < params.MaxTests {
		tests = append(tests, domain.GeneratedTestCase{
			Title:         fmt.Sprintf("Verify basic functionality - %s", summary),
			Preconditions: "User is logged in and has appropriate permissions",
			Steps: []domain.TestStep{
				{StepNumber: 1, Action: "Navigate to the feature", ExpectedResult: "Feature page is displayed"},
				{StepNumber: 2, Action: "Perform the main action", ExpectedResult: "Action is completed successfully"},
				{StepNumber: 3, Action: "Verify the result", ExpectedResult: "Expected outcome is achieved"},
			},
			ExpectedResult: "Feature works as described",
			Priority:       priority,
			TestType:       domain.TestTypeFunctional,
		})
	}

	if (params.TestType == string(domain.TestTypeEdgeCase) || params.TestType == TestTypeAll) && len(tests) < params.MaxTests {
		tests = append(tests, domain.GeneratedTestCase{
			Title:         fmt.Sprintf("Verify edge case handling - %s", summary),
			Preconditions: "System is in a boundary condition state",
			Steps: []domain.TestStep{
				{StepNumber: 1, Action: "Set up boundary condition", ExpectedResult: "System accepts boundary values"},
				{StepNumber: 2, Action: "Execute feature at boundary", ExpectedResult: "Feature handles edge case correctly"},
			},
			ExpectedResult: "Edge cases are handled gracefully",
			Priority:       priority,
			TestType:       domain.TestTypeEdgeCase,
		})
	}

	if (params.TestType == string(domain.TestTypeNegative) || params.TestType == TestTypeAll) && len(tests) < params.MaxTests {
		tests = append(tests, domain.GeneratedTestCase{
			Title:         fmt.Sprintf("Verify error handling - %s", summary),
			Preconditions: "System is ready to receive invalid input",
			Steps: []domain.TestStep{
				{StepNumber: 1, Action: "Provide invalid input", ExpectedResult: "System validates input"},
				{StepNumber: 2, Action: "Verify error message", ExpectedResult: "Appropriate error message is displayed"},
			},
			ExpectedResult: "Errors are handled gracefully with clear messages",
			Priority:       priority,
			TestType:       domain.TestTypeNegative,
		})
	}

	return tests
}

// stripCodeFence removes a leading/trailing fenced code block if present,
// discarding the fence lines themselves (e.g. "```json" and "```").
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return content
	}
	return strings.Join(lines[1:len(lines)-1], "\n")
}

// truncateRunes returns the first n runes of s.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// asString converts a decoded JSON value into a string, yielding "" for nil.
func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}

// asInt converts a decoded JSON number into an int, falling back when the
// value is absent or not numeric.
func asInt(v any, fallback int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		return fallback
	default:
		return fallback
	}
}
