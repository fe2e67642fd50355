// Package handler provides the HTTP surface of the AI service.
package handler

import "github.com/qualityhub/ai-service/internal/service"

// TestGenerationRequest is the request body for test case generation.
type TestGenerationRequest struct {
	// Description is the requirement or feature description to generate
	// tests from.
	Description string `json:"description" binding:"required,min=10,max=10000"`

	// Context is optional additional context about the application.
	Context string `json:"context" binding:"omitempty,max=5000"`

	// TestType selects the kind of tests to generate.
	TestType string `json:"test_type" binding:"omitempty,oneof=functional edge_case negative all"`

	// MaxTests bounds the number of generated test cases.
	MaxTests int `json:"max_tests" binding:"omitempty,min=1,max=20"`

	// Priority, when set, is assigned to all generated test cases.
	Priority string `json:"priority" binding:"omitempty,oneof=critical high medium low"`
}

// params applies request defaults and converts to service parameters.
func (r *TestGenerationRequest) params() service.TestGenerationParams {
	testType := r.TestType
	if testType == "" {
		testType = service.TestTypeAll
	}
	maxTests := r.MaxTests
	if maxTests == 0 {
		maxTests = 5
	}
	return service.TestGenerationParams{
		Description: r.Description,
		Context:     r.Context,
		TestType:    testType,
		MaxTests:    maxTests,
		Priority:    r.Priority,
	}
}

// BDDGenerationRequest is the request body for BDD scenario generation.
type BDDGenerationRequest struct {
	// FeatureDescription is the feature to derive scenarios from.
	FeatureDescription string `json:"feature_description" binding:"required,min=10,max=10000"`

	// Context is optional additional context about the application.
	Context string `json:"context" binding:"omitempty,max=5000"`

	// MaxScenarios bounds the number of generated scenarios.
	MaxScenarios int `json:"max_scenarios" binding:"omitempty,min=1,max=10"`

	// IncludeExamples controls Scenario Outline example tables.
	// Defaults to true when omitted.
	IncludeExamples *bool `json:"include_examples" binding:"omitempty"`
}

func (r *BDDGenerationRequest) params() service.BDDGenerationParams {
	maxScenarios := r.MaxScenarios
	if maxScenarios == 0 {
		maxScenarios = 3
	}
	includeExamples := true
	if r.IncludeExamples != nil {
		includeExamples = *r.IncludeExamples
	}
	return service.BDDGenerationParams{
		FeatureDescription: r.FeatureDescription,
		Context:            r.Context,
		ScenarioFocus:      service.ScenarioFocusComprehensive,
		MaxScenarios:       maxScenarios,
		IncludeExamples:    includeExamples,
		IncludeTags:        true,
	}
}

// CoverageSuggestionRequest is the request body for coverage analysis.
type CoverageSuggestionRequest struct {
	// ExistingTests are the titles or descriptions of the current suite.
	ExistingTests []string `json:"existing_tests" binding:"required,min=1"`

	// FeatureDescription is the feature being tested.
	FeatureDescription string `json:"feature_description" binding:"required,min=10,max=10000"`

	// Context is optional additional context about the application.
	Context string `json:"context" binding:"omitempty,max=5000"`
}

// HealthResponse is the health check response body.
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// errorDetail is the error response body. The shape matches what the API
// gateway expects from this service: a single detail string.
type errorDetail struct {
	Detail string `json:"detail"`
}
