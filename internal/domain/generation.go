// Package domain contains the core business entities and value objects.
package domain

// Metadata carries free-form details about a generation run, such as the
// provider used, the actual model, and token counts.
type Metadata map[string]any

// TestGenerationResult is the outcome of one test case generation run.
type TestGenerationResult struct {
	TestCases []GeneratedTestCase `json:"test_cases"`
	Metadata  Metadata            `json:"metadata"`
}

// BDDGenerationResult is the outcome of one BDD scenario generation run.
type BDDGenerationResult struct {
	FeatureName        string        `json:"feature_name"`
	FeatureDescription string        `json:"feature_description"`
	Scenarios          []BDDScenario `json:"scenarios"`
	Gherkin            string        `json:"gherkin"`
	Metadata           Metadata      `json:"metadata"`
}

// CoverageSuggestion is a single suggested test for improving coverage.
type CoverageSuggestion struct {
	Title        string   `json:"title"`
	Rationale    string   `json:"rationale"`
	Priority     Priority `json:"priority"`
	CoverageArea string   `json:"coverage_area"`
}

// CoverageSuggestionResult is the outcome of a coverage analysis run.
type CoverageSuggestionResult struct {
	Suggestions       []CoverageSuggestion `json:"suggestions"`
	CoverageGaps      []string             `json:"coverage_gaps"`
	OverallAssessment string               `json:"overall_assessment"`
}
