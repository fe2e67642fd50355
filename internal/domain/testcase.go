// Package domain contains the core business entities and value objects.
// These structs are framework-agnostic and represent the heart of the application.
package domain

// Priority represents the business priority of a generated test case.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// TestType classifies a generated test case.
type TestType string

const (
	TestTypeFunctional TestType = "functional"
	TestTypeEdgeCase   TestType = "edge_case"
	TestTypeNegative   TestType = "negative"
)

// NormalizePriority coerces an arbitrary priority value into the allowed set.
// Unrecognized values fall back to PriorityMedium rather than being rejected,
// since model output is not guaranteed to stay inside the enum.
func NormalizePriority(value string) Priority {
	switch Priority(value) {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(value)
	default:
		return PriorityMedium
	}
}

// NormalizeTestType coerces an arbitrary test type value into the allowed set.
// Unrecognized values fall back to TestTypeFunctional.
func NormalizeTestType(value string) TestType {
	switch TestType(value) {
	case TestTypeFunctional, TestTypeEdgeCase, TestTypeNegative:
		return TestType(value)
	default:
		return TestTypeFunctional
	}
}

// TestStep is a single numbered step within a test case.
type TestStep struct {
	// StepNumber is the 1-based position of the step.
	StepNumber int `json:"step_number"`

	// Action is what the tester performs in this step.
	Action string `json:"action"`

	// ExpectedResult is the outcome of performing the action.
	ExpectedResult string `json:"expected_result"`
}

// GeneratedTestCase is a structured test case produced by a generator.
type GeneratedTestCase struct {
	// Title is a short descriptive name for the test case.
	Title string `json:"title"`

	// Preconditions describes required system state before execution, if any.
	Preconditions string `json:"preconditions,omitempty"`

	// Steps are the ordered actions with their expected results.
	Steps []TestStep `json:"steps"`

	// ExpectedResult is the overall outcome of the test case.
	ExpectedResult string `json:"expected_result"`

	// Priority is the business priority (critical, high, medium, low).
	Priority Priority `json:"priority"`

	// TestType classifies the case (functional, edge_case, negative).
	TestType TestType `json:"test_type"`
}
