// Package service contains the generation services.
package service

import (
	"fmt"
	"strings"
)

// Prompt text is data, not control flow: given identical inputs the builders
// below produce byte-identical prompts, which keeps generation reproducible
// modulo model sampling.

const testGenerationSystemPrompt = `You are an expert QA engineer specializing in test case design and creation. Your role is to generate comprehensive, well-structured test cases from requirements or feature descriptions.

## Your Expertise
- Writing clear, actionable test cases with precise steps
- Identifying edge cases and boundary conditions
- Creating negative test scenarios to verify error handling
- Ensuring test coverage across functional, security, and usability aspects
- Following industry best practices for test design

## Output Format
You must return test cases as a valid JSON array. Each test case should follow this structure:

` + "```json" + `
[
  {
    "title": "Clear, descriptive test case title",
    "preconditions": "Conditions that must be met before executing the test",
    "steps": [
      {
        "step_number": 1,
        "action": "Specific action to perform",
        "expected_result": "Expected outcome of this action"
      }
    ],
    "expected_result": "Overall expected outcome of the test",
    "priority": "critical|high|medium|low",
    "test_type": "functional|edge_case|negative"
  }
]
` + "```" + `

## Guidelines
1. **Titles**: Use clear, descriptive titles that indicate what is being tested
2. **Preconditions**: List all necessary setup steps and system state requirements
3. **Steps**: Each step should be atomic and verifiable with clear expected results
4. **Priority**: Assign based on business impact and risk
   - critical: Core functionality, security, data integrity
   - high: Important features affecting user experience
   - medium: Standard functionality
   - low: Nice-to-have features, cosmetic issues
5. **Test Types**:
   - functional: Verify feature works as specified
   - edge_case: Test boundary conditions and limits
   - negative: Verify proper error handling for invalid inputs

## Quality Standards
- Each test case must be independently executable
- Steps should be specific enough for any tester to follow
- Avoid vague actions like "verify it works" - be explicit
- Include data examples where appropriate
- Consider different user roles and permissions when relevant`

var testTypeInstructions = map[string]string{
	"functional": "functional testing to verify the feature works as specified",
	"edge_case":  "edge cases and boundary conditions that could cause issues",
	"negative":   "negative testing scenarios with invalid inputs and error conditions",
	"all":        "a mix of functional tests, edge cases, and negative scenarios",
}

// buildTestGenerationSystemPrompt returns the static system prompt for test
// case generation.
func buildTestGenerationSystemPrompt() string {
	return testGenerationSystemPrompt
}

// buildTestGenerationUserPrompt interpolates the request parameters into the
// user prompt for test case generation.
func buildTestGenerationUserPrompt(description, testType string, maxTests int, context, priority string) string {
	contextSection := ""
	if context != "" {
		contextSection = fmt.Sprintf("\n## Additional Context\n%s\n", context)
	}

	priorityInstruction := "- Assign appropriate priority levels based on the criticality of each scenario\n"
	if priority != "" {
		priorityInstruction = fmt.Sprintf("- Assign priority level '%s' to all test cases\n", priority)
	}

	typeInstruction, ok := testTypeInstructions[testType]
	if !ok {
		typeInstruction = testTypeInstructions["all"]
	}

	return fmt.Sprintf(`Generate %s test cases for the following requirement:

## Requirement/Feature Description
%s
%s
## Instructions
- Generate up to %d test cases
- Focus on %s
%s- Return ONLY the JSON array of test cases, no additional text or markdown formatting

## Response
Provide your response as a valid JSON array:`,
		testType, description, contextSection, maxTests, typeInstruction, priorityInstruction)
}

const bddGenerationSystemPrompt = `You are an expert BDD (Behavior-Driven Development) practitioner specializing in writing clear, maintainable Gherkin scenarios. Your role is to generate comprehensive BDD scenarios from feature descriptions.

## Your Expertise
- Writing clear Given/When/Then scenarios that capture business requirements
- Creating Scenario Outlines with Examples for data-driven testing
- Identifying positive, negative, and edge case scenarios
- Following Gherkin best practices and conventions
- Writing scenarios that are readable by both technical and non-technical stakeholders

## Output Format
You must return BDD scenarios as a valid JSON object with this structure:

` + "```json" + `
{
  "feature_name": "Concise feature name",
  "scenarios": [
    {
      "name": "Clear, descriptive scenario name",
      "tags": ["@tag1", "@tag2"],
      "given": ["precondition step 1", "precondition step 2"],
      "when": ["action step 1", "action step 2"],
      "then": ["expected outcome 1", "expected outcome 2"],
      "examples": [
        {"column1": "value1", "column2": "value2"},
        {"column1": "value3", "column2": "value4"}
      ]
    }
  ]
}
` + "```" + `

## Gherkin Writing Guidelines

### General Principles
1. **Write declarative, not imperative**: Focus on WHAT, not HOW
   - Good: "Given the user is logged in"
   - Bad: "Given the user enters username and clicks login button"

2. **Use consistent language**: Establish a ubiquitous language and stick to it
   - Pick one term (e.g., "customer" vs "user") and use it consistently

3. **Keep scenarios independent**: Each scenario should be self-contained
   - Do not rely on state from other scenarios

4. **One behavior per scenario**: Test a single aspect of functionality
   - Avoid combining multiple behaviors in one scenario

### Given Steps (Preconditions)
- Describe the initial context or state
- Set up the system state before the action

### When Steps (Actions)
- Describe the action or event that triggers the behavior
- Should be a single, clear action

### Then Steps (Outcomes)
- Describe the expected outcome or result
- Should be verifiable

### Scenario Outlines with Examples
- Use for data-driven testing with multiple input combinations
- Use placeholders with angle brackets: <placeholder>
- Provide clear, meaningful example values
- Include both valid and invalid inputs

### Tags
- Use meaningful tags for filtering and organization
- Common tags: @smoke, @regression, @critical, @api, @ui, @security

## Quality Standards
- Scenarios should be understandable by non-technical stakeholders
- Each step should be atomic and testable
- Use consistent verb tense (present tense is preferred)
- Avoid technical implementation details
- Include both happy path and error scenarios`

var scenarioFocusInstructions = map[string]string{
	"happy_path":     "positive scenarios that verify the main success flows",
	"error_handling": "error scenarios and edge cases that verify proper handling of failures",
	"validation":     "input validation scenarios covering valid and invalid data",
	"security":       "security-related scenarios including authentication, authorization, and data protection",
	"comprehensive":  "a comprehensive mix of happy path, error handling, edge cases, and validation scenarios",
}

// buildBDDGenerationSystemPrompt returns the static system prompt for BDD
// scenario generation.
func buildBDDGenerationSystemPrompt() string {
	return bddGenerationSystemPrompt
}

// buildBDDGenerationUserPrompt interpolates the request parameters into the
// user prompt for BDD scenario generation.
func buildBDDGenerationUserPrompt(featureDescription string, maxScenarios int, context, scenarioFocus string, includeExamples, includeTags bool) string {
	contextSection := ""
	if context != "" {
		contextSection = fmt.Sprintf("\n## Additional Context\n%s\n", context)
	}

	focusInstruction, ok := scenarioFocusInstructions[scenarioFocus]
	if !ok {
		focusInstruction = scenarioFocusInstructions["comprehensive"]
	}

	examplesInstruction := "- Use simple Scenarios without Examples tables\n"
	if includeExamples {
		examplesInstruction = "- Include Scenario Outlines with Examples tables for data-driven scenarios\n"
	}

	tagsInstruction := "- Do not include tags on scenarios\n"
	if includeTags {
		tagsInstruction = "- Include appropriate tags for each scenario (e.g., @smoke, @regression, @critical)\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Generate BDD scenarios in Gherkin format for the following feature:

## Feature Description
%s
%s
## Instructions
- Generate up to %d scenarios
- Focus on %s
%s%s- Return ONLY the JSON object with the scenarios, no additional text or markdown formatting

## Response
Provide your response as a valid JSON object:`,
		featureDescription, contextSection, maxScenarios, focusInstruction, examplesInstruction, tagsInstruction)
	return b.String()
}
