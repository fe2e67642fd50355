package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qualityhub/ai-service/internal/domain"
)

func exampleRow(pairs ...string) domain.ExampleRow {
	var row domain.ExampleRow
	for i := 0; i+1 < len(pairs); i += 2 {
		row.Set(pairs[i], pairs[i+1])
	}
	return row
}

func TestFormatGherkinPlainScenario(t *testing.T) {
	scenarios := []domain.BDDScenario{
		{
			Name:  "Login succeeds",
			Given: []string{"a registered user", "a valid password"},
			When:  []string{"they submit the login form"},
			Then:  []string{"they see the dashboard", "a session is created"},
		},
	}

	got := FormatGherkin("User Login", "Users sign in with email and password.", scenarios, true)

	want := strings.Join([]string{
		"Feature: User Login",
		"  Users sign in with email and password.",
		"",
		"  Scenario: Login succeeds",
		"    Given a registered user",
		"    And a valid password",
		"    When they submit the login form",
		"    Then they see the dashboard",
		"    And a session is created",
		"",
	}, "\n")

	assert.Equal(t, want, got)
}

func TestFormatGherkinScenarioOutline(t *testing.T) {
	scenarios := []domain.BDDScenario{
		{
			Name:  "Validate input",
			Given: []string{"the user is on the form"},
			When:  []string{"the user enters <input>"},
			Then:  []string{"the system shows <result>"},
			Examples: []domain.ExampleRow{
				exampleRow("input", "valid_value", "result", "success"),
				exampleRow("input", "empty", "result", "error"),
			},
			Tags: []string{"@validation", "@regression"},
		},
	}

	got := FormatGherkin("Input Validation", "Form inputs are validated.", scenarios, true)

	want := strings.Join([]string{
		"Feature: Input Validation",
		"  Form inputs are validated.",
		"",
		"  @validation @regression",
		"  Scenario Outline: Validate input",
		"    Given the user is on the form",
		"    When the user enters <input>",
		"    Then the system shows <result>",
		"",
		"    Examples:",
		"      | input | result |",
		"      | valid_value | success |",
		"      | empty | error |",
		"",
	}, "\n")

	assert.Equal(t, want, got)
}

func TestFormatGherkinTagsSuppressed(t *testing.T) {
	scenarios := []domain.BDDScenario{
		{
			Name:  "Tagged scenario",
			Given: []string{"g"},
			When:  []string{"w"},
			Then:  []string{"t"},
			Tags:  []string{"@smoke"},
		},
	}

	got := FormatGherkin("F", "D", scenarios, false)
	assert.NotContains(t, got, "@smoke")
	assert.Contains(t, got, "  Scenario: Tagged scenario")
}

func TestFormatGherkinColumnOrderFollowsFirstRow(t *testing.T) {
	scenarios := []domain.BDDScenario{
		{
			Name:  "Ordered columns",
			Given: []string{"g"},
			When:  []string{"w"},
			Then:  []string{"t"},
			Examples: []domain.ExampleRow{
				exampleRow("zulu", "z1", "alpha", "a1"),
				exampleRow("alpha", "a2", "zulu", "z2"),
			},
		},
	}

	got := FormatGherkin("F", "D", scenarios, true)

	assert.Contains(t, got, "      | zulu | alpha |")
	// Rows render in the header's key order even when a later row declared
	// its keys differently.
	assert.Contains(t, got, "      | z2 | a2 |")
}

func TestFormatGherkinMissingColumnRendersEmptyCell(t *testing.T) {
	scenarios := []domain.BDDScenario{
		{
			Name:  "Sparse rows",
			Given: []string{"g"},
			When:  []string{"w"},
			Then:  []string{"t"},
			Examples: []domain.ExampleRow{
				exampleRow("input", "valid_value", "result", "success"),
				exampleRow("input", "empty"),
			},
		},
	}

	got := FormatGherkin("F", "D", scenarios, true)

	assert.Contains(t, got, "      | empty |  |")
	assert.NotContains(t, got, "<nil>")
}

func TestFormatGherkinNumericCells(t *testing.T) {
	scenarios := []domain.BDDScenario{
		{
			Name:  "Numbers",
			Given: []string{"g"},
			When:  []string{"w"},
			Then:  []string{"t"},
			Examples: []domain.ExampleRow{
				exampleRow("count", "42"),
			},
		},
	}

	got := FormatGherkin("F", "D", scenarios, true)
	assert.Contains(t, got, "| 42 |")
}
