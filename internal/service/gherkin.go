package service

import (
	"fmt"
	"strings"

	"github.com/qualityhub/ai-service/internal/domain"
)

// FormatGherkin renders scenarios as a Gherkin feature file.
//
// Scenarios with an examples table are rendered as Scenario Outline with the
// table appended; the table columns follow the key order of the first row.
// Repeated Given/When/Then steps after the first use the And keyword. Each
// scenario is followed by a blank line, so the output ends with a trailing
// newline.
func FormatGherkin(featureName, featureDescription string, scenarios []domain.BDDScenario, includeTags bool) string {
	lines := []string{
		fmt.Sprintf("Feature: %s", featureName),
		fmt.Sprintf("  %s", featureDescription),
		"",
	}

	for _, scenario := range scenarios {
		if includeTags && len(scenario.Tags) > 0 {
			lines = append(lines, "  "+strings.Join(scenario.Tags, " "))
		}

		if scenario.HasExamples() {
			lines = append(lines, fmt.Sprintf("  Scenario Outline: %s", scenario.Name))
		} else {
			lines = append(lines, fmt.Sprintf("  Scenario: %s", scenario.Name))
		}

		lines = appendSteps(lines, "Given", scenario.Given)
		lines = appendSteps(lines, "When", scenario.When)
		lines = appendSteps(lines, "Then", scenario.Then)

		if scenario.HasExamples() {
			lines = append(lines, "", "    Examples:")
			keys := scenario.Examples[0].Keys()
			lines = append(lines, "      | "+strings.Join(keys, " | ")+" |")
			for _, row := range scenario.Examples {
				values := make([]string, len(keys))
				for i, key := range keys {
					// A row missing one of the header columns gets an
					// empty cell rather than a stray nil.
					if v, ok := row.Get(key); ok {
						values[i] = fmt.Sprintf("%v", v)
					}
				}
				lines = append(lines, "      | "+strings.Join(values, " | ")+" |")
			}
		}

		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func appendSteps(lines []string, keyword string, steps []string) []string {
	for i, step := range steps {
		prefix := keyword
		if i > 0 {
			prefix = "And"
		}
		lines = append(lines, fmt.Sprintf("    %s %s", prefix, step))
	}
	return lines
}
