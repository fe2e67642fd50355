package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestCoverage(t *testing.T) {
	result := SuggestCoverage([]string{"Login works", "Logout works", "Session expiry"})

	require.Len(t, result.Suggestions, 2)
	assert.Equal(t, "Add boundary value tests", result.Suggestions[0].Title)
	assert.Equal(t, "Input Validation", result.Suggestions[0].CoverageArea)
	assert.Len(t, result.CoverageGaps, 3)
	assert.Contains(t, result.OverallAssessment, "3 tests")
}

func TestSuggestCoverageSingleTest(t *testing.T) {
	result := SuggestCoverage([]string{"only one"})
	assert.Contains(t, result.OverallAssessment, "1 tests")
}
