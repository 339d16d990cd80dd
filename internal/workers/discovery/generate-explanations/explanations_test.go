// internal/workers/discovery/generate-explanations/explanations_test.go
package generateexplanations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collegepath-workers/internal/models"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func scoredCollege(id, name string, tier models.CollegeTier, admissionScore int) models.CollegeScore {
	return models.CollegeScore{
		College:        models.College{ID: id, Name: name, City: "City", State: "ST"},
		AdmissionScore: admissionScore,
		Tier:           tier,
	}
}

func TestBuildPrompt(t *testing.T) {
	scores := []models.CollegeScore{
		{
			College: models.College{
				ID: "c1", Name: "State U", City: "Springfield", State: "IL",
				NetPrice48to75k:   intPtr(14500),
				CompletionRate:    floatPtr(0.62),
				MedianEarnings10y: intPtr(52000),
			},
			AdmissionScore: 85,
			Tier:           models.TierLikely,
		},
		scoredCollege("c2", "Opaque College", models.TierReach, 10),
	}
	student := models.StudentProfile{
		ID:            "student-1",
		GPA:           floatPtr(3.7),
		GradeLevel:    intPtr(11),
		IncomeBracket: models.Bracket48to75k,
		IsFirstGen:    true,
		IntendedMajor: "Biology",
	}

	prompt := BuildPrompt(scores, student)

	assert.Contains(t, prompt, "1. State U (Springfield, IL): 85% acceptance rate, net price $14,500/year for your income bracket, 62% graduation rate, $52,000 median earnings 10 years out. Tier: likely.")
	assert.Contains(t, prompt, "2. Opaque College (City, ST): 10% acceptance rate, net price net price data not available for your income bracket, graduation rate unavailable, earnings data unavailable. Tier: reach.")
	assert.Contains(t, prompt, "Grade 11, GPA 3.7")
	assert.Contains(t, prompt, "first-generation")
	assert.Contains(t, prompt, "Intended major: Biology.")
}

func TestBuildPrompt_UnknownFields(t *testing.T) {
	scores := []models.CollegeScore{scoredCollege("c1", "State U", models.TierMatch, 50)}
	student := models.StudentProfile{ID: "student-1"}

	prompt := BuildPrompt(scores, student)
	assert.Contains(t, prompt, "Grade unknown, GPA unknown, state unknown.")
	assert.NotContains(t, prompt, "first-generation")
}

func TestParseExplanations(t *testing.T) {
	scores := []models.CollegeScore{
		scoredCollege("c1", "State U", models.TierLikely, 85),
		scoredCollege("c2", "Reach Tech", models.TierReach, 10),
	}

	response := strings.Join([]string{
		"1. State U accepts most applicants, so you can count on it.",
		"",
		"2. Reach Tech is highly selective, but its outcomes are excellent.",
	}, "\n")

	explanations := ParseExplanations(response, scores)
	require.Len(t, explanations, 2)
	assert.Equal(t, "State U accepts most applicants, so you can count on it.", explanations[0])
	assert.Equal(t, "Reach Tech is highly selective, but its outcomes are excellent.", explanations[1])
}

func TestParseExplanations_MissingIndexGetsFallback(t *testing.T) {
	scores := []models.CollegeScore{
		scoredCollege("c1", "State U", models.TierLikely, 85),
		scoredCollege("c2", "Reach Tech", models.TierReach, 10),
	}

	explanations := ParseExplanations("1. State U is a solid bet.", scores)
	require.Len(t, explanations, 2)
	assert.Equal(t, "State U is a solid bet.", explanations[0])
	assert.Equal(t,
		"Reach Tech is a reach school for you based on its 10% acceptance rate and affordability for your income bracket.",
		explanations[1])
}

func TestParseExplanations_IgnoresOutOfRangeIndexes(t *testing.T) {
	scores := []models.CollegeScore{scoredCollege("c1", "State U", models.TierLikely, 85)}

	explanations := ParseExplanations("7. Something about a college that does not exist.", scores)
	require.Len(t, explanations, 1)
	assert.Equal(t, FallbackExplanation(scores[0]), explanations[0])
}

func TestFormatDollars(t *testing.T) {
	assert.Equal(t, "$500", formatDollars(500))
	assert.Equal(t, "$14,500", formatDollars(14500))
	assert.Equal(t, "$1,234,567", formatDollars(1234567))
}
