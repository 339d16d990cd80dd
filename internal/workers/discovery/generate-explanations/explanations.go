// internal/workers/discovery/generate-explanations/explanations.go
package generateexplanations

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"collegepath-workers/internal/models"
)

// maxBatchSize keeps a single prompt manageable.
const maxBatchSize = 10

var numberedLine = regexp.MustCompile(`^(\d+)\.\s+(.+)`)

func formatDollars(n int) string {
	s := strconv.Itoa(n)
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return "$" + strings.Join(parts, ",")
}

// BuildPrompt describes a batch of scored colleges for the counselor-voice
// explanation request. The numbered format is what ParseExplanations
// expects back.
func BuildPrompt(scores []models.CollegeScore, student models.StudentProfile) string {
	bracket := student.IncomeBracket
	if !bracket.IsValid() {
		bracket = models.Bracket48to75k
	}

	var descriptions []string
	for i, s := range scores {
		netPrice := "net price data not available"
		if price := s.College.NetPriceForBracket(bracket); price != nil {
			netPrice = formatDollars(*price) + "/year"
		}
		completion := "graduation rate unavailable"
		if s.College.CompletionRate != nil {
			completion = fmt.Sprintf("%d%% graduation rate", int(math.Round(*s.College.CompletionRate*100)))
		}
		earnings := "earnings data unavailable"
		if s.College.MedianEarnings10y != nil {
			earnings = formatDollars(*s.College.MedianEarnings10y) + " median earnings 10 years out"
		}

		descriptions = append(descriptions, fmt.Sprintf(
			"%d. %s (%s, %s): %d%% acceptance rate, net price %s for your income bracket, %s, %s. Tier: %s.",
			i+1, s.College.Name, s.College.City, s.College.State,
			s.AdmissionScore, netPrice, completion, earnings, s.Tier))
	}

	gpa := "unknown"
	if student.GPA != nil {
		gpa = strconv.FormatFloat(*student.GPA, 'f', -1, 64)
	}
	grade := "unknown"
	if student.GradeLevel != nil {
		grade = strconv.Itoa(*student.GradeLevel)
	}
	state := student.StateOfResidence
	if state == "" {
		state = "unknown"
	}

	firstGenNote := ""
	if student.IsFirstGen {
		firstGenNote = "This student is first-generation (neither parent has a 4-year degree)."
	}
	majorNote := ""
	if student.IntendedMajor != "" {
		majorNote = fmt.Sprintf("Intended major: %s.", student.IntendedMajor)
	}

	return fmt.Sprintf(`You are a friendly, encouraging college counselor writing personalized college list explanations for a high school student.

Student profile: Grade %s, GPA %s, state %s. %s %s

Here are the colleges on their list with data:
%s

Write a 2-3 sentence plain-English explanation for EACH college, numbered to match. For each, explain:
- Why it appears on their list (admission likelihood, affordability, or strong outcomes)
- The single most compelling reason to consider it
- One caveat if relevant (highly competitive, missing net price data, etc.)

Rules:
- Use plain language. Never use jargon without explaining it.
- Address the student directly as "you."
- Each explanation must be under 65 words.
- Do not repeat the same opening phrase across explanations.

Format your response exactly as:
1. [explanation for college 1]
2. [explanation for college 2]
(continue for all colleges)`,
		grade, gpa, state, firstGenNote, majorNote, strings.Join(descriptions, "\n"))
}

// ParseExplanations reads a numbered-list response back into a slice
// aligned with the batch. Any index the model skipped gets the templated
// fallback so every college always ends up with text.
func ParseExplanations(response string, scores []models.CollegeScore) []string {
	explanations := make([]string, len(scores))

	for _, line := range strings.Split(response, "\n") {
		match := numberedLine.FindStringSubmatch(strings.TrimSpace(line))
		if match == nil {
			continue
		}
		index, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		index--
		if index >= 0 && index < len(scores) {
			explanations[index] = strings.TrimSpace(match[2])
		}
	}

	for i, text := range explanations {
		if text == "" {
			explanations[i] = FallbackExplanation(scores[i])
		}
	}
	return explanations
}

// FallbackExplanation is the templated text used when the model output is
// missing or unusable for a college.
func FallbackExplanation(score models.CollegeScore) string {
	return fmt.Sprintf(
		"%s is a %s school for you based on its %d%% acceptance rate and affordability for your income bracket.",
		score.College.Name, score.Tier, score.AdmissionScore)
}
