// internal/workers/scholarships/match-scholarships/matching.go
package matchscholarships

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"collegepath-workers/internal/models"
)

// MatchResult is one scored scholarship. Disqualified pairs produce no
// result at all, which is distinct from a zero score.
type MatchResult struct {
	Scholarship       models.Scholarship `json:"scholarship"`
	Score             int                `json:"score"`
	Reasons           []string           `json:"reasons"`
	DaysUntilDeadline *int               `json:"daysUntilDeadline"`
}

const minRelevanceScore = 15

// ScoreScholarship scores a single scholarship against a student profile.
// Returns nil if the student is hard-disqualified (wrong state, GPA below
// minimum, missing first-gen status) or the score falls below the
// relevance floor.
func ScoreScholarship(scholarship models.Scholarship, student models.StudentProfile) *MatchResult {
	var reasons []string
	score := 0

	// Hard disqualifiers
	if scholarship.RequiresFirstGen && !student.IsFirstGen {
		return nil
	}

	if scholarship.MinGPA != nil && student.GPA != nil && *student.GPA < *scholarship.MinGPA {
		return nil
	}

	if scholarship.EligibleStates != nil {
		if student.StateOfResidence != "" && !containsString(scholarship.EligibleStates, student.StateOfResidence) {
			return nil
		}
		if student.StateOfResidence != "" {
			score += 15
			reasons = append(reasons, fmt.Sprintf("eligible in %s", student.StateOfResidence))
		}
	} else {
		// National scholarship, accessible from anywhere
		score += 10
		reasons = append(reasons, "nationally available")
	}

	// First-gen bonus
	if scholarship.RequiresFirstGen && student.IsFirstGen {
		score += 30
		reasons = append(reasons, "first-generation student")
	} else if !scholarship.RequiresFirstGen && student.IsFirstGen {
		score += 5 // mild bonus: more scholarships apply to them
	}

	// GPA match
	if scholarship.MinGPA != nil && student.GPA != nil && *student.GPA >= *scholarship.MinGPA {
		excess := *student.GPA - *scholarship.MinGPA
		gpaBonus := int(math.Round(excess * 7))
		if gpaBonus > 15 {
			gpaBonus = 15
		}
		score += gpaBonus
		reasons = append(reasons, fmt.Sprintf("GPA %.1f meets minimum %s",
			*student.GPA, strconv.FormatFloat(*scholarship.MinGPA, 'f', -1, 64)))
	} else if scholarship.MinGPA == nil {
		score += 10 // no GPA requirement = accessible
	}

	// Major match
	if scholarship.EligibleMajors != nil && student.IntendedMajor != "" {
		if majorMatches(scholarship.EligibleMajors, student.IntendedMajor) {
			score += 20
			reasons = append(reasons, fmt.Sprintf("matches your major: %s", student.IntendedMajor))
		} else {
			// Major-restricted but no match: reduce score, don't disqualify
			score -= 10
		}
	} else if scholarship.EligibleMajors == nil {
		score += 5 // no major restriction = accessible
	}

	// Demographic tags
	if containsString(scholarship.DemographicTags, models.DemographicTagLowIncome) &&
		student.IncomeBracket.IsLowIncome() {
		score += 15
		reasons = append(reasons, "low-income eligible")
	}

	// No-essay bonus
	if !scholarship.RequiresEssay {
		score += 5
		reasons = append(reasons, "no essay required")
	}

	// Minimum relevance threshold
	if score < minRelevanceScore {
		return nil
	}
	if score > 100 {
		score = 100
	}

	return &MatchResult{Scholarship: scholarship, Score: score, Reasons: reasons}
}

// MatchScholarships scores every active scholarship for the student and
// returns the surviving matches sorted by score descending.
func MatchScholarships(scholarships []models.Scholarship, student models.StudentProfile, now time.Time) []MatchResult {
	var matches []MatchResult
	for _, sch := range scholarships {
		if !sch.IsActive {
			continue
		}
		result := ScoreScholarship(sch, student)
		if result == nil {
			continue
		}
		result.DaysUntilDeadline = CalcDaysUntilDeadline(sch.DeadlineMonth, sch.DeadlineDay, now)
		matches = append(matches, *result)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// CalcDaysUntilDeadline returns the day count to the nearest future
// occurrence of the month/day deadline, rolling over the year boundary.
// Nil means a rolling deadline.
func CalcDaysUntilDeadline(deadlineMonth, deadlineDay *int, now time.Time) *int {
	if deadlineMonth == nil || deadlineDay == nil {
		return nil
	}

	deadline := time.Date(now.Year(), time.Month(*deadlineMonth), *deadlineDay, 0, 0, 0, 0, now.Location())
	if deadline.Before(now) {
		deadline = time.Date(now.Year()+1, time.Month(*deadlineMonth), *deadlineDay, 0, 0, 0, 0, now.Location())
	}

	days := int(math.Ceil(deadline.Sub(now).Hours() / 24))
	return &days
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func majorMatches(eligibleMajors []string, studentMajor string) bool {
	studentLower := strings.ToLower(studentMajor)
	for _, m := range eligibleMajors {
		mLower := strings.ToLower(m)
		if strings.Contains(studentLower, mLower) || strings.Contains(mLower, studentLower) {
			return true
		}
	}
	return false
}
