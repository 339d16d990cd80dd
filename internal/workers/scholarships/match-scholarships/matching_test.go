// internal/workers/scholarships/match-scholarships/matching_test.go
package matchscholarships

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collegepath-workers/internal/models"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func createTestStudent() models.StudentProfile {
	return models.StudentProfile{
		ID:               "student-1",
		GPA:              floatPtr(3.7),
		StateOfResidence: "CA",
		IncomeBracket:    models.Bracket48to75k,
		IsFirstGen:       false,
		IntendedMajor:    "Computer Science",
	}
}

func TestScoreScholarship_FirstGenDisqualifies(t *testing.T) {
	student := createTestStudent()
	scholarship := models.Scholarship{
		ID:               "sch-1",
		Name:             "First Gen Fund",
		RequiresFirstGen: true,
		IsActive:         true,
	}

	result := ScoreScholarship(scholarship, student)
	assert.Nil(t, result)

	student.IsFirstGen = true
	result = ScoreScholarship(scholarship, student)
	require.NotNil(t, result)
	assert.Contains(t, result.Reasons, "first-generation student")
}

func TestScoreScholarship_GPADisqualifies(t *testing.T) {
	student := createTestStudent()
	scholarship := models.Scholarship{
		ID:       "sch-1",
		MinGPA:   floatPtr(3.8),
		IsActive: true,
	}

	assert.Nil(t, ScoreScholarship(scholarship, student))

	// Missing GPA is not a disqualifier.
	student.GPA = nil
	assert.NotNil(t, ScoreScholarship(scholarship, student))
}

func TestScoreScholarship_StateRestriction(t *testing.T) {
	scholarship := models.Scholarship{
		ID:             "sch-1",
		EligibleStates: []string{"TX", "OK"},
		IsActive:       true,
	}

	student := createTestStudent()
	assert.Nil(t, ScoreScholarship(scholarship, student), "wrong state disqualifies")

	student.StateOfResidence = "TX"
	result := ScoreScholarship(scholarship, student)
	require.NotNil(t, result)
	assert.Contains(t, result.Reasons, "eligible in TX")

	// Unknown residence: no disqualification, but no state bonus either.
	student.StateOfResidence = ""
	result = ScoreScholarship(scholarship, student)
	require.NotNil(t, result)
	assert.NotContains(t, result.Reasons, "eligible in TX")
}

func TestScoreScholarship_NationalBaseline(t *testing.T) {
	// Unrestricted no-essay scholarship: 10 national + 10 no GPA req
	// + 5 no major restriction + 5 no essay.
	scholarship := models.Scholarship{
		ID:       "sch-1",
		IsActive: true,
	}

	result := ScoreScholarship(scholarship, createTestStudent())
	require.NotNil(t, result)
	assert.Equal(t, 30, result.Score)
	assert.Equal(t, []string{"nationally available", "no essay required"}, result.Reasons)
}

func TestScoreScholarship_GPABonusCapped(t *testing.T) {
	student := createTestStudent()
	student.GPA = floatPtr(4.0)

	// 2.0 excess over the minimum would be 14 points; 3.0 excess hits the cap.
	tests := []struct {
		name      string
		minGPA    float64
		wantScore int
		wantGPA   string
	}{
		{"under cap", 2.0, 10 + 14 + 5 + 5, "GPA 4.0 meets minimum 2"},
		{"at cap", 1.0, 10 + 15 + 5 + 5, "GPA 4.0 meets minimum 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scholarship := models.Scholarship{
				ID:       "sch-1",
				MinGPA:   floatPtr(tt.minGPA),
				IsActive: true,
			}
			result := ScoreScholarship(scholarship, student)
			require.NotNil(t, result)
			assert.Equal(t, tt.wantScore, result.Score)
			assert.Contains(t, result.Reasons, tt.wantGPA)
		})
	}
}

func TestScoreScholarship_MajorMatch(t *testing.T) {
	student := createTestStudent()

	matched := models.Scholarship{
		ID:             "sch-1",
		EligibleMajors: []string{"computer science", "engineering"},
		IsActive:       true,
	}
	result := ScoreScholarship(matched, student)
	require.NotNil(t, result)
	assert.Contains(t, result.Reasons, "matches your major: Computer Science")
	// 10 national + 10 no GPA req + 20 major + 5 no essay
	assert.Equal(t, 45, result.Score)

	mismatched := models.Scholarship{
		ID:             "sch-2",
		EligibleMajors: []string{"Nursing"},
		IsActive:       true,
	}
	result = ScoreScholarship(mismatched, student)
	require.NotNil(t, result)
	// Mismatch costs 10 but does not disqualify: 10 + 10 - 10 + 5.
	assert.Equal(t, 15, result.Score)
}

func TestScoreScholarship_LowIncomeBonus(t *testing.T) {
	scholarship := models.Scholarship{
		ID:              "sch-1",
		DemographicTags: []string{models.DemographicTagLowIncome},
		IsActive:        true,
	}

	student := createTestStudent()
	result := ScoreScholarship(scholarship, student)
	require.NotNil(t, result)
	assert.NotContains(t, result.Reasons, "low-income eligible")

	student.IncomeBracket = models.Bracket0to30k
	result = ScoreScholarship(scholarship, student)
	require.NotNil(t, result)
	assert.Contains(t, result.Reasons, "low-income eligible")
	assert.Equal(t, 45, result.Score)
}

func TestScoreScholarship_RelevanceFloor(t *testing.T) {
	// State-restricted (unknown residence), essay required, major
	// mismatch: nothing left above the floor.
	scholarship := models.Scholarship{
		ID:             "sch-1",
		EligibleStates: []string{"TX"},
		EligibleMajors: []string{"Nursing"},
		MinGPA:         floatPtr(3.7),
		RequiresEssay:  true,
		IsActive:       true,
	}

	student := createTestStudent()
	student.StateOfResidence = ""

	assert.Nil(t, ScoreScholarship(scholarship, student))
}

func TestScoreScholarship_MaxScore(t *testing.T) {
	// Every bonus at once tops out at exactly 100.
	scholarship := models.Scholarship{
		ID:               "sch-1",
		RequiresFirstGen: true,
		MinGPA:           floatPtr(1.0),
		EligibleStates:   []string{"CA"},
		EligibleMajors:   []string{"Computer Science"},
		DemographicTags:  []string{models.DemographicTagLowIncome},
		IsActive:         true,
	}

	student := createTestStudent()
	student.IsFirstGen = true
	student.GPA = floatPtr(4.0)
	student.IncomeBracket = models.Bracket0to30k

	result := ScoreScholarship(scholarship, student)
	require.NotNil(t, result)
	assert.Equal(t, 100, result.Score)
}

func TestMatchScholarships_SortsAndFilters(t *testing.T) {
	student := createTestStudent()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	scholarships := []models.Scholarship{
		{ID: "inactive", IsActive: false},
		{ID: "baseline", IsActive: true},
		{ID: "major", EligibleMajors: []string{"Computer Science"}, IsActive: true},
		{ID: "first-gen-only", RequiresFirstGen: true, IsActive: true},
	}

	matches := MatchScholarships(scholarships, student, now)
	require.Len(t, matches, 2)
	assert.Equal(t, "major", matches[0].Scholarship.ID)
	assert.Equal(t, "baseline", matches[1].Scholarship.ID)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestCalcDaysUntilDeadline(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		month *int
		day   *int
		want  *int
	}{
		{"rolling deadline", nil, nil, nil},
		{"missing day", intPtr(6), nil, nil},
		{"upcoming this year", intPtr(6), intPtr(1), intPtr(78)},
		{"passed, rolls to next year", intPtr(1), intPtr(1), intPtr(292)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalcDaysUntilDeadline(tt.month, tt.day, now)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestCalcDaysUntilDeadline_SameDay(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	got := CalcDaysUntilDeadline(intPtr(3), intPtr(15), now)
	require.NotNil(t, got)
	assert.Equal(t, 0, *got)
}
