package scorecollegelist

import (
	"testing"

	"collegepath-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func createTestStudent() models.StudentProfile {
	return models.StudentProfile{
		ID:            "student-1",
		IncomeBracket: models.Bracket48to75k,
		IsFirstGen:    false,
		IntendedMajor: "Computer Science",
	}
}

func TestScoreAdmission(t *testing.T) {
	tests := []struct {
		name     string
		rate     *float64
		expected int
	}{
		{"null rate is neutral", nil, 50},
		{"zero rate", floatPtr(0.0), 0},
		{"full rate", floatPtr(1.0), 100},
		{"typical selective", floatPtr(0.12), 12},
		{"rounds half up", floatPtr(0.375), 38},
		{"open admission", floatPtr(0.87), 87},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ScoreAdmission(tt.rate))
		})
	}
}

func TestScoreNetPrice(t *testing.T) {
	tests := []struct {
		name     string
		netPrice *int
		bracket  models.IncomeBracket
		expected int
	}{
		{"null net price scores 40", nil, models.Bracket48to75k, 40},
		// midpoint 61000: ratio 0.25 boundary is 15250
		{"at floor ratio", intPtr(15250), models.Bracket48to75k, 100},
		{"below floor clamps to 100", intPtr(5000), models.Bracket48to75k, 100},
		// ceiling is 45750
		{"at ceiling ratio", intPtr(45750), models.Bracket48to75k, 0},
		{"above ceiling clamps to 0", intPtr(80000), models.Bracket48to75k, 0},
		// midway, ratio 0.5 -> score 50
		{"midway between floor and ceiling", intPtr(30500), models.Bracket48to75k, 50},
		// lowest bracket: midpoint 20000, ratio 1.0 -> well past ceiling
		{"expensive for low income", intPtr(20000), models.Bracket0to30k, 0},
		// highest bracket: midpoint 140000, 35000 is exactly the floor ratio
		{"cheap for high income", intPtr(35000), models.Bracket110kPlus, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ScoreNetPrice(tt.netPrice, tt.bracket, DefaultPolicy))
		})
	}
}

func TestScoreOutcome(t *testing.T) {
	tests := []struct {
		name       string
		completion *float64
		earnings   *int
		expected   int
	}{
		{"both null is neutral", nil, nil, 50},
		// completion 90 -> 36; earnings at national median -> 50 -> 30
		{"strong completion median earnings", floatPtr(0.9), intPtr(45000), 66},
		// earnings at 2x median caps at 100
		{"earnings capped at 100", floatPtr(1.0), intPtr(200000), 100},
		{"null completion defaults neutral", nil, intPtr(90000), 80},
		{"null earnings defaults neutral", floatPtr(0.5), nil, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ScoreOutcome(tt.completion, tt.earnings, DefaultPolicy))
		})
	}
}

func TestCompositeScore(t *testing.T) {
	assert.Equal(t, 100, CompositeScore(100, 100, 100))
	assert.Equal(t, 0, CompositeScore(0, 0, 0))
	assert.Equal(t, 30, CompositeScore(100, 0, 0))
	assert.Equal(t, 40, CompositeScore(0, 100, 0))
	assert.Equal(t, 30, CompositeScore(0, 0, 100))
}

func TestClassifyTier(t *testing.T) {
	tests := []struct {
		score    int
		expected models.CollegeTier
	}{
		{0, models.TierReach},
		{34, models.TierReach},
		{35, models.TierMatch},
		{69, models.TierMatch},
		{70, models.TierLikely},
		{100, models.TierLikely},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ClassifyTier(tt.score), "score %d", tt.score)
	}
}

func TestScoreCollege_RequiresIncomeBracket(t *testing.T) {
	student := createTestStudent()
	student.IncomeBracket = ""

	_, err := ScoreCollege(models.College{ID: "c1", Name: "Test U"}, student, DefaultPolicy)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ONBOARDING_INCOMPLETE")
}

func TestScoreCollege_TierFollowsAdmissionOnly(t *testing.T) {
	// Low admission rate but very affordable: reach tier, high composite.
	college := models.College{
		ID:                "c1",
		Name:              "Selective Cheap U",
		AdmissionRate:     floatPtr(0.05),
		CompletionRate:    floatPtr(0.95),
		NetPrice48to75k:   intPtr(10000),
		MedianEarnings10y: intPtr(90000),
	}

	score, err := ScoreCollege(college, createTestStudent(), DefaultPolicy)
	require.NoError(t, err)

	assert.Equal(t, models.TierReach, score.Tier)
	assert.Equal(t, 5, score.AdmissionScore)
	assert.Equal(t, 100, score.NetPriceScore)
	assert.Greater(t, score.CompositeScore, 70)
}

func TestScoreCollege_AllNullFields(t *testing.T) {
	score, err := ScoreCollege(models.College{ID: "c1", Name: "Unknown U"}, createTestStudent(), DefaultPolicy)
	require.NoError(t, err)

	assert.Equal(t, 50, score.AdmissionScore)
	assert.Equal(t, 40, score.NetPriceScore)
	assert.Equal(t, 50, score.OutcomeScore)
	// 50*0.3 + 40*0.4 + 50*0.3 = 46
	assert.Equal(t, 46, score.CompositeScore)
	assert.Equal(t, models.TierMatch, score.Tier)
}

func TestSelectTopPerTier(t *testing.T) {
	var scores []models.CollegeScore
	mk := func(name string, tier models.CollegeTier, composite int) models.CollegeScore {
		return models.CollegeScore{
			College:        models.College{ID: name, Name: name},
			CompositeScore: composite,
			Tier:           tier,
		}
	}

	for i := 0; i < 8; i++ {
		scores = append(scores, mk(string(rune('a'+i)), models.TierMatch, 40+i))
	}
	scores = append(scores, mk("reach-1", models.TierReach, 90))
	scores = append(scores, mk("likely-1", models.TierLikely, 55))

	selected := SelectTopPerTier(scores, 5)

	require.Len(t, selected, 7)
	assert.Equal(t, "reach-1", selected[0].College.Name)
	// top 5 match entries by composite descending
	assert.Equal(t, 47, selected[1].CompositeScore)
	assert.Equal(t, 43, selected[5].CompositeScore)
	assert.Equal(t, "likely-1", selected[6].College.Name)
}

func TestSelectTopPerTier_TieBreakByName(t *testing.T) {
	scores := []models.CollegeScore{
		{College: models.College{Name: "Zeta"}, CompositeScore: 50, Tier: models.TierMatch},
		{College: models.College{Name: "Alpha"}, CompositeScore: 50, Tier: models.TierMatch},
	}

	selected := SelectTopPerTier(scores, 5)
	require.Len(t, selected, 2)
	assert.Equal(t, "Alpha", selected[0].College.Name)
}
