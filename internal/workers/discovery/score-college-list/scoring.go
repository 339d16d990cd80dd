// internal/workers/discovery/score-college-list/scoring.go
package scorecollegelist

import (
	"math"
	"sort"

	commonerrors "collegepath-workers/internal/common/errors"
	"collegepath-workers/internal/models"
)

// Policy holds the affordability and outcome heuristics. The numbers are
// tunable configuration, not domain law; defaults match the production values.
type Policy struct {
	AffordabilityFloorRatio   float64 // full affordability at or below this ratio of bracket midpoint
	AffordabilityCeilingRatio float64 // zero affordability at or above this ratio
	NationalMedianEarnings    int
}

var DefaultPolicy = Policy{
	AffordabilityFloorRatio:   0.25,
	AffordabilityCeilingRatio: 0.75,
	NationalMedianEarnings:    45000,
}

const (
	neutralScore         = 50
	missingNetPriceScore = 40

	tierLikelyCutoff = 70
	tierMatchCutoff  = 35
)

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func roundScore(v float64) int {
	return int(math.Round(v))
}

// ScoreAdmission converts an admission rate into a 0-100 score. A null rate
// scores neutral so missing data never biases tier classification.
func ScoreAdmission(rate *float64) int {
	if rate == nil {
		return neutralScore
	}
	return clampScore(roundScore(*rate * 100))
}

// ScoreNetPrice maps the bracket net price against the bracket's income
// midpoint: 100 at or below the floor ratio, 0 at or above the ceiling,
// linear between. A null net price scores slightly below neutral to reflect
// missing-data risk.
func ScoreNetPrice(netPrice *int, bracket models.IncomeBracket, p Policy) int {
	if netPrice == nil {
		return missingNetPriceScore
	}
	midpoint := models.BracketMidpoint(bracket)
	ratio := float64(*netPrice) / float64(midpoint)
	raw := (1 - (ratio-p.AffordabilityFloorRatio)/(p.AffordabilityCeilingRatio-p.AffordabilityFloorRatio)) * 100
	return clampScore(roundScore(raw))
}

// ScoreOutcome blends completion rate (40%) and earnings vs the national
// median (60%). Either input may be null and defaults to neutral.
func ScoreOutcome(completionRate *float64, medianEarnings *int, p Policy) int {
	completionScore := neutralScore
	if completionRate != nil {
		completionScore = roundScore(*completionRate * 100)
	}

	earningsScore := neutralScore
	if medianEarnings != nil {
		earningsScore = roundScore(float64(*medianEarnings) / float64(p.NationalMedianEarnings) * 50)
		if earningsScore > 100 {
			earningsScore = 100
		}
	}

	return clampScore(roundScore(float64(completionScore)*0.4 + float64(earningsScore)*0.6))
}

// CompositeScore is the weighted blend used to rank colleges within a tier.
func CompositeScore(admission, netPrice, outcome int) int {
	return clampScore(roundScore(float64(admission)*0.3 + float64(netPrice)*0.4 + float64(outcome)*0.3))
}

// ClassifyTier classifies by admission score alone. A school can be a reach
// on admission odds yet carry a high composite; that divergence is intended.
func ClassifyTier(admissionScore int) models.CollegeTier {
	switch {
	case admissionScore >= tierLikelyCutoff:
		return models.TierLikely
	case admissionScore >= tierMatchCutoff:
		return models.TierMatch
	default:
		return models.TierReach
	}
}

// ScoreCollege scores one college for one student. The student must have an
// income bracket; scoring never silently defaults it.
func ScoreCollege(college models.College, student models.StudentProfile, p Policy) (models.CollegeScore, error) {
	if !student.IncomeBracket.IsValid() {
		return models.CollegeScore{}, commonerrors.NewOnboardingIncompleteError([]string{"incomeBracket"})
	}

	admission := ScoreAdmission(college.AdmissionRate)
	netPrice := ScoreNetPrice(college.NetPriceForBracket(student.IncomeBracket), student.IncomeBracket, p)
	outcome := ScoreOutcome(college.CompletionRate, college.MedianEarnings10y, p)

	return models.CollegeScore{
		College:        college,
		AdmissionScore: admission,
		NetPriceScore:  netPrice,
		OutcomeScore:   outcome,
		CompositeScore: CompositeScore(admission, netPrice, outcome),
		Tier:           ClassifyTier(admission),
	}, nil
}

// SelectTopPerTier keeps the best perTier entries of each tier, ranked by
// composite score with name as the deterministic tie-break. Result order is
// reach, then match, then likely.
func SelectTopPerTier(scores []models.CollegeScore, perTier int) []models.CollegeScore {
	byTier := map[models.CollegeTier][]models.CollegeScore{}
	for _, s := range scores {
		byTier[s.Tier] = append(byTier[s.Tier], s)
	}

	var selected []models.CollegeScore
	for _, tier := range []models.CollegeTier{models.TierReach, models.TierMatch, models.TierLikely} {
		group := byTier[tier]
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].CompositeScore != group[j].CompositeScore {
				return group[i].CompositeScore > group[j].CompositeScore
			}
			return group[i].College.Name < group[j].College.Name
		})
		if len(group) > perTier {
			group = group[:perTier]
		}
		selected = append(selected, group...)
	}
	return selected
}
