// internal/workers/applications/compute-urgency/urgency.go
package computeurgency

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// fafsaFinalStep is the last step of the guided FAFSA walkthrough; a
// student at this step is done and carries no FAFSA urgency.
const fafsaFinalStep = 12

// UrgencyInput bundles the signals the urgency score is computed from.
type UrgencyInput struct {
	HasCollegeList        bool
	HasScholarshipMatches bool
	FafsaCurrentStep      int
	PendingDeadlines      []time.Time
}

func daysUntil(target, now time.Time) int {
	return int(math.Floor(target.Sub(now).Hours() / 24))
}

// fafsaOpen reports whether the FAFSA filing window is open; it opens
// October 1 each year.
func fafsaOpen(now time.Time) bool {
	return now.Month() >= time.October
}

// ComputeUrgencyScore produces a 0-100 triage score. Terms are additive
// and non-negative; only the nearest-deadline band applies.
func ComputeUrgencyScore(input UrgencyInput, now time.Time) int {
	score := 0

	if !input.HasCollegeList {
		score += 15
	}
	if !input.HasScholarshipMatches {
		score += 10
	}

	if fafsaOpen(now) {
		if input.FafsaCurrentStep == 0 {
			score += 30
		} else if input.FafsaCurrentStep < fafsaFinalStep {
			score += 10
		}
	}

	if len(input.PendingDeadlines) > 0 {
		earliest := earliestDays(input.PendingDeadlines, now)
		switch {
		case earliest <= 3:
			score += 40
		case earliest <= 7:
			score += 30
		case earliest <= 14:
			score += 20
		case earliest <= 30:
			score += 10
		}
	}

	if score > 100 {
		score = 100
	}
	return score
}

// BuildFlaggedReason lists the triggered conditions in a fixed order, or
// "On track" when nothing triggers. Deadlines only count within 30 days.
func BuildFlaggedReason(input UrgencyInput, now time.Time) string {
	var parts []string

	if !input.HasCollegeList {
		parts = append(parts, "No college list")
	}
	if fafsaOpen(now) && input.FafsaCurrentStep == 0 {
		parts = append(parts, "FAFSA not started")
	}
	if !input.HasScholarshipMatches {
		parts = append(parts, "Scholarships not matched")
	}

	if len(input.PendingDeadlines) > 0 {
		earliest := earliestDays(input.PendingDeadlines, now)
		if earliest <= 30 {
			unit := "days"
			if earliest == 1 {
				unit = "day"
			}
			parts = append(parts, fmt.Sprintf("Application deadline in %d %s", earliest, unit))
		}
	}

	if len(parts) == 0 {
		return "On track"
	}
	return strings.Join(parts, ", ")
}

func earliestDays(deadlines []time.Time, now time.Time) int {
	earliest := daysUntil(deadlines[0], now)
	for _, d := range deadlines[1:] {
		if days := daysUntil(d, now); days < earliest {
			earliest = days
		}
	}
	return earliest
}
