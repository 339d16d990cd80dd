// internal/workers/applications/compute-urgency/urgency_test.go
package computeurgency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	march   = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	october = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
)

func deadlineIn(now time.Time, days int) []time.Time {
	return []time.Time{now.AddDate(0, 0, days)}
}

func onTrackInput() UrgencyInput {
	return UrgencyInput{
		HasCollegeList:        true,
		HasScholarshipMatches: true,
		FafsaCurrentStep:      fafsaFinalStep,
	}
}

func TestComputeUrgencyScore(t *testing.T) {
	tests := []struct {
		name  string
		input UrgencyInput
		now   time.Time
		want  int
	}{
		{"everything on track", onTrackInput(), march, 0},
		{
			"no college list",
			UrgencyInput{HasScholarshipMatches: true, FafsaCurrentStep: fafsaFinalStep},
			march, 15,
		},
		{
			"no scholarship matches",
			UrgencyInput{HasCollegeList: true, FafsaCurrentStep: fafsaFinalStep},
			march, 10,
		},
		{
			"fafsa not started while closed",
			UrgencyInput{HasCollegeList: true, HasScholarshipMatches: true, FafsaCurrentStep: 0},
			march, 0,
		},
		{
			"fafsa not started while open",
			UrgencyInput{HasCollegeList: true, HasScholarshipMatches: true, FafsaCurrentStep: 0},
			october, 30,
		},
		{
			"fafsa mid-progress while open",
			UrgencyInput{HasCollegeList: true, HasScholarshipMatches: true, FafsaCurrentStep: 5},
			october, 10,
		},
		{
			"fafsa complete while open",
			UrgencyInput{HasCollegeList: true, HasScholarshipMatches: true, FafsaCurrentStep: fafsaFinalStep},
			october, 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeUrgencyScore(tt.input, tt.now))
		})
	}
}

func TestComputeUrgencyScore_DeadlineBands(t *testing.T) {
	tests := []struct {
		name string
		days int
		want int
	}{
		{"overdue", -5, 40},
		{"three days", 3, 40},
		{"one week", 7, 30},
		{"two weeks", 14, 20},
		{"one month", 30, 10},
		{"far out", 60, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := onTrackInput()
			input.PendingDeadlines = deadlineIn(march, tt.days)
			assert.Equal(t, tt.want, ComputeUrgencyScore(input, march))
		})
	}
}

func TestComputeUrgencyScore_OnlyNearestBandApplies(t *testing.T) {
	input := onTrackInput()
	input.PendingDeadlines = []time.Time{
		march.AddDate(0, 0, 2),
		march.AddDate(0, 0, 10),
		march.AddDate(0, 0, 25),
	}
	assert.Equal(t, 40, ComputeUrgencyScore(input, march))
}

func TestComputeUrgencyScore_CapsAt100(t *testing.T) {
	input := UrgencyInput{
		FafsaCurrentStep: 0,
		PendingDeadlines: deadlineIn(october, 1),
	}
	// 15 + 10 + 30 + 40 = 95; add nothing else, stays under the cap.
	assert.Equal(t, 95, ComputeUrgencyScore(input, october))
	assert.LessOrEqual(t, ComputeUrgencyScore(input, october), 100)
}

func TestBuildFlaggedReason(t *testing.T) {
	tests := []struct {
		name  string
		input UrgencyInput
		now   time.Time
		want  string
	}{
		{"on track", onTrackInput(), march, "On track"},
		{
			"single condition",
			UrgencyInput{HasScholarshipMatches: true, FafsaCurrentStep: fafsaFinalStep},
			march, "No college list",
		},
		{
			"all conditions in fixed order",
			UrgencyInput{FafsaCurrentStep: 0, PendingDeadlines: deadlineIn(october, 5)},
			october,
			"No college list, FAFSA not started, Scholarships not matched, Application deadline in 5 days",
		},
		{
			"fafsa omitted when closed",
			UrgencyInput{HasCollegeList: true, HasScholarshipMatches: true, FafsaCurrentStep: 0},
			march, "On track",
		},
		{
			"singular day",
			func() UrgencyInput {
				in := onTrackInput()
				in.PendingDeadlines = deadlineIn(march, 1)
				return in
			}(),
			march, "Application deadline in 1 day",
		},
		{
			"far deadline stays quiet",
			func() UrgencyInput {
				in := onTrackInput()
				in.PendingDeadlines = deadlineIn(march, 45)
				return in
			}(),
			march, "On track",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildFlaggedReason(tt.input, tt.now))
		})
	}
}
