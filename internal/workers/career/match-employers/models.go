// internal/workers/career/match-employers/models.go
package matchemployers

import "collegepath-workers/internal/models"

// Input carries the job variables for the match-employers task.
type Input struct {
	StudentProfileID string `json:"studentProfileId"`

	// Profile can be supplied inline to skip the profile lookup.
	Profile *models.StudentProfile `json:"profile,omitempty"`
}

// Output is written back to the process instance on completion.
type Output struct {
	AgentRunID        string `json:"agentRunId"`
	EmployersReviewed int    `json:"employersReviewed"`
	MatchCount        int    `json:"matchCount"`
	MajorMatchCount   int    `json:"majorMatchCount"`
}
