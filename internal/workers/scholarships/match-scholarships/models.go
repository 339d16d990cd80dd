// internal/workers/scholarships/match-scholarships/models.go
package matchscholarships

import "collegepath-workers/internal/models"

type Input struct {
	StudentProfileID string `json:"studentProfileId"`
	// Profile may be supplied inline to skip the storage lookup.
	Profile *models.StudentProfile `json:"profile,omitempty"`
}

type Output struct {
	AgentRunID           string `json:"agentRunId"`
	ScholarshipsReviewed int    `json:"scholarshipsReviewed"`
	MatchCount           int    `json:"matchCount"`
	TopScore             int    `json:"topScore"`
}
