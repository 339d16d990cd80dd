// internal/workers/discovery/score-college-list/models.go
package scorecollegelist

import "collegepath-workers/internal/models"

type Input struct {
	StudentProfileID string `json:"studentProfileId"`
	// Profile may be supplied inline to skip the storage lookup.
	Profile *models.StudentProfile `json:"profile,omitempty"`
}

type Output struct {
	AgentRunID        string `json:"agentRunId"`
	CollegesEvaluated int    `json:"collegesEvaluated"`
	ListSize          int    `json:"listSize"`
	ReachCount        int    `json:"reachCount"`
	MatchCount        int    `json:"matchCount"`
	LikelyCount       int    `json:"likelyCount"`
}
