// internal/workers/financial-aid/project-costs/models.go
package projectcosts

import "collegepath-workers/internal/models"

// Input carries the job variables for the project-costs task.
type Input struct {
	StudentProfileID string `json:"studentProfileId"`

	// Profile can be supplied inline to skip the profile lookup.
	Profile *models.StudentProfile `json:"profile,omitempty"`
}

// Output is written back to the process instance on completion.
type Output struct {
	AgentRunID       string             `json:"agentRunId"`
	Summaries        []FinancialSummary `json:"summaries"`
	CollegesCovered  int                `json:"collegesCovered"`
	CollegesWithData int                `json:"collegesWithData"`
}
