// internal/workers/applications/compute-urgency/models.go
package computeurgency

// Input carries the job variables for the compute-urgency task.
type Input struct {
	StudentProfileID string `json:"studentProfileId"`
}

// Output is written back to the process instance on completion.
type Output struct {
	UrgencyScore  int    `json:"urgencyScore"`
	FlaggedReason string `json:"flaggedReason"`
	IsFlagged     bool   `json:"isFlagged"`
}
