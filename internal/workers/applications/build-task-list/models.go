// internal/workers/applications/build-task-list/models.go
package buildtasklist

// Input carries the job variables for the build-task-list task.
type Input struct {
	StudentProfileID string `json:"studentProfileId"`
}

// Output is written back to the process instance on completion.
type Output struct {
	AgentRunID    string `json:"agentRunId"`
	TaskCount     int    `json:"taskCount"`
	ConflictCount int    `json:"conflictCount"`
}
