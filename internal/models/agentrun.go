// internal/models/agentrun.go
package models

import "time"

// AgentType identifies which agent a run record belongs to.
type AgentType string

const (
	AgentDiscovery    AgentType = "discovery"
	AgentScholarships AgentType = "scholarships"
	AgentApplications AgentType = "application_management"
	AgentCareer       AgentType = "career"
	AgentFinancialAid AgentType = "financial_aid"
)

// AgentStatus is the lifecycle state of a run record.
type AgentStatus string

const (
	RunPending   AgentStatus = "pending"
	RunRunning   AgentStatus = "running"
	RunCompleted AgentStatus = "completed"
	RunFailed    AgentStatus = "failed"
)

// AgentRun is the bookkeeping row written around every worker invocation
// that persists derived state. The run is created as running before the
// delete+insert and finalized as completed or failed afterwards.
type AgentRun struct {
	ID               string      `json:"id"`
	StudentProfileID string      `json:"studentProfileId"`
	AgentType        AgentType   `json:"agentType"`
	Status           AgentStatus `json:"status"`
	Summary          string      `json:"summary,omitempty"`
	ErrorMessage     string      `json:"errorMessage,omitempty"`
	StartedAt        time.Time   `json:"startedAt"`
	CompletedAt      *time.Time  `json:"completedAt,omitempty"`
	DurationMs       int64       `json:"durationMs"`
}
