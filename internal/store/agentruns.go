// internal/store/agentruns.go
package store

import (
	"context"
	"database/sql"
	"time"

	"collegepath-workers/internal/models"

	"github.com/google/uuid"
)

// AgentRunStore writes the bookkeeping row around every agent invocation.
type AgentRunStore struct {
	db *sql.DB
}

func NewAgentRunStore(db *sql.DB) *AgentRunStore {
	return &AgentRunStore{db: db}
}

// Start inserts a running record and returns its ID.
func (s *AgentRunStore) Start(ctx context.Context, studentID string, agentType models.AgentType) (string, error) {
	runID := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO agent_runs (id, student_profile_id, agent_type, status, started_at)
		VALUES ($1, $2, $3, $4, $5)`,
		runID, studentID, string(agentType), string(models.RunRunning), time.Now().UTC())
	if err != nil {
		return "", err
	}
	return runID, nil
}

// Complete finalizes a run as completed with a human-readable summary.
func (s *AgentRunStore) Complete(ctx context.Context, runID, summary string, duration time.Duration) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE agent_runs
		SET status = $1, summary = $2, duration_ms = $3, completed_at = $4
		WHERE id = $5`,
		string(models.RunCompleted), summary, duration.Milliseconds(), time.Now().UTC(), runID)
	return err
}

// Fail finalizes a run as failed, recording the error message.
func (s *AgentRunStore) Fail(ctx context.Context, runID, errorMessage string, duration time.Duration) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE agent_runs
		SET status = $1, error_message = $2, duration_ms = $3, completed_at = $4
		WHERE id = $5`,
		string(models.RunFailed), errorMessage, duration.Milliseconds(), time.Now().UTC(), runID)
	return err
}
