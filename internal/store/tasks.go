// internal/store/tasks.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"collegepath-workers/internal/models"
)

// TaskStore manages a student's derived application tasks.
type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

// ReplaceTasks wholesale-replaces the student's task list in one transaction.
func (s *TaskStore) ReplaceTasks(ctx context.Context, studentID string, tasks []models.ApplicationTask) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM application_tasks WHERE student_profile_id = $1`, studentID); err != nil {
		return fmt.Errorf("delete prior tasks: %w", err)
	}

	for _, task := range tasks {
		var collegeID interface{}
		if task.CollegeID != "" {
			collegeID = task.CollegeID
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO application_tasks
				(student_profile_id, college_id, task_type, title, description,
				 deadline_date, deadline_label, is_conflict, conflict_note, is_completed)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			studentID, collegeID, string(task.TaskType), task.Title, task.Description,
			task.DeadlineDate, task.DeadlineLabel, task.IsConflict, task.ConflictNote, task.IsCompleted)
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
	}

	return tx.Commit()
}

// PendingDeadlines returns the deadline dates of the student's incomplete
// tasks. Nulls (rolling deadlines) are skipped.
func (s *TaskStore) PendingDeadlines(ctx context.Context, studentID string) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT deadline_date FROM application_tasks
		WHERE student_profile_id = $1 AND is_completed = FALSE AND deadline_date IS NOT NULL`,
		studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deadlines []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		deadlines = append(deadlines, d)
	}
	return deadlines, rows.Err()
}

// HasCollegeList reports whether the student has any college-list rows.
func (s *TaskStore) HasCollegeList(ctx context.Context, studentID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM college_list_entries WHERE student_profile_id = $1`, studentID).Scan(&n)
	return n > 0, err
}

// FafsaProgress returns the student's FAFSA step state. completed_steps is a
// JSON text column; callers only see the decoded slice.
func (s *TaskStore) FafsaProgress(ctx context.Context, studentID string) (currentStep int, completedSteps []int, err error) {
	var stepsCol sql.NullString
	err = s.db.QueryRowContext(ctx, `
		SELECT current_step, completed_steps FROM fafsa_progress
		WHERE student_profile_id = $1`, studentID).Scan(&currentStep, &stepsCol)
	if err == sql.ErrNoRows {
		return 0, nil, nil
	}
	if err != nil {
		return 0, nil, err
	}
	if stepsCol.Valid && stepsCol.String != "" {
		if jsonErr := json.Unmarshal([]byte(stepsCol.String), &completedSteps); jsonErr != nil {
			completedSteps = nil
		}
	}
	return currentStep, completedSteps, nil
}

func encodeStringList(list []string) (string, error) {
	data, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
