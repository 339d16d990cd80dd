// internal/store/colleges.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	"collegepath-workers/internal/models"
)

const collegeColumns = `
	id, name, city, state, ownership, student_size,
	admission_rate, completion_rate, median_earnings_10yr, cost_of_attendance,
	net_price_0_30k, net_price_30_48k, net_price_48_75k,
	net_price_75_110k, net_price_110k_plus`

// CollegeStore reads the cached college catalog and manages a student's
// derived college-list rows.
type CollegeStore struct {
	db *sql.DB
}

func NewCollegeStore(db *sql.DB) *CollegeStore {
	return &CollegeStore{db: db}
}

func scanCollege(scanner interface{ Scan(...interface{}) error }, c *models.College) error {
	return scanner.Scan(
		&c.ID, &c.Name, &c.City, &c.State, &c.Ownership, &c.StudentSize,
		&c.AdmissionRate, &c.CompletionRate, &c.MedianEarnings10y, &c.CostOfAttendance,
		&c.NetPrice0to30k, &c.NetPrice30to48k, &c.NetPrice48to75k,
		&c.NetPrice75to110k, &c.NetPrice110kPlus,
	)
}

// All returns the full cached catalog.
func (s *CollegeStore) All(ctx context.Context) ([]models.College, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT`+collegeColumns+` FROM colleges`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var colleges []models.College
	for rows.Next() {
		var c models.College
		if err := scanCollege(rows, &c); err != nil {
			return nil, err
		}
		colleges = append(colleges, c)
	}
	return colleges, rows.Err()
}

// SavedList returns the student's current college list joined with catalog rows.
func (s *CollegeStore) SavedList(ctx context.Context, studentID string) ([]models.CollegeListEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.city, c.state, c.ownership, c.student_size,
		       c.admission_rate, c.completion_rate, c.median_earnings_10yr, c.cost_of_attendance,
		       c.net_price_0_30k, c.net_price_30_48k, c.net_price_48_75k,
		       c.net_price_75_110k, c.net_price_110k_plus,
		       e.tier, e.explanation
		FROM college_list_entries e
		JOIN colleges c ON c.id = e.college_id
		WHERE e.student_profile_id = $1
		ORDER BY e.tier, e.composite_score DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.CollegeListEntry
	for rows.Next() {
		var entry models.CollegeListEntry
		var explanation sql.NullString
		err := rows.Scan(
			&entry.College.ID, &entry.College.Name, &entry.College.City, &entry.College.State,
			&entry.College.Ownership, &entry.College.StudentSize,
			&entry.College.AdmissionRate, &entry.College.CompletionRate,
			&entry.College.MedianEarnings10y, &entry.College.CostOfAttendance,
			&entry.College.NetPrice0to30k, &entry.College.NetPrice30to48k, &entry.College.NetPrice48to75k,
			&entry.College.NetPrice75to110k, &entry.College.NetPrice110kPlus,
			&entry.Tier, &explanation,
		)
		if err != nil {
			return nil, err
		}
		entry.Explanation = explanation.String
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ScoredList returns the student's list rows with their persisted scores,
// shaped for explanation runs.
func (s *CollegeStore) ScoredList(ctx context.Context, studentID string) ([]models.CollegeScore, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.city, c.state, c.ownership, c.student_size,
		       c.admission_rate, c.completion_rate, c.median_earnings_10yr, c.cost_of_attendance,
		       c.net_price_0_30k, c.net_price_30_48k, c.net_price_48_75k,
		       c.net_price_75_110k, c.net_price_110k_plus,
		       e.tier, e.admission_score, e.net_price_score, e.outcome_score, e.composite_score
		FROM college_list_entries e
		JOIN colleges c ON c.id = e.college_id
		WHERE e.student_profile_id = $1
		ORDER BY e.tier, e.composite_score DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []models.CollegeScore
	for rows.Next() {
		var score models.CollegeScore
		c := &score.College
		err := rows.Scan(
			&c.ID, &c.Name, &c.City, &c.State, &c.Ownership, &c.StudentSize,
			&c.AdmissionRate, &c.CompletionRate, &c.MedianEarnings10y, &c.CostOfAttendance,
			&c.NetPrice0to30k, &c.NetPrice30to48k, &c.NetPrice48to75k,
			&c.NetPrice75to110k, &c.NetPrice110kPlus,
			&score.Tier, &score.AdmissionScore, &score.NetPriceScore,
			&score.OutcomeScore, &score.CompositeScore,
		)
		if err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

// ReplaceList wholesale-replaces the student's college list with the given
// scored entries in a single transaction. Each discovery run produces a
// complete new list; nothing is merged.
func (s *CollegeStore) ReplaceList(ctx context.Context, studentID string, scores []models.CollegeScore, explanations map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM college_list_entries WHERE student_profile_id = $1`, studentID); err != nil {
		return fmt.Errorf("delete prior list: %w", err)
	}

	for _, score := range scores {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO college_list_entries
				(student_profile_id, college_id, tier,
				 admission_score, net_price_score, outcome_score, composite_score, explanation)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			studentID, score.College.ID, string(score.Tier),
			score.AdmissionScore, score.NetPriceScore, score.OutcomeScore, score.CompositeScore,
			explanations[score.College.ID],
		)
		if err != nil {
			return fmt.Errorf("insert list entry: %w", err)
		}
	}

	return tx.Commit()
}

// UpdateExplanations fills in explanation text for existing list rows.
func (s *CollegeStore) UpdateExplanations(ctx context.Context, studentID string, explanations map[string]string) error {
	for collegeID, text := range explanations {
		_, err := s.db.ExecContext(ctx, `
			UPDATE college_list_entries SET explanation = $1
			WHERE student_profile_id = $2 AND college_id = $3`,
			text, studentID, collegeID)
		if err != nil {
			return err
		}
	}
	return nil
}
