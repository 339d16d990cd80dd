// internal/store/scholarships.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"collegepath-workers/internal/models"
)

// ScholarshipStore reads the scholarship catalog and manages derived match rows.
type ScholarshipStore struct {
	db *sql.DB
}

func NewScholarshipStore(db *sql.DB) *ScholarshipStore {
	return &ScholarshipStore{db: db}
}

// Active returns all active scholarships with their list columns decoded.
// eligible_states, eligible_majors and demographic_tags are JSON text in the
// table; matching only ever sees native slices (nil means no restriction).
func (s *ScholarshipStore) Active(ctx context.Context) ([]models.Scholarship, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, amount_min, amount_max, min_gpa,
		       requires_first_gen, requires_essay,
		       eligible_states, eligible_majors, demographic_tags,
		       deadline_month, deadline_day, is_active
		FROM scholarships WHERE is_active = TRUE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scholarships []models.Scholarship
	for rows.Next() {
		var sch models.Scholarship
		var states, majors, tags sql.NullString
		err := rows.Scan(
			&sch.ID, &sch.Name, &sch.AmountMin, &sch.AmountMax, &sch.MinGPA,
			&sch.RequiresFirstGen, &sch.RequiresEssay,
			&states, &majors, &tags,
			&sch.DeadlineMonth, &sch.DeadlineDay, &sch.IsActive,
		)
		if err != nil {
			return nil, err
		}
		sch.EligibleStates = decodeStringList(states)
		sch.EligibleMajors = decodeStringList(majors)
		sch.DemographicTags = decodeStringList(tags)
		scholarships = append(scholarships, sch)
	}
	return scholarships, rows.Err()
}

// ReplaceMatches wholesale-replaces the student's scholarship matches.
func (s *ScholarshipStore) ReplaceMatches(ctx context.Context, studentID string, matches []ScholarshipMatchRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM scholarship_matches WHERE student_profile_id = $1`, studentID); err != nil {
		return fmt.Errorf("delete prior matches: %w", err)
	}

	for _, m := range matches {
		reasons, err := json.Marshal(m.Reasons)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO scholarship_matches
				(student_profile_id, scholarship_id, score, reasons, days_until_deadline)
			VALUES ($1, $2, $3, $4, $5)`,
			studentID, m.ScholarshipID, m.Score, string(reasons), m.DaysUntilDeadline)
		if err != nil {
			return fmt.Errorf("insert match: %w", err)
		}
	}

	return tx.Commit()
}

// HasMatches reports whether any match rows exist for the student.
func (s *ScholarshipStore) HasMatches(ctx context.Context, studentID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM scholarship_matches WHERE student_profile_id = $1`, studentID).Scan(&n)
	return n > 0, err
}

// ScholarshipMatchRow is the persisted shape of one derived match.
type ScholarshipMatchRow struct {
	ScholarshipID     string
	Score             int
	Reasons           []string
	DaysUntilDeadline *int
}

// UpcomingDeadline is a matched scholarship with its stored countdown.
type UpcomingDeadline struct {
	Scholarship       models.Scholarship
	DaysUntilDeadline int
}

// UpcomingDeadlines returns matched scholarships whose deadline falls within
// the next windowDays. Used by the reminder worker.
func (s *ScholarshipStore) UpcomingDeadlines(ctx context.Context, studentID string, windowDays int) ([]UpcomingDeadline, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sc.id, sc.name, sc.amount_min, sc.amount_max, sc.min_gpa,
		       sc.requires_first_gen, sc.requires_essay,
		       sc.eligible_states, sc.eligible_majors, sc.demographic_tags,
		       sc.deadline_month, sc.deadline_day, sc.is_active,
		       m.days_until_deadline
		FROM scholarship_matches m
		JOIN scholarships sc ON sc.id = m.scholarship_id
		WHERE m.student_profile_id = $1
		  AND m.days_until_deadline IS NOT NULL
		  AND m.days_until_deadline BETWEEN 0 AND $2
		ORDER BY m.days_until_deadline`, studentID, windowDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var upcoming []UpcomingDeadline
	for rows.Next() {
		var entry UpcomingDeadline
		sch := &entry.Scholarship
		var states, majors, tags sql.NullString
		err := rows.Scan(
			&sch.ID, &sch.Name, &sch.AmountMin, &sch.AmountMax, &sch.MinGPA,
			&sch.RequiresFirstGen, &sch.RequiresEssay,
			&states, &majors, &tags,
			&sch.DeadlineMonth, &sch.DeadlineDay, &sch.IsActive,
			&entry.DaysUntilDeadline,
		)
		if err != nil {
			return nil, err
		}
		sch.EligibleStates = decodeStringList(states)
		sch.EligibleMajors = decodeStringList(majors)
		sch.DemographicTags = decodeStringList(tags)
		upcoming = append(upcoming, entry)
	}
	return upcoming, rows.Err()
}

func decodeStringList(col sql.NullString) []string {
	if !col.Valid || col.String == "" || col.String == "null" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(col.String), &list); err != nil {
		return nil
	}
	return list
}
