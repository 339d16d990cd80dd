// internal/store/employers.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	"collegepath-workers/internal/models"
)

// EmployerStore reads recruiting partners and manages derived match rows.
type EmployerStore struct {
	db *sql.DB
}

func NewEmployerStore(db *sql.DB) *EmployerStore {
	return &EmployerStore{db: db}
}

// VerifiedWithPrefs returns verified employers with their recruiting
// preferences decoded from JSON text columns.
func (s *EmployerStore) VerifiedWithPrefs(ctx context.Context) ([]models.EmployerWithPrefs, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.name, e.industry, e.website, e.is_verified,
		       p.id, p.college_tiers, p.major_keywords, p.is_active
		FROM employers e
		LEFT JOIN recruiting_prefs p ON p.employer_id = e.id
		WHERE e.is_verified = TRUE
		ORDER BY e.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := map[string]*models.EmployerWithPrefs{}
	var order []string
	for rows.Next() {
		var emp models.Employer
		var website sql.NullString
		var prefID, tiers, keywords sql.NullString
		var prefActive sql.NullBool
		err := rows.Scan(
			&emp.ID, &emp.Name, &emp.Industry, &website, &emp.IsVerified,
			&prefID, &tiers, &keywords, &prefActive,
		)
		if err != nil {
			return nil, err
		}
		emp.Website = website.String

		entry, ok := byID[emp.ID]
		if !ok {
			entry = &models.EmployerWithPrefs{Employer: emp}
			byID[emp.ID] = entry
			order = append(order, emp.ID)
		}

		if prefID.Valid {
			entry.RecruitingPrefs = append(entry.RecruitingPrefs, models.RecruitingPref{
				ID:            prefID.String,
				CollegeTiers:  decodeStringList(tiers),
				MajorKeywords: decodeStringList(keywords),
				IsActive:      prefActive.Bool,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	employers := make([]models.EmployerWithPrefs, 0, len(order))
	for _, id := range order {
		employers = append(employers, *byID[id])
	}
	return employers, nil
}

// ReplaceMatches wholesale-replaces the student's employer matches.
func (s *EmployerStore) ReplaceMatches(ctx context.Context, studentID string, matches []models.EmployerMatch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM employer_matches WHERE student_profile_id = $1`, studentID); err != nil {
		return fmt.Errorf("delete prior matches: %w", err)
	}

	for rank, m := range matches {
		tiers, err := encodeStringList(m.MatchedTiers)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO employer_matches
				(student_profile_id, employer_id, matched_tiers, matched_major, rank)
			VALUES ($1, $2, $3, $4, $5)`,
			studentID, m.Employer.ID, tiers, m.MatchedMajor, rank)
		if err != nil {
			return fmt.Errorf("insert match: %w", err)
		}
	}

	return tx.Commit()
}
