// internal/store/profiles.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"collegepath-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const profileCachePrefix = "student:profile:"

// ProfileStore reads student profiles, Redis cache first, Postgres behind it.
type ProfileStore struct {
	db       *sql.DB
	redis    *redis.Client
	cacheTTL time.Duration
}

func NewProfileStore(db *sql.DB, rdb *redis.Client, cacheTTL time.Duration) *ProfileStore {
	return &ProfileStore{db: db, redis: rdb, cacheTTL: cacheTTL}
}

// Get returns the profile for a student. sql.ErrNoRows passes through so
// callers can map it to their own not-found error.
func (s *ProfileStore) Get(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	cacheKey := profileCachePrefix + studentID
	if s.redis != nil {
		if val, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var profile models.StudentProfile
			if err := json.Unmarshal([]byte(val), &profile); err == nil {
				return &profile, nil
			}
		}
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, gpa, grade_level, state_of_residence, income_bracket,
		       is_first_gen, intended_major, college_type_preference,
		       location_preference, email, phone
		FROM student_profiles WHERE id = $1`, studentID)

	var profile models.StudentProfile
	var bracket, email, phone sql.NullString
	err := row.Scan(
		&profile.ID,
		&profile.GPA,
		&profile.GradeLevel,
		&profile.StateOfResidence,
		&bracket,
		&profile.IsFirstGen,
		&profile.IntendedMajor,
		&profile.CollegeTypePreference,
		&profile.LocationPreference,
		&email,
		&phone,
	)
	if err != nil {
		return nil, err
	}
	profile.IncomeBracket = models.IncomeBracket(bracket.String)
	profile.Email = email.String
	profile.Phone = phone.String

	if s.redis != nil {
		if data, err := json.Marshal(profile); err == nil {
			s.redis.Set(ctx, cacheKey, data, s.cacheTTL)
		}
	}

	return &profile, nil
}

// Invalidate drops the cached profile, e.g. after onboarding edits.
func (s *ProfileStore) Invalidate(ctx context.Context, studentID string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, profileCachePrefix+studentID).Err()
}
