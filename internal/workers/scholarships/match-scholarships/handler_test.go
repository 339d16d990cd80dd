package matchscholarships

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"collegepath-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		CacheTTL:   10 * time.Minute,
		Timeout:    30 * time.Second,
		MaxMatches: 20,
	}
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return db, mock
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

var scholarshipColumns = []string{
	"id", "name", "amount_min", "amount_max", "min_gpa",
	"requires_first_gen", "requires_essay",
	"eligible_states", "eligible_majors", "demographic_tags",
	"deadline_month", "deadline_day", "is_active",
}

func newTestHandler(t *testing.T, db *sql.DB) *Handler {
	handler := NewHandler(createTestConfig(), db, nil, newTestLogger(t))
	handler.now = func() time.Time {
		return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	}
	return handler
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_MatchesAndReplaces(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO agent_runs").
		WithArgs(sqlmock.AnyArg(), "student-1", "scholarships", "running", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rows := sqlmock.NewRows(scholarshipColumns).
		AddRow("s1", "CS Excellence", 1000, 5000, nil,
			false, false, nil, `["Computer Science"]`, nil, 6, 1, true).
		AddRow("s2", "Open Award", 500, 500, nil,
			false, false, nil, nil, nil, nil, nil, true).
		AddRow("s3", "First Gen Fund", 2000, 2000, nil,
			true, false, nil, nil, nil, 1, 1, true)
	mock.ExpectQuery("SELECT(.|\n)*FROM scholarships").WillReturnRows(rows)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM scholarship_matches").
		WithArgs("student-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO scholarship_matches").
		WithArgs("student-1", "s1", 45, `["nationally available","matches your major: Computer Science","no essay required"]`, 78).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO scholarship_matches").
		WithArgs("student-1", "s2", 30, `["nationally available","no essay required"]`, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	mock.ExpectExec("UPDATE agent_runs").
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := newTestHandler(t, db)

	student := createTestStudent()
	output, err := handler.Execute(context.Background(), &Input{
		StudentProfileID: "student-1",
		Profile:          &student,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, output.ScholarshipsReviewed)
	assert.Equal(t, 2, output.MatchCount)
	assert.Equal(t, 45, output.TopScore)
	assert.NotEmpty(t, output.AgentRunID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_FailsOnEmptyCatalog(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO agent_runs").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT(.|\n)*FROM scholarships").
		WillReturnRows(sqlmock.NewRows(scholarshipColumns))
	mock.ExpectExec("UPDATE agent_runs").
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := newTestHandler(t, db)

	student := createTestStudent()
	_, err := handler.Execute(context.Background(), &Input{
		StudentProfileID: "student-1",
		Profile:          &student,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NO_ACTIVE_SCHOLARSHIPS")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_CapsMatches(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO agent_runs").
		WillReturnResult(sqlmock.NewResult(1, 1))

	rows := sqlmock.NewRows(scholarshipColumns)
	for i := 0; i < 5; i++ {
		rows.AddRow(string(rune('a'+i)), "Award", nil, nil, nil,
			false, false, nil, nil, nil, nil, nil, true)
	}
	mock.ExpectQuery("SELECT(.|\n)*FROM scholarships").WillReturnRows(rows)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM scholarship_matches").
		WillReturnResult(sqlmock.NewResult(0, 0))
	for i := 0; i < 2; i++ {
		mock.ExpectExec("INSERT INTO scholarship_matches").
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()
	mock.ExpectExec("UPDATE agent_runs").
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := newTestHandler(t, db)
	handler.config.MaxMatches = 2

	student := createTestStudent()
	output, err := handler.Execute(context.Background(), &Input{
		StudentProfileID: "student-1",
		Profile:          &student,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, output.ScholarshipsReviewed)
	assert.Equal(t, 2, output.MatchCount)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ProfileNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT(.|\n)*FROM student_profiles").
		WillReturnError(sql.ErrNoRows)

	handler := newTestHandler(t, db)

	_, err := handler.Execute(context.Background(), &Input{
		StudentProfileID: "missing",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PROFILE_NOT_FOUND")

	assert.NoError(t, mock.ExpectationsWereMet())
}
