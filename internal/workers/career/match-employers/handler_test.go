package matchemployers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"collegepath-workers/internal/common/logger"
	"collegepath-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		CacheTTL: 10 * time.Minute,
		Timeout:  30 * time.Second,
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

var savedListColumns = []string{
	"id", "name", "city", "state", "ownership", "student_size",
	"admission_rate", "completion_rate", "median_earnings_10yr", "cost_of_attendance",
	"net_price_0_30k", "net_price_30_48k", "net_price_48_75k",
	"net_price_75_110k", "net_price_110k_plus",
	"tier", "explanation",
}

var employerColumns = []string{
	"id", "name", "industry", "website", "is_verified",
	"pref_id", "college_tiers", "major_keywords", "pref_is_active",
}

func savedListRow(rows *sqlmock.Rows, collegeID, name, tier string) *sqlmock.Rows {
	return rows.AddRow(collegeID, name, "City", "ST", 1, 5000,
		0.5, 0.5, 50000, 30000, 10000, 12000, 15000, 20000, 25000,
		tier, nil)
}

func createTestStudent() models.StudentProfile {
	return models.StudentProfile{
		ID:            "student-1",
		IncomeBracket: models.Bracket48to75k,
		IntendedMajor: "Computer Science",
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_MatchesAndReplaces(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	listRows := sqlmock.NewRows(savedListColumns)
	savedListRow(listRows, "c1", "Reach Tech", "reach")
	savedListRow(listRows, "c2", "Match State", "match")
	mock.ExpectQuery("SELECT(.|\n)*FROM college_list_entries").
		WithArgs("student-1").
		WillReturnRows(listRows)

	mock.ExpectExec("INSERT INTO agent_runs").
		WithArgs(sqlmock.AnyArg(), "student-1", "career", "running", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	empRows := sqlmock.NewRows(employerColumns).
		AddRow("e1", "Acme", "Technology", nil, true,
			"p1", `["reach","match"]`, `["computer"]`, true).
		AddRow("e2", "Globex", "Finance", nil, true,
			"p2", `["likely"]`, `[]`, true)
	mock.ExpectQuery("SELECT(.|\n)*FROM employers").WillReturnRows(empRows)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM employer_matches").
		WithArgs("student-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO employer_matches").
		WithArgs("student-1", "e1", `["reach","match"]`, true, 0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	mock.ExpectExec("UPDATE agent_runs").
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := NewHandler(createTestConfig(), db, nil, newTestLogger(t))

	student := createTestStudent()
	output, err := handler.Execute(context.Background(), &Input{
		StudentProfileID: "student-1",
		Profile:          &student,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, output.EmployersReviewed)
	assert.Equal(t, 1, output.MatchCount)
	assert.Equal(t, 1, output.MajorMatchCount)
	assert.NotEmpty(t, output.AgentRunID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_FailsOnEmptyCollegeList(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT(.|\n)*FROM college_list_entries").
		WithArgs("student-1").
		WillReturnRows(sqlmock.NewRows(savedListColumns))

	handler := NewHandler(createTestConfig(), db, nil, newTestLogger(t))

	student := createTestStudent()
	_, err := handler.Execute(context.Background(), &Input{
		StudentProfileID: "student-1",
		Profile:          &student,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMPTY_COLLEGE_LIST")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_RecordsFailedRunOnCatalogError(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	listRows := sqlmock.NewRows(savedListColumns)
	savedListRow(listRows, "c1", "Match State", "match")
	mock.ExpectQuery("SELECT(.|\n)*FROM college_list_entries").
		WillReturnRows(listRows)

	mock.ExpectExec("INSERT INTO agent_runs").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT(.|\n)*FROM employers").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectExec("UPDATE agent_runs").
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := NewHandler(createTestConfig(), db, nil, newTestLogger(t))

	student := createTestStudent()
	_, err := handler.Execute(context.Background(), &Input{
		StudentProfileID: "student-1",
		Profile:          &student,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CATALOG_FETCH_FAILED")

	assert.NoError(t, mock.ExpectationsWereMet())
}
