package generateexplanations

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
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

var scoredListColumns = []string{
	"id", "name", "city", "state", "ownership", "student_size",
	"admission_rate", "completion_rate", "median_earnings_10yr", "cost_of_attendance",
	"net_price_0_30k", "net_price_30_48k", "net_price_48_75k",
	"net_price_75_110k", "net_price_110k_plus",
	"tier", "admission_score", "net_price_score", "outcome_score", "composite_score",
}

func scoredListRow(rows *sqlmock.Rows, collegeID, name, tier string, admissionScore int) *sqlmock.Rows {
	return rows.AddRow(collegeID, name, "City", "ST", 1, 5000,
		0.5, 0.5, 50000, 30000, 10000, 12000, 15000, 20000, 25000,
		tier, admissionScore, 50, 50, 50)
}

func newTestHandler(t *testing.T, db *sql.DB, baseURL string) *Handler {
	config := LoadConfig()
	config.GenAIBaseURL = baseURL
	config.MaxRetries = 0
	config.Timeout = 5 * time.Second
	return NewHandler(config, db, nil, newTestLogger(t))
}

func createTestStudent() models.StudentProfile {
	return models.StudentProfile{
		ID:            "student-1",
		IncomeBracket: models.Bracket48to75k,
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_WritesExplanations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"1. State U accepts most applicants.\n2. Reach Tech is a stretch worth taking."}`))
	}))
	defer server.Close()

	db, mock := setupMockDB(t)
	defer db.Close()

	listRows := sqlmock.NewRows(scoredListColumns)
	scoredListRow(listRows, "c1", "State U", "likely", 85)
	scoredListRow(listRows, "c2", "Reach Tech", "reach", 10)
	mock.ExpectQuery("SELECT(.|\n)*FROM college_list_entries").
		WithArgs("student-1").
		WillReturnRows(listRows)

	mock.ExpectExec("UPDATE college_list_entries").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE college_list_entries").
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := newTestHandler(t, db, server.URL)

	student := createTestStudent()
	output, err := handler.Execute(context.Background(), &Input{
		StudentProfileID: "student-1",
		Profile:          &student,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, output.CollegesExplained)
	assert.False(t, output.UsedFallback)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ModelFailureFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	db, mock := setupMockDB(t)
	defer db.Close()

	listRows := sqlmock.NewRows(scoredListColumns)
	scoredListRow(listRows, "c1", "State U", "likely", 85)
	mock.ExpectQuery("SELECT(.|\n)*FROM college_list_entries").
		WillReturnRows(listRows)

	mock.ExpectExec("UPDATE college_list_entries").
		WithArgs("State U is a likely school for you based on its 85% acceptance rate and affordability for your income bracket.",
			"student-1", "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := newTestHandler(t, db, server.URL)

	student := createTestStudent()
	output, err := handler.Execute(context.Background(), &Input{
		StudentProfileID: "student-1",
		Profile:          &student,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, output.CollegesExplained)
	assert.True(t, output.UsedFallback)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_FailsOnEmptyCollegeList(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT(.|\n)*FROM college_list_entries").
		WillReturnRows(sqlmock.NewRows(scoredListColumns))

	handler := newTestHandler(t, db, "http://localhost:0")

	student := createTestStudent()
	_, err := handler.Execute(context.Background(), &Input{
		StudentProfileID: "student-1",
		Profile:          &student,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMPTY_COLLEGE_LIST")

	assert.NoError(t, mock.ExpectationsWereMet())
}
