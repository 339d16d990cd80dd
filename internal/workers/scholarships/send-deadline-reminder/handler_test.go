package senddeadlinereminder

import (
	"context"
	"database/sql"
	"errors"
	"testing"

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

var upcomingColumns = []string{
	"id", "name", "amount_min", "amount_max", "min_gpa",
	"requires_first_gen", "requires_essay",
	"eligible_states", "eligible_majors", "demographic_tags",
	"deadline_month", "deadline_day", "is_active",
	"days_until_deadline",
}

func upcomingRow(rows *sqlmock.Rows, id, name string, days int) *sqlmock.Rows {
	return rows.AddRow(id, name, nil, 5000, nil, false, false, nil, nil, nil, 6, 1, true, days)
}

type sentEmail struct {
	to      string
	subject string
	body    string
}

type fakeEmailSender struct {
	sent []sentEmail
	err  error
}

func (f *fakeEmailSender) SendText(ctx context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{to: to, subject: subject, body: body})
	return nil
}

type fakeSMSSender struct {
	sent []string
	err  error
}

func (f *fakeSMSSender) SendSMS(ctx context.Context, phoneNumber, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, message)
	return nil
}

func createTestStudent() *models.StudentProfile {
	return &models.StudentProfile{
		ID:    "student-1",
		Email: "jordan@example.com",
		Phone: "+1 555 010 1234",
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_SendsDueReminders(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows(upcomingColumns)
	upcomingRow(rows, "s1", "Tomorrow Award", 1)
	upcomingRow(rows, "s2", "Mid Window Award", 5)
	upcomingRow(rows, "s3", "Week Out Award", 7)
	mock.ExpectQuery("SELECT(.|\n)*FROM scholarship_matches").
		WithArgs("student-1", 14).
		WillReturnRows(rows)

	emails := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	handler := NewHandler(LoadConfig(), db, nil, emails, sms, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		StudentProfileID: "student-1",
		StudentName:      "Jordan",
		Profile:          createTestStudent(),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, output.RemindersDue)
	assert.Equal(t, 2, output.EmailsSent)
	assert.Equal(t, 2, output.SMSSent)

	require.Len(t, emails.sent, 2)
	assert.Equal(t, "jordan@example.com", emails.sent[0].to)
	assert.Equal(t, "Scholarship deadline in 1 days: Tomorrow Award", emails.sent[0].subject)
	assert.Contains(t, emails.sent[0].body, "Hi Jordan,")
	assert.Equal(t, "Scholarship deadline in 7 days: Week Out Award", emails.sent[1].subject)

	require.Len(t, sms.sent, 2)
	assert.Contains(t, sms.sent[0], "Tomorrow Award")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_NothingDue(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows(upcomingColumns)
	upcomingRow(rows, "s1", "Far Out Award", 12)
	mock.ExpectQuery("SELECT(.|\n)*FROM scholarship_matches").
		WillReturnRows(rows)

	emails := &fakeEmailSender{}
	handler := NewHandler(LoadConfig(), db, nil, emails, nil, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		StudentProfileID: "student-1",
		Profile:          createTestStudent(),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, output.RemindersDue)
	assert.Empty(t, emails.sent)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_SkipsInvalidContact(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows(upcomingColumns)
	upcomingRow(rows, "s1", "Tomorrow Award", 1)
	mock.ExpectQuery("SELECT(.|\n)*FROM scholarship_matches").
		WillReturnRows(rows)

	emails := &fakeEmailSender{}
	handler := NewHandler(LoadConfig(), db, nil, emails, nil, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		StudentProfileID: "student-1",
		Profile:          &models.StudentProfile{ID: "student-1", Email: "not-an-email"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, output.RemindersDue)
	assert.Equal(t, 0, output.EmailsSent)
	assert.Empty(t, emails.sent)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_AllSendsFailed(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows(upcomingColumns)
	upcomingRow(rows, "s1", "Tomorrow Award", 1)
	mock.ExpectQuery("SELECT(.|\n)*FROM scholarship_matches").
		WillReturnRows(rows)

	emails := &fakeEmailSender{err: errors.New("ses throttled")}
	handler := NewHandler(LoadConfig(), db, nil, emails, nil, newTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{
		StudentProfileID: "student-1",
		Profile:          createTestStudent(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOTIFICATION_SEND_FAILED")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ProfileNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT(.|\n)*FROM student_profiles").
		WillReturnError(sql.ErrNoRows)

	handler := NewHandler(LoadConfig(), db, nil, &fakeEmailSender{}, nil, newTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{StudentProfileID: "missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PROFILE_NOT_FOUND")

	assert.NoError(t, mock.ExpectationsWereMet())
}
