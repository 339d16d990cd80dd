// internal/workers/scholarships/send-deadline-reminder/models.go
package senddeadlinereminder

import "collegepath-workers/internal/models"

type Input struct {
	StudentProfileID string `json:"studentProfileId"`
	// StudentName is the display name for the greeting; "Student" when absent.
	StudentName string                 `json:"studentName,omitempty"`
	Profile     *models.StudentProfile `json:"profile,omitempty"`
}

type Output struct {
	RemindersDue int `json:"remindersDue"`
	EmailsSent   int `json:"emailsSent"`
	SMSSent      int `json:"smsSent"`
}
