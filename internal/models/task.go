// internal/models/task.go
package models

import "time"

// TaskType enumerates the application checklist task kinds.
type TaskType string

const (
	TaskCommonApp        TaskType = "common_app"
	TaskSupplement       TaskType = "supplement"
	TaskFafsa            TaskType = "fafsa"
	TaskCSSProfile       TaskType = "css_profile"
	TaskScholarshipApp   TaskType = "scholarship_app"
	TaskInstitutionalApp TaskType = "institutional_app"
)

// ApplicationTask is one dated checklist entry. The whole set for a student
// is deleted and regenerated on every application-agent run; there is no
// incremental diffing.
type ApplicationTask struct {
	StudentProfileID string     `json:"studentProfileId"`
	CollegeID        string     `json:"collegeId,omitempty"` // empty for the fafsa task
	CollegeName      string     `json:"collegeName,omitempty"`
	TaskType         TaskType   `json:"taskType"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	DeadlineDate     *time.Time `json:"deadlineDate"`
	DeadlineLabel    string     `json:"deadlineLabel"`
	IsConflict       bool       `json:"isConflict"`
	ConflictNote     string     `json:"conflictNote,omitempty"`
	IsCompleted      bool       `json:"isCompleted"`
}
