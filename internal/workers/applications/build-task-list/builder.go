// internal/workers/applications/build-task-list/builder.go
package buildtasklist

import (
	"fmt"
	"time"

	"collegepath-workers/internal/models"
)

const privateOwnership = 2

const cssConflictNote = "CSS Profile deadline is 2 weeks before admission deadline — complete this first"

// admissionDeadline returns the regular-decision deadline for a tier,
// always in the calendar year after now.
func admissionDeadline(tier models.CollegeTier, now time.Time) time.Time {
	nextYear := now.Year() + 1
	switch tier {
	case models.TierReach:
		return time.Date(nextYear, time.January, 1, 0, 0, 0, 0, now.Location())
	case models.TierMatch:
		return time.Date(nextYear, time.January, 15, 0, 0, 0, 0, now.Location())
	}
	return time.Date(nextYear, time.February, 1, 0, 0, 0, 0, now.Location())
}

// fafsaPriorityDeadline returns December 1 of the most recently opened
// FAFSA cycle: the cycle opens October 1, so before October the deadline
// still references last year's December.
func fafsaPriorityDeadline(now time.Time) time.Time {
	year := now.Year()
	if now.Month() < time.October {
		year--
	}
	return time.Date(year, time.December, 1, 0, 0, 0, 0, now.Location())
}

// BuildTasks generates the full task list for a tiered college list:
// one FAFSA task per student, a Common App task per college, a supplement
// task for reach and match entries, and a CSS Profile task for private
// colleges due two weeks ahead of the admission deadline.
func BuildTasks(entries []models.CollegeListEntry, studentProfileID string, now time.Time) []models.ApplicationTask {
	fafsaDeadline := fafsaPriorityDeadline(now)
	tasks := []models.ApplicationTask{{
		StudentProfileID: studentProfileID,
		TaskType:         models.TaskFafsa,
		Title:            "Complete FAFSA",
		Description: "The Free Application for Federal Student Aid unlocks Pell Grants, " +
			"subsidized loans, and most institutional aid. Priority deadlines are typically December 1.",
		DeadlineDate:  &fafsaDeadline,
		DeadlineLabel: "Priority Deadline",
	}}

	for _, entry := range entries {
		college := entry.College
		deadline := admissionDeadline(entry.Tier, now)

		commonAppDeadline := deadline
		tasks = append(tasks, models.ApplicationTask{
			StudentProfileID: studentProfileID,
			CollegeID:        college.ID,
			CollegeName:      college.Name,
			TaskType:         models.TaskCommonApp,
			Title:            fmt.Sprintf("Common App — %s", college.Name),
			Description:      fmt.Sprintf("Submit your Common Application for %s.", college.Name),
			DeadlineDate:     &commonAppDeadline,
			DeadlineLabel:    "Regular Decision",
		})

		if entry.Tier == models.TierReach || entry.Tier == models.TierMatch {
			supplementDeadline := deadline
			tasks = append(tasks, models.ApplicationTask{
				StudentProfileID: studentProfileID,
				CollegeID:        college.ID,
				CollegeName:      college.Name,
				TaskType:         models.TaskSupplement,
				Title:            fmt.Sprintf("Essays/Supplement — %s", college.Name),
				Description: fmt.Sprintf(
					"Complete supplemental essays and school-specific questions for %s.", college.Name),
				DeadlineDate:  &supplementDeadline,
				DeadlineLabel: "Regular Decision",
			})
		}

		if college.Ownership == privateOwnership {
			cssDeadline := deadline.AddDate(0, 0, -14)
			tasks = append(tasks, models.ApplicationTask{
				StudentProfileID: studentProfileID,
				CollegeID:        college.ID,
				CollegeName:      college.Name,
				TaskType:         models.TaskCSSProfile,
				Title:            fmt.Sprintf("CSS Profile — %s", college.Name),
				Description: fmt.Sprintf(
					"%s requires the CSS Profile for institutional aid. Complete it before the admission deadline.",
					college.Name),
				DeadlineDate:  &cssDeadline,
				DeadlineLabel: "CSS Profile Deadline",
				IsConflict:    true,
				ConflictNote:  cssConflictNote,
			})
		}
	}

	return tasks
}

// DetectConflicts flags common app and supplement tasks whose college has a
// CSS Profile task with a strictly earlier deadline. The CSS task keeps its
// own pre-marked flag, so both signals coexist for the same college.
func DetectConflicts(tasks []models.ApplicationTask) []models.ApplicationTask {
	out := make([]models.ApplicationTask, len(tasks))
	copy(out, tasks)

	for i, task := range out {
		if task.TaskType != models.TaskCommonApp && task.TaskType != models.TaskSupplement {
			continue
		}
		css := findCSSTask(tasks, task.CollegeID)
		if css == nil || css.DeadlineDate == nil || task.DeadlineDate == nil {
			continue
		}
		if css.DeadlineDate.Before(*task.DeadlineDate) {
			out[i].IsConflict = true
			out[i].ConflictNote = fmt.Sprintf("Complete CSS Profile (due %s) before this deadline",
				css.DeadlineDate.Format("1/2/2006"))
		}
	}

	return out
}

func findCSSTask(tasks []models.ApplicationTask, collegeID string) *models.ApplicationTask {
	for i := range tasks {
		if tasks[i].CollegeID == collegeID && tasks[i].TaskType == models.TaskCSSProfile {
			return &tasks[i]
		}
	}
	return nil
}
