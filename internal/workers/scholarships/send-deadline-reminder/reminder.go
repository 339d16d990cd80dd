// internal/workers/scholarships/send-deadline-reminder/reminder.go
package senddeadlinereminder

import (
	"fmt"
	"strconv"
	"time"

	"collegepath-workers/internal/models"
	"collegepath-workers/internal/store"
)

// Reminders go out at 7, 3 and 1 days before the deadline so a student
// is nudged three times at most per scholarship.
var reminderDays = map[int]bool{1: true, 3: true, 7: true}

func ShouldRemind(daysUntilDeadline int) bool {
	return reminderDays[daysUntilDeadline]
}

// DueReminders filters matched deadlines down to the ones whose countdown
// hits a reminder day, preserving the nearest-deadline-first order.
func DueReminders(upcoming []store.UpcomingDeadline) []store.UpcomingDeadline {
	var due []store.UpcomingDeadline
	for _, entry := range upcoming {
		if ShouldRemind(entry.DaysUntilDeadline) {
			due = append(due, entry)
		}
	}
	return due
}

// AmountText renders the award amount for display. Scholarships publish
// a range, a single figure, or nothing at all.
func AmountText(sch models.Scholarship) string {
	switch {
	case sch.AmountMin != nil && sch.AmountMax != nil && *sch.AmountMin == *sch.AmountMax:
		return "$" + formatDollars(*sch.AmountMax)
	case sch.AmountMax != nil:
		return "up to $" + formatDollars(*sch.AmountMax)
	case sch.AmountMin != nil:
		return "$" + formatDollars(*sch.AmountMin)
	default:
		return "varies"
	}
}

// DeadlineText renders the recurring deadline as "June 1". Scholarships
// without a published date point the student at the provider.
func DeadlineText(sch models.Scholarship) string {
	if sch.DeadlineMonth == nil || sch.DeadlineDay == nil {
		return "See website"
	}
	return fmt.Sprintf("%s %d", time.Month(*sch.DeadlineMonth), *sch.DeadlineDay)
}

func BuildEmail(studentName string, sch models.Scholarship, daysUntil int) (subject, body string) {
	subject = fmt.Sprintf("Scholarship deadline in %d days: %s", daysUntil, sch.Name)
	body = fmt.Sprintf(`Hi %s,

You have a scholarship deadline coming up in %d days.

%s
Amount: %s
Deadline: %s

Visit your dashboard to review the requirements and apply.

You received this because you matched this scholarship.`,
		studentName, daysUntil, sch.Name, AmountText(sch), DeadlineText(sch))
	return subject, body
}

func BuildSMS(sch models.Scholarship, daysUntil int) string {
	return fmt.Sprintf("Reminder: %s scholarship deadline in %d days (%s).",
		sch.Name, daysUntil, AmountText(sch))
}

func formatDollars(amount int) string {
	s := strconv.Itoa(amount)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	for i, digit := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digit)
	}
	return string(out)
}
