// internal/workers/scholarships/send-deadline-reminder/handler.go
package senddeadlinereminder

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	commonerrors "collegepath-workers/internal/common/errors"
	"collegepath-workers/internal/common/logger"
	"collegepath-workers/internal/common/metrics"
	"collegepath-workers/internal/common/validation"
	"collegepath-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "send-deadline-reminder"
)

// EmailSender is satisfied by aws.SESClient.
type EmailSender interface {
	SendText(ctx context.Context, to, subject, body string) error
}

// SMSSender is satisfied by aws.SNSClient.
type SMSSender interface {
	SendSMS(ctx context.Context, phoneNumber, message string) error
}

type Handler struct {
	config       *Config
	profiles     *store.ProfileStore
	scholarships *store.ScholarshipStore
	emails       EmailSender
	sms          SMSSender
	logger       logger.Logger
}

func NewHandler(config *Config, db *sql.DB, rdb *redis.Client, emails EmailSender, sms SMSSender, log logger.Logger) *Handler {
	return &Handler{
		config:       config,
		profiles:     store.NewProfileStore(db, rdb, config.CacheTTL),
		scholarships: store.NewScholarshipStore(db),
		emails:       emails,
		sms:          sms,
		logger:       log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	start := time.Now()
	output, err := h.execute(ctx, &input)
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	if err != nil {
		code := "SEND_DEADLINE_REMINDER_FAILED"
		if stdErr, ok := err.(*commonerrors.StandardError); ok {
			code = string(stdErr.Code)
		}
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
		h.failJob(client, job, code, err.Error())
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	profile := input.Profile
	if profile == nil {
		var err error
		profile, err = h.profiles.Get(ctx, input.StudentProfileID)
		if err == sql.ErrNoRows {
			return nil, commonerrors.NewProfileNotFoundError(input.StudentProfileID)
		}
		if err != nil {
			return nil, commonerrors.NewQueryExecutionFailedError("student_profile", err)
		}
	}

	upcoming, err := h.scholarships.UpcomingDeadlines(ctx, input.StudentProfileID, h.config.WindowDays)
	if err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("scholarship_matches", err)
	}

	due := DueReminders(upcoming)
	output := &Output{RemindersDue: len(due)}
	if len(due) == 0 {
		return output, nil
	}

	studentName := input.StudentName
	if studentName == "" {
		studentName = "Student"
	}

	canEmail := h.emails != nil && validation.ValidateEmail(profile.Email)
	canSMS := h.sms != nil && profile.Phone != "" && validation.ValidatePhone(profile.Phone)
	if !canEmail && !canSMS {
		h.logger.Warn("no valid contact channel for reminders", map[string]interface{}{
			"studentProfileId": input.StudentProfileID,
			"remindersDue":     len(due),
		})
		return output, nil
	}

	var lastErr error
	for _, entry := range due {
		if canEmail {
			subject, body := BuildEmail(studentName, entry.Scholarship, entry.DaysUntilDeadline)
			if err := h.emails.SendText(ctx, profile.Email, subject, body); err != nil {
				lastErr = err
				h.logger.Warn("reminder email failed", map[string]interface{}{
					"scholarshipId": entry.Scholarship.ID,
					"error":         err,
				})
			} else {
				output.EmailsSent++
				metrics.NotificationsSent.WithLabelValues("email").Inc()
			}
		}
		if canSMS {
			if err := h.sms.SendSMS(ctx, profile.Phone, BuildSMS(entry.Scholarship, entry.DaysUntilDeadline)); err != nil {
				lastErr = err
				h.logger.Warn("reminder sms failed", map[string]interface{}{
					"scholarshipId": entry.Scholarship.ID,
					"error":         err,
				})
			} else {
				output.SMSSent++
				metrics.NotificationsSent.WithLabelValues("sms").Inc()
			}
		}
	}

	if output.EmailsSent+output.SMSSent == 0 {
		return nil, commonerrors.NewNotificationSendFailedError("reminder", lastErr)
	}

	h.logger.Info("reminders sent", map[string]interface{}{
		"studentProfileId": input.StudentProfileID,
		"remindersDue":     output.RemindersDue,
		"emailsSent":       output.EmailsSent,
		"smsSent":          output.SMSSent,
	})

	return output, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
