// internal/workers/applications/compute-urgency/handler.go
package computeurgency

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	commonerrors "collegepath-workers/internal/common/errors"
	"collegepath-workers/internal/common/logger"
	"collegepath-workers/internal/common/metrics"
	"collegepath-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "compute-urgency"

	// onTrack is what BuildFlaggedReason returns when nothing triggers.
	onTrack = "On track"
)

type Handler struct {
	config       *Config
	tasks        *store.TaskStore
	scholarships *store.ScholarshipStore
	logger       logger.Logger
	now          func() time.Time
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		config:       config,
		tasks:        store.NewTaskStore(db),
		scholarships: store.NewScholarshipStore(db),
		logger:       log.WithFields(map[string]interface{}{"taskType": TaskType}),
		now:          time.Now,
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
		code := "COMPUTE_URGENCY_FAILED"
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
	hasList, err := h.tasks.HasCollegeList(ctx, input.StudentProfileID)
	if err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("college_list", err)
	}

	hasMatches, err := h.scholarships.HasMatches(ctx, input.StudentProfileID)
	if err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("scholarship_matches", err)
	}

	fafsaStep, _, err := h.tasks.FafsaProgress(ctx, input.StudentProfileID)
	if err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("fafsa_progress", err)
	}

	deadlines, err := h.tasks.PendingDeadlines(ctx, input.StudentProfileID)
	if err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("application_tasks", err)
	}

	urgencyInput := UrgencyInput{
		HasCollegeList:        hasList,
		HasScholarshipMatches: hasMatches,
		FafsaCurrentStep:      fafsaStep,
		PendingDeadlines:      deadlines,
	}

	now := h.now()
	reason := BuildFlaggedReason(urgencyInput, now)
	output := &Output{
		UrgencyScore:  ComputeUrgencyScore(urgencyInput, now),
		FlaggedReason: reason,
		IsFlagged:     reason != onTrack,
	}

	h.logger.Info("urgency computed", map[string]interface{}{
		"studentProfileId": input.StudentProfileID,
		"urgencyScore":     output.UrgencyScore,
		"flaggedReason":    output.FlaggedReason,
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
