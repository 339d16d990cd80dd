// internal/workers/applications/build-task-list/handler.go
package buildtasklist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	commonerrors "collegepath-workers/internal/common/errors"
	"collegepath-workers/internal/common/logger"
	"collegepath-workers/internal/common/metrics"
	"collegepath-workers/internal/models"
	"collegepath-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "build-task-list"
)

type Handler struct {
	config   *Config
	colleges *store.CollegeStore
	tasks    *store.TaskStore
	runs     *store.AgentRunStore
	logger   logger.Logger
	now      func() time.Time
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		colleges: store.NewCollegeStore(db),
		tasks:    store.NewTaskStore(db),
		runs:     store.NewAgentRunStore(db),
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
		now:      time.Now,
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
		code := "BUILD_TASK_LIST_FAILED"
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
	entries, err := h.colleges.SavedList(ctx, input.StudentProfileID)
	if err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("college_list", err)
	}
	if len(entries) == 0 {
		return nil, commonerrors.NewEmptyCollegeListError(input.StudentProfileID)
	}

	runID, err := h.runs.Start(ctx, input.StudentProfileID, models.AgentApplications)
	if err != nil {
		return nil, commonerrors.NewDatabaseInsertFailedError(err)
	}
	start := time.Now()

	tasks := DetectConflicts(BuildTasks(entries, input.StudentProfileID, h.now()))

	if err := h.tasks.ReplaceTasks(ctx, input.StudentProfileID, tasks); err != nil {
		h.finishFailed(ctx, runID, err, start)
		return nil, commonerrors.NewDatabaseInsertFailedError(err)
	}

	output := &Output{
		AgentRunID: runID,
		TaskCount:  len(tasks),
	}
	for _, task := range tasks {
		if task.IsConflict {
			output.ConflictCount++
		}
	}

	summary := fmt.Sprintf("Built %d tasks for %d colleges (%d conflicts)",
		len(tasks), len(entries), output.ConflictCount)
	if err := h.runs.Complete(ctx, runID, summary, time.Since(start)); err != nil {
		h.logger.Warn("failed to finalize agent run", map[string]interface{}{
			"agentRunId": runID,
			"error":      err,
		})
	}
	metrics.AgentRunsTotal.WithLabelValues(string(models.AgentApplications), string(models.RunCompleted)).Inc()

	h.logger.Info("task list built", map[string]interface{}{
		"studentProfileId": input.StudentProfileID,
		"agentRunId":       runID,
		"tasks":            len(tasks),
		"conflicts":        output.ConflictCount,
	})

	return output, nil
}

func (h *Handler) finishFailed(ctx context.Context, runID string, cause error, start time.Time) {
	if err := h.runs.Fail(ctx, runID, cause.Error(), time.Since(start)); err != nil {
		h.logger.Warn("failed to record agent run failure", map[string]interface{}{
			"agentRunId": runID,
			"error":      err,
		})
	}
	metrics.AgentRunsTotal.WithLabelValues(string(models.AgentApplications), string(models.RunFailed)).Inc()
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
