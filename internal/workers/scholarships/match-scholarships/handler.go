// internal/workers/scholarships/match-scholarships/handler.go
package matchscholarships

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
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "match-scholarships"
)

type Handler struct {
	config       *Config
	profiles     *store.ProfileStore
	scholarships *store.ScholarshipStore
	runs         *store.AgentRunStore
	logger       logger.Logger
	now          func() time.Time
}

func NewHandler(config *Config, db *sql.DB, rdb *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config:       config,
		profiles:     store.NewProfileStore(db, rdb, config.CacheTTL),
		scholarships: store.NewScholarshipStore(db),
		runs:         store.NewAgentRunStore(db),
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
		code := "MATCH_SCHOLARSHIPS_FAILED"
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

	runID, err := h.runs.Start(ctx, input.StudentProfileID, models.AgentScholarships)
	if err != nil {
		return nil, commonerrors.NewDatabaseInsertFailedError(err)
	}
	start := time.Now()

	active, err := h.scholarships.Active(ctx)
	if err != nil {
		h.finishFailed(ctx, runID, err, start)
		return nil, commonerrors.NewCatalogFetchFailedError("scholarships", err)
	}
	if len(active) == 0 {
		cause := commonerrors.NewNoActiveScholarshipsError()
		h.finishFailed(ctx, runID, cause, start)
		return nil, cause
	}

	matches := MatchScholarships(active, *profile, h.now())
	if len(matches) > h.config.MaxMatches {
		matches = matches[:h.config.MaxMatches]
	}

	rows := make([]store.ScholarshipMatchRow, len(matches))
	for i, m := range matches {
		rows[i] = store.ScholarshipMatchRow{
			ScholarshipID:     m.Scholarship.ID,
			Score:             m.Score,
			Reasons:           m.Reasons,
			DaysUntilDeadline: m.DaysUntilDeadline,
		}
	}
	if err := h.scholarships.ReplaceMatches(ctx, input.StudentProfileID, rows); err != nil {
		h.finishFailed(ctx, runID, err, start)
		return nil, commonerrors.NewDatabaseInsertFailedError(err)
	}

	output := &Output{
		AgentRunID:           runID,
		ScholarshipsReviewed: len(active),
		MatchCount:           len(matches),
	}
	if len(matches) > 0 {
		output.TopScore = matches[0].Score
	}

	summary := fmt.Sprintf("Reviewed %d scholarships; matched %d", len(active), len(matches))
	if err := h.runs.Complete(ctx, runID, summary, time.Since(start)); err != nil {
		h.logger.Warn("failed to finalize agent run", map[string]interface{}{
			"agentRunId": runID,
			"error":      err,
		})
	}
	metrics.AgentRunsTotal.WithLabelValues(string(models.AgentScholarships), string(models.RunCompleted)).Inc()
	metrics.MatchesProduced.WithLabelValues("scholarship").Add(float64(len(matches)))

	h.logger.Info("scholarships matched", map[string]interface{}{
		"studentProfileId": input.StudentProfileID,
		"agentRunId":       runID,
		"reviewed":         len(active),
		"matched":          len(matches),
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
	metrics.AgentRunsTotal.WithLabelValues(string(models.AgentScholarships), string(models.RunFailed)).Inc()
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
