// internal/workers/discovery/score-college-list/handler.go
package scorecollegelist

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
	TaskType = "score-college-list"
)

type Handler struct {
	config   *Config
	profiles *store.ProfileStore
	colleges *store.CollegeStore
	runs     *store.AgentRunStore
	logger   logger.Logger
}

func NewHandler(config *Config, db *sql.DB, rdb *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		profiles: store.NewProfileStore(db, rdb, config.CacheTTL),
		colleges: store.NewCollegeStore(db),
		runs:     store.NewAgentRunStore(db),
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		code := "SCORE_COLLEGE_LIST_FAILED"
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

	if !profile.IncomeBracket.IsValid() {
		return nil, commonerrors.NewOnboardingIncompleteError([]string{"incomeBracket"})
	}

	runID, err := h.runs.Start(ctx, input.StudentProfileID, models.AgentDiscovery)
	if err != nil {
		return nil, commonerrors.NewDatabaseInsertFailedError(err)
	}
	start := time.Now()

	catalog, err := h.colleges.All(ctx)
	if err != nil {
		h.finishFailed(ctx, runID, err, start)
		return nil, commonerrors.NewCatalogFetchFailedError("colleges", err)
	}

	scores := make([]models.CollegeScore, 0, len(catalog))
	for _, college := range catalog {
		score, err := ScoreCollege(college, *profile, h.config.Policy)
		if err != nil {
			h.finishFailed(ctx, runID, err, start)
			return nil, err
		}
		scores = append(scores, score)
	}

	selected := SelectTopPerTier(scores, h.config.CollegesPerTier)

	if err := h.colleges.ReplaceList(ctx, input.StudentProfileID, selected, nil); err != nil {
		h.finishFailed(ctx, runID, err, start)
		return nil, commonerrors.NewDatabaseInsertFailedError(err)
	}

	output := &Output{
		AgentRunID:        runID,
		CollegesEvaluated: len(catalog),
		ListSize:          len(selected),
	}
	for _, s := range selected {
		switch s.Tier {
		case models.TierReach:
			output.ReachCount++
		case models.TierMatch:
			output.MatchCount++
		case models.TierLikely:
			output.LikelyCount++
		}
	}

	summary := fmt.Sprintf("Evaluated %d colleges; selected %d (%d reach, %d match, %d likely)",
		output.CollegesEvaluated, output.ListSize,
		output.ReachCount, output.MatchCount, output.LikelyCount)
	if err := h.runs.Complete(ctx, runID, summary, time.Since(start)); err != nil {
		h.logger.Warn("failed to finalize agent run", map[string]interface{}{
			"agentRunId": runID,
			"error":      err,
		})
	}
	metrics.AgentRunsTotal.WithLabelValues(string(models.AgentDiscovery), string(models.RunCompleted)).Inc()
	metrics.MatchesProduced.WithLabelValues("college").Add(float64(output.ListSize))

	h.logger.Info("college list scored", map[string]interface{}{
		"studentProfileId": input.StudentProfileID,
		"agentRunId":       runID,
		"evaluated":        output.CollegesEvaluated,
		"selected":         output.ListSize,
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
	metrics.AgentRunsTotal.WithLabelValues(string(models.AgentDiscovery), string(models.RunFailed)).Inc()
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
