// internal/workers/career/match-employers/handler.go
package matchemployers

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
	TaskType = "match-employers"
)

type Handler struct {
	config    *Config
	profiles  *store.ProfileStore
	colleges  *store.CollegeStore
	employers *store.EmployerStore
	runs      *store.AgentRunStore
	logger    logger.Logger
}

func NewHandler(config *Config, db *sql.DB, rdb *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		profiles:  store.NewProfileStore(db, rdb, config.CacheTTL),
		colleges:  store.NewCollegeStore(db),
		employers: store.NewEmployerStore(db),
		runs:      store.NewAgentRunStore(db),
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		code := "MATCH_EMPLOYERS_FAILED"
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

	entries, err := h.colleges.SavedList(ctx, input.StudentProfileID)
	if err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("college_list", err)
	}
	if len(entries) == 0 {
		return nil, commonerrors.NewEmptyCollegeListError(input.StudentProfileID)
	}

	runID, err := h.runs.Start(ctx, input.StudentProfileID, models.AgentCareer)
	if err != nil {
		return nil, commonerrors.NewDatabaseInsertFailedError(err)
	}
	start := time.Now()

	employers, err := h.employers.VerifiedWithPrefs(ctx)
	if err != nil {
		h.finishFailed(ctx, runID, err, start)
		return nil, commonerrors.NewCatalogFetchFailedError("employers", err)
	}

	matches := MatchEmployers(employers, collectTiers(entries), profile.IntendedMajor)

	if err := h.employers.ReplaceMatches(ctx, input.StudentProfileID, matches); err != nil {
		h.finishFailed(ctx, runID, err, start)
		return nil, commonerrors.NewDatabaseInsertFailedError(err)
	}

	output := &Output{
		AgentRunID:        runID,
		EmployersReviewed: len(employers),
		MatchCount:        len(matches),
	}
	for _, m := range matches {
		if m.MatchedMajor {
			output.MajorMatchCount++
		}
	}

	summary := fmt.Sprintf("Reviewed %d employers; matched %d (%d on major)",
		len(employers), len(matches), output.MajorMatchCount)
	if err := h.runs.Complete(ctx, runID, summary, time.Since(start)); err != nil {
		h.logger.Warn("failed to finalize agent run", map[string]interface{}{
			"agentRunId": runID,
			"error":      err,
		})
	}
	metrics.AgentRunsTotal.WithLabelValues(string(models.AgentCareer), string(models.RunCompleted)).Inc()
	metrics.MatchesProduced.WithLabelValues("employer").Add(float64(len(matches)))

	h.logger.Info("employers matched", map[string]interface{}{
		"studentProfileId": input.StudentProfileID,
		"agentRunId":       runID,
		"reviewed":         len(employers),
		"matched":          len(matches),
	})

	return output, nil
}

// collectTiers returns the distinct tiers present in the saved list,
// preserving encounter order.
func collectTiers(entries []models.CollegeListEntry) []string {
	seen := map[string]bool{}
	var tiers []string
	for _, e := range entries {
		tier := string(e.Tier)
		if !seen[tier] {
			seen[tier] = true
			tiers = append(tiers, tier)
		}
	}
	return tiers
}

func (h *Handler) finishFailed(ctx context.Context, runID string, cause error, start time.Time) {
	if err := h.runs.Fail(ctx, runID, cause.Error(), time.Since(start)); err != nil {
		h.logger.Warn("failed to record agent run failure", map[string]interface{}{
			"agentRunId": runID,
			"error":      err,
		})
	}
	metrics.AgentRunsTotal.WithLabelValues(string(models.AgentCareer), string(models.RunFailed)).Inc()
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
