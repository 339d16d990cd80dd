// internal/workers/discovery/generate-explanations/handler.go
package generateexplanations

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	commonerrors "collegepath-workers/internal/common/errors"
	"collegepath-workers/internal/common/httpclient"
	"collegepath-workers/internal/common/logger"
	"collegepath-workers/internal/common/metrics"
	"collegepath-workers/internal/models"
	"collegepath-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "generate-explanations"
)

type Handler struct {
	config   *Config
	profiles *store.ProfileStore
	colleges *store.CollegeStore
	client   *httpclient.Client
	logger   logger.Logger
}

func NewHandler(config *Config, db *sql.DB, rdb *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		profiles: store.NewProfileStore(db, rdb, config.CacheTTL),
		colleges: store.NewCollegeStore(db),
		client:   httpclient.NewClient(config.Timeout, config.MaxRetries),
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
		code := "EXPLANATION_FAILED"
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

// execute explains the student's saved list in batches. A model failure on
// a batch degrades to the templated fallback instead of failing the job;
// only database errors surface.
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

	scores, err := h.colleges.ScoredList(ctx, input.StudentProfileID)
	if err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("college_list", err)
	}
	if len(scores) == 0 {
		return nil, commonerrors.NewEmptyCollegeListError(input.StudentProfileID)
	}

	explanations := make(map[string]string, len(scores))
	usedFallback := false

	for start := 0; start < len(scores); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(scores) {
			end = len(scores)
		}
		batch := scores[start:end]

		batchTexts, err := h.explainBatch(ctx, batch, *profile)
		if err != nil {
			if ctx.Err() == context.DeadlineExceeded {
				return nil, commonerrors.NewLLMTimeoutError()
			}
			h.logger.Warn("explanation batch failed, using fallback", map[string]interface{}{
				"batchStart": start,
				"error":      err,
			})
			usedFallback = true
			batchTexts = make([]string, len(batch))
			for i, s := range batch {
				batchTexts[i] = FallbackExplanation(s)
			}
		}
		for i, s := range batch {
			explanations[s.College.ID] = batchTexts[i]
		}
	}

	if err := h.colleges.UpdateExplanations(ctx, input.StudentProfileID, explanations); err != nil {
		return nil, commonerrors.NewDatabaseInsertFailedError(err)
	}

	h.logger.Info("explanations generated", map[string]interface{}{
		"studentProfileId": input.StudentProfileID,
		"colleges":         len(scores),
		"usedFallback":     usedFallback,
	})

	return &Output{
		CollegesExplained: len(scores),
		UsedFallback:      usedFallback,
	}, nil
}

func (h *Handler) explainBatch(ctx context.Context, batch []models.CollegeScore, student models.StudentProfile) ([]string, error) {
	requestBody := map[string]interface{}{
		"prompt":     BuildPrompt(batch, student),
		"max_tokens": h.config.MaxTokens,
	}
	body, _ := json.Marshal(requestBody)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		h.config.GenAIBaseURL+"/api/ai/generate", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if h.config.GenAIAPIKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.config.GenAIAPIKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("genai status %d", resp.StatusCode)
	}

	var apiResponse struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("decode genai response: %w", err)
	}

	return ParseExplanations(apiResponse.Text, batch), nil
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
