// internal/workers/discovery/search-colleges/handler.go
package searchcolleges

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"

	commonerrors "collegepath-workers/internal/common/errors"
	"collegepath-workers/internal/common/logger"
	"collegepath-workers/internal/common/metrics"
	"collegepath-workers/internal/workers/discovery/search-colleges/queries"
)

const (
	TaskType = "search-colleges"

	defaultQueryType = "college_catalog"
)

type Handler struct {
	config *Config
	client *elasticsearch.Client
	logger logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: client,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		code := "SEARCH_QUERY_FAILED"
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
	queryType := input.QueryType
	if queryType == "" {
		queryType = defaultQueryType
	}

	page := input.Page
	if page < 0 {
		page = 0
	}
	perPage := input.PerPage
	if perPage < 1 {
		perPage = h.config.DefaultPerPage
	}
	if perPage > h.config.MaxPerPage {
		perPage = h.config.MaxPerPage
	}

	cs := queries.CollegeSearch{
		Index:     h.config.CollegeIndex,
		QueryType: queryType,
		Query:     strings.TrimSpace(input.Query),
		State:     strings.ToUpper(strings.TrimSpace(input.State)),
		Ownership: input.Ownership,
		MinSize:   input.MinSize,
		CollegeID: input.CollegeID,
		From:      page * perPage,
		Size:      perPage,
	}

	result, err := queries.Execute(ctx, h.client, cs)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, commonerrors.NewSearchTimeoutError(queryType)
		}
		if errors.Is(err, queries.ErrIndexNotFound) || errors.Is(err, queries.ErrMissingIndex) {
			return nil, commonerrors.NewIndexNotFoundError(h.config.CollegeIndex)
		}
		return nil, commonerrors.NewSearchQueryFailedError(queryType, err)
	}

	h.logger.Info("college search complete", map[string]interface{}{
		"queryType": queryType,
		"totalHits": result.TotalHits,
		"returned":  len(result.Colleges),
		"tookMs":    result.Took,
	})

	return &Output{
		Results:  result.Colleges,
		Total:    result.TotalHits,
		Page:     page,
		PerPage:  perPage,
		MaxScore: result.MaxScore,
		Took:     result.Took,
	}, nil
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
