// internal/workers/financial-aid/parse-award-letter/handler.go
package parseawardletter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	commonerrors "collegepath-workers/internal/common/errors"
	"collegepath-workers/internal/common/httpclient"
	"collegepath-workers/internal/common/logger"
	"collegepath-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "parse-award-letter"
)

const parsePrompt = `You are a financial aid award letter parser helping first-generation college students understand their aid packages.

Parse the following award letter text and return a JSON array of aid components.

Rules:
- "grant" = free money from school or government (Pell Grant, institutional grants, state grants) - student does NOT repay
- "scholarship" = merit or outside scholarships - student does NOT repay
- "loan" = any loan (subsidized, unsubsidized, PLUS, private, Graduate PLUS) - student MUST repay
- "work_study" = work-study funds - student EARNS by working, not given outright
- mustRepay = true ONLY for loans
- renewable = true if letter indicates the award continues in future years
- amount must be an integer (remove $ and commas)

IMPORTANT: Some award letters disguise loans as "aid" without using the word "loan". If you see terms like "Direct Subsidized", "Direct Unsubsidized", "Federal PLUS", "Perkins", or any repayable amount - classify it as "loan".

Return ONLY valid JSON array, no markdown, no explanation, no code fences:
[{"name":"...","amount":0,"category":"grant","mustRepay":false,"renewable":true}]

Award letter text:
%s`

type Handler struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: httpclient.NewClient(config.Timeout, config.MaxRetries),
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
		code := "AWARD_PARSE_FAILED"
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

// execute calls the model and sanitizes its output. An empty letter or an
// unusable model response yields the empty fallback rather than an error;
// only transport failures surface to the process.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.RawText) == "" {
		return &Output{ParsedAwardLetter: Summarize(nil, input.CostOfAttendance)}, nil
	}

	response, err := h.callModel(ctx, input.RawText)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, commonerrors.NewLLMTimeoutError()
		}
		return nil, commonerrors.NewAwardParseFailedError(err)
	}

	components := ExtractComponents(response)
	parsed := Summarize(components, input.CostOfAttendance)

	h.logger.Info("award letter parsed", map[string]interface{}{
		"studentProfileId": input.StudentProfileID,
		"components":       len(components),
		"freeMoneyTotal":   parsed.FreeMoneyTotal,
		"loanTotal":        parsed.LoanTotal,
	})

	return &Output{
		ParsedAwardLetter: parsed,
		ComponentCount:    len(components),
	}, nil
}

func (h *Handler) callModel(ctx context.Context, rawText string) (string, error) {
	requestBody := map[string]interface{}{
		"prompt":     fmt.Sprintf(parsePrompt, rawText),
		"max_tokens": h.config.MaxTokens,
	}
	body, _ := json.Marshal(requestBody)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		h.config.GenAIBaseURL+"/api/ai/generate", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if h.config.GenAIAPIKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.config.GenAIAPIKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("genai status %d", resp.StatusCode)
	}

	var apiResponse struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", fmt.Errorf("decode genai response: %w", err)
	}
	return apiResponse.Text, nil
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
