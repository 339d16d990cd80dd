// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"collegepath-workers/internal/common/aws"
	"collegepath-workers/internal/common/camunda"
	"collegepath-workers/internal/common/config"
	"collegepath-workers/internal/common/database"
	"collegepath-workers/internal/common/logger"
	"collegepath-workers/internal/common/observability"
	"collegepath-workers/pkg/registry"

	// Applications Workers (2)
	btl "collegepath-workers/internal/workers/applications/build-task-list"
	cu "collegepath-workers/internal/workers/applications/compute-urgency"

	// Career Workers (1)
	me "collegepath-workers/internal/workers/career/match-employers"

	// Discovery Workers (3)
	ge "collegepath-workers/internal/workers/discovery/generate-explanations"
	scl "collegepath-workers/internal/workers/discovery/score-college-list"
	sc "collegepath-workers/internal/workers/discovery/search-colleges"

	// Financial Aid Workers (2)
	pal "collegepath-workers/internal/workers/financial-aid/parse-award-letter"
	pc "collegepath-workers/internal/workers/financial-aid/project-costs"

	// Scholarships Workers (2)
	ms "collegepath-workers/internal/workers/scholarships/match-scholarships"
	sdr "collegepath-workers/internal/workers/scholarships/send-deadline-reminder"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	if cfg.App.JaegerEndpoint != "" {
		tracing, err := observability.NewTracing("worker-manager", cfg.App.JaegerEndpoint)
		if err != nil {
			zapLog.Warn("tracing init failed, continuing without traces", zap.Error(err))
		} else {
			defer tracing.Shutdown()
		}
	}

	ctx := context.Background()

	// --- Activity Registry ---
	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	if err := reg.ValidateSchemas(); err != nil {
		zapLog.Fatal("activity registry schema validation failed", zap.Error(err))
	}
	zapLog.Info("Activity registry loaded",
		zap.String("version", reg.Version),
		zap.Int("activities", len(reg.Activities)),
	)

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		// Test the connection
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Notification Clients ---
	var emailSender sdr.EmailSender
	if cfg.Notifications.Email.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region, cfg.Notifications.Email.FromEmail)
		if err != nil {
			zapLog.Fatal("SES client initialization failed", zap.Error(err))
		}
		emailSender = sesClient
		zapLog.Info("SES client initialized", zap.String("region", cfg.Notifications.AWS.Region))
	}

	var smsSender sdr.SMSSender
	if cfg.Notifications.SMS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("SNS client initialization failed", zap.Error(err))
		}
		smsSender = snsClient
		zapLog.Info("SNS client initialized", zap.String("region", cfg.Notifications.AWS.Region))
	}

	var workers []*camunda.CamundaWorker
	start := func(taskType string, handler camunda.HandlerFunc) {
		wcfg := cfg.Workers[taskType]
		w := camunda.NewWorker(zeebeClient, taskType, wcfg.MaxJobsActive, cfg.GetDuration(wcfg.Timeout), handler, zapLog)
		workers = append(workers, w)
	}

	// --- 1. Discovery Workers (3) ---
	if cfg.IsWorkerEnabled(scl.TaskType) {
		handler := scl.NewHandler(
			&scl.Config{
				CacheTTL:        10 * time.Minute,
				Timeout:         cfg.GetDuration(cfg.Workers[scl.TaskType].Timeout),
				CollegesPerTier: cfg.Scoring.CollegesPerTier,
				Policy: scl.Policy{
					AffordabilityFloorRatio:   cfg.Scoring.AffordabilityFloorRatio,
					AffordabilityCeilingRatio: cfg.Scoring.AffordabilityCeilingRatio,
					NationalMedianEarnings:    cfg.Scoring.NationalMedianEarnings,
				},
			},
			pg.DB, redis.Client, log,
		)
		start(scl.TaskType, handler.Handle)
	}

	if cfg.IsWorkerEnabled(sc.TaskType) {
		handler := sc.NewHandler(
			&sc.Config{
				Timeout:        cfg.GetDuration(cfg.Workers[sc.TaskType].Timeout),
				CollegeIndex:   cfg.Database.Elasticsearch.CollegeIndex,
				DefaultPerPage: 20,
				MaxPerPage:     50,
			},
			esClient.Client, log,
		)
		start(sc.TaskType, handler.Handle)
	}

	if cfg.IsWorkerEnabled(ge.TaskType) {
		handler := ge.NewHandler(
			&ge.Config{
				CacheTTL:     10 * time.Minute,
				Timeout:      cfg.GetDuration(cfg.Workers[ge.TaskType].Timeout),
				GenAIBaseURL: cfg.APIs.GenAI.BaseURL,
				GenAIAPIKey:  cfg.APIs.GenAI.APIKey,
				MaxTokens:    2048,
				MaxRetries:   cfg.Workers[ge.TaskType].MaxRetries,
			},
			pg.DB, redis.Client, log,
		)
		start(ge.TaskType, handler.Handle)
	}

	// --- 2. Scholarships Workers (2) ---
	if cfg.IsWorkerEnabled(ms.TaskType) {
		handler := ms.NewHandler(
			&ms.Config{
				CacheTTL:   10 * time.Minute,
				Timeout:    cfg.GetDuration(cfg.Workers[ms.TaskType].Timeout),
				MaxMatches: cfg.Scoring.MaxScholarshipMatches,
			},
			pg.DB, redis.Client, log,
		)
		start(ms.TaskType, handler.Handle)
	}

	if cfg.IsWorkerEnabled(sdr.TaskType) {
		handler := sdr.NewHandler(
			&sdr.Config{
				CacheTTL:   10 * time.Minute,
				Timeout:    cfg.GetDuration(cfg.Workers[sdr.TaskType].Timeout),
				WindowDays: cfg.Notifications.ReminderWindowDays,
			},
			pg.DB, redis.Client, emailSender, smsSender, log,
		)
		start(sdr.TaskType, handler.Handle)
	}

	// --- 3. Applications Workers (2) ---
	if cfg.IsWorkerEnabled(btl.TaskType) {
		handler := btl.NewHandler(
			&btl.Config{
				Timeout: cfg.GetDuration(cfg.Workers[btl.TaskType].Timeout),
			},
			pg.DB, log,
		)
		start(btl.TaskType, handler.Handle)
	}

	if cfg.IsWorkerEnabled(cu.TaskType) {
		handler := cu.NewHandler(
			&cu.Config{
				Timeout: cfg.GetDuration(cfg.Workers[cu.TaskType].Timeout),
			},
			pg.DB, log,
		)
		start(cu.TaskType, handler.Handle)
	}

	// --- 4. Career Workers (1) ---
	if cfg.IsWorkerEnabled(me.TaskType) {
		handler := me.NewHandler(
			&me.Config{
				CacheTTL: 10 * time.Minute,
				Timeout:  cfg.GetDuration(cfg.Workers[me.TaskType].Timeout),
			},
			pg.DB, redis.Client, log,
		)
		start(me.TaskType, handler.Handle)
	}

	// --- 5. Financial Aid Workers (2) ---
	if cfg.IsWorkerEnabled(pc.TaskType) {
		handler := pc.NewHandler(
			&pc.Config{
				CacheTTL: 10 * time.Minute,
				Timeout:  cfg.GetDuration(cfg.Workers[pc.TaskType].Timeout),
			},
			pg.DB, redis.Client, log,
		)
		start(pc.TaskType, handler.Handle)
	}

	if cfg.IsWorkerEnabled(pal.TaskType) {
		handler := pal.NewHandler(
			&pal.Config{
				Timeout:      cfg.GetDuration(cfg.Workers[pal.TaskType].Timeout),
				GenAIBaseURL: cfg.APIs.GenAI.BaseURL,
				GenAIAPIKey:  cfg.APIs.GenAI.APIKey,
				MaxTokens:    2048,
				MaxRetries:   cfg.Workers[pal.TaskType].MaxRetries,
			},
			log,
		)
		start(pal.TaskType, handler.Handle)
	}

	zapLog.Info("All workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			readyCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			status := "ready"
			code := http.StatusOK
			if err := pg.Ping(readyCtx); err != nil {
				status = "degraded"
				code = http.StatusServiceUnavailable
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(code)
			json.NewEncoder(w).Encode(map[string]string{
				"status": status,
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	for _, w := range workers {
		w.Stop()
	}

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
