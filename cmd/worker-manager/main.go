// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awsclient "crew-match-workers/internal/common/aws"
	"crew-match-workers/internal/common/camunda"
	"crew-match-workers/internal/common/config"
	"crew-match-workers/internal/common/database"
	"crew-match-workers/internal/common/logger"
	"crew-match-workers/internal/common/observability"

	fc "crew-match-workers/internal/workers/labor/fetch-candidates"
	ns "crew-match-workers/internal/workers/labor/notify-shortlist"
	rc "crew-match-workers/internal/workers/labor/rank-candidates"
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
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...", zap.String("environment", cfg.App.Environment))

	obs := observability.New(observability.Options{
		ServiceName:    cfg.Observability.ServiceName,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
	}, log)
	defer obs.Shutdown()

	// Fail before dialing anything if a scoring profile is unusable.
	profiles, err := cfg.Matching.ScoringConfigs()
	if err != nil {
		zapLog.Fatal("invalid scoring profiles", zap.Error(err))
	}

	ctx := context.Background()

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClient(cfg.Camunda.BrokerAddress, config.GetDuration(cfg.Camunda.RequestTimeout))
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Elasticsearch ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Redis ---
	redisClient := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	zapLog.Info("Redis connected successfully")

	// --- Workers ---
	var workers []worker.JobWorker
	zbClient := zeebe.GetClient()

	start := func(taskType string, handler camunda.JobHandler) {
		wcfg := config.GetWorkerConfig(cfg, taskType)
		if !wcfg.Enabled {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			return
		}
		workers = append(workers, camunda.StartWorker(zbClient, camunda.WorkerConfig{
			TaskType:      taskType,
			MaxJobsActive: wcfg.MaxJobsActive,
			Timeout:       config.GetDuration(wcfg.Timeout),
		}, handler, log))
	}

	if config.IsWorkerEnabled(cfg, fc.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, fc.TaskType)
		fetchCfg := fc.LoadConfig()
		fetchCfg.Timeout = config.GetDuration(wcfg.Timeout)
		fetchCfg.CandidateIndex = cfg.Database.Elasticsearch.CandidateIndex
		fetchCfg.LocationCutoffKm = profiles[cfg.Matching.DefaultProfileName()].LocationCutoffKm
		if wcfg.CacheTTL > 0 {
			fetchCfg.CacheTTL = time.Duration(wcfg.CacheTTL) * time.Second
		}
		start(fc.TaskType, fc.NewHandler(fetchCfg, pg.DB, redisClient.Client, esClient.Client, zeebe, obs, log))
	}

	if config.IsWorkerEnabled(cfg, rc.TaskType) {
		rankCfg := rc.LoadConfig()
		rankCfg.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, rc.TaskType).Timeout)
		rankCfg.SlowThreshold = cfg.Matching.SlowThreshold()
		rankCfg.DefaultProfile = cfg.Matching.DefaultProfileName()
		rankCfg.Profiles = profiles
		start(rc.TaskType, rc.NewHandler(rankCfg, zeebe, obs, log))
	}

	if config.IsWorkerEnabled(cfg, ns.TaskType) {
		awsCfg, err := awsclient.LoadConfig(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("failed to load AWS config", zap.Error(err))
		}
		notifyCfg := ns.LoadConfig()
		notifyCfg.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, ns.TaskType).Timeout)
		notifyCfg.EmailEnabled = cfg.Notifications.Email.Enabled
		notifyCfg.SMSEnabled = cfg.Notifications.SMS.Enabled
		notifyCfg.SenderID = cfg.Notifications.SMS.SenderID
		if cfg.Notifications.Email.FromEmail != "" {
			notifyCfg.FromEmail = cfg.Notifications.Email.FromEmail
		}
		start(ns.TaskType, ns.NewHandler(notifyCfg, pg.DB,
			awsclient.NewSESClient(awsCfg), awsclient.NewSNSClient(awsCfg), zeebe, obs, log))
	}
	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", nil)
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]error{
			"zeebe":    zeebe.HealthCheck(checkCtx),
			"postgres": pg.Ping(checkCtx),
			"redis":    redisClient.Ping(checkCtx),
		}
		for _, err := range checks {
			if err != nil {
				writeStatus(w, http.StatusServiceUnavailable, "not ready", checks)
				return
			}
		}
		writeStatus(w, http.StatusOK, "ready", nil)
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Observability.HealthPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := pg.Close(); err != nil {
		zapLog.Error("Error closing PostgreSQL", zap.Error(err))
	}
	if err := redisClient.Close(); err != nil {
		zapLog.Error("Error closing Redis", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status string, checks map[string]error) {
	body := map[string]interface{}{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if len(checks) > 0 {
		failed := make(map[string]string)
		for name, err := range checks {
			if err != nil {
				failed[name] = err.Error()
			}
		}
		body["failed"] = failed
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
