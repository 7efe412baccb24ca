// internal/workers/labor/fetch-candidates/handler.go
package fetchcandidates

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"

	"crew-match-workers/internal/common/errors"
	"crew-match-workers/internal/common/logger"
	"crew-match-workers/internal/common/metrics"
	"crew-match-workers/internal/common/observability"
	"crew-match-workers/internal/matching"
)

const (
	TaskType = "fetch-candidates"
)

type Handler struct {
	config       *Config
	db           *sql.DB
	redis        *redis.Client
	es           *elasticsearch.Client
	obs          *observability.Observability
	logger       logger.Logger
	sender       errors.CommandSender
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, redisClient *redis.Client, es *elasticsearch.Client, sender errors.CommandSender, obs *observability.Observability, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		db:           db,
		redis:        redisClient,
		es:           es,
		obs:          obs,
		logger:       l,
		sender:       sender,
		errorHandler: errors.NewErrorHandler(l, sender),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	start := time.Now()
	done := metrics.JobStarted(TaskType)

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(ctx, client, job, errors.NewInvalidRequestError(fmt.Sprintf("parse input: %v", err)), start, done)
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, err, start, done)
		return
	}

	h.completeJob(client, job, output)
	done("")
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "completed")
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time, done func(string)) {
	stdErr := errors.Normalize(err)
	done(string(stdErr.Code))
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")
	h.errorHandler.HandleJobError(context.Background(), client, job, stdErr)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidRequestError("input cannot be nil")
	}
	if err := input.Request.Validate(); err != nil {
		return nil, err
	}

	source := input.Source
	if source == "" {
		source = SourceInternalDB
	}
	limit := h.limit(input.MaxCandidates)

	var (
		candidates []matching.CandidateProfile
		cacheHit   bool
		err        error
	)
	switch source {
	case SourceInternalDB:
		candidates, cacheHit, err = h.fetchFromDatabase(ctx, input.Request, limit)
	case SourceSearchIndex:
		candidates, err = h.fetchFromIndex(ctx, input.Request, limit)
	default:
		return nil, errors.NewInvalidRequestError(fmt.Sprintf("unknown candidate source %q", input.Source))
	}
	if err != nil {
		return nil, err
	}

	h.logger.Info("candidates fetched", map[string]interface{}{
		"source":    source,
		"trade":     input.Request.Trade,
		"count":     len(candidates),
		"cacheHit":  cacheHit,
		"requestId": input.Request.RequestID,
	})

	return &Output{
		Candidates:     candidates,
		CandidateCount: len(candidates),
		Source:         source,
		CacheHit:       cacheHit,
	}, nil
}

func (h *Handler) limit(requested int) int {
	limit := h.config.MaxCandidates
	if requested > 0 {
		limit = requested
	}
	if limit <= 0 || limit > hardMaxCandidates {
		limit = hardMaxCandidates
	}
	return limit
}

func (h *Handler) fetchFromDatabase(ctx context.Context, req matching.MatchRequest, limit int) ([]matching.CandidateProfile, bool, error) {
	key := cacheKey(req)
	if cached, ok := h.readCache(ctx, key); ok {
		if len(cached) > limit {
			cached = cached[:limit]
		}
		return cached, true, nil
	}

	candidates, err := h.queryCandidates(ctx, req, limit)
	if err != nil {
		if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, false, errors.NewQueryTimeoutError("candidates")
		}
		return nil, false, errors.NewCandidateFetchFailedError(SourceInternalDB, err)
	}

	h.writeCache(ctx, key, candidates)
	return candidates, false, nil
}

func (h *Handler) fetchFromIndex(ctx context.Context, req matching.MatchRequest, limit int) ([]matching.CandidateProfile, error) {
	candidates, err := h.searchCandidates(ctx, req, limit)
	if err != nil {
		switch {
		case stderrors.Is(ctx.Err(), context.DeadlineExceeded):
			return nil, errors.NewSearchTimeoutError(h.config.CandidateIndex)
		case stderrors.Is(err, errIndexMissing):
			return nil, errors.NewIndexNotFoundError(h.config.CandidateIndex)
		default:
			return nil, errors.NewSearchQueryFailedError(h.config.CandidateIndex, err)
		}
	}
	return candidates, nil
}

func cacheKey(req matching.MatchRequest) string {
	return fmt.Sprintf("candidates:%s:%s:%s",
		strings.ToLower(strings.TrimSpace(req.Trade)), req.DateWindow.Start, req.DateWindow.End)
}

// readCache never fails the job: errors and corrupt entries count as misses.
func (h *Handler) readCache(ctx context.Context, key string) ([]matching.CandidateProfile, bool) {
	if h.redis == nil {
		return nil, false
	}
	val, err := h.redis.Get(ctx, key).Result()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			metrics.CandidateCacheRequests.WithLabelValues("miss").Inc()
		} else {
			metrics.CandidateCacheRequests.WithLabelValues("error").Inc()
			h.logger.Warn("candidate cache read failed", map[string]interface{}{
				"key":   key,
				"error": errors.NewCacheFailureError("get", err),
			})
		}
		return nil, false
	}

	var candidates []matching.CandidateProfile
	if err := json.Unmarshal([]byte(val), &candidates); err != nil {
		metrics.CandidateCacheRequests.WithLabelValues("error").Inc()
		h.logger.Warn("discarding corrupt cache entry", map[string]interface{}{"key": key, "error": err})
		return nil, false
	}
	metrics.CandidateCacheRequests.WithLabelValues("hit").Inc()
	return candidates, true
}

func (h *Handler) writeCache(ctx context.Context, key string, candidates []matching.CandidateProfile) {
	if h.redis == nil || h.config.CacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(candidates)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, key, data, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("candidate cache write failed", map[string]interface{}{
			"key":   key,
			"error": errors.NewCacheFailureError("set", err),
		})
	}
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
	err = errors.SendCommand(context.Background(), h.sender, "complete-job", func(ctx context.Context) (interface{}, error) {
		return cmd.Send(ctx)
	})
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
