// internal/workers/labor/rank-candidates/handler.go
package rankcandidates

import (
	"context"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"crew-match-workers/internal/common/errors"
	"crew-match-workers/internal/common/logger"
	"crew-match-workers/internal/common/metrics"
	"crew-match-workers/internal/common/observability"
	"crew-match-workers/internal/matching"
)

const (
	TaskType = "rank-candidates"
)

type Handler struct {
	config       *Config
	obs          *observability.Observability
	logger       logger.Logger
	sender       errors.CommandSender
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, sender errors.CommandSender, obs *observability.Observability, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
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

	output, err := h.handle(ctx, job.Variables)
	if err != nil {
		stdErr := errors.Normalize(err)
		done(string(stdErr.Code))
		h.obs.RecordJobProcessed(ctx, TaskType, "failed")
		h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")
		h.errorHandler.HandleJobError(context.Background(), client, job, stdErr)
		return
	}

	h.completeJob(client, job, output)
	done("")
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "completed")
}

func (h *Handler) handle(ctx context.Context, variables string) (*Output, error) {
	input, err := DecodeInput(variables)
	if err != nil {
		return nil, err
	}
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidRequestError("input cannot be nil")
	}

	profile := input.Profile
	if profile == "" {
		profile = h.config.DefaultProfile
	}
	cfg, ok := h.config.Profiles[profile]
	if !ok {
		metrics.MatchRequests.WithLabelValues(profile, "rejected").Inc()
		return nil, errors.NewInvalidRequestError(fmt.Sprintf("unknown scoring profile %q", profile))
	}

	ctx, span := h.obs.StartSpan(ctx, "match.rank",
		attribute.String("match.profile", profile),
		attribute.String("match.trade", input.Request.Trade),
		attribute.Int("match.candidates", len(input.Candidates)),
	)

	start := time.Now()
	shortlist, stats, err := matching.MatchWithStats(ctx, input.Request, input.Candidates, cfg)
	elapsed := time.Since(start)
	observability.EndSpan(span, err)

	if err != nil {
		metrics.MatchRequests.WithLabelValues(profile, "rejected").Inc()
		return nil, err
	}

	metrics.MatchRequests.WithLabelValues(profile, "ranked").Inc()
	metrics.MatchCandidatesEvaluated.Observe(float64(stats.Evaluated))
	metrics.MatchShortlistSize.Observe(float64(stats.Returned))

	fields := map[string]interface{}{
		"requestId":  input.Request.RequestID,
		"profile":    profile,
		"evaluated":  stats.Evaluated,
		"eligible":   stats.Eligible,
		"returned":   stats.Returned,
		"durationMs": elapsed.Milliseconds(),
	}
	h.logger.Info("candidates ranked", fields)
	if h.config.SlowThreshold > 0 && elapsed > h.config.SlowThreshold {
		h.logger.Warn("slow ranking", fields)
	}

	return &Output{
		MatchID:   uuid.New().String(),
		Profile:   profile,
		Shortlist: shortlist,
		Evaluated: stats.Evaluated,
		Eligible:  stats.Eligible,
		Returned:  stats.Returned,
		RankedAt:  time.Now().UTC().Format(time.RFC3339),
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
