package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"crew-match-workers/internal/common/logger"
)

// JobHandler is implemented by every worker handler.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

type WorkerConfig struct {
	TaskType      string
	MaxJobsActive int
	Timeout       time.Duration
	PollInterval  time.Duration
}

// StartWorker opens a job worker for cfg.TaskType. The caller owns the
// returned worker and closes it on shutdown.
func StartWorker(client zbc.Client, cfg WorkerConfig, handler JobHandler, log logger.Logger) worker.JobWorker {
	step := client.NewJobWorker().
		JobType(cfg.TaskType).
		Handler(handler.Handle).
		MaxJobsActive(cfg.MaxJobsActive).
		Name(cfg.TaskType + "-worker")

	if cfg.Timeout > 0 {
		step = step.Timeout(cfg.Timeout)
	}
	if cfg.PollInterval > 0 {
		step = step.PollInterval(cfg.PollInterval)
	}

	jw := step.Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      cfg.TaskType,
		"maxJobsActive": cfg.MaxJobsActive,
		"timeout":       cfg.Timeout.String(),
	})
	return jw
}
