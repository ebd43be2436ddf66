// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

// JobHandler must return an error (required by Zeebe client)
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job) error
}

// WorkerOptions configures one job worker subscription.
type WorkerOptions struct {
	TaskType      string
	Name          string
	MaxJobsActive int
	Timeout       time.Duration
}

type CamundaWorker struct {
	worker   worker.JobWorker
	logger   *zap.Logger
	taskType string
}

// StartWorker opens a job worker for opts.TaskType. Handler errors are
// logged; the handler itself is responsible for failing or throwing.
func StartWorker(client zbc.Client, opts WorkerOptions, handler JobHandler, logger *zap.Logger) *CamundaWorker {
	step := client.NewJobWorker().
		JobType(opts.TaskType).
		Handler(func(client worker.JobClient, job entities.Job) {
			if err := handler.Handle(client, job); err != nil {
				logger.Error("Handler returned error",
					zap.Error(err),
					zap.Int64("jobKey", job.Key),
					zap.String("taskType", opts.TaskType),
				)
			}
		}).
		MaxJobsActive(opts.MaxJobsActive)

	if opts.Timeout > 0 {
		step = step.Timeout(opts.Timeout)
	}
	if opts.Name != "" {
		step = step.Name(opts.Name)
	}

	w := &CamundaWorker{
		worker:   step.Open(),
		logger:   logger,
		taskType: opts.TaskType,
	}
	logger.Info("worker started",
		zap.String("taskType", opts.TaskType),
		zap.Int("maxJobsActive", opts.MaxJobsActive),
	)
	return w
}

// Stop closes the subscription and waits for in-flight jobs.
func (w *CamundaWorker) Stop() {
	w.logger.Info("stopping worker", zap.String("taskType", w.taskType))
	w.worker.Close()
	w.worker.AwaitClose()
}
