// internal/workers/oracle/select-oracle-card/handler.go
package selectoraclecard

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"atlas-oracle/internal/common/camunda"
	"atlas-oracle/internal/common/errors"
	"atlas-oracle/internal/common/logger"
	"atlas-oracle/internal/common/metrics"
	"atlas-oracle/internal/common/observability"
	"atlas-oracle/internal/oracle"
)

const (
	TaskType = "select-oracle-card"

	failSendTimeout = 5 * time.Second
)

type HandlerOptions struct {
	Config        *Config
	Selector      *oracle.Selector
	Observability *observability.Observability
	Logger        logger.Logger
	// Source labels draw metrics; defaults to "worker".
	Source string
}

type Handler struct {
	config       *Config
	selector     *oracle.Selector
	obs          *observability.Observability
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
	source       string
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	selector := opts.Selector
	if selector == nil {
		selector = oracle.NewSelector(nil)
	}
	obs := opts.Observability
	if obs == nil {
		obs = &observability.Observability{}
	}
	source := opts.Source
	if source == "" {
		source = "worker"
	}

	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       cfg,
		selector:     selector,
		obs:          obs,
		logger:       log,
		errorHandler: errors.NewErrorHandler(log),
		source:       source,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job)
	if err != nil {
		return h.fail(ctx, client, job, err, start)
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		return h.fail(ctx, client, job, err, start)
	}

	if err := h.completeJob(ctx, client, job, output); err != nil {
		return h.fail(ctx, client, job, errors.NewJobCompletionFailedError(err), start)
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.obs.RecordJobProcessed(ctx, "success")
	h.obs.RecordJobDuration(ctx, time.Since(start), "success")
	return nil
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	return DecodeInput([]byte(job.Variables))
}

// Execute draws the card and builds the message. It is deterministic apart
// from ReadingID.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := h.obs.StartSpan(ctx, "oracle.draw")
	defer span.End()

	survey := oracle.SurveyInput(*input)
	reading := h.selector.Draw(survey)

	span.SetAttributes(
		attribute.String("oracle.card", reading.Card.Name),
		attribute.String("oracle.tier", reading.Tier.String()),
		attribute.Bool("oracle.fallback", reading.Fallback),
	)

	if reading.Fallback {
		h.logger.Warn("drawn card missing from catalog, using fallback", map[string]interface{}{
			"drawn":    reading.CardName,
			"fallback": reading.Card.Name,
		})
	}

	metrics.ObserveDraw(reading.Card.Name, reading.Tier.String(), reading.Fallback)
	h.obs.RecordDraw(ctx, h.source, reading.Card.Name, reading.Tier.String())

	h.logger.Debug("card drawn", map[string]interface{}{
		"hash":          reading.Hash,
		"season":        string(reading.Season),
		"element":       string(reading.Element),
		"tier":          reading.Tier.String(),
		"focusCategory": reading.FocusCategory,
		"shortlist":     reading.Shortlist,
		"card":          reading.Card.Name,
	})

	return &Output{
		ReadingID:  uuid.NewString(),
		Card:       reading.Card,
		Message:    oracle.Personalize(reading, survey),
		Season:     string(reading.Season),
		Element:    string(reading.Element),
		EnergyTier: reading.Tier.String(),
		Fallback:   reading.Fallback,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return err
	}

	err = camunda.ExecuteWithRetry(ctx, h.config.Retry, "complete job", func(ctx context.Context) error {
		_, err := cmd.Send(ctx)
		return err
	})
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return err
	}

	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":    job.Key,
		"readingId": output.ReadingID,
		"card":      output.Card.Name,
	})
	return nil
}

// fail reports err on a fresh context; the job context may already be done.
func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) error {
	sendCtx, cancel := context.WithTimeout(context.Background(), failSendTimeout)
	defer cancel()

	stdErr := h.errorHandler.HandleJobError(sendCtx, client, job, err)

	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.obs.RecordJobProcessed(ctx, "failed")
	h.obs.RecordJobDuration(ctx, time.Since(start), "failed")
	return stdErr
}
