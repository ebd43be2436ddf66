// internal/common/errors/handler.go
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// ErrorHandler fails or throws jobs according to the error code.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleJobError retries retryable errors while the job has retries left and
// throws a BPMN error otherwise. It returns the normalized error.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) *StandardError {
	stdErr := Normalize(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	h.logError(job, stdErr, bpmnErr)

	if bpmnErr.Retries > 0 && job.Retries > 0 {
		h.failJobWithRetries(ctx, client, job, bpmnErr)
	} else {
		h.throwBPMNError(ctx, client, job, bpmnErr)
	}
	return stdErr
}

// Normalize maps any error onto a StandardError. Context deadlines become
// SELECTION_TIMEOUT.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return NewSelectionTimeoutError(err)
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func (h *ErrorHandler) failJobWithRetries(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	// job.Retries is what the broker has left; never raise it.
	retries := bpmnErr.Retries
	if int(job.Retries) < retries {
		retries = int(job.Retries)
	}

	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(int32(retries - 1)).
		ErrorMessage(bpmnErr.Message)

	if vars, ok := encodeVariables(bpmnErr); ok {
		if withVars, err := cmd.VariablesFromString(vars); err == nil {
			h.send(ctx, "fail job", func(ctx context.Context) error {
				_, err := withVars.Send(ctx)
				return err
			})
			return
		}
	}

	h.send(ctx, "fail job", func(ctx context.Context) error {
		_, err := cmd.Send(ctx)
		return err
	})
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	if vars, ok := encodeVariables(bpmnErr); ok {
		if withVars, err := cmd.VariablesFromString(vars); err == nil {
			h.send(ctx, "throw error", func(ctx context.Context) error {
				_, err := withVars.Send(ctx)
				return err
			})
			return
		}
	}

	h.send(ctx, "throw error", func(ctx context.Context) error {
		_, err := cmd.Send(ctx)
		return err
	})
}

func (h *ErrorHandler) send(ctx context.Context, command string, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		h.logger.Error("failed to send job command", map[string]interface{}{
			"command": command,
			"error":   err,
		})
	}
}

func encodeVariables(bpmnErr *BPMNError) (string, bool) {
	data, err := json.Marshal(bpmnErr.ToErrorVariables())
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (h *ErrorHandler) logError(job entities.Job, stdErr *StandardError, bpmnErr *BPMNError) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"errorCode":        string(stdErr.Code),
		"bpmnErrorCode":    bpmnErr.Code,
		"message":          bpmnErr.Message,
		"details":          stdErr.Details,
		"retryable":        stdErr.Retryable,
		"retries":          bpmnErr.Retries,
		"errorCategory":    GetErrorCategory(stdErr.Code),
		"workflowInstance": job.ProcessInstanceKey,
	})
}
