// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidSurveyInput ErrorCode = "INVALID_SURVEY_INPUT"

	ErrCodeCatalogLoadFailed ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeCatalogInvalid    ErrorCode = "CATALOG_INVALID"
	ErrCodeCatalogIncomplete ErrorCode = "CATALOG_INCOMPLETE"

	ErrCodeJobCompletionFailed ErrorCode = "JOB_COMPLETION_FAILED"
	ErrCodeSelectionTimeout    ErrorCode = "SELECTION_TIMEOUT"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewInvalidSurveyInputError is raised when job variables or a request body
// cannot be decoded into a survey.
func NewInvalidSurveyInputError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidSurveyInput,
		Message:   "Survey input could not be decoded",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogLoadFailedError covers unreadable catalog files.
func NewCatalogLoadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogLoadFailed,
		Message:   "Card catalog could not be loaded",
		Details:   err.Error(),
		Retryable: false,
		Metadata:  map[string]interface{}{"path": path},
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogInvalidError covers catalogs rejected by schema or structure checks.
func NewCatalogInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogInvalid,
		Message:   "Card catalog is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogIncompleteError lists canonical cards a strict catalog lacks.
func NewCatalogIncompleteError(missing []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogIncomplete,
		Message:   "Card catalog is missing canonical cards",
		Details:   strings.Join(missing, ", "),
		Retryable: false,
		Metadata:  map[string]interface{}{"missing": missing},
		Timestamp: time.Now().UTC(),
	}
}

// NewJobCompletionFailedError creates a retryable broker error.
func NewJobCompletionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeJobCompletionFailed,
		Message:   "Failed to complete job",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSelectionTimeoutError is raised when the job context expires first.
func NewSelectionTimeoutError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSelectionTimeout,
		Message:   "Card selection timed out",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidSurveyInput:  "INVALID_SURVEY_INPUT",
	ErrCodeCatalogLoadFailed:   "CATALOG_LOAD_FAILED",
	ErrCodeCatalogInvalid:      "CATALOG_INVALID",
	ErrCodeCatalogIncomplete:   "CATALOG_INCOMPLETE",
	ErrCodeJobCompletionFailed: "JOB_COMPLETION_FAILED",
	ErrCodeSelectionTimeout:    "SELECTION_TIMEOUT",
}

// GetRetryCount returns the recommended retry count.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeJobCompletionFailed:
		return 3
	case ErrCodeSelectionTimeout:
		return 2
	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CATALOG"):
		return "CATALOG"
	case strings.Contains(codeStr, "JOB") || strings.Contains(codeStr, "TIMEOUT"):
		return "WORKFLOW"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
