// Package errors provides standardized error handling for the attrition pipeline.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Dataset / labeling errors. Fatal to the load: a single unmapped
	// verdict rejects the whole record set.
	ErrCodeUnmappedLabel ErrorCode = "UNMAPPED_LABEL"

	// Training errors. Fatal to training: a stratified split needs every
	// class at least twice.
	ErrCodeInsufficientClassData ErrorCode = "INSUFFICIENT_CLASS_DATA"

	// Prediction errors. Fatal to the single call only.
	ErrCodeFeatureMismatch ErrorCode = "FEATURE_MISMATCH"

	// Construction errors.
	ErrCodeUnknownStrategy ErrorCode = "UNKNOWN_STRATEGY"

	// Out-of-sequence operations. Programming errors, not user-recoverable.
	ErrCodeState ErrorCode = "STATE_ERROR"

	// Infrastructure errors.
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeRuleConfigInvalid        ErrorCode = "RULE_CONFIG_INVALID"
	ErrCodeNotificationSendFailed   ErrorCode = "NOTIFICATION_SEND_FAILED"
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
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// CodeOf returns the error code of err if it is a *StandardError, else "".
func CodeOf(err error) ErrorCode {
	if se, ok := err.(*StandardError); ok {
		return se.Code
	}
	return ""
}

// IsCode reports whether err is a *StandardError with the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// NewUnmappedLabelError creates a non-retryable load error carrying every
// offending raw verdict value, so the caller can surface them all at once.
func NewUnmappedLabelError(values []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnmappedLabel,
		Message:   "One or more verdict labels have no codec mapping",
		Details:   strings.Join(values, ", "),
		Retryable: false,
		Metadata:  map[string]interface{}{"unmappedValues": values},
		Timestamp: time.Now().UTC(),
	}
}

// UnmappedValues extracts the offending values from an UNMAPPED_LABEL error.
func UnmappedValues(err error) []string {
	se, ok := err.(*StandardError)
	if !ok || se.Code != ErrCodeUnmappedLabel {
		return nil
	}
	vals, _ := se.Metadata["unmappedValues"].([]string)
	return vals
}

// NewInsufficientClassDataError creates a non-retryable training error listing
// every class with fewer than two examples.
func NewInsufficientClassDataError(classes map[string]int) *StandardError {
	parts := make([]string, 0, len(classes))
	for label, count := range classes {
		parts = append(parts, fmt.Sprintf("%s: %d", label, count))
	}
	return &StandardError{
		Code:      ErrCodeInsufficientClassData,
		Message:   "A verdict class has fewer than 2 examples; stratified splitting is impossible",
		Details:   strings.Join(parts, ", "),
		Retryable: false,
		Metadata:  map[string]interface{}{"classCounts": classes},
		Timestamp: time.Now().UTC(),
	}
}

// NewFeatureMismatchError creates a per-call prediction error carrying every
// contract column absent from the input.
func NewFeatureMismatchError(missing []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFeatureMismatch,
		Message:   "Prediction input is missing required feature columns",
		Details:   strings.Join(missing, ", "),
		Retryable: false,
		Metadata:  map[string]interface{}{"missingColumns": missing},
		Timestamp: time.Now().UTC(),
	}
}

// MissingColumns extracts the missing column list from a FEATURE_MISMATCH error.
func MissingColumns(err error) []string {
	se, ok := err.(*StandardError)
	if !ok || se.Code != ErrCodeFeatureMismatch {
		return nil
	}
	cols, _ := se.Metadata["missingColumns"].([]string)
	return cols
}

// NewUnknownStrategyError creates a non-retryable construction error naming the
// requested strategy and the set of registered names.
func NewUnknownStrategyError(requested string, known []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownStrategy,
		Message:   fmt.Sprintf("Model strategy %q is not registered", requested),
		Details:   fmt.Sprintf("known strategies: %s", strings.Join(known, ", ")),
		Retryable: false,
		Metadata: map[string]interface{}{
			"requested": requested,
			"known":     known,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewStateError creates a non-retryable out-of-sequence error.
func NewStateError(operation, currentState, requiredState string) *StandardError {
	return &StandardError{
		Code:      ErrCodeState,
		Message:   fmt.Sprintf("Operation %q invoked out of sequence", operation),
		Details:   fmt.Sprintf("current state: %s, required state: %s", currentState, requiredState),
		Retryable: false,
		Metadata: map[string]interface{}{
			"operation": operation,
			"current":   currentState,
			"required":  requiredState,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryName string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("query: %s, error: %s", queryName, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRuleConfigInvalidError creates a non-retryable configuration error listing
// every schema violation in the alert rule set.
func NewRuleConfigInvalidError(violations []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRuleConfigInvalid,
		Message:   "Alert rule configuration failed schema validation",
		Details:   strings.Join(violations, "; "),
		Retryable: false,
		Metadata:  map[string]interface{}{"violations": violations},
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable delivery error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Alert notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Metadata:  map[string]interface{}{"channel": channel},
		Timestamp: time.Now().UTC(),
	}
}
