// internal/common/errors/errors_test.go
package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Error Construction Tests
// ==========================

func TestNewUnmappedLabelError(t *testing.T) {
	err := NewUnmappedLabelError([]string{"Maybe", "Unsure"})

	assert.Equal(t, ErrCodeUnmappedLabel, err.Code)
	assert.False(t, err.Retryable)
	assert.Equal(t, []string{"Maybe", "Unsure"}, UnmappedValues(err))
	assert.Contains(t, err.Error(), "Maybe")
	assert.Contains(t, err.Error(), "Unsure")
}

func TestNewInsufficientClassDataError(t *testing.T) {
	err := NewInsufficientClassDataError(map[string]int{"Not Decided": 1})

	assert.Equal(t, ErrCodeInsufficientClassData, err.Code)
	assert.False(t, err.Retryable)
	assert.Contains(t, err.Error(), "Not Decided")
}

func TestNewFeatureMismatchError(t *testing.T) {
	err := NewFeatureMismatchError([]string{"Manager_Trust", "Growth_Opportunities"})

	assert.Equal(t, ErrCodeFeatureMismatch, err.Code)
	assert.Equal(t, []string{"Manager_Trust", "Growth_Opportunities"}, MissingColumns(err))
}

func TestNewUnknownStrategyError(t *testing.T) {
	err := NewUnknownStrategyError("svm", []string{"randomforest"})

	assert.Equal(t, ErrCodeUnknownStrategy, err.Code)
	assert.Contains(t, err.Error(), "svm")
	assert.Contains(t, err.Error(), "randomforest")
}

func TestNewStateError(t *testing.T) {
	err := NewStateError("Train", "uninitialized", "loaded")

	assert.Equal(t, ErrCodeState, err.Code)
	assert.Contains(t, err.Error(), "Train")
	assert.Contains(t, err.Error(), "uninitialized")
}

func TestRetryableClassification(t *testing.T) {
	assert.True(t, NewDatabaseConnectionFailedError(fmt.Errorf("refused")).Retryable)
	assert.True(t, NewQueryExecutionFailedError("load_merged_surveys", fmt.Errorf("timeout")).Retryable)
	assert.True(t, NewNotificationSendFailedError("ses", fmt.Errorf("throttled")).Retryable)
	assert.False(t, NewRuleConfigInvalidError([]string{"direction must be low or high"}).Retryable)
}

// ==========================
// Inspection Helper Tests
// ==========================

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeUnmappedLabel, CodeOf(NewUnmappedLabelError([]string{"x"})))
	assert.Equal(t, ErrorCode(""), CodeOf(fmt.Errorf("plain error")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}

func TestIsCode(t *testing.T) {
	err := NewFeatureMismatchError([]string{"col"})

	assert.True(t, IsCode(err, ErrCodeFeatureMismatch))
	assert.False(t, IsCode(err, ErrCodeUnmappedLabel))
	assert.False(t, IsCode(fmt.Errorf("plain"), ErrCodeFeatureMismatch))
}

func TestExtractorsRejectForeignErrors(t *testing.T) {
	require.Nil(t, UnmappedValues(fmt.Errorf("plain")))
	require.Nil(t, MissingColumns(NewUnmappedLabelError([]string{"x"})))
}
