// internal/store/surveys_test.go
package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "attrition-insights/internal/common/errors"
	"attrition-insights/internal/common/logger"
)

// ==========================
// Load Tests
// ==========================

func TestSurveyStore_LoadMerged_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"emp_id", "Manager_Trust", "Final_Verdict", "dept"}).
		AddRow(int64(1001), 4.0, "Will Leave", "Sales").
		AddRow(int64(1002), 2.5, "Wont Leave", "Ops")
	mock.ExpectQuery("SELECT s\\.\\*, e\\.location, e\\.dept, e\\.position").WillReturnRows(rows)

	store := NewSurveyStore(db, logger.NewTestLogger(t))
	frame, err := store.LoadMerged(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, frame.Rows())
	assert.Equal(t, []string{"emp_id", "Manager_Trust", "Final_Verdict", "dept"}, frame.ColumnNames())

	assert.True(t, frame.IsNumeric("emp_id"))
	assert.True(t, frame.IsNumeric("Manager_Trust"))
	assert.False(t, frame.IsNumeric("Final_Verdict"))

	trust, ok := frame.Floats("Manager_Trust")
	require.True(t, ok)
	assert.Equal(t, []float64{4.0, 2.5}, trust)

	verdicts, ok := frame.Strings("Final_Verdict")
	require.True(t, ok)
	assert.Equal(t, []string{"Will Leave", "Wont Leave"}, verdicts)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSurveyStore_LoadMerged_NullBecomesMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"emp_id", "Manager_Trust", "dept"}).
		AddRow(int64(1001), nil, "Sales").
		AddRow(int64(1002), 3.0, nil)
	mock.ExpectQuery("SELECT s\\.\\*").WillReturnRows(rows)

	store := NewSurveyStore(db, logger.NewTestLogger(t))
	frame, err := store.LoadMerged(context.Background())
	require.NoError(t, err)

	assert.True(t, frame.Missing("Manager_Trust", 0))
	assert.False(t, frame.Missing("Manager_Trust", 1))
	assert.False(t, frame.Missing("dept", 0))
	assert.True(t, frame.Missing("dept", 1))
}

func TestSurveyStore_LoadMerged_ByteScoresParseAsNumeric(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Drivers commonly hand back numerics as []byte.
	rows := sqlmock.NewRows([]string{"Manager_Trust", "dept"}).
		AddRow([]byte("4.5"), []byte("Sales")).
		AddRow([]byte("2"), []byte("Ops"))
	mock.ExpectQuery("SELECT s\\.\\*").WillReturnRows(rows)

	store := NewSurveyStore(db, logger.NewTestLogger(t))
	frame, err := store.LoadMerged(context.Background())
	require.NoError(t, err)

	assert.True(t, frame.IsNumeric("Manager_Trust"))
	trust, _ := frame.Floats("Manager_Trust")
	assert.Equal(t, []float64{4.5, 2}, trust)

	assert.False(t, frame.IsNumeric("dept"))
	dept, _ := frame.Strings("dept")
	assert.Equal(t, []string{"Sales", "Ops"}, dept)
}

func TestSurveyStore_LoadMerged_QueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT s\\.\\*").WillReturnError(fmt.Errorf("connection reset"))

	store := NewSurveyStore(db, logger.NewTestLogger(t))
	frame, err := store.LoadMerged(context.Background())
	require.Error(t, err)
	assert.Nil(t, frame)
	assert.True(t, stderrors.IsCode(err, stderrors.ErrCodeQueryExecutionFailed))
}

func TestSurveyStore_LoadMerged_EmptyResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT s\\.\\*").
		WillReturnRows(sqlmock.NewRows([]string{"emp_id", "dept"}))

	store := NewSurveyStore(db, logger.NewTestLogger(t))
	frame, err := store.LoadMerged(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, frame.Rows())
	assert.Equal(t, []string{"emp_id", "dept"}, frame.ColumnNames())
}
