// internal/dataset/frame_test.go
package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Column Management Tests
// ==========================

func TestFrame_AddColumns(t *testing.T) {
	f := New()
	require.NoError(t, f.AddNumericColumn("score", []float64{1, 2, 3}))
	require.NoError(t, f.AddStringColumn("dept", []string{"a", "b", "c"}))

	assert.Equal(t, 3, f.Rows())
	assert.Equal(t, []string{"score", "dept"}, f.ColumnNames())
	assert.True(t, f.HasColumn("score"))
	assert.False(t, f.HasColumn("missing"))
	assert.True(t, f.IsNumeric("score"))
	assert.False(t, f.IsNumeric("dept"))
	assert.False(t, f.IsNumeric("missing"))
}

func TestFrame_DuplicateColumnRejected(t *testing.T) {
	f := New()
	require.NoError(t, f.AddNumericColumn("score", []float64{1}))
	assert.Error(t, f.AddNumericColumn("score", []float64{2}))
	assert.Error(t, f.AddStringColumn("score", []string{"x"}))
}

func TestFrame_LengthMismatchRejected(t *testing.T) {
	f := New()
	require.NoError(t, f.AddNumericColumn("score", []float64{1, 2}))
	assert.Error(t, f.AddNumericColumn("other", []float64{1}))
	assert.Error(t, f.AddStringColumn("dept", []string{"a", "b", "c"}))
}

func TestFrame_TypedAccessors(t *testing.T) {
	f := New()
	require.NoError(t, f.AddNumericColumn("score", []float64{1.5, 2.5}))
	require.NoError(t, f.AddStringColumn("dept", []string{"a", "b"}))

	floats, ok := f.Floats("score")
	require.True(t, ok)
	assert.Equal(t, []float64{1.5, 2.5}, floats)

	_, ok = f.Floats("dept")
	assert.False(t, ok)

	strs, ok := f.Strings("dept")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, strs)

	_, ok = f.Strings("score")
	assert.False(t, ok)
}

// ==========================
// Missing Value Tests
// ==========================

func TestFrame_Missing(t *testing.T) {
	f := New()
	require.NoError(t, f.AddNumericColumn("score", []float64{1, math.NaN()}))
	require.NoError(t, f.AddStringColumn("dept", []string{"a", ""}))

	assert.False(t, f.Missing("score", 0))
	assert.True(t, f.Missing("score", 1))
	assert.False(t, f.Missing("dept", 0))
	assert.True(t, f.Missing("dept", 1))
	assert.True(t, f.Missing("absent", 0))
}

func TestFrame_CompleteRows(t *testing.T) {
	f := New()
	require.NoError(t, f.AddNumericColumn("score", []float64{1, math.NaN(), 3, 4}))
	require.NoError(t, f.AddStringColumn("dept", []string{"a", "b", "", "d"}))

	assert.Equal(t, []bool{true, false, false, true}, f.CompleteRows())
}

// ==========================
// Row Selection Tests
// ==========================

func TestFrame_Select(t *testing.T) {
	f := New()
	require.NoError(t, f.AddNumericColumn("score", []float64{1, 2, 3, 4}))
	require.NoError(t, f.AddStringColumn("dept", []string{"a", "b", "c", "d"}))

	out := f.Select([]bool{true, false, true, false})

	assert.Equal(t, 2, out.Rows())
	assert.Equal(t, []string{"score", "dept"}, out.ColumnNames())

	floats, ok := out.Floats("score")
	require.True(t, ok)
	assert.Equal(t, []float64{1, 3}, floats)

	strs, ok := out.Strings("dept")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "c"}, strs)
}

func TestFrame_SelectDropCompleteRoundTrip(t *testing.T) {
	f := New()
	require.NoError(t, f.AddNumericColumn("score", []float64{1, math.NaN(), 3}))
	require.NoError(t, f.AddStringColumn("dept", []string{"a", "b", "c"}))

	cleaned := f.Select(f.CompleteRows())

	assert.Equal(t, 2, cleaned.Rows())
	for _, complete := range cleaned.CompleteRows() {
		assert.True(t, complete)
	}
}
