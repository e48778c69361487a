// internal/attrition/forest_test.go
package attrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "attrition-insights/internal/common/errors"
)

// ==========================
// Test Helper Functions
// ==========================

// createSeparableData builds two well-separated clusters: class 1 near the
// origin, class 5 around (10, 10).
func createSeparableData() ([][]float64, []int) {
	features := [][]float64{
		{0.5, 1.0}, {1.0, 0.5}, {0.0, 0.8}, {1.2, 1.1}, {0.3, 0.2},
		{10.5, 9.8}, {9.7, 10.2}, {10.0, 10.0}, {9.5, 9.5}, {10.8, 10.3},
	}
	labels := []int{1, 1, 1, 1, 1, 5, 5, 5, 5, 5}
	return features, labels
}

// ==========================
// Training Tests
// ==========================

func TestRandomForest_Train_SingleClassFails(t *testing.T) {
	rf := NewRandomForest(10, 42)

	err := rf.Train([][]float64{{1, 2}, {3, 4}}, []int{3, 3})
	require.Error(t, err)
	assert.True(t, stderrors.IsCode(err, stderrors.ErrCodeInsufficientClassData))
}

func TestRandomForest_Train_EmptyInputFails(t *testing.T) {
	rf := NewRandomForest(10, 42)

	assert.Error(t, rf.Train(nil, nil))
	assert.Error(t, rf.Train([][]float64{{1}}, []int{1, 2}))
}

func TestRandomForest_Train_NoFeatureColumnsFails(t *testing.T) {
	rf := NewRandomForest(10, 42)

	err := rf.Train([][]float64{{}, {}}, []int{1, 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no feature columns")
}

func TestRandomForest_PredictBeforeTrainFails(t *testing.T) {
	rf := NewRandomForest(10, 42)

	classes, err := rf.Predict([][]float64{{1, 2}})
	require.Error(t, err)
	assert.Nil(t, classes)
	assert.True(t, stderrors.IsCode(err, stderrors.ErrCodeState))
}

// ==========================
// Prediction Tests
// ==========================

func TestRandomForest_LearnsSeparableClusters(t *testing.T) {
	features, labels := createSeparableData()

	rf := NewRandomForest(25, 42)
	require.NoError(t, rf.Train(features, labels))

	classes, err := rf.Predict([][]float64{
		{0.4, 0.6},   // inside the class-1 cluster
		{10.1, 9.9},  // inside the class-5 cluster
		{0.9, 1.3},   // class 1 again
		{9.6, 10.4},  // class 5 again
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5, 1, 5}, classes)
}

func TestRandomForest_DeterministicAcrossRuns(t *testing.T) {
	features, labels := createSeparableData()
	probe := [][]float64{{5.0, 5.0}, {2.0, 8.0}, {0.1, 9.9}}

	first := NewRandomForest(15, 7)
	require.NoError(t, first.Train(features, labels))
	firstOut, err := first.Predict(probe)
	require.NoError(t, err)

	second := NewRandomForest(15, 7)
	require.NoError(t, second.Train(features, labels))
	secondOut, err := second.Predict(probe)
	require.NoError(t, err)

	assert.Equal(t, firstOut, secondOut, "same seed must reproduce identical predictions")
}

func TestRandomForest_TrainingSetRecall(t *testing.T) {
	features, labels := createSeparableData()

	rf := NewRandomForest(50, 42)
	require.NoError(t, rf.Train(features, labels))

	classes, err := rf.Predict(features)
	require.NoError(t, err)

	correct := 0
	for i, c := range classes {
		if c == labels[i] {
			correct++
		}
	}
	// Separable clusters: the forest should recall its own training set.
	assert.GreaterOrEqual(t, correct, 9)
}

// ==========================
// Vote Aggregation Tests
// ==========================

func TestMajorityClass(t *testing.T) {
	tests := []struct {
		name     string
		votes    map[int]int
		expected int
	}{
		{"clear majority", map[int]int{1: 3, 5: 7}, 5},
		{"tie breaks to smaller class", map[int]int{2: 4, 4: 4}, 2},
		{"single class", map[int]int{3: 1}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, majorityClass(tt.votes))
		})
	}
}

func TestGini(t *testing.T) {
	tests := []struct {
		name     string
		counts   map[int]int
		total    int
		expected float64
	}{
		{"pure node", map[int]int{1: 4}, 4, 0.0},
		{"even binary split", map[int]int{1: 2, 5: 2}, 4, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, gini(tt.counts, tt.total), 1e-9)
		})
	}
}
