// internal/attrition/strategy_test.go
package attrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "attrition-insights/internal/common/errors"
)

// ==========================
// Factory Tests
// ==========================

func TestNewStrategy_ResolvesRegisteredNames(t *testing.T) {
	tests := []struct {
		name         string
		strategyName string
	}{
		{"canonical name", "randomforest"},
		{"mixed case", "RandomForest"},
		{"upper case", "RANDOMFOREST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy, err := NewStrategy(tt.strategyName, StrategyConfig{Trees: 10, Seed: 1})
			require.NoError(t, err)
			assert.IsType(t, &RandomForest{}, strategy)
		})
	}
}

func TestNewStrategy_UnknownName(t *testing.T) {
	strategy, err := NewStrategy("gradientboost", StrategyConfig{})
	require.Error(t, err)
	assert.Nil(t, strategy)

	assert.True(t, stderrors.IsCode(err, stderrors.ErrCodeUnknownStrategy))
	assert.Contains(t, err.Error(), "gradientboost")
	assert.Contains(t, err.Error(), "randomforest")
}

func TestRegisterStrategy_NewNamePlugsIn(t *testing.T) {
	RegisterStrategy("always-three", func(cfg StrategyConfig) Strategy {
		return &constantStrategy{class: VerdictNotDecided}
	})

	strategy, err := NewStrategy("Always-Three", StrategyConfig{})
	require.NoError(t, err)

	require.NoError(t, strategy.Train([][]float64{{1}, {2}}, []int{1, 2}))
	classes, err := strategy.Predict([][]float64{{9}})
	require.NoError(t, err)
	assert.Equal(t, []int{VerdictNotDecided}, classes)

	assert.Contains(t, KnownStrategies(), "always-three")
}

// constantStrategy predicts one fixed class, for factory tests.
type constantStrategy struct {
	class int
}

func (c *constantStrategy) Train(features [][]float64, labels []int) error {
	return nil
}

func (c *constantStrategy) Predict(features [][]float64) ([]int, error) {
	out := make([]int, len(features))
	for i := range out {
		out[i] = c.class
	}
	return out, nil
}
