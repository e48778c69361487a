// internal/attrition/strategy.go
package attrition

import (
	"sort"
	"strings"

	"attrition-insights/internal/common/errors"
)

// Strategy is the pluggable classifier capability: train once on a feature
// matrix, then predict class ids for new feature vectors. Implementations are
// immutable after Train; a new record set requires a new Strategy instance.
type Strategy interface {
	Train(features [][]float64, labels []int) error
	Predict(features [][]float64) ([]int, error)
}

// StrategyConfig carries the hyperparameters a constructor may honor.
type StrategyConfig struct {
	Trees int
	Seed  int64
}

// Constructor builds a fresh, untrained Strategy.
type Constructor func(cfg StrategyConfig) Strategy

// Strategies are registered by name at init time, never resolved by runtime
// type inspection. Names are matched case-insensitively.
var strategyRegistry = map[string]Constructor{}

// RegisterStrategy adds a name→constructor pair. New strategies plug in here;
// the factory body never branches on names.
func RegisterStrategy(name string, ctor Constructor) {
	strategyRegistry[strings.ToLower(name)] = ctor
}

// KnownStrategies returns the sorted registered strategy names.
func KnownStrategies() []string {
	names := make([]string, 0, len(strategyRegistry))
	for name := range strategyRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewStrategy resolves a strategy name case-insensitively, failing with an
// UNKNOWN_STRATEGY error naming the request and every registered name.
func NewStrategy(name string, cfg StrategyConfig) (Strategy, error) {
	ctor, ok := strategyRegistry[strings.ToLower(name)]
	if !ok {
		return nil, errors.NewUnknownStrategyError(name, KnownStrategies())
	}
	return ctor(cfg), nil
}

func init() {
	RegisterStrategy("randomforest", func(cfg StrategyConfig) Strategy {
		trees := cfg.Trees
		if trees <= 0 {
			trees = 100
		}
		seed := cfg.Seed
		if seed == 0 {
			seed = 42
		}
		return NewRandomForest(trees, seed)
	})
}
