// internal/attrition/service.go
package attrition

import (
	"fmt"
	"math/rand"
	"time"

	"attrition-insights/internal/common/errors"
	"attrition-insights/internal/common/logger"
	"attrition-insights/internal/common/metrics"
	"attrition-insights/internal/dataset"
)

// State is the service lifecycle position. Transitions are one-way:
// Uninitialized → Loaded → Trained.
type State int

const (
	StateUninitialized State = iota
	StateLoaded
	StateTrained
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateTrained:
		return "trained"
	default:
		return "uninitialized"
	}
}

// Config holds the service settings. Column names identify the non-feature
// columns of the record set.
type Config struct {
	IdentifierColumn string
	SequenceColumn   string
	LabelColumn      string
	TestFraction     float64
	SplitSeed        int64
}

// Service owns the label codec, the feature contract, and one trained model
// for its lifetime. It is not safe for concurrent mutation: after Train
// completes the instance is read-only and safe for concurrent Predict calls,
// but retraining against in-flight predictions must be serialized by the
// caller.
type Service struct {
	config   Config
	codec    *LabelCodec
	contract *FeatureContract
	strategy Strategy
	logger   logger.Logger

	state    State
	frame    *dataset.Frame
	labels   []int
	accuracy float64
}

// NewService resolves the named strategy at construction time; an unknown
// name fails here, before any data is touched.
func NewService(strategyName string, scfg StrategyConfig, cfg Config, log logger.Logger) (*Service, error) {
	strategy, err := NewStrategy(strategyName, scfg)
	if err != nil {
		return nil, err
	}

	if cfg.TestFraction <= 0 || cfg.TestFraction >= 1 {
		cfg.TestFraction = 0.2
	}
	if cfg.SplitSeed == 0 {
		cfg.SplitSeed = 42
	}

	return &Service{
		config:   cfg,
		codec:    NewLabelCodec(),
		strategy: strategy,
		logger:   log.WithFields(map[string]interface{}{"component": "attrition-service"}),
		state:    StateUninitialized,
	}, nil
}

// LoadAndClean encodes every label through the codec and drops rows with any
// remaining missing value. A single unmappable label rejects the whole record
// set: silent label corruption is worse than an explicit failure.
func (s *Service) LoadAndClean(f *dataset.Frame) error {
	rawLabels, ok := f.Strings(s.config.LabelColumn)
	if !ok {
		return fmt.Errorf("record set has no label column %q", s.config.LabelColumn)
	}

	labels, err := s.codec.Encode(rawLabels)
	if err != nil {
		return err
	}

	complete := f.CompleteRows()
	dropped := 0
	for _, c := range complete {
		if !c {
			dropped++
		}
	}

	cleaned := f.Select(complete)
	keptLabels := make([]int, 0, cleaned.Rows())
	for i, c := range complete {
		if c {
			keptLabels = append(keptLabels, labels[i])
		}
	}

	s.frame = cleaned
	s.labels = keptLabels
	s.state = StateLoaded

	s.logger.Info("record set loaded", map[string]interface{}{
		"rows":        cleaned.Rows(),
		"droppedRows": dropped,
	})
	return nil
}

// Train derives the feature contract, performs a stratified 80/20 split,
// fits the strategy, and evaluates held-out accuracy. Requires Loaded.
//
// Stratification is mandatory: with five classes and survey-scale data a
// naive random split risks a class missing from the test partition entirely,
// leaving its held-out accuracy undefined.
func (s *Service) Train() (float64, error) {
	if s.state != StateLoaded {
		return 0, errors.NewStateError("Train", s.state.String(), StateLoaded.String())
	}

	start := time.Now()

	s.contract = DeriveContract(s.frame,
		s.config.IdentifierColumn,
		s.config.SequenceColumn,
		s.config.LabelColumn,
	)

	features, err := s.contract.Matrix(s.frame)
	if err != nil {
		return 0, err
	}

	trainIdx, testIdx, err := stratifiedSplit(s.labels, s.config.TestFraction, s.config.SplitSeed, s.codec)
	if err != nil {
		return 0, err
	}

	trainX, trainY := subset(features, s.labels, trainIdx)
	testX, testY := subset(features, s.labels, testIdx)

	if err := s.strategy.Train(trainX, trainY); err != nil {
		return 0, err
	}

	predicted, err := s.strategy.Predict(testX)
	if err != nil {
		return 0, err
	}

	correct := 0
	for i, p := range predicted {
		if p == testY[i] {
			correct++
		}
	}
	s.accuracy = float64(correct) / float64(len(testY))
	s.state = StateTrained

	metrics.TrainingDuration.Observe(time.Since(start).Seconds())
	metrics.ModelAccuracy.Set(s.accuracy)

	s.logger.Info("model trained", map[string]interface{}{
		"features":  s.contract.Len(),
		"trainRows": len(trainIdx),
		"testRows":  len(testIdx),
		"accuracy":  s.accuracy,
	})
	return s.accuracy, nil
}

// Predict validates the input against the feature contract, predicts the
// numeric class, and decodes it to verdict text. Requires Trained; a failed
// call never disturbs the trained model.
func (s *Service) Predict(input map[string]float64) (string, error) {
	if s.state != StateTrained {
		err := errors.NewStateError("Predict", s.state.String(), StateTrained.String())
		metrics.PredictionsFailed.WithLabelValues(string(errors.ErrCodeState)).Inc()
		return "", err
	}

	vec, err := s.contract.Vector(input)
	if err != nil {
		metrics.PredictionsFailed.WithLabelValues(string(errors.CodeOf(err))).Inc()
		return "", err
	}

	classes, err := s.strategy.Predict([][]float64{vec})
	if err != nil {
		metrics.PredictionsFailed.WithLabelValues(string(errors.CodeOf(err))).Inc()
		return "", err
	}

	verdict := s.codec.Decode(classes[0])
	metrics.PredictionsServed.WithLabelValues(verdict).Inc()
	return verdict, nil
}

// State returns the current lifecycle state.
func (s *Service) State() State {
	return s.state
}

// Accuracy returns the held-out accuracy of the trained model.
func (s *Service) Accuracy() float64 {
	return s.accuracy
}

// Contract returns the feature contract derived at training time, nil before
// Train.
func (s *Service) Contract() *FeatureContract {
	return s.contract
}

// Codec returns the label codec owned by the service.
func (s *Service) Codec() *LabelCodec {
	return s.codec
}

// stratifiedSplit partitions row indices so every class keeps its proportion
// in both partitions. Every class needs at least 2 examples: one for each
// side of the split.
func stratifiedSplit(labels []int, testFraction float64, seed int64, codec *LabelCodec) (train, test []int, err error) {
	byClass := make(map[int][]int)
	for i, l := range labels {
		byClass[l] = append(byClass[l], i)
	}

	starved := make(map[string]int)
	for class, idx := range byClass {
		if len(idx) < 2 {
			starved[codec.Decode(class)] = len(idx)
		}
	}
	if len(starved) > 0 {
		return nil, nil, errors.NewInsufficientClassDataError(starved)
	}

	// Iterate classes in canonical order so the split is reproducible.
	rng := rand.New(rand.NewSource(seed))
	for class := VerdictWillLeave; class <= VerdictWontLeave; class++ {
		idx, ok := byClass[class]
		if !ok {
			continue
		}
		shuffled := make([]int, len(idx))
		copy(shuffled, idx)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		nTest := int(float64(len(shuffled))*testFraction + 0.5)
		if nTest < 1 {
			nTest = 1
		}
		if nTest >= len(shuffled) {
			nTest = len(shuffled) - 1
		}
		test = append(test, shuffled[:nTest]...)
		train = append(train, shuffled[nTest:]...)
	}
	return train, test, nil
}

func subset(features [][]float64, labels []int, idx []int) ([][]float64, []int) {
	x := make([][]float64, len(idx))
	y := make([]int, len(idx))
	for i, j := range idx {
		x[i] = features[j]
		y[i] = labels[j]
	}
	return x, y
}
