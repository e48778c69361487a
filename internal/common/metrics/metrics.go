// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PredictionsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attrition_predictions_total",
			Help: "Total number of verdict predictions served",
		},
		[]string{"verdict"},
	)

	PredictionsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attrition_predictions_failed_total",
			Help: "Total number of failed prediction calls",
		},
		[]string{"error_code"},
	)

	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "attrition_training_duration_seconds",
			Help: "Duration of model training in seconds",
		},
	)

	ModelAccuracy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "attrition_model_accuracy",
			Help: "Held-out accuracy of the last trained model",
		},
	)

	AlertsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attrition_alerts_emitted_total",
			Help: "Total number of alerts emitted by the rule engine",
		},
		[]string{"dimension"},
	)

	ReportsAssembled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "attrition_reports_assembled_total",
			Help: "Total number of reports assembled",
		},
	)
)
