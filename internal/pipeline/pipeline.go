// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"attrition-insights/internal/analytics"
	"attrition-insights/internal/cache"
	"attrition-insights/internal/common/config"
	"attrition-insights/internal/common/logger"
	"attrition-insights/internal/common/observability"
	"attrition-insights/internal/dataset"
	"attrition-insights/internal/models"
	"attrition-insights/internal/notify"
)

// RecordSource yields the current denormalized record set.
type RecordSource interface {
	LoadMerged(ctx context.Context) (*dataset.Frame, error)
}

// Runner drives one analytics pass: load records, compute aggregates,
// evaluate alert rules, assemble the report, cache it, and dispatch
// notifications. Each run recomputes from scratch; nothing is persisted by
// the core.
type Runner struct {
	source   RecordSource
	engine   *analytics.Engine
	rules    []config.AlertRule
	cache    *cache.ReportCache
	notifier *notify.Notifier
	obs      *observability.Observability
	logger   logger.Logger

	accuracy float64
}

func NewRunner(
	source RecordSource,
	engine *analytics.Engine,
	rules []config.AlertRule,
	reportCache *cache.ReportCache,
	notifier *notify.Notifier,
	obs *observability.Observability,
	log logger.Logger,
) *Runner {
	return &Runner{
		source:   source,
		engine:   engine,
		rules:    rules,
		cache:    reportCache,
		notifier: notifier,
		obs:      obs,
		logger:   log.WithFields(map[string]interface{}{"component": "pipeline"}),
	}
}

// SetModelAccuracy records the held-out accuracy for the executive summary.
func (r *Runner) SetModelAccuracy(accuracy float64) {
	r.accuracy = accuracy
}

// Run executes one full analytics pass and returns the assembled report and
// triggered alerts.
func (r *Runner) Run(ctx context.Context) (*models.Report, []models.Alert, error) {
	start := time.Now()
	report, alerts, err := r.run(ctx)

	status := "ok"
	if err != nil {
		status = "error"
	}
	if r.obs != nil {
		r.obs.RecordPipelineRun(ctx, status)
		r.obs.RecordPipelineDuration(ctx, time.Since(start), status)
	}
	return report, alerts, err
}

func (r *Runner) run(ctx context.Context) (*models.Report, []models.Alert, error) {
	frame, err := r.source.LoadMerged(ctx)
	if err != nil {
		return nil, nil, err
	}

	questionCols := r.engine.QuestionColumns(frame)

	var tables []*analytics.AggregateTable
	for _, dim := range r.engine.GroupDimensions() {
		table, err := r.engine.GroupedMeans(frame, questionCols, dim)
		if err != nil {
			return nil, nil, err
		}
		tables = append(tables, table)
	}

	matrix, err := r.engine.CorrelationMatrix(frame, questionCols)
	if err != nil {
		return nil, nil, err
	}

	alerts := analytics.EvaluateRules(tables, r.rules)

	report := analytics.Assemble(r.summary(frame, questionCols, alerts), artifactsForCharts(tables), alerts)
	report.Correlations = matrix.Payload()

	if r.cache != nil {
		r.cache.SetReport(ctx, report)
		r.cache.SetAlerts(ctx, alerts)
	}

	if r.notifier != nil {
		if failures := r.notifier.DispatchAlerts(ctx, alerts); failures > 0 {
			r.logger.Warn("some alert sinks failed", map[string]interface{}{"failures": failures})
		}
	}

	r.logger.Info("analytics pass complete", map[string]interface{}{
		"rows":      frame.Rows(),
		"questions": len(questionCols),
		"alerts":    len(alerts),
	})
	return report, alerts, nil
}

// summary builds the executive-summary prose from the pass results.
func (r *Runner) summary(frame *dataset.Frame, questionCols []string, alerts []models.Alert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "This report covers %d survey responses over %d question metrics.\n",
		frame.Rows(), len(questionCols))

	order, counts := r.engine.VerdictDistribution(frame)
	if len(order) > 0 {
		b.WriteString("Verdict distribution:")
		for _, verdict := range order {
			fmt.Fprintf(&b, " %s=%d", verdict, counts[verdict])
		}
		b.WriteString(".\n")
	}

	if r.accuracy > 0 {
		fmt.Fprintf(&b, "The attrition model scored %.2f held-out accuracy.\n", r.accuracy)
	}
	fmt.Fprintf(&b, "%d alert(s) were triggered by configured thresholds.", len(alerts))
	return b.String()
}

// artifactsForCharts names the chart references the external renderer draws
// from the aggregate tables. The assembler degrades gracefully when a
// dimension produced no groups.
func artifactsForCharts(tables []*analytics.AggregateTable) analytics.Artifacts {
	images := map[string]string{
		analytics.ArtifactVerdictPie: "charts/verdict_pie.png",
		analytics.ArtifactHeatmap:    "charts/heatmap.png",
	}
	for _, table := range tables {
		if len(table.Groups) == 0 {
			continue
		}
		images["bar_"+table.Dimension] = fmt.Sprintf("charts/bar_%s.png", table.Dimension)
	}
	return analytics.Artifacts{Images: images}
}
