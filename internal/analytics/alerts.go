// internal/analytics/alerts.go
package analytics

import (
	"fmt"
	"strings"

	"attrition-insights/internal/common/config"
	"attrition-insights/internal/common/metrics"
	"attrition-insights/internal/models"
)

// EvaluateRules applies the configured threshold rules to a set of aggregate
// tables. Output ordering is deterministic on identical input: tables in the
// order given (the fixed dimension enumeration), rules in configuration
// order, groups in the order the table yields them. Report reproducibility
// depends on this.
//
// A feature absent from a group's aggregates produces no alert: missing data
// is not a failing threshold.
func EvaluateRules(tables []*AggregateTable, rules []config.AlertRule) []models.Alert {
	var alerts []models.Alert

	for _, table := range tables {
		for _, rule := range rules {
			for _, group := range table.Groups {
				mean, ok := table.Means[group][rule.Feature]
				if !ok {
					continue
				}

				triggered := (rule.Direction == "low" && mean < rule.Threshold) ||
					(rule.Direction == "high" && mean > rule.Threshold)
				if !triggered {
					continue
				}

				alerts = append(alerts, models.Alert{
					Dimension: table.Dimension,
					Group:     group,
					Feature:   rule.Feature,
					Direction: rule.Direction,
					Threshold: rule.Threshold,
					Label:     rule.Label,
					Observed:  mean,
					Message:   alertMessage(table.Dimension, group, rule, mean),
				})
				metrics.AlertsEmitted.WithLabelValues(table.Dimension).Inc()
			}
		}
	}

	return alerts
}

func alertMessage(dimension, group string, rule config.AlertRule, mean float64) string {
	return fmt.Sprintf("%s: %s has %s %s (%.2f)",
		titleWord(dimension), group, strings.ToUpper(rule.Direction), rule.Label, mean)
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
