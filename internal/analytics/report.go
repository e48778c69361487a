// internal/analytics/report.go
package analytics

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"attrition-insights/internal/common/metrics"
	"attrition-insights/internal/models"
)

// Artifacts carries the named chart references produced upstream. The
// assembler only records the names; rasterization belongs to the external
// renderer.
type Artifacts struct {
	Images map[string]string // artifact key -> renderer image reference
}

// Chart artifact keys, matching the section order of the generated report.
const (
	ArtifactVerdictPie  = "verdict_pie"
	ArtifactHeatmap     = "heatmap"
	ArtifactBarLocation = "bar_location"
	ArtifactBarPosition = "bar_position"
	ArtifactBarDept     = "bar_dept"
)

// Assemble combines the summary, analytics artifacts, and alerts into a
// structured report for the external document renderer. A missing artifact
// degrades to a placeholder prose line; it never aborts the report.
func Assemble(summary string, artifacts Artifacts, alerts []models.Alert) *models.Report {
	report := &models.Report{
		ID:          uuid.New().String(),
		Title:       "Employee Attrition Survey Report",
		GeneratedAt: time.Now().UTC(),
	}

	report.Sections = append(report.Sections, models.Section{
		Title: "Executive Summary",
		Kind:  models.SectionProse,
		Text:  summary,
	})

	report.Sections = append(report.Sections,
		imageSection("Attrition Verdict Breakdown", ArtifactVerdictPie, "No verdict pie chart available.", artifacts),
		imageSection("Survey Metric Correlations", ArtifactHeatmap, "No correlation heatmap available.", artifacts),
	)

	for _, bar := range []struct {
		key   string
		label string
	}{
		{ArtifactBarLocation, "Location"},
		{ArtifactBarPosition, "Position"},
		{ArtifactBarDept, "Dept"},
	} {
		report.Sections = append(report.Sections, imageSection(
			fmt.Sprintf("Survey Question Scores by %s", bar.label),
			bar.key,
			fmt.Sprintf("No bar chart found for %s", bar.label),
			artifacts,
		))
	}

	alertSection := models.Section{
		Title:  "Alerts Summary",
		Kind:   models.SectionAlerts,
		Alerts: alerts,
	}
	if len(alerts) == 0 {
		alertSection = models.Section{
			Title: "Alerts Summary",
			Kind:  models.SectionProse,
			Text:  "No alerts triggered based on thresholds.",
		}
	}
	report.Sections = append(report.Sections, alertSection)

	metrics.ReportsAssembled.Inc()
	return report
}

func imageSection(title, key, placeholder string, artifacts Artifacts) models.Section {
	if ref, ok := artifacts.Images[key]; ok && ref != "" {
		return models.Section{
			Title:    title,
			Kind:     models.SectionImage,
			ImageRef: ref,
		}
	}
	return models.Section{
		Title: title,
		Kind:  models.SectionProse,
		Text:  placeholder,
	}
}
