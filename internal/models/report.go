package models

import "time"

// SectionKind discriminates the content of a report section.
type SectionKind string

const (
	SectionProse  SectionKind = "prose"
	SectionImage  SectionKind = "image"
	SectionAlerts SectionKind = "alerts"
)

// Section is one ordered block of the assembled report.
type Section struct {
	Title    string      `json:"title"`
	Kind     SectionKind `json:"kind"`
	Text     string      `json:"text,omitempty"`
	ImageRef string      `json:"imageRef,omitempty"` // named artifact, resolved by the renderer
	Alerts   []Alert     `json:"alerts,omitempty"`
}

// Correlations carries the question-to-question correlation numbers alongside
// the heatmap section, so API consumers get the data and not just an image
// reference. Values[i][j] pairs Columns[i] with Columns[j].
type Correlations struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// Report is a plain structured document handed to an external renderer. It
// carries no rendering logic.
type Report struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	GeneratedAt  time.Time     `json:"generatedAt"`
	Sections     []Section     `json:"sections"`
	Correlations *Correlations `json:"correlations,omitempty"`
}
