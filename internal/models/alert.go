package models

// Alert is one triggered threshold condition for one group. Produced by the
// rule engine, never mutated, consumed by the report assembler and the
// notification sinks.
type Alert struct {
	Dimension string  `json:"dimension"` // grouping dimension, e.g. "dept"
	Group     string  `json:"group"`     // group value, e.g. "Sales"
	Feature   string  `json:"feature"`
	Direction string  `json:"direction"` // "low" or "high"
	Threshold float64 `json:"threshold"`
	Label     string  `json:"label"`
	Observed  float64 `json:"observed"` // the group's mean for the feature
	Message   string  `json:"message"`
}
