// internal/analytics/engine.go
package analytics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"attrition-insights/internal/common/logger"
	"attrition-insights/internal/dataset"
	"attrition-insights/internal/models"
)

// Config names the non-question columns of the record set and bounds the
// report size.
type Config struct {
	IdentifierColumn   string
	SequenceColumn     string
	LabelColumn        string
	GroupDimensions    []string // fixed enumeration order, e.g. dept, position, location
	MaxQuestionColumns int

	// QuestionColumns, when set, is the allowlist of columns that count as
	// survey questions. Columns absent from the record set are ignored.
	QuestionColumns []string
}

// Engine computes grouped aggregates and correlations over survey response
// columns. It holds no state between requests.
type Engine struct {
	config Config
	logger logger.Logger
}

func NewEngine(cfg Config, log logger.Logger) *Engine {
	if cfg.MaxQuestionColumns <= 0 {
		cfg.MaxQuestionColumns = 20
	}
	return &Engine{
		config: cfg,
		logger: log.WithFields(map[string]interface{}{"component": "analytics-engine"}),
	}
}

// AggregateTable maps each value of one grouping dimension to per-question
// mean scores. Groups appear in first-occurrence order; a group with zero
// contributing rows is simply absent, never reported as zero.
type AggregateTable struct {
	Dimension string
	Groups    []string
	Means     map[string]map[string]float64 // group -> question -> mean
}

// CorrelationMatrix is the symmetric Pearson correlation between every pair
// of question columns.
type CorrelationMatrix struct {
	Columns []string
	Values  [][]float64
}

// Payload converts the matrix into its report form. NaN coefficients from
// zero-variance columns are not representable in JSON and are emitted as 0.
func (m *CorrelationMatrix) Payload() *models.Correlations {
	out := &models.Correlations{
		Columns: append([]string(nil), m.Columns...),
		Values:  make([][]float64, len(m.Values)),
	}
	for i, row := range m.Values {
		out.Values[i] = make([]float64, len(row))
		for j, v := range row {
			if math.IsNaN(v) {
				continue
			}
			out.Values[i][j] = v
		}
	}
	return out
}

// GroupDimensions returns the configured grouping dimensions in their fixed
// enumeration order.
func (e *Engine) GroupDimensions() []string {
	out := make([]string, len(e.config.GroupDimensions))
	copy(out, e.config.GroupDimensions)
	return out
}

// QuestionColumns returns every numeric column that is not the identifier,
// row-sequence, label, or a grouping dimension, capped at the configured
// maximum to bound report size. Order follows the record set's column order
// and is stable across repeated calls.
func (e *Engine) QuestionColumns(f *dataset.Frame) []string {
	exclude := map[string]bool{
		e.config.IdentifierColumn: true,
		e.config.SequenceColumn:   true,
		e.config.LabelColumn:      true,
	}
	for _, dim := range e.config.GroupDimensions {
		exclude[dim] = true
	}

	var allowed map[string]bool
	if len(e.config.QuestionColumns) > 0 {
		allowed = make(map[string]bool, len(e.config.QuestionColumns))
		for _, name := range e.config.QuestionColumns {
			allowed[name] = true
		}
	}

	var cols []string
	for _, name := range f.ColumnNames() {
		if exclude[name] || !f.IsNumeric(name) {
			continue
		}
		if allowed != nil && !allowed[name] {
			continue
		}
		cols = append(cols, name)
		if len(cols) == e.config.MaxQuestionColumns {
			break
		}
	}
	return cols
}

// GroupedMeans computes the arithmetic mean of each question column per value
// of the grouping dimension.
func (e *Engine) GroupedMeans(f *dataset.Frame, questionCols []string, groupBy string) (*AggregateTable, error) {
	groups, ok := f.Strings(groupBy)
	if !ok {
		return nil, fmt.Errorf("grouping dimension %q is not a string column", groupBy)
	}

	table := &AggregateTable{
		Dimension: groupBy,
		Means:     make(map[string]map[string]float64),
	}

	rowsByGroup := make(map[string][]int)
	for row, g := range groups {
		if g == "" {
			continue
		}
		if _, seen := rowsByGroup[g]; !seen {
			table.Groups = append(table.Groups, g)
		}
		rowsByGroup[g] = append(rowsByGroup[g], row)
	}

	for _, g := range table.Groups {
		means := make(map[string]float64, len(questionCols))
		for _, col := range questionCols {
			vals, ok := f.Floats(col)
			if !ok {
				continue
			}
			var present []float64
			for _, row := range rowsByGroup[g] {
				if !math.IsNaN(vals[row]) {
					present = append(present, vals[row])
				}
			}
			if len(present) == 0 {
				continue
			}
			means[col] = stat.Mean(present, nil)
		}
		table.Means[g] = means
	}

	return table, nil
}

// CorrelationMatrix computes the Pearson correlation between every pair of
// question columns. The diagonal is 1.0 for every column with nonzero
// variance; zero-variance columns yield NaN, matching the underlying
// definition.
func (e *Engine) CorrelationMatrix(f *dataset.Frame, questionCols []string) (*CorrelationMatrix, error) {
	series := make([][]float64, len(questionCols))
	for i, col := range questionCols {
		vals, ok := f.Floats(col)
		if !ok {
			return nil, fmt.Errorf("question column %q is not numeric", col)
		}
		series[i] = vals
	}

	matrix := &CorrelationMatrix{
		Columns: append([]string(nil), questionCols...),
		Values:  make([][]float64, len(questionCols)),
	}
	for i := range questionCols {
		matrix.Values[i] = make([]float64, len(questionCols))
		for j := 0; j <= i; j++ {
			x, y := pairComplete(series[i], series[j])
			r := stat.Correlation(x, y, nil)
			matrix.Values[i][j] = r
			matrix.Values[j][i] = r
		}
	}
	return matrix, nil
}

// VerdictDistribution counts rows per raw verdict value, in first-occurrence
// order. Empty labels are skipped.
func (e *Engine) VerdictDistribution(f *dataset.Frame) ([]string, map[string]int) {
	labels, ok := f.Strings(e.config.LabelColumn)
	if !ok {
		return nil, nil
	}

	counts := make(map[string]int)
	var order []string
	for _, l := range labels {
		if l == "" {
			continue
		}
		if _, seen := counts[l]; !seen {
			order = append(order, l)
		}
		counts[l]++
	}
	return order, counts
}

// pairComplete keeps the rows where both series have a value, so correlations
// survive partially missing columns.
func pairComplete(a, b []float64) ([]float64, []float64) {
	var x, y []float64
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	return x, y
}
