// internal/attrition/contract.go
package attrition

import (
	"attrition-insights/internal/common/errors"
	"attrition-insights/internal/dataset"
)

// FeatureContract is the fixed, ordered list of feature columns a classifier
// was trained on. It is derived once from the training record set and must be
// threaded through every later prediction: positional feature vectors are
// meaningless under any other column order.
type FeatureContract struct {
	columns []string
}

// DeriveContract fixes the contract from a cleaned record set, preserving the
// frame's column order and excluding the named non-feature columns. Only
// numeric columns qualify as features.
func DeriveContract(f *dataset.Frame, exclude ...string) *FeatureContract {
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	var columns []string
	for _, name := range f.ColumnNames() {
		if skip[name] || !f.IsNumeric(name) {
			continue
		}
		columns = append(columns, name)
	}
	return &FeatureContract{columns: columns}
}

// Columns returns a copy of the ordered feature column list.
func (fc *FeatureContract) Columns() []string {
	out := make([]string, len(fc.columns))
	copy(out, fc.columns)
	return out
}

func (fc *FeatureContract) Len() int {
	return len(fc.columns)
}

// Vector validates an input map against the contract and returns the feature
// values in contract order. If any contract column is absent the call fails
// with a FEATURE_MISMATCH error listing every missing column; there is no
// best-effort fill.
func (fc *FeatureContract) Vector(input map[string]float64) ([]float64, error) {
	var missing []string
	vec := make([]float64, len(fc.columns))

	for i, name := range fc.columns {
		v, ok := input[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		vec[i] = v
	}

	if len(missing) > 0 {
		return nil, errors.NewFeatureMismatchError(missing)
	}
	return vec, nil
}

// Matrix extracts the feature matrix for the given rows of a frame, in
// contract column order.
func (fc *FeatureContract) Matrix(f *dataset.Frame) ([][]float64, error) {
	var missing []string
	cols := make([][]float64, len(fc.columns))
	for i, name := range fc.columns {
		vals, ok := f.Floats(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols[i] = vals
	}
	if len(missing) > 0 {
		return nil, errors.NewFeatureMismatchError(missing)
	}

	rows := make([][]float64, f.Rows())
	for r := 0; r < f.Rows(); r++ {
		row := make([]float64, len(fc.columns))
		for i := range fc.columns {
			row[i] = cols[i][r]
		}
		rows[r] = row
	}
	return rows, nil
}
