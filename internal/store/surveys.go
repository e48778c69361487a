// internal/store/surveys.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strconv"

	"attrition-insights/internal/common/errors"
	"attrition-insights/internal/common/logger"
	"attrition-insights/internal/dataset"
)

// mergedQuery joins survey responses with the employee attributes the
// analytics engine groups by. The store only reads; survey submission writes
// belong to the caller.
const mergedQuery = `
	SELECT s.*, e.location, e.dept, e.position
	FROM survey_results s
	JOIN employees e ON s.emp_id = e.emp_id`

// SurveyStore reads the denormalized survey record set into a dataset.Frame.
type SurveyStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewSurveyStore(db *sql.DB, log logger.Logger) *SurveyStore {
	return &SurveyStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "survey-store"}),
	}
}

// LoadMerged runs the merged read query and returns the result as a Frame
// with named, typed columns.
func (s *SurveyStore) LoadMerged(ctx context.Context) (*dataset.Frame, error) {
	rows, err := s.db.QueryContext(ctx, mergedQuery)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("survey_merged", err)
	}
	defer rows.Close()

	frame, err := FrameFromRows(rows)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("survey_merged", err)
	}

	s.logger.Info("record set loaded from store", map[string]interface{}{
		"rows":    frame.Rows(),
		"columns": len(frame.ColumnNames()),
	})
	return frame, nil
}

// FrameFromRows materializes a result set into a Frame. A column becomes
// numeric when every non-NULL value is numeric; otherwise it is a string
// column. NULLs become missing cells.
func FrameFromRows(rows *sql.Rows) (*dataset.Frame, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	raw := make([][]interface{}, 0)
	for rows.Next() {
		cells := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		raw = append(raw, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	frame := dataset.New()
	for c, name := range cols {
		if numeric, ok := numericColumn(raw, c); ok {
			if err := frame.AddNumericColumn(name, numeric); err != nil {
				return nil, err
			}
			continue
		}
		strings := make([]string, len(raw))
		for r := range raw {
			strings[r] = stringValue(raw[r][c])
		}
		if err := frame.AddStringColumn(name, strings); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// numericColumn converts column c to float64 values if every non-NULL cell is
// numeric. NULL becomes NaN.
func numericColumn(raw [][]interface{}, c int) ([]float64, bool) {
	vals := make([]float64, len(raw))
	sawValue := false
	for r := range raw {
		switch v := raw[r][c].(type) {
		case nil:
			vals[r] = math.NaN()
		case int64:
			vals[r] = float64(v)
			sawValue = true
		case float64:
			vals[r] = v
			sawValue = true
		case []byte:
			f, err := strconv.ParseFloat(string(v), 64)
			if err != nil {
				return nil, false
			}
			vals[r] = f
			sawValue = true
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, false
			}
			vals[r] = f
			sawValue = true
		default:
			return nil, false
		}
	}
	return vals, sawValue
}

func stringValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
