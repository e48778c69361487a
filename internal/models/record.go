package models

import "fmt"

// SurveyRecord is one employee's submitted responses: integer scores in
// [1,5] keyed by question column name.
type SurveyRecord struct {
	EmployeeID string         `json:"employeeId"`
	Scores     map[string]int `json:"scores"`
}

// Validate rejects any score outside the Likert domain. Records are rejected
// whole, never coerced.
func (r SurveyRecord) Validate() error {
	for question, score := range r.Scores {
		if score < 1 || score > 5 {
			return fmt.Errorf("score for %q is %d, must be an integer in [1,5]", question, score)
		}
	}
	return nil
}

// FloatScores converts the responses to the float map the feature contract
// validates against.
func (r SurveyRecord) FloatScores() map[string]float64 {
	out := make(map[string]float64, len(r.Scores))
	for q, s := range r.Scores {
		out[q] = float64(s)
	}
	return out
}
