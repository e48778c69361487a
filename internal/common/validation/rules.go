// Package validation checks alert-rule configuration against a JSON schema
// before the rule engine ever sees it.
package validation

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"attrition-insights/internal/common/config"
	stderrors "attrition-insights/internal/common/errors"
)

// ruleSetSchema describes the recognized fields of one alert rule.
var ruleSetSchema = map[string]interface{}{
	"type": "array",
	"items": map[string]interface{}{
		"type":                 "object",
		"required":             []interface{}{"feature", "direction", "threshold", "label"},
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"feature": map[string]interface{}{
				"type":      "string",
				"minLength": 1,
			},
			"direction": map[string]interface{}{
				"type": "string",
				"enum": []interface{}{"low", "high"},
			},
			"threshold": map[string]interface{}{
				"type": "number",
			},
			"label": map[string]interface{}{
				"type":      "string",
				"minLength": 1,
			},
		},
	},
}

// ValidateRules validates the configured alert rules, reporting every
// violation at once rather than the first.
func ValidateRules(rules []config.AlertRule) error {
	// A nil slice marshals to JSON null, which the array schema rejects.
	// An empty rule set is a valid configuration.
	if len(rules) == 0 {
		return nil
	}

	raw, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("marshal rules: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("unmarshal rules: %w", err)
	}

	schemaLoader := gojsonschema.NewGoLoader(ruleSetSchema)
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		violations := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			violations[i] = desc.String()
		}
		return stderrors.NewRuleConfigInvalidError(violations)
	}

	return nil
}
