package insight

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidationError reports why model output was rejected. The analysis client
// treats these as parse-class failures eligible for its single retry.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid analysis output: %s", e.Reason)
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// rawSchema is the structural contract for model output: the required
// top-level fields and the element shapes of each list. Field-level content
// rules (placeholder detection, non-empty lists) live in Validate.
var rawSchema = map[string]any{
	"type":     "object",
	"required": []any{"summary", "keyMetrics"},
	"properties": map[string]any{
		"summary": map[string]any{"type": "string"},
		"keyMetrics": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"name", "value"},
				"properties": map[string]any{
					"name":           map[string]any{"type": "string"},
					"value":          map[string]any{"type": "string"},
					"status":         map[string]any{"type": "string"},
					"description":    map[string]any{"type": "string"},
					"referenceRange": map[string]any{"type": "string"},
				},
			},
		},
		"recommendations": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"riskFactors": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"trends": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"metric":    map[string]any{"type": "string"},
					"direction": map[string]any{"type": "string"},
					"change":    map[string]any{"type": "string"},
					"period":    map[string]any{"type": "string"},
				},
			},
		},
	},
}

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	b, err := json.Marshal(rawSchema)
	if err != nil {
		panic(fmt.Sprintf("marshal insights schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("insights.json", bytes.NewReader(b)); err != nil {
		panic(fmt.Sprintf("add insights schema: %v", err))
	}
	schema, err := compiler.Compile("insights.json")
	if err != nil {
		panic(fmt.Sprintf("compile insights schema: %v", err))
	}
	return schema
}

// ValidateRaw checks decoded-but-untyped model output against the structural
// schema. Run before Decode so that shape problems produce a ValidationError
// rather than a confusing unmarshal error.
func ValidateRaw(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return &ValidationError{Reason: fmt.Sprintf("not valid JSON: %v", err)}
	}
	if err := compiledSchema.Validate(v); err != nil {
		return &ValidationError{Reason: fmt.Sprintf("does not match insights schema: %v", err)}
	}
	return nil
}

// Validate applies the strict acceptance policy to normalized insights:
// reject rather than paper over missing or placeholder content.
//
// Rules:
//   - summary must be non-empty
//   - keyMetrics must be non-empty, and every metric must carry a name,
//     value, status, and description
//   - a metric literally named "Unknown Metric" or valued "N/A" is treated
//     as model laziness, not data
//   - recommendations and riskFactors must be non-empty
//
// Trends are optional.
func Validate(in Insights) error {
	if in.Summary == "" {
		return &ValidationError{Reason: "missing summary"}
	}

	if len(in.KeyMetrics) == 0 {
		return &ValidationError{Reason: "missing key metrics"}
	}
	for i, m := range in.KeyMetrics {
		if m.Name == "" || m.Value == "" || m.Status == "" || m.Description == "" {
			return &ValidationError{Reason: fmt.Sprintf("key metric %d is missing required fields", i)}
		}
		if m.Name == PlaceholderMetricName || m.Value == PlaceholderMetricValue {
			return &ValidationError{Reason: fmt.Sprintf("key metric %d contains placeholder values instead of actual data", i)}
		}
	}

	if len(in.Recommendations) == 0 {
		return &ValidationError{Reason: "missing recommendations"}
	}
	if len(in.RiskFactors) == 0 {
		return &ValidationError{Reason: "missing risk factors"}
	}

	return nil
}

// Decode unmarshals raw JSON into Insights and normalizes the result.
// It does not apply the strict policy; callers decide when to Validate.
func Decode(data []byte) (Insights, error) {
	var in Insights
	if err := json.Unmarshal(data, &in); err != nil {
		return Insights{}, fmt.Errorf("failed to decode insights: %w", err)
	}
	return Normalize(in), nil
}
