// CLAUDE:SUMMARY JSON extractor — payload parsing plus per-intent required-field schema validation.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/moncel/intake/classify"
)

// jsonExtractor parses webhook payloads and validates them against the
// schema configured for the classified intent.
type jsonExtractor struct {
	cfg Config
}

func newJSONExtractor(cfg Config) *jsonExtractor {
	return &jsonExtractor{cfg: cfg}
}

// Extract parses the payload and records schema violations as anomalies.
// Any anomaly raises the schema-anomaly flag. Malformed JSON is itself an
// anomaly, not an error.
func (e *jsonExtractor) Extract(_ context.Context, input classify.RawInput, cls classify.Classification) *Result {
	res := newResult()

	var data map[string]any
	if err := json.Unmarshal(input.Content, &data); err != nil {
		res.addAnomaly("malformed json: " + err.Error())
		res.addFlag(FlagSchemaAnomaly)
		res.Fields["valid"] = false
		return res
	}
	res.Fields["payload"] = data

	schema, ok := e.cfg.SchemaByIntent[cls.Intent]
	if !ok {
		schema = e.cfg.DefaultSchema
	}
	for _, a := range validateSchema(data, schema) {
		res.addAnomaly(a)
	}

	valid := len(res.Anomalies) == 0
	res.Fields["valid"] = valid
	if !valid {
		res.addFlag(FlagSchemaAnomaly)
	}
	return res
}

// validateSchema checks required-field presence, types, and allowed
// values, returning one anomaly string per violation.
func validateSchema(data map[string]any, schema []FieldSpec) []string {
	var anomalies []string
	for _, spec := range schema {
		v, present := data[spec.Name]
		if !present {
			anomalies = append(anomalies, fmt.Sprintf("missing field %q", spec.Name))
			continue
		}
		if spec.Type != "" && !typeMatches(v, spec.Type) {
			anomalies = append(anomalies, fmt.Sprintf(
				"field %q: expected %s, got %s", spec.Name, spec.Type, jsonTypeName(v)))
			continue
		}
		if len(spec.Allowed) > 0 {
			s, isString := v.(string)
			if isString && !contains(spec.Allowed, s) {
				anomalies = append(anomalies, fmt.Sprintf(
					"field %q: value %q not allowed", spec.Name, s))
			}
		}
	}
	return anomalies
}

// typeMatches checks a decoded JSON value against a schema type name.
// JSON numbers decode to float64, so "integer" additionally requires an
// integral value.
func typeMatches(v any, typ string) bool {
	switch typ {
	case "string":
		_, ok := v.(string)
		return ok
	case "number":
		_, ok := v.(float64)
		return ok
	case "integer":
		f, ok := v.(float64)
		return ok && f == math.Trunc(f)
	case "bool":
		_, ok := v.(bool)
		return ok
	case "object":
		_, ok := v.(map[string]any)
		return ok
	case "array":
		_, ok := v.([]any)
		return ok
	}
	return true
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "bool"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case nil:
		return "null"
	}
	return fmt.Sprintf("%T", v)
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
