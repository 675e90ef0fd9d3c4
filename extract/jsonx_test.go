package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/moncel/intake/classify"
)

func extractJSON(t *testing.T, cfg Config, intent classify.Intent, payload string) *Result {
	t.Helper()
	set := NewSet(cfg)
	return set.Extract(context.Background(),
		classify.RawInput{ID: "in-json", FormatHint: "json", Content: []byte(payload)},
		classify.Classification{Format: classify.FormatJSON, Intent: intent})
}

func TestJSON_ValidAgainstDefaultSchema(t *testing.T) {
	res := extractJSON(t, Config{}, classify.IntentUnknown,
		`{"id": 7, "timestamp": "2026-08-12T09:00:00Z", "status": "OPEN"}`)

	if got := res.Fields["valid"]; got != true {
		t.Fatalf("valid = %v, anomalies = %v", got, res.Anomalies)
	}
	if res.HasFlag(FlagSchemaAnomaly) {
		t.Errorf("unexpected %s flag", FlagSchemaAnomaly)
	}
	if _, ok := res.Fields["payload"].(map[string]any); !ok {
		t.Errorf("payload field missing or wrong type: %T", res.Fields["payload"])
	}
}

func TestJSON_SchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		anomaly string // substring expected in one anomaly
	}{
		{"missing field", `{"id": 7, "timestamp": "t"}`, `missing field "status"`},
		{"wrong type", `{"id": "seven", "timestamp": "t", "status": "OPEN"}`, `field "id": expected integer`},
		{"non-integral number", `{"id": 7.5, "timestamp": "t", "status": "OPEN"}`, `field "id"`},
		{"disallowed value", `{"id": 7, "timestamp": "t", "status": "ARCHIVED"}`, `value "ARCHIVED" not allowed`},
	}

	for _, tt := range tests {
		res := extractJSON(t, Config{}, classify.IntentUnknown, tt.payload)
		if res.Fields["valid"] != false {
			t.Errorf("%s: valid = %v, want false", tt.name, res.Fields["valid"])
		}
		if !res.HasFlag(FlagSchemaAnomaly) {
			t.Errorf("%s: missing %s flag", tt.name, FlagSchemaAnomaly)
		}
		found := false
		for _, a := range res.Anomalies {
			if strings.Contains(a, tt.anomaly) {
				found = true
			}
		}
		if !found {
			t.Errorf("%s: anomalies %v lack %q", tt.name, res.Anomalies, tt.anomaly)
		}
	}
}

func TestJSON_Malformed(t *testing.T) {
	res := extractJSON(t, Config{}, classify.IntentUnknown, `{"id": 7,`)
	if res.Fields["valid"] != false {
		t.Errorf("valid = %v, want false", res.Fields["valid"])
	}
	if !res.HasFlag(FlagSchemaAnomaly) {
		t.Errorf("missing %s flag", FlagSchemaAnomaly)
	}
	if len(res.Anomalies) != 1 || !strings.Contains(res.Anomalies[0], "malformed json") {
		t.Errorf("anomalies = %v, want one malformed-json entry", res.Anomalies)
	}
}

func TestJSON_IntentSchemaSelection(t *testing.T) {
	// WHAT: An RFQ payload validates against the RFQ schema, not the
	// default one.
	cfg := Config{
		SchemaByIntent: map[classify.Intent][]FieldSpec{
			classify.IntentRFQ: {
				{Name: "part_number", Type: "string"},
				{Name: "quantity", Type: "integer"},
				{Name: "deadline", Type: "string"},
			},
		},
	}

	res := extractJSON(t, cfg, classify.IntentRFQ,
		`{"part_number": "AX-200", "quantity": 150}`)
	if res.Fields["valid"] != false {
		t.Fatalf("valid = %v, want false (deadline missing)", res.Fields["valid"])
	}
	if !res.HasFlag(FlagSchemaAnomaly) {
		t.Fatalf("missing %s flag", FlagSchemaAnomaly)
	}

	res = extractJSON(t, cfg, classify.IntentRFQ,
		`{"part_number": "AX-200", "quantity": 150, "deadline": "2026-09-30"}`)
	if res.Fields["valid"] != true {
		t.Fatalf("valid = %v, anomalies = %v", res.Fields["valid"], res.Anomalies)
	}
}

func TestTypeMatches(t *testing.T) {
	tests := []struct {
		v    any
		typ  string
		want bool
	}{
		{"s", "string", true},
		{1.0, "string", false},
		{1.5, "number", true},
		{3.0, "integer", true},
		{3.5, "integer", false},
		{true, "bool", true},
		{map[string]any{}, "object", true},
		{[]any{}, "array", true},
		{"s", "mystery-type", true}, // unknown type names never reject
	}
	for _, tt := range tests {
		if got := typeMatches(tt.v, tt.typ); got != tt.want {
			t.Errorf("typeMatches(%v, %q) = %v, want %v", tt.v, tt.typ, got, tt.want)
		}
	}
}
