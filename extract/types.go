// CLAUDE:SUMMARY Defines the ExtractionResult shape and the risk flag vocabulary shared by all extractors.
package extract

// Risk flags raised by extractors. The decision engine branches on these,
// so the strings are part of the wire contract and recorded in traces.
const (
	FlagHostileTone    = "hostile-tone"
	FlagHighValue      = "high-value"
	FlagRegulatoryTerm = "regulatory-term"
	FlagSchemaAnomaly  = "schema-anomaly"
)

// AnomalyUnrecognizedFormat is recorded when no extractor understands the
// input's format.
const AnomalyUnrecognizedFormat = "unrecognized-format"

// Result is the structured output of one extractor run. Extractors are
// total: malformed input degrades to partial Fields plus Anomalies, never
// an error.
type Result struct {
	Fields    map[string]any `json:"fields"`
	RiskFlags []string       `json:"risk_flags,omitempty"`
	Anomalies []string       `json:"anomalies,omitempty"`
}

// newResult returns an empty Result with Fields allocated.
func newResult() *Result {
	return &Result{Fields: make(map[string]any)}
}

// HasFlag reports whether the result carries the given risk flag.
func (r *Result) HasFlag(flag string) bool {
	for _, f := range r.RiskFlags {
		if f == flag {
			return true
		}
	}
	return false
}

// addFlag appends a risk flag once.
func (r *Result) addFlag(flag string) {
	if !r.HasFlag(flag) {
		r.RiskFlags = append(r.RiskFlags, flag)
	}
}

// addAnomaly appends an anomaly, preserving order of detection.
func (r *Result) addAnomaly(a string) {
	r.Anomalies = append(r.Anomalies, a)
}
