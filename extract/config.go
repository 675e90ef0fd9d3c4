// CLAUDE:SUMMARY Configuration for extractors: thresholds, keyword vocabularies, per-intent JSON schemas.
package extract

import (
	"log/slog"

	"github.com/moncel/intake/classify"
)

// ToneKeywords holds the disjoint keyword sets for email tone detection.
// Threatening takes precedence over angry, which takes precedence over
// polite; no match means neutral.
type ToneKeywords struct {
	Polite      []string `json:"polite" yaml:"polite"`
	Angry       []string `json:"angry" yaml:"angry"`
	Threatening []string `json:"threatening" yaml:"threatening"`
}

// FieldSpec is one required field in a JSON payload schema.
// Type is one of "string", "number", "integer", "bool", "object", "array".
// Allowed, when non-empty, whitelists string values.
type FieldSpec struct {
	Name    string   `json:"name" yaml:"name"`
	Type    string   `json:"type" yaml:"type"`
	Allowed []string `json:"allowed,omitempty" yaml:"allowed,omitempty"`
}

// Config configures the extractor set.
type Config struct {
	// HighValueThreshold is the exclusive bound above which a monetary
	// total raises the high-value flag. A total exactly equal to the
	// threshold does not flag. Default: 10000.
	HighValueThreshold float64 `json:"high_value_threshold" yaml:"high_value_threshold"`

	// RegulatoryTerms is the vocabulary scanned in PDF text.
	RegulatoryTerms []string `json:"regulatory_terms" yaml:"regulatory_terms"`

	// UrgencyKeywords mark an email as high urgency.
	UrgencyKeywords []string `json:"urgency_keywords" yaml:"urgency_keywords"`

	// Tone holds the email tone keyword sets.
	Tone ToneKeywords `json:"tone_keywords" yaml:"tone_keywords"`

	// SchemaByIntent maps an intent to the required fields of its JSON
	// payloads. Intents without an entry validate against DefaultSchema.
	SchemaByIntent map[classify.Intent][]FieldSpec `json:"schemas" yaml:"schemas"`

	// DefaultSchema validates JSON payloads whose intent has no entry in
	// SchemaByIntent. Empty means no validation for such payloads.
	DefaultSchema []FieldSpec `json:"default_schema" yaml:"default_schema"`

	// Logger for debug messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.HighValueThreshold <= 0 {
		c.HighValueThreshold = 10_000
	}
	if len(c.RegulatoryTerms) == 0 {
		c.RegulatoryTerms = []string{"GDPR", "FDA", "HIPAA", "FCA"}
	}
	if len(c.UrgencyKeywords) == 0 {
		c.UrgencyKeywords = []string{"urgent", "immediately", "asap", "right away"}
	}
	if len(c.Tone.Polite) == 0 {
		c.Tone.Polite = []string{"thank you", "please", "appreciate", "kind regards"}
	}
	if len(c.Tone.Angry) == 0 {
		c.Tone.Angry = []string{"unacceptable", "furious", "outraged", "terrible service", "worst"}
	}
	if len(c.Tone.Threatening) == 0 {
		c.Tone.Threatening = []string{"lawsuit", "legal action", "sue you", "or else", "you will regret"}
	}
	if c.DefaultSchema == nil {
		c.DefaultSchema = []FieldSpec{
			{Name: "id", Type: "integer"},
			{Name: "timestamp", Type: "string"},
			{Name: "status", Type: "string", Allowed: []string{"OPEN", "CLOSED", "IN_PROGRESS"}},
		}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
