// CLAUDE:SUMMARY YAML settings file loader — thresholds, keyword vocabularies, intent rules, schemas.
package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/moncel/intake/classify"
	"github.com/moncel/intake/extract"
)

// Settings is the YAML shape of the tunable rule configuration. All
// fields are optional; absent fields keep built-in defaults.
//
//	high_value_threshold: 10000
//	regulatory_terms: [GDPR, FDA, HIPAA, FCA]
//	urgency_keywords: [urgent, immediately]
//	tone_keywords:
//	  polite: [thank you, please]
//	  angry: [unacceptable, furious]
//	  threatening: [lawsuit, legal action]
//	intent_rules:
//	  - intent: fraud-risk
//	    keywords: [fraud, suspicious]
//	schemas:
//	  rfq:
//	    - {name: id, type: integer}
type Settings struct {
	HighValueThreshold float64                        `yaml:"high_value_threshold"`
	RegulatoryTerms    []string                       `yaml:"regulatory_terms"`
	UrgencyKeywords    []string                       `yaml:"urgency_keywords"`
	ToneKeywords       extract.ToneKeywords           `yaml:"tone_keywords"`
	IntentRules        []classify.Rule                `yaml:"intent_rules"`
	Schemas            map[string][]extract.FieldSpec `yaml:"schemas"`
	DefaultSchema      []extract.FieldSpec            `yaml:"default_schema"`
}

// LoadSettings reads a YAML settings file and folds it into a Config.
func LoadSettings(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("pipeline: read settings %s: %w", path, err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return cfg, fmt.Errorf("pipeline: parse settings %s: %w", path, err)
	}

	cfg.Extract = extract.Config{
		HighValueThreshold: s.HighValueThreshold,
		RegulatoryTerms:    s.RegulatoryTerms,
		UrgencyKeywords:    s.UrgencyKeywords,
		Tone:               s.ToneKeywords,
		DefaultSchema:      s.DefaultSchema,
	}
	if len(s.Schemas) > 0 {
		cfg.Extract.SchemaByIntent = make(map[classify.Intent][]extract.FieldSpec, len(s.Schemas))
		for intent, fields := range s.Schemas {
			cfg.Extract.SchemaByIntent[classify.Intent(intent)] = fields
		}
	}
	cfg.Rules = s.IntentRules
	return cfg, nil
}
