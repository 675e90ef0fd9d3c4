// CLAUDE:SUMMARY Extractor interface and the closed format-to-extractor dispatch, including the Unknown arm.
// Package extract produces structured fields and risk signals from
// classified inputs.
//
// One extractor exists per format. Selection is a closed switch over
// Classification.Format with an explicit Unknown arm, so an unrecognized
// format degrades to an empty result with an anomaly instead of falling
// through silently. Every extractor is total: malformed input yields
// partial fields plus anomalies, never an error.
//
// Usage:
//
//	set := extract.NewSet(extract.Config{})
//	res := set.Extract(ctx, input, classification)
package extract

import (
	"context"

	"github.com/moncel/intake/classify"
)

// Extractor produces an extraction result for one input. Implementations
// must be total over arbitrary byte content.
type Extractor interface {
	Extract(ctx context.Context, input classify.RawInput, cls classify.Classification) *Result
}

// Set holds the per-format extractors built from one Config.
type Set struct {
	email Extractor
	pdf   Extractor
	json  Extractor
	noop  Extractor
}

// NewSet creates the extractor set.
func NewSet(cfg Config) *Set {
	cfg.defaults()
	return &Set{
		email: newEmailExtractor(cfg),
		pdf:   newPDFExtractor(cfg),
		json:  newJSONExtractor(cfg),
		noop:  noopExtractor{},
	}
}

// ForFormat returns the extractor owning a format. Total: unknown formats
// map to the no-op extractor.
func (s *Set) ForFormat(f classify.Format) Extractor {
	switch f {
	case classify.FormatEmail:
		return s.email
	case classify.FormatPDF:
		return s.pdf
	case classify.FormatJSON:
		return s.json
	default:
		return s.noop
	}
}

// Extract runs the extractor selected by the classification's format.
func (s *Set) Extract(ctx context.Context, input classify.RawInput, cls classify.Classification) *Result {
	return s.ForFormat(cls.Format).Extract(ctx, input, cls)
}

// noopExtractor handles the Unknown format arm.
type noopExtractor struct{}

func (noopExtractor) Extract(_ context.Context, _ classify.RawInput, _ classify.Classification) *Result {
	res := newResult()
	res.addAnomaly(AnomalyUnrecognizedFormat)
	return res
}
