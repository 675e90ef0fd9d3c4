package extract

import (
	"context"
	"testing"

	"github.com/moncel/intake/classify"
)

func TestForFormat_CoversEveryFormat(t *testing.T) {
	set := NewSet(Config{})
	for _, f := range []classify.Format{
		classify.FormatEmail, classify.FormatPDF, classify.FormatJSON, classify.FormatUnknown,
	} {
		if set.ForFormat(f) == nil {
			t.Errorf("ForFormat(%q) = nil", f)
		}
	}
}

func TestUnknownFormat_NoopResult(t *testing.T) {
	// WHAT: The Unknown arm yields an empty result carrying exactly one
	// anomaly, so the pipeline still traces the input.
	set := NewSet(Config{})
	res := set.Extract(context.Background(),
		classify.RawInput{ID: "in-bin", Content: []byte{0x00, 0xff}},
		classify.Classification{Format: classify.FormatUnknown, Intent: classify.IntentUnknown})

	if len(res.Fields) != 0 {
		t.Errorf("fields = %v, want empty", res.Fields)
	}
	if len(res.RiskFlags) != 0 {
		t.Errorf("flags = %v, want empty", res.RiskFlags)
	}
	if len(res.Anomalies) != 1 || res.Anomalies[0] != AnomalyUnrecognizedFormat {
		t.Errorf("anomalies = %v, want [%s]", res.Anomalies, AnomalyUnrecognizedFormat)
	}
}

func TestHasFlag(t *testing.T) {
	res := newResult()
	if res.HasFlag(FlagHighValue) {
		t.Error("empty result claims a flag")
	}
	res.addFlag(FlagHighValue)
	res.addFlag(FlagHighValue) // duplicate adds are idempotent
	if !res.HasFlag(FlagHighValue) {
		t.Error("flag not recorded")
	}
	if len(res.RiskFlags) != 1 {
		t.Errorf("flags = %v, want exactly one", res.RiskFlags)
	}
}
