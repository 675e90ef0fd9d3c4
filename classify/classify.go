// CLAUDE:SUMMARY Format and business-intent classification for raw intake inputs — hint first, content sniffing fallback.
// Package classify determines the format and business intent of raw inputs.
//
// Format resolution prefers the declared hint (file extension or content
// type) and falls back to content sniffing: PDF magic bytes, a JSON
// validity check, and a printable-text heuristic. Intent resolution walks
// an ordered keyword rule list, first match wins.
//
// Classification is a pure function of the input: it never fails and has
// no side effects. Unreadable content classifies as Unknown/Unknown so
// downstream stages always receive a usable Classification.
package classify

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/moncel/intake/internal/pdftext"
)

// Format identifies an input document type.
type Format string

const (
	FormatEmail   Format = "email"
	FormatPDF     Format = "pdf"
	FormatJSON    Format = "json"
	FormatUnknown Format = "unknown"
)

// Intent identifies the inferred business purpose of an input.
type Intent string

const (
	IntentInvoice    Intent = "invoice"
	IntentComplaint  Intent = "complaint"
	IntentRFQ        Intent = "rfq"
	IntentRegulation Intent = "regulation"
	IntentFraudRisk  Intent = "fraud-risk"
	IntentUnknown    Intent = "unknown"
)

// RawInput is an immutable ingested document awaiting processing.
type RawInput struct {
	ID         string    `json:"id"`
	FormatHint string    `json:"format_hint"` // file extension or content type
	Content    []byte    `json:"-"`
	ReceivedAt time.Time `json:"received_at"`
}

// Classification is the format/intent pair produced once per RawInput.
type Classification struct {
	Format Format `json:"format"`
	Intent Intent `json:"intent"`
}

// Classifier resolves RawInput into a Classification.
type Classifier struct {
	rules  []Rule
	logger *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Classifier) { c.logger = l }
}

// WithRules replaces the default intent rule list. Order is significant:
// the first rule whose keywords match wins.
func WithRules(rules []Rule) Option {
	return func(c *Classifier) {
		if len(rules) > 0 {
			c.rules = rules
		}
	}
}

// New creates a Classifier with the default intent rules.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		rules:  DefaultRules(),
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Classify resolves the format and intent of an input. It never fails:
// content that cannot be read as any known format yields Unknown/Unknown.
func (c *Classifier) Classify(input RawInput) Classification {
	format := c.resolveFormat(input)

	text := extractableText(input.Content, format)
	intent := c.resolveIntent(text)

	c.logger.Debug("classified input",
		"id", input.ID, "format", format, "intent", intent)

	return Classification{Format: format, Intent: intent}
}

// resolveFormat maps the declared hint to a Format, sniffing content when
// the hint is absent or unrecognized.
func (c *Classifier) resolveFormat(input RawInput) Format {
	if f, ok := formatFromHint(input.FormatHint); ok {
		return f
	}
	return sniffFormat(input.Content)
}

// formatFromHint recognizes file extensions and content types.
func formatFromHint(hint string) (Format, bool) {
	h := strings.ToLower(strings.TrimSpace(hint))
	h = strings.TrimPrefix(h, ".")
	if i := strings.IndexByte(h, ';'); i >= 0 {
		h = strings.TrimSpace(h[:i]) // strip content-type parameters
	}
	switch h {
	case "pdf", "application/pdf":
		return FormatPDF, true
	case "json", "application/json":
		return FormatJSON, true
	case "txt", "eml", "email", "text/plain", "message/rfc822":
		return FormatEmail, true
	}
	return FormatUnknown, false
}

var pdfMagic = []byte("%PDF-")

// sniffFormat inspects content when no usable hint is available.
func sniffFormat(content []byte) Format {
	if len(content) == 0 {
		return FormatUnknown
	}
	if bytes.HasPrefix(content, pdfMagic) {
		return FormatPDF
	}
	trimmed := bytes.TrimLeftFunc(content, unicode.IsSpace)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') && json.Valid(trimmed) {
		return FormatJSON
	}
	if isMostlyText(content) {
		return FormatEmail
	}
	return FormatUnknown
}

// isMostlyText reports whether the content looks like plain text: valid
// enough to scan for keywords without binary garbage dominating.
func isMostlyText(content []byte) bool {
	sample := content
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	printable := 0
	total := 0
	for _, r := range string(sample) {
		total++
		if r == unicode.ReplacementChar {
			continue
		}
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			printable++
		}
	}
	if total == 0 {
		return false
	}
	return float64(printable)/float64(total) >= 0.9
}

// resolveIntent walks the ordered rule list over lowercased text.
// First matching rule wins; no match means IntentUnknown.
func (c *Classifier) resolveIntent(text string) Intent {
	if text == "" {
		return IntentUnknown
	}
	lower := strings.ToLower(text)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Intent
			}
		}
	}
	return IntentUnknown
}

// extractableText returns the text layer the intent rules scan. PDFs are
// decoded through their content streams, since compressed streams hide
// keywords from a raw-byte scan; an undecodable PDF falls back to the raw
// bytes, which for uncompressed streams still expose literal strings.
func extractableText(content []byte, format Format) string {
	switch format {
	case FormatEmail, FormatJSON:
		return string(content)
	case FormatPDF:
		if text, _, err := pdftext.Extract(content); err == nil && text != "" {
			return text
		}
		return string(content)
	default:
		if isMostlyText(content) {
			return string(content)
		}
		return ""
	}
}
