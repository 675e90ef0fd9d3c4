// CLAUDE:SUMMARY Ordered, versioned intent keyword rules — high-severity intents checked before generic ones.
package classify

// Rule binds an intent to the keywords that select it. Rules are evaluated
// in list order and the first match wins, so ordering is part of the rule
// set's contract, not an implementation accident.
type Rule struct {
	Intent   Intent   `json:"intent" yaml:"intent"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// RulesVersion identifies the built-in rule set. Bump when the default
// list or its ordering changes.
const RulesVersion = "2026-08"

// DefaultRules returns the built-in intent rule list.
//
// High-severity intents come first: a document mentioning both fraud and an
// invoice is a fraud signal, not a plain invoice. Regulator acronyms (GDPR,
// FDA, ...) are deliberately absent here — they belong to the extractor's
// regulatory-term vocabulary, so an invoice that merely cites GDPR still
// classifies as an invoice and gets its regulatory risk flag from
// extraction instead.
func DefaultRules() []Rule {
	return []Rule{
		{Intent: IntentFraudRisk, Keywords: []string{"fraud", "suspicious", "unauthorized transaction"}},
		{Intent: IntentRegulation, Keywords: []string{"regulation", "regulatory", "compliance"}},
		{Intent: IntentInvoice, Keywords: []string{"invoice"}},
		{Intent: IntentRFQ, Keywords: []string{"rfq", "request for quote", "quotation"}},
		{Intent: IntentComplaint, Keywords: []string{"complaint", "issue"}},
	}
}
