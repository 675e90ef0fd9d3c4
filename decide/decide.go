// CLAUDE:SUMMARY Decision engine — maps risk flags to exactly one action via an explicit priority ladder.
// Package decide maps a classification and its extraction result to
// exactly one follow-up action.
//
// Decide is a pure, deterministic, total function. The priority ladder is
// written as one explicit switch so every (flags, urgency) combination is
// enumerable and unit-testable; there is no implicit fallthrough.
package decide

import (
	"strings"

	"github.com/moncel/intake/classify"
	"github.com/moncel/intake/extract"
)

// Action is the follow-up chosen for a processed input.
type Action string

const (
	ActionEscalate  Action = "escalate"
	ActionRiskAlert Action = "risk-alert"
	ActionLogOnly   Action = "log-only"
)

// Dispatch targets by action. LogOnly has no network target.
const (
	TargetCRM        = "/crm"
	TargetRiskAlert  = "/risk_alert"
	TargetCompliance = "/compliance_alert"
)

// Decision is the single routing outcome for one input. Reason names the
// triggering flag(s) for auditability.
type Decision struct {
	Action Action `json:"action"`
	Reason string `json:"reason"`
	Target string `json:"target,omitempty"`
}

// Decide picks the follow-up action for an extraction result.
//
// Priority, highest first:
//
//	schema-anomaly     → RiskAlert
//	regulatory-term    → RiskAlert
//	hostile-tone       → Escalate
//	high-value alone   → RiskAlert
//	otherwise          → LogOnly
//
// Hostile tone escalates to the CRM regardless of urgency: an urgent
// threat is still a human-relationship problem first, and urgency is
// preserved in the trace fields for the CRM side to act on. A RiskAlert
// triggered solely by regulatory terms targets the compliance endpoint
// rather than the generic risk endpoint.
func Decide(_ classify.Classification, ex *extract.Result) Decision {
	schema := ex.HasFlag(extract.FlagSchemaAnomaly)
	regulatory := ex.HasFlag(extract.FlagRegulatoryTerm)
	hostile := ex.HasFlag(extract.FlagHostileTone)
	highValue := ex.HasFlag(extract.FlagHighValue)

	switch {
	case schema:
		return riskAlert(triggerReason(ex, extract.FlagSchemaAnomaly), TargetRiskAlert)
	case regulatory:
		target := TargetRiskAlert
		if !highValue && !hostile {
			target = TargetCompliance
		}
		return riskAlert(triggerReason(ex, extract.FlagRegulatoryTerm), target)
	case hostile:
		return Decision{
			Action: ActionEscalate,
			Reason: triggerReason(ex, extract.FlagHostileTone),
			Target: TargetCRM,
		}
	case highValue:
		return riskAlert(extract.FlagHighValue, TargetRiskAlert)
	default:
		return Decision{Action: ActionLogOnly, Reason: "no risk flags"}
	}
}

func riskAlert(reason, target string) Decision {
	return Decision{Action: ActionRiskAlert, Reason: reason, Target: target}
}

// triggerReason names the primary flag plus any other flags present, so
// the trace shows the full risk picture, not just the deciding flag.
func triggerReason(ex *extract.Result, primary string) string {
	others := make([]string, 0, len(ex.RiskFlags))
	for _, f := range ex.RiskFlags {
		if f != primary {
			others = append(others, f)
		}
	}
	if len(others) == 0 {
		return primary
	}
	return primary + " (also: " + strings.Join(others, ", ") + ")"
}
