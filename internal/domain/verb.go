package domain

import "strings"

// Verb is the closed set of move verbs used by both the transcript grammar
// and the legal-action token vocabulary.
type Verb int

const (
	VerbInvalid Verb = iota
	VerbDraw
	VerbPass
	VerbPoints
	VerbDiscard
	VerbScuttle
	VerbPlayRoyal
	VerbOneOff
	VerbCounter
	VerbResolve
	VerbStalemateRequest
	VerbStalemateAccept
	VerbStalemateReject
)

// String returns the canonical wire spelling of the verb.
func (v Verb) String() string {
	switch v {
	case VerbDraw:
		return "draw"
	case VerbPass:
		return "pass"
	case VerbPoints:
		return "points"
	case VerbDiscard:
		return "discard"
	case VerbScuttle:
		return "scuttle"
	case VerbPlayRoyal:
		return "playRoyal"
	case VerbOneOff:
		return "oneOff"
	case VerbCounter:
		return "counter"
	case VerbResolve:
		return "resolve"
	case VerbStalemateRequest:
		return "stalemateRequest"
	case VerbStalemateAccept:
		return "stalemateAccept"
	case VerbStalemateReject:
		return "stalemateReject"
	default:
		return ""
	}
}

// Stalemate verbs have drifted across server versions; every spelling the
// server has ever emitted maps onto the three canonical verbs.
var stalemateAliases = map[string]Verb{
	"stalemate-propose": VerbStalemateRequest,
	"stalemate_propose": VerbStalemateRequest,
	"stalemate_request": VerbStalemateRequest,
	"stalematerequest":  VerbStalemateRequest,
	"requeststalemate":  VerbStalemateRequest,
	"stalemateoffer":    VerbStalemateRequest,
	"offerstalemate":    VerbStalemateRequest,
	"drawoffer":         VerbStalemateRequest,
	"offerdraw":         VerbStalemateRequest,
	"stalemate-accept":  VerbStalemateAccept,
	"stalemate_accept":  VerbStalemateAccept,
	"stalemateaccept":   VerbStalemateAccept,
	"acceptstalemate":   VerbStalemateAccept,
	"acceptdraw":        VerbStalemateAccept,
	"drawaccept":        VerbStalemateAccept,
	"stalemate-reject":  VerbStalemateReject,
	"stalemate_reject":  VerbStalemateReject,
	"stalematereject":   VerbStalemateReject,
	"rejectstalemate":   VerbStalemateReject,
	"rejectdraw":        VerbStalemateReject,
	"drawreject":        VerbStalemateReject,
}

// ParseVerb maps a raw verb token onto the closed Verb set. Core verbs match
// exactly; stalemate verbs match any known alias case-insensitively.
func ParseVerb(token string) (Verb, bool) {
	switch token {
	case "draw":
		return VerbDraw, true
	case "pass":
		return VerbPass, true
	case "points":
		return VerbPoints, true
	case "discard":
		return VerbDiscard, true
	case "scuttle":
		return VerbScuttle, true
	case "playRoyal":
		return VerbPlayRoyal, true
	case "oneOff":
		return VerbOneOff, true
	case "counter":
		return VerbCounter, true
	case "resolve":
		return VerbResolve, true
	}
	if v, ok := stalemateAliases[strings.ToLower(strings.TrimSpace(token))]; ok {
		return v, true
	}
	return VerbInvalid, false
}
