// Package resolution turns the server's flat list of legal-action tokens
// into the structured selection model the table UI navigates: pick a source,
// pick a choice, pick a target, resolve the one token that matches. Every
// function here is pure and deterministic; legality itself is never
// re-checked, a token the server sent is trusted.
package resolution

import (
	"sort"
	"strings"

	"cutthroat/internal/domain"
)

// legalAction is one parsed legal-action token: "<seat> <verb> <args...>".
// Legal actions share the transcript's verb vocabulary but are never
// transcript fragments; there is no header and no lookahead here.
type legalAction struct {
	seat  domain.Seat
	verb  domain.Verb
	args  []string
	token string
}

func parseLegalAction(token string) (legalAction, bool) {
	parts := strings.Fields(token)
	if len(parts) < 2 {
		return legalAction{}, false
	}
	seat, ok := domain.ParseSeatToken(parts[0])
	if !ok {
		return legalAction{}, false
	}
	verb, ok := domain.ParseVerb(parts[1])
	if !ok {
		return legalAction{}, false
	}
	return legalAction{seat: seat, verb: verb, args: parts[2:], token: token}, true
}

func (a legalAction) arg(i int) string {
	if i >= len(a.args) {
		return ""
	}
	return a.args[i]
}

func normalCard(token string) string {
	card, ok := domain.NormalizeCardToken(token)
	if !ok {
		return ""
	}
	return card
}

// playRoyalChoice splits the playRoyal verb by the card being played.
func playRoyalChoice(cardToken string) (domain.Choice, bool) {
	card := normalCard(cardToken)
	if card == "" {
		return "", false
	}
	if card == "J0" || card == "J1" {
		return domain.ChoiceJoker, true
	}
	if card[0] == 'J' {
		return domain.ChoiceJack, true
	}
	return domain.ChoiceRoyal, true
}

// choiceFor maps a parsed legal action onto its Choice. The verb enum is
// closed; every verb must be handled here or the exhaustiveness default
// reports no choice.
func choiceFor(a legalAction, phase domain.PhaseType) (domain.Choice, bool) {
	switch a.verb {
	case domain.VerbStalemateRequest:
		return domain.ChoiceStalemateRequest, true
	case domain.VerbStalemateAccept:
		return domain.ChoiceStalemateAccept, true
	case domain.VerbStalemateReject:
		return domain.ChoiceStalemateReject, true
	case domain.VerbDraw:
		return domain.ChoiceDraw, true
	case domain.VerbPass:
		return domain.ChoicePass, true
	case domain.VerbPoints:
		return domain.ChoicePoints, true
	case domain.VerbScuttle:
		return domain.ChoiceScuttle, true
	case domain.VerbOneOff:
		return domain.ChoiceOneOff, true
	case domain.VerbCounter:
		return domain.ChoiceCounterTwo, true
	case domain.VerbPlayRoyal:
		return playRoyalChoice(a.arg(0))
	case domain.VerbResolve:
		if len(a.args) == 0 {
			return domain.ChoiceCounterPass, true
		}
		if a.arg(0) == "discard" && normalCard(a.arg(1)) != "" {
			return domain.ChoiceResolveFourDiscard, true
		}
		if normalCard(a.arg(0)) != "" {
			return domain.ChoiceResolveThreePick, true
		}
		return "", false
	case domain.VerbDiscard:
		if normalCard(a.arg(0)) == "" {
			return "", false
		}
		if phase == domain.PhaseResolvingSeven {
			return domain.ChoiceDiscard, true
		}
		return domain.ChoiceResolveFiveDiscard, true
	default:
		return "", false
	}
}

// sourceFor classifies where a legal action originates.
func sourceFor(a legalAction, phase domain.PhaseType) (domain.Source, bool) {
	choice, ok := choiceFor(a, phase)
	if !ok {
		return domain.Source{}, false
	}

	switch choice {
	case domain.ChoiceDraw, domain.ChoicePass:
		return domain.Source{Zone: domain.ZoneDeck}, true
	case domain.ChoiceCounterPass:
		return domain.Source{Zone: domain.ZoneCounter, Token: "pass"}, true
	case domain.ChoiceStalemateRequest:
		return domain.Source{Zone: domain.ZoneStalemate, Token: "request"}, true
	case domain.ChoiceStalemateAccept:
		return domain.Source{Zone: domain.ZoneStalemate, Token: "accept"}, true
	case domain.ChoiceStalemateReject:
		return domain.Source{Zone: domain.ZoneStalemate, Token: "reject"}, true
	case domain.ChoiceCounterTwo:
		return domain.Source{Zone: domain.ZoneHand, Token: normalCard(a.arg(0))}, true
	case domain.ChoiceResolveThreePick:
		return domain.Source{Zone: domain.ZoneScrap, Token: normalCard(a.arg(0))}, true
	case domain.ChoiceResolveFourDiscard:
		return domain.Source{Zone: domain.ZoneHand, Token: normalCard(a.arg(1))}, true
	case domain.ChoiceResolveFiveDiscard:
		return domain.Source{Zone: domain.ZoneHand, Token: normalCard(a.arg(0))}, true
	}

	if phase == domain.PhaseResolvingSeven {
		return domain.Source{Zone: domain.ZoneReveal, Token: normalCard(a.arg(0))}, true
	}
	return domain.Source{Zone: domain.ZoneHand, Token: normalCard(a.arg(0))}, true
}

// targetFor derives the action's target, if its choice takes one.
func targetFor(a legalAction, phase domain.PhaseType) (domain.Target, bool) {
	choice, ok := choiceFor(a, phase)
	if !ok {
		return domain.Target{}, false
	}

	switch choice {
	case domain.ChoiceScuttle, domain.ChoiceJack:
		token := normalCard(a.arg(1))
		if token == "" {
			return domain.Target{}, false
		}
		return domain.Target{Type: domain.TargetPoint, Token: token}, true
	case domain.ChoiceJoker:
		token := normalCard(a.arg(1))
		if token == "" {
			return domain.Target{}, false
		}
		return domain.Target{Type: domain.TargetRoyal, Token: token}, true
	case domain.ChoiceOneOff:
		raw := a.arg(1)
		if seat, ok := domain.ParseSeatToken(raw); ok {
			return domain.Target{Type: domain.TargetPlayer, Seat: seat}, true
		}
		token := normalCard(raw)
		if token == "" {
			return domain.Target{}, false
		}
		// The legal-action grammar does not say which zone the card sits
		// in; the generic card kind matches by token alone.
		return domain.Target{Type: domain.TargetCard, Token: token}, true
	default:
		return domain.Target{}, false
	}
}

func sourceMatches(src domain.Source, a legalAction, phase domain.PhaseType) bool {
	actionSrc, ok := sourceFor(a, phase)
	if !ok {
		return false
	}
	return src.Key() == actionSrc.Key()
}

// ExtractActionSource classifies a single legal-action token's origin zone
// and identifying token.
func ExtractActionSource(token string, phase domain.PhaseType) (domain.Source, bool) {
	a, ok := parseLegalAction(token)
	if !ok {
		return domain.Source{}, false
	}
	return sourceFor(a, phase)
}

// DeriveMoveChoicesForSource lists the distinct choices available from a
// source, in ChoiceOrder. Duplicates keep their first occurrence; choices
// outside the known order sort last but keep their relative order.
func DeriveMoveChoicesForSource(actions []string, src domain.Source, phase domain.PhaseType) []domain.Choice {
	if src.Zone == "" {
		return nil
	}
	seen := make(map[domain.Choice]bool)
	var choices []domain.Choice
	for _, token := range actions {
		a, ok := parseLegalAction(token)
		if !ok || !sourceMatches(src, a, phase) {
			continue
		}
		choice, ok := choiceFor(a, phase)
		if !ok || seen[choice] {
			continue
		}
		seen[choice] = true
		choices = append(choices, choice)
	}
	sort.SliceStable(choices, func(i, j int) bool {
		return domain.ChoiceOrderIndex(choices[i]) < domain.ChoiceOrderIndex(choices[j])
	})
	return choices
}

// DeriveTargetsForChoice lists the distinct targets reachable from a
// source+choice pair, preserving the server's legal-action order.
func DeriveTargetsForChoice(actions []string, src domain.Source, choice domain.Choice, phase domain.PhaseType) []domain.Target {
	if src.Zone == "" || choice == "" {
		return nil
	}
	seen := make(map[string]bool)
	var targets []domain.Target
	for _, token := range actions {
		a, ok := parseLegalAction(token)
		if !ok || !sourceMatches(src, a, phase) {
			continue
		}
		if c, ok := choiceFor(a, phase); !ok || c != choice {
			continue
		}
		target, ok := targetFor(a, phase)
		if !ok {
			continue
		}
		key := target.Key()
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		targets = append(targets, target)
	}
	return targets
}

// FindMatchingAction resolves a fully specified selection to the single
// legal-action token that realizes it. With a nil target it prefers a
// target-less candidate, falling back to the first candidate, which
// tolerates servers that always attach a redundant target field. A target
// of the generic card kind matches by token alone.
func FindMatchingAction(actions []string, src domain.Source, choice domain.Choice, target *domain.Target, phase domain.PhaseType) (string, bool) {
	if src.Zone == "" || choice == "" {
		return "", false
	}
	var candidates []legalAction
	for _, token := range actions {
		a, ok := parseLegalAction(token)
		if !ok || !sourceMatches(src, a, phase) {
			continue
		}
		if c, ok := choiceFor(a, phase); !ok || c != choice {
			continue
		}
		candidates = append(candidates, a)
	}
	if len(candidates) == 0 {
		return "", false
	}

	if target == nil {
		for _, a := range candidates {
			if _, ok := targetFor(a, phase); !ok {
				return a.token, true
			}
		}
		return candidates[0].token, true
	}

	wantedKey := target.Key()
	for _, a := range candidates {
		actionTarget, ok := targetFor(a, phase)
		if !ok {
			continue
		}
		if target.Type == domain.TargetCard {
			if actionTarget.Token == target.Token {
				return a.token, true
			}
			continue
		}
		if target.Token != "" {
			if actionTarget.Token == target.Token {
				return a.token, true
			}
			continue
		}
		if actionTarget.Key() == wantedKey {
			return a.token, true
		}
	}
	return "", false
}

// DeriveFallbackChoiceTypesForSelectedCard maps a hand card's rank to its
// plausible choice set. It is only an affordance for the window where the
// legal-action list is stale relative to the player's last click; the
// server's next push is always authoritative.
func DeriveFallbackChoiceTypesForSelectedCard(src domain.Source, card domain.Card) []domain.Choice {
	if src.Zone != domain.ZoneHand {
		return nil
	}
	if card.Kind == domain.CardJoker {
		return []domain.Choice{domain.ChoiceJoker}
	}
	if card.Kind != domain.CardStandard {
		return nil
	}
	switch card.Rank {
	case 1, 2, 3, 4, 5, 6, 7, 9:
		return []domain.Choice{domain.ChoicePoints, domain.ChoiceScuttle, domain.ChoiceOneOff}
	case 8:
		return []domain.Choice{domain.ChoicePoints, domain.ChoiceScuttle, domain.ChoiceRoyal}
	case 10:
		return []domain.Choice{domain.ChoicePoints, domain.ChoiceScuttle}
	case 11, 12, 13:
		return []domain.Choice{domain.ChoiceRoyal}
	default:
		return nil
	}
}

// FilterVisibleActions restricts the action list to the selected reveal
// source during a seven resolution; outside one it passes through.
func FilterVisibleActions(actions []string, isResolvingSeven bool, selectedRevealToken string, phase domain.PhaseType) []string {
	if !isResolvingSeven {
		return actions
	}
	var visible []string
	for _, token := range actions {
		src, ok := ExtractActionSource(token, phase)
		if !ok {
			continue
		}
		if src.Zone == domain.ZoneReveal && src.Token == selectedRevealToken {
			visible = append(visible, token)
		}
	}
	return visible
}

// ActionGroups partitions the legal-action list by verb category, original
// order preserved within each bucket.
type ActionGroups struct {
	Primary    []string
	Counter    []string
	Resolution []string
	Other      []string
}

var primaryChoices = map[domain.Choice]bool{
	domain.ChoiceDraw: true, domain.ChoicePass: true, domain.ChoicePoints: true,
	domain.ChoiceScuttle: true, domain.ChoiceRoyal: true, domain.ChoiceJack: true,
	domain.ChoiceJoker: true, domain.ChoiceOneOff: true, domain.ChoiceStalemateRequest: true,
}

var counterChoices = map[domain.Choice]bool{
	domain.ChoiceCounterTwo: true, domain.ChoiceCounterPass: true,
}

var resolutionChoices = map[domain.Choice]bool{
	domain.ChoiceResolveThreePick: true, domain.ChoiceResolveFourDiscard: true,
	domain.ChoiceResolveFiveDiscard: true, domain.ChoiceDiscard: true,
	domain.ChoiceStalemateAccept: true, domain.ChoiceStalemateReject: true,
}

// GroupActions buckets the full legal-action list for presentation.
func GroupActions(actions []string, phase domain.PhaseType) ActionGroups {
	var groups ActionGroups
	for _, token := range actions {
		a, ok := parseLegalAction(token)
		if !ok {
			groups.Other = append(groups.Other, token)
			continue
		}
		choice, ok := choiceFor(a, phase)
		switch {
		case ok && primaryChoices[choice]:
			groups.Primary = append(groups.Primary, token)
		case ok && counterChoices[choice]:
			groups.Counter = append(groups.Counter, token)
		case ok && resolutionChoices[choice]:
			groups.Resolution = append(groups.Resolution, token)
		default:
			groups.Other = append(groups.Other, token)
		}
	}
	return groups
}
