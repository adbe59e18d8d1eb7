package tokenlog

import "cutthroat/internal/domain"

// CounterChain describes the countering window reconstructed from the tail
// of a transcript: the one-off being countered and the twos played so far,
// in play order.
type CounterChain struct {
	OneOffCardToken string
	OneOffTarget    domain.OneOffTarget
	TwosPlayed      []string
}

// FindActiveCounterChain walks the parsed action list backward, collecting
// consecutive counter-twos and skipping counter-passes, until it reaches a
// non-counter action. That action must be a one-off with a known card, or
// there is no active chain. Returns false rather than an error for invalid
// tails; an out-of-window transcript is a normal state, not a failure.
func FindActiveCounterChain(actions []domain.ParsedAction) (CounterChain, bool) {
	return FindActiveCounterChainBounded(actions, len(actions))
}

// FindActiveCounterChainBounded is FindActiveCounterChain cut off after the
// first maxActions actions, for replay scrubbing.
func FindActiveCounterChainBounded(actions []domain.ParsedAction, maxActions int) (CounterChain, bool) {
	if maxActions > len(actions) {
		maxActions = len(actions)
	}
	if maxActions <= 0 {
		return CounterChain{}, false
	}

	var twos []string
	i := maxActions - 1
scan:
	for i >= 0 {
		switch actions[i].Kind {
		case domain.ActionCounterTwo:
			if actions[i].CardToken == "" {
				return CounterChain{}, false
			}
			twos = append([]string{actions[i].CardToken}, twos...)
			i--
		case domain.ActionCounterPass:
			i--
		default:
			break scan
		}
	}
	if i < 0 {
		return CounterChain{}, false
	}
	oneOff := actions[i]
	if oneOff.Kind != domain.ActionOneOff || oneOff.CardToken == "" {
		return CounterChain{}, false
	}
	return CounterChain{
		OneOffCardToken: oneOff.CardToken,
		OneOffTarget:    oneOff.Target,
		TwosPlayed:      twos,
	}, true
}

// DeriveCounterDialogContext parses a transcript and returns its active
// counter chain, swallowing parse failures: a transcript the client cannot
// read simply yields no dialog context.
func DeriveCounterDialogContext(transcript string) (CounterChain, bool) {
	actions, err := ParseActions(transcript)
	if err != nil {
		return CounterChain{}, false
	}
	return FindActiveCounterChain(actions)
}
