// Package tokenlog implements the transcript codec for cutthroat games: the
// whitespace-delimited tokenlog grammar the server logs every game in, the
// inverse encoding for actions the client itself produces, and the
// counter-chain derivation the UI reconstructs the countering window from.
package tokenlog

import (
	"fmt"
	"strings"

	"cutthroat/internal/domain"
)

const (
	versionToken = "V1"
	modeToken    = "CUTTHROAT3P"
	dealerToken  = "DEALER"
	deckToken    = "DECK"
	endDeckToken = "ENDDECK"
	unknownToken = "UNKNOWN"
)

// ParseError reports the first malformed token in a transcript. Parsing is
// never best-effort: a truncated or corrupted transcript is rejected
// wholesale.
type ParseError struct {
	Index int    // token index within the transcript
	Token string // offending token; empty at end of input
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("tokenlog: %s at token %d", e.Msg, e.Index)
	}
	return fmt.Sprintf("tokenlog: %s at token %d (%q)", e.Msg, e.Index, e.Token)
}

// Log is a fully parsed transcript.
type Log struct {
	Dealer  domain.Seat
	Deck    []string
	Actions []domain.ParsedAction
}

// scanner walks the token stream with save/restore backtracking so the
// grammar's lookahead rules (glasses snapshots, resolve disambiguation) stay
// explicit instead of living in index arithmetic.
type scanner struct {
	toks []string
	pos  int
}

func (s *scanner) done() bool { return s.pos >= len(s.toks) }

func (s *scanner) peek() (string, bool) {
	if s.done() {
		return "", false
	}
	return s.toks[s.pos], true
}

func (s *scanner) next() (string, bool) {
	tok, ok := s.peek()
	if ok {
		s.pos++
	}
	return tok, ok
}

func (s *scanner) mark() int        { return s.pos }
func (s *scanner) restore(mark int) { s.pos = mark }

func (s *scanner) errf(msg string) *ParseError {
	tok, _ := s.peek()
	return &ParseError{Index: s.pos, Token: tok, Msg: msg}
}

func (s *scanner) errAt(index int, token, msg string) *ParseError {
	return &ParseError{Index: index, Token: token, Msg: msg}
}

// atActionBoundary reports whether the scanner sits at a valid point for the
// next action to begin: end of stream, or a seat token followed by a verb.
// This is the terminator test the ambiguous productions look ahead with.
func (s *scanner) atActionBoundary() bool {
	if s.done() {
		return true
	}
	tok := s.toks[s.pos]
	if _, ok := domain.ParseSeatToken(tok); !ok {
		return false
	}
	if s.pos+1 >= len(s.toks) {
		return false
	}
	_, ok := domain.ParseVerb(s.toks[s.pos+1])
	return ok
}

func (s *scanner) expectLiteral(want string) *ParseError {
	tok, ok := s.next()
	if !ok {
		return s.errAt(s.pos, "", "expected "+want)
	}
	if tok != want {
		return s.errAt(s.pos-1, tok, "expected "+want)
	}
	return nil
}

func (s *scanner) expectSeat() (domain.Seat, *ParseError) {
	tok, ok := s.next()
	if !ok {
		return 0, s.errAt(s.pos, "", "expected seat token")
	}
	seat, valid := domain.ParseSeatToken(tok)
	if !valid {
		return 0, s.errAt(s.pos-1, tok, "invalid seat token")
	}
	return seat, nil
}

func (s *scanner) expectCard() (string, *ParseError) {
	tok, ok := s.next()
	if !ok {
		return "", s.errAt(s.pos, "", "expected card token")
	}
	card, valid := domain.NormalizeCardToken(tok)
	if !valid {
		return "", s.errAt(s.pos-1, tok, "invalid card token")
	}
	return card, nil
}

// peekCard returns the canonical card token at the cursor without consuming
// it, and whether one is there at all.
func (s *scanner) peekCard() (string, bool) {
	tok, ok := s.peek()
	if !ok {
		return "", false
	}
	return domain.NormalizeCardToken(tok)
}

// Parse decodes a full transcript. Empty or all-whitespace input yields an
// empty log. Any malformed token fails the whole parse with a ParseError.
func Parse(transcript string) (Log, error) {
	trimmed := strings.TrimSpace(transcript)
	if trimmed == "" {
		return Log{}, nil
	}
	s := &scanner{toks: strings.Fields(trimmed)}

	if err := s.expectLiteral(versionToken); err != nil {
		return Log{}, err
	}
	if err := s.expectLiteral(modeToken); err != nil {
		return Log{}, err
	}
	if err := s.expectLiteral(dealerToken); err != nil {
		return Log{}, err
	}
	dealer, perr := s.expectSeat()
	if perr != nil {
		return Log{}, perr
	}
	if err := s.expectLiteral(deckToken); err != nil {
		return Log{}, err
	}

	var deck []string
	for {
		tok, ok := s.peek()
		if !ok {
			return Log{}, s.errf("missing " + endDeckToken)
		}
		if tok == endDeckToken {
			s.next()
			break
		}
		card, err := s.expectCard()
		if err != nil {
			return Log{}, err
		}
		deck = append(deck, card)
	}

	var actions []domain.ParsedAction
	for !s.done() {
		seat, err := s.expectSeat()
		if err != nil {
			return Log{}, err
		}
		action, perr := parseAction(s)
		if perr != nil {
			return Log{}, perr
		}
		action.Seat = seat
		actions = append(actions, action)
	}

	return Log{Dealer: dealer, Deck: deck, Actions: actions}, nil
}

// ParseActions is Parse reduced to the action sequence.
func ParseActions(transcript string) ([]domain.ParsedAction, error) {
	log, err := Parse(transcript)
	if err != nil {
		return nil, err
	}
	return log.Actions, nil
}

func parseAction(s *scanner) (domain.ParsedAction, *ParseError) {
	action := domain.ParsedAction{SourceIndex: -1}

	verbTok, ok := s.next()
	if !ok {
		return action, s.errAt(s.pos, "", "missing action verb")
	}
	verb, valid := domain.ParseVerb(verbTok)
	if !valid {
		return action, s.errAt(s.pos-1, verbTok, "unknown action verb")
	}
	action.Verb = verb

	switch verb {
	case domain.VerbDraw:
		// Other seats' draws are redacted to UNKNOWN; the local seat's
		// carry the literal card. Both forms are optional trailing args.
		if tok, ok := s.peek(); ok && tok == unknownToken {
			s.next()
			return action, nil
		}
		if card, ok := s.peekCard(); ok {
			s.next()
			action.CardToken = card
		}
		return action, nil

	case domain.VerbPass:
		return action, nil

	case domain.VerbPoints, domain.VerbDiscard:
		card, err := s.expectCard()
		if err != nil {
			return action, err
		}
		action.CardToken = card
		return action, nil

	case domain.VerbScuttle:
		card, err := s.expectCard()
		if err != nil {
			return action, err
		}
		if _, err := s.expectCard(); err != nil {
			return action, err
		}
		action.CardToken = card
		return action, nil

	case domain.VerbPlayRoyal:
		royal, err := parsePlayRoyal(s)
		royal.Verb = verb
		return royal, err

	case domain.VerbOneOff:
		oneOff, err := parseOneOff(s)
		oneOff.Verb = verb
		return oneOff, err

	case domain.VerbCounter:
		card, err := s.expectCard()
		if err != nil {
			return action, err
		}
		action.Kind = domain.ActionCounterTwo
		action.CardToken = card
		return action, nil

	case domain.VerbResolve:
		resolve, err := parseResolve(s)
		resolve.Verb = verb
		return resolve, err

	default:
		return action, s.errAt(s.pos-1, verbTok, "verb not valid in transcripts")
	}
}

func parsePlayRoyal(s *scanner) (domain.ParsedAction, *ParseError) {
	action := domain.ParsedAction{SourceIndex: -1}
	card, err := s.expectCard()
	if err != nil {
		return action, err
	}
	action.CardToken = card

	parsed := domain.ParseCard(card)
	switch {
	case parsed.Kind == domain.CardJoker || (parsed.Kind == domain.CardStandard && parsed.Rank == 11):
		// Jacks and jokers steal: the second card is their target.
		if _, err := s.expectCard(); err != nil {
			return action, err
		}
	case parsed.Kind == domain.CardStandard && parsed.Rank == 8:
		// An eight grants glasses; the server may append a snapshot of the
		// two other hands. The snapshot has no delimiter, so it is only
		// consumed when the tokens after it form a valid action boundary.
		consumeGlassesSnapshot(s)
	}
	return action, nil
}

// consumeGlassesSnapshot tries to read two seat-headed card runs and keeps
// them only if the stream then sits at an action boundary.
func consumeGlassesSnapshot(s *scanner) {
	mark := s.mark()
	for i := 0; i < 2; i++ {
		tok, ok := s.peek()
		if !ok {
			s.restore(mark)
			return
		}
		if _, valid := domain.ParseSeatToken(tok); !valid {
			s.restore(mark)
			return
		}
		s.next()
		for {
			if _, ok := s.peekCard(); !ok {
				break
			}
			s.next()
		}
	}
	if !s.atActionBoundary() {
		s.restore(mark)
	}
}

func parseOneOff(s *scanner) (domain.ParsedAction, *ParseError) {
	action := domain.ParsedAction{Kind: domain.ActionOneOff, SourceIndex: -1}
	card, err := s.expectCard()
	if err != nil {
		return action, err
	}
	action.CardToken = card
	action.Target = parseOneOffTarget(s)
	return action, nil
}

// parseOneOffTarget reads the optional one-off target. A seat token is only
// a player target when consuming it leaves the stream at an action boundary;
// otherwise it belongs to the next action.
func parseOneOffTarget(s *scanner) domain.OneOffTarget {
	tok, ok := s.peek()
	if !ok {
		return domain.OneOffTarget{Type: domain.OneOffTargetNone}
	}
	if seat, valid := domain.ParseSeatToken(tok); valid {
		mark := s.mark()
		s.next()
		if s.atActionBoundary() {
			return domain.OneOffTarget{Type: domain.OneOffTargetPlayer, Seat: seat}
		}
		s.restore(mark)
		return domain.OneOffTarget{Type: domain.OneOffTargetNone}
	}
	if card, valid := domain.NormalizeCardToken(tok); valid {
		s.next()
		return domain.OneOffTarget{Type: domain.OneOffTargetCard, Token: card}
	}
	return domain.OneOffTarget{Type: domain.OneOffTargetNone}
}

func parseResolve(s *scanner) (domain.ParsedAction, *ParseError) {
	action := domain.ParsedAction{SourceIndex: -1}

	tok, ok := s.peek()
	if !ok {
		action.Kind = domain.ActionCounterPass
		return action, nil
	}

	if tok == "discard" {
		s.next()
		card, err := s.expectCard()
		if err != nil {
			return action, err
		}
		// Four-resolution discard.
		action.CardToken = card
		return action, nil
	}

	if card, valid := domain.NormalizeCardToken(tok); valid {
		// A card immediately before an action boundary is a three-pick;
		// anything else means this resolve was a bare counter-pass.
		mark := s.mark()
		s.next()
		if s.atActionBoundary() {
			action.CardToken = card
			return action, nil
		}
		s.restore(mark)
	}

	action.Kind = domain.ActionCounterPass
	return action, nil
}
