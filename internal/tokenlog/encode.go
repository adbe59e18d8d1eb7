package tokenlog

import (
	"errors"
	"fmt"
	"strings"

	"cutthroat/internal/domain"
)

// Encoding failures. Encode covers the subset of actions the client itself
// produces; glasses snapshots are server-authored telemetry and never
// encoded here.
var (
	ErrInvalidSeat        = errors.New("tokenlog: seat out of range")
	ErrMissingCard        = errors.New("tokenlog: move requires a card token")
	ErrMissingTarget      = errors.New("tokenlog: move requires a target")
	ErrUnknownMove        = errors.New("tokenlog: unknown move type")
	ErrSourceUnresolvable = errors.New("tokenlog: seven source index not resolvable against revealed cards")
)

// EncodeAction renders a structured move as one transcript action token,
// "<seat> <verb> <args...>". For MoveResolveSevenChoose the revealed slice is
// consulted to recover the concrete card, since the transcript never logs
// the source index; a stale or short slice fails rather than guessing.
func EncodeAction(seat domain.Seat, mv domain.Move, revealed []string) (string, error) {
	if !seat.Valid() {
		return "", ErrInvalidSeat
	}
	args, err := encodeMove(mv, revealed)
	if err != nil {
		return "", err
	}
	return seat.Token() + " " + strings.Join(args, " "), nil
}

// AppendAction appends one encoded action to an existing transcript.
func AppendAction(transcript string, seat domain.Seat, mv domain.Move, revealed []string) (string, error) {
	encoded, err := EncodeAction(seat, mv, revealed)
	if err != nil {
		return "", err
	}
	if transcript == "" {
		return encoded, nil
	}
	return transcript + " " + encoded, nil
}

func encodeMove(mv domain.Move, revealed []string) ([]string, error) {
	switch mv.Type {
	case domain.MoveDraw:
		if mv.Card != "" {
			return []string{"draw", mv.Card}, nil
		}
		return []string{"draw"}, nil

	case domain.MovePass:
		return []string{"pass"}, nil

	case domain.MovePoints:
		if mv.Card == "" {
			return nil, ErrMissingCard
		}
		return []string{"points", mv.Card}, nil

	case domain.MoveScuttle:
		if mv.Card == "" || mv.TargetCard == "" {
			return nil, ErrMissingCard
		}
		return []string{"scuttle", mv.Card, mv.TargetCard}, nil

	case domain.MovePlayRoyal:
		return encodePlayRoyal(mv.Card, mv.TargetCard)

	case domain.MoveOneOff:
		if mv.Card == "" {
			return nil, ErrMissingCard
		}
		return appendOneOffTarget([]string{"oneOff", mv.Card}, mv.Target)

	case domain.MoveCounterTwo:
		if mv.Card == "" {
			return nil, ErrMissingCard
		}
		return []string{"counter", mv.Card}, nil

	case domain.MoveCounterPass:
		return []string{"resolve"}, nil

	case domain.MoveResolveThreePick:
		if mv.Card == "" {
			return nil, ErrMissingCard
		}
		return []string{"resolve", mv.Card}, nil

	case domain.MoveResolveFourDiscard:
		if mv.Card == "" {
			return nil, ErrMissingCard
		}
		return []string{"resolve", "discard", mv.Card}, nil

	case domain.MoveResolveFiveDiscard:
		if mv.Card == "" {
			return nil, ErrMissingCard
		}
		return []string{"discard", mv.Card}, nil

	case domain.MoveResolveSevenChoose:
		return encodeSevenChoose(mv, revealed)

	default:
		return nil, ErrUnknownMove
	}
}

func encodePlayRoyal(card, targetCard string) ([]string, error) {
	if card == "" {
		return nil, ErrMissingCard
	}
	parsed := domain.ParseCard(card)
	needsTarget := parsed.Kind == domain.CardJoker ||
		(parsed.Kind == domain.CardStandard && parsed.Rank == 11)
	if needsTarget {
		if targetCard == "" {
			return nil, ErrMissingTarget
		}
		return []string{"playRoyal", card, targetCard}, nil
	}
	return []string{"playRoyal", card}, nil
}

// encodeSevenChoose rewrites the chosen play over the concrete revealed
// card. The resulting token is the ordinary verb form, indistinguishable in
// the transcript from a hand-sourced play.
func encodeSevenChoose(mv domain.Move, revealed []string) ([]string, error) {
	if mv.SourceIndex < 0 || mv.SourceIndex >= len(revealed) {
		return nil, fmt.Errorf("%w: index %d of %d revealed", ErrSourceUnresolvable, mv.SourceIndex, len(revealed))
	}
	card, ok := domain.NormalizeCardToken(revealed[mv.SourceIndex])
	if !ok {
		return nil, fmt.Errorf("%w: revealed entry %d is not a card token", ErrSourceUnresolvable, mv.SourceIndex)
	}

	switch mv.Seven.Type {
	case domain.MovePoints:
		return []string{"points", card}, nil
	case domain.MoveScuttle:
		if mv.Seven.TargetCard == "" {
			return nil, ErrMissingTarget
		}
		return []string{"scuttle", card, mv.Seven.TargetCard}, nil
	case domain.MovePlayRoyal:
		return encodePlayRoyal(card, mv.Seven.TargetCard)
	case domain.MoveOneOff:
		return appendOneOffTarget([]string{"oneOff", card}, mv.Seven.Target)
	case domain.MoveResolveFiveDiscard:
		return []string{"discard", card}, nil
	default:
		return nil, ErrUnknownMove
	}
}

func appendOneOffTarget(args []string, target domain.OneOffTarget) ([]string, error) {
	switch target.Type {
	case domain.OneOffTargetNone:
		return args, nil
	case domain.OneOffTargetPlayer:
		if !target.Seat.Valid() {
			return nil, ErrInvalidSeat
		}
		return append(args, target.Seat.Token()), nil
	case domain.OneOffTargetCard, domain.OneOffTargetPoint, domain.OneOffTargetRoyal,
		domain.OneOffTargetJack, domain.OneOffTargetJoker:
		if target.Token == "" {
			return nil, ErrMissingTarget
		}
		return append(args, target.Token), nil
	default:
		return nil, ErrMissingTarget
	}
}
