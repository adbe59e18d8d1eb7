package domain

import "strconv"

// Zone is a logical location a legal action can originate from.
type Zone string

const (
	ZoneDeck      Zone = "deck"
	ZoneHand      Zone = "hand"
	ZoneCounter   Zone = "counter"
	ZoneScrap     Zone = "scrap"
	ZoneReveal    Zone = "reveal"
	ZoneStalemate Zone = "stalemate"
)

// Source points at where a move originates. Identity is structural: two
// sources are the same selection when zone and token agree.
type Source struct {
	Zone  Zone
	Token string
}

// Key derives the string identity used for source equality. The reveal zone
// always keys on its token, even when empty, so that distinct revealed cards
// never collapse together.
func (s Source) Key() string {
	if s.Zone == "" {
		return ""
	}
	if s.Zone == ZoneReveal {
		return string(ZoneReveal) + ":" + s.Token
	}
	if s.Token != "" {
		return string(s.Zone) + ":" + s.Token
	}
	return string(s.Zone)
}

// Choice is the symbolic sub-action a player picks once a source is selected.
type Choice string

const (
	ChoiceDraw               Choice = "draw"
	ChoicePass               Choice = "pass"
	ChoiceStalemateRequest   Choice = "stalemateRequest"
	ChoicePoints             Choice = "points"
	ChoiceScuttle            Choice = "scuttle"
	ChoiceRoyal              Choice = "royal"
	ChoiceJack               Choice = "jack"
	ChoiceJoker              Choice = "joker"
	ChoiceOneOff             Choice = "oneOff"
	ChoiceDiscard            Choice = "discard"
	ChoiceCounterTwo         Choice = "counterTwo"
	ChoiceCounterPass        Choice = "counterPass"
	ChoiceResolveThreePick   Choice = "resolveThreePick"
	ChoiceResolveFourDiscard Choice = "resolveFourDiscard"
	ChoiceResolveFiveDiscard Choice = "resolveFiveDiscard"
	ChoiceStalemateAccept    Choice = "stalemateAccept"
	ChoiceStalemateReject    Choice = "stalemateReject"
)

// ChoiceOrder is the fixed display order for move choices. The UI relies on
// it: draw always precedes pass, points always precedes scuttle.
var ChoiceOrder = []Choice{
	ChoiceDraw,
	ChoicePass,
	ChoiceStalemateRequest,
	ChoicePoints,
	ChoiceScuttle,
	ChoiceRoyal,
	ChoiceJack,
	ChoiceJoker,
	ChoiceOneOff,
	ChoiceDiscard,
	ChoiceCounterTwo,
	ChoiceCounterPass,
	ChoiceResolveThreePick,
	ChoiceResolveFourDiscard,
	ChoiceResolveFiveDiscard,
	ChoiceStalemateAccept,
	ChoiceStalemateReject,
}

// ChoiceOrderIndex returns the choice's position in ChoiceOrder. Unknown
// choices sort after every known one.
func ChoiceOrderIndex(c Choice) int {
	for i, known := range ChoiceOrder {
		if known == c {
			return i
		}
	}
	return len(ChoiceOrder) + 1
}

// TargetType tags what kind of object a choice acts upon.
type TargetType string

const (
	TargetPlayer TargetType = "player"
	TargetPoint  TargetType = "point"
	TargetRoyal  TargetType = "royal"
	TargetJack   TargetType = "jack"
	TargetJoker  TargetType = "joker"
	// TargetCard is a one-off target whose zone kind is not yet
	// disambiguated; matching on it goes by token alone.
	TargetCard TargetType = "card"
)

// Target is a typed pointer at the object a choice acts upon.
type Target struct {
	Type  TargetType
	Token string
	Seat  Seat
}

// Key derives the string identity used for target equality, e.g. "player:2"
// or "point:7D".
func (t Target) Key() string {
	if t.Type == "" {
		return ""
	}
	if t.Type == TargetPlayer {
		return string(TargetPlayer) + ":" + strconv.Itoa(int(t.Seat))
	}
	if t.Token != "" {
		return string(t.Type) + ":" + t.Token
	}
	return string(t.Type)
}
