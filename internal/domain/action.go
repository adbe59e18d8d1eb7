package domain

// ActionKind classifies a parsed transcript action by what the UI needs to
// know about it. Most actions collapse to ActionOther; only one-offs and the
// counter window carry structure of their own.
type ActionKind int

const (
	ActionOther ActionKind = iota
	ActionOneOff
	ActionCounterTwo
	ActionCounterPass
)

// OneOffTargetType tags the variants of a one-off target.
type OneOffTargetType int

const (
	// OneOffTargetNone marks an untargeted one-off.
	OneOffTargetNone OneOffTargetType = iota
	// OneOffTargetPlayer targets a seat.
	OneOffTargetPlayer
	// OneOffTargetCard targets a card whose zone kind has not been
	// disambiguated; the transcript grammar only records the token.
	OneOffTargetCard
	OneOffTargetPoint
	OneOffTargetRoyal
	OneOffTargetJack
	OneOffTargetJoker
)

// OneOffTarget is the structured target of a one-off play.
type OneOffTarget struct {
	Type  OneOffTargetType
	Seat  Seat   // valid for OneOffTargetPlayer
	Token string // card token for the card-shaped variants
}

// ParsedAction is the decoded form of one transcript action.
type ParsedAction struct {
	Kind      ActionKind
	Seat      Seat
	Verb      Verb
	CardToken string       // empty when the action carries no card or it was redacted
	Target    OneOffTarget // meaningful for ActionOneOff
	// SourceIndex records which revealed card a seven-resolution play came
	// from when that is known; -1 otherwise. The transcript grammar logs the
	// resolved card, not the index, so parsing alone never recovers it.
	SourceIndex int
}

// MoveType enumerates the structured actions the client itself can produce.
type MoveType int

const (
	MoveDraw MoveType = iota
	MovePass
	MovePoints
	MoveScuttle
	MovePlayRoyal
	MoveOneOff
	MoveCounterTwo
	MoveCounterPass
	MoveResolveThreePick
	MoveResolveFourDiscard
	MoveResolveFiveDiscard
	MoveResolveSevenChoose
)

// SevenPlay is the play chosen for the card picked during a seven
// resolution. Only the fields relevant to its Type are set.
type SevenPlay struct {
	Type       MoveType // MovePoints, MoveScuttle, MovePlayRoyal, MoveOneOff or MoveResolveFiveDiscard (plain discard)
	TargetCard string   // scuttle/jack/joker target token
	Target     OneOffTarget
}

// Move is a structured action ready for transcript encoding.
type Move struct {
	Type MoveType
	// Card is the acting card token. For MoveDraw it is the drawn card when
	// known, empty otherwise.
	Card string
	// TargetCard is the scuttle target, or the second playRoyal card for
	// jacks and jokers.
	TargetCard string
	// Target is the one-off target for MoveOneOff.
	Target OneOffTarget
	// SourceIndex and Seven describe a MoveResolveSevenChoose.
	SourceIndex int
	Seven       SevenPlay
}
