package domain

import "strings"

// CardKind discriminates the parsed forms of a card token.
type CardKind int

const (
	// CardHidden is a card whose identity is not visible to the viewer.
	CardHidden CardKind = iota
	// CardStandard is a rank/suit card.
	CardStandard
	// CardJoker is one of the two jokers.
	CardJoker
)

// Suit indices follow the token suit letters C, D, H, S.
const (
	SuitClubs = iota
	SuitDiamonds
	SuitHearts
	SuitSpades
)

// Card is the parsed value of a two-character card token.
type Card struct {
	Kind    CardKind
	Rank    int // 1 (ace) through 13 (king) for standard cards
	Suit    int
	JokerID int // 0 or 1 for jokers
}

const rankChars = "A23456789TJQK"
const suitChars = "CDHS"

// IsCardToken reports whether token is a canonical card token
// (rank char + suit char, or J0/J1).
func IsCardToken(token string) bool {
	if len(token) != 2 {
		return false
	}
	if token == "J0" || token == "J1" {
		return true
	}
	return strings.IndexByte(rankChars, token[0]) >= 0 && strings.IndexByte(suitChars, token[1]) >= 0
}

// NormalizeCardToken trims and uppercases token, returning the canonical
// form and whether the result is a valid card token.
func NormalizeCardToken(token string) (string, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(token))
	if !IsCardToken(normalized) {
		return "", false
	}
	return normalized, true
}

// ParseCard decodes a canonical card token into its value form.
// Unparseable tokens come back as hidden cards.
func ParseCard(token string) Card {
	if token == "J0" || token == "J1" {
		return Card{Kind: CardJoker, JokerID: int(token[1] - '0')}
	}
	if len(token) != 2 {
		return Card{Kind: CardHidden}
	}
	rank := strings.IndexByte(rankChars, token[0])
	suit := strings.IndexByte(suitChars, token[1])
	if rank < 0 || suit < 0 {
		return Card{Kind: CardHidden}
	}
	return Card{Kind: CardStandard, Rank: rank + 1, Suit: suit}
}

// Token renders the card back to its canonical token form. Hidden cards
// render empty.
func (c Card) Token() string {
	switch c.Kind {
	case CardJoker:
		if c.JokerID == 1 {
			return "J1"
		}
		return "J0"
	case CardStandard:
		if c.Rank < 1 || c.Rank > 13 || c.Suit < 0 || c.Suit > 3 {
			return ""
		}
		return string([]byte{rankChars[c.Rank-1], suitChars[c.Suit]})
	default:
		return ""
	}
}

// RankFromToken returns the rank encoded by a card token's first character,
// or 0 when the token does not start with a rank character. Joker tokens
// start with J and therefore report 11, matching how rank-gated UI checks
// treat them.
func RankFromToken(token string) int {
	if token == "" {
		return 0
	}
	idx := strings.IndexByte(rankChars, token[0])
	if idx < 0 {
		return 0
	}
	return idx + 1
}
