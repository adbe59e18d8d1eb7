package gamestate

import (
	"fmt"
	"strconv"
	"strings"

	"cutthroat/internal/domain"
)

// ScrapCard is one rendered scrap pile entry. Token is empty when the
// server entry was not a recognizable card token; the entry still renders,
// face down, at its pile position.
type ScrapCard struct {
	ID    string
	Token string
	Rank  int
	Suit  string
}

// NormalizeScrapToken trims a scrap entry and returns it when it is a
// canonical card token, or "" when it is not. Unlike hand tokens, scrap
// entries are not case-folded; anything off-pattern is treated as opaque.
func NormalizeScrapToken(entry string) string {
	token := strings.TrimSpace(entry)
	if !domain.IsCardToken(token) {
		return ""
	}
	return token
}

// IsPlayableScrapToken reports whether a scrap entry can be targeted or
// retrieved by card token.
func IsPlayableScrapToken(entry string) bool {
	return NormalizeScrapToken(entry) != ""
}

// MapScrapEntriesToCards converts raw scrap entries to renderable cards,
// preserving pile order. Jokers report rank 14 so they sort above kings.
func MapScrapEntriesToCards(entries []string) []ScrapCard {
	cards := make([]ScrapCard, 0, len(entries))
	for i, entry := range entries {
		token := NormalizeScrapToken(entry)
		if token == "" {
			cards = append(cards, ScrapCard{ID: fmt.Sprintf("scrap-%d-unknown", i)})
			continue
		}
		card := domain.ParseCard(token)
		sc := ScrapCard{
			ID:    fmt.Sprintf("scrap-%d-%s", i, token),
			Token: token,
		}
		if card.Kind == domain.CardJoker {
			sc.Rank = 14
			sc.Suit = strconv.Itoa(card.JokerID)
		} else {
			sc.Rank = card.Rank
			sc.Suit = token[1:]
		}
		cards = append(cards, sc)
	}
	return cards
}
