// Package gamestate derives presentation-ready facts from a synchronized
// game snapshot: the outcome, seat labels, and the scrap pile contents.
package gamestate

import (
	"fmt"
	"strings"

	"cutthroat/internal/domain"
	"cutthroat/internal/protocol"
)

// ResultType classifies a game outcome.
type ResultType string

const (
	ResultInProgress ResultType = "in_progress"
	ResultWinner     ResultType = "winner"
	ResultDraw       ResultType = "draw"
)

// Result is a game outcome. Seat is meaningful only for ResultWinner.
type Result struct {
	Type ResultType
	Seat int
}

// PointsToWinByKings returns the point threshold for a seat holding the
// given number of kings.
func PointsToWinByKings(kings int) int {
	switch {
	case kings >= 3:
		return 0
	case kings == 2:
		return 5
	case kings == 1:
		return 9
	default:
		return 14
	}
}

// KingCount counts the kings among a player's royal stacks.
func KingCount(p protocol.PlayerView) int {
	n := 0
	for _, stack := range p.Royals {
		if domain.RankFromToken(stack.Base) == 13 {
			n++
		}
	}
	return n
}

// PointTotal sums the base ranks of a player's point stacks.
func PointTotal(p protocol.PlayerView) int {
	total := 0
	for _, stack := range p.Points {
		total += domain.RankFromToken(stack.Base)
	}
	return total
}

// GameResult derives the outcome from the game status and a public view.
// Exactly one seat at or above its threshold wins; zero or several is a
// draw. view may be nil.
func GameResult(status int, view *protocol.PublicView) Result {
	if !IsFinished(status) {
		return Result{Type: ResultInProgress}
	}
	var winners []int
	if view != nil {
		for _, p := range view.Players {
			if PointTotal(p) >= PointsToWinByKings(KingCount(p)) {
				winners = append(winners, p.Seat)
			}
		}
	}
	if len(winners) == 1 {
		return Result{Type: ResultWinner, Seat: winners[0]}
	}
	return Result{Type: ResultDraw}
}

// IsFinished reports whether the status code marks a finished game.
func IsFinished(status int) bool {
	return status == protocol.StatusFinished
}

// ShouldRedirectToGame reports whether the status code marks a started game
// that a lobby screen should hand off to the table.
func ShouldRedirectToGame(status int) bool {
	return status == protocol.StatusStarted
}

// IsActionInteractionDisabled reports whether card interaction should be
// inert: the game is over, an action is awaiting its ack, or the viewer is
// a spectator.
func IsActionInteractionDisabled(status int, actionInFlight, isSpectator bool) bool {
	return IsFinished(status) || actionInFlight || isSpectator
}

// SeatLabel returns the username seated at seat, falling back to a
// positional label when the seat is empty or unnamed.
func SeatLabel(seat int, seats []protocol.LobbySeat) string {
	for _, entry := range seats {
		if entry.Seat != seat {
			continue
		}
		if name := strings.TrimSpace(entry.Username); name != "" {
			return name
		}
		break
	}
	return fmt.Sprintf("Player %d", seat+1)
}
