// Package protocol defines the wire shapes shared with the cutthroat server
// and the strict validation applied to every inbound message. A well-formed
// JSON document with the wrong shape is version skew, not noise: it is
// rejected as a protocol violation rather than repaired.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Message type tags, both directions.
const (
	TypeState           = "state"
	TypeError           = "error"
	TypeLobbies         = "lobbies"
	TypeAction          = "action"
	TypeScrapStraighten = "scrap_straighten"
)

// ViolationError marks a schema mismatch on the wire. Connections surface it
// and stop reconnecting; the skew will not heal on its own.
type ViolationError struct {
	Reason string
	Detail string
}

func (e *ViolationError) Error() string {
	if e.Detail == "" {
		return "protocol violation: " + e.Reason
	}
	return fmt.Sprintf("protocol violation: %s (%s)", e.Reason, e.Detail)
}

func violationf(reason, format string, args ...any) *ViolationError {
	return &ViolationError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// PublicCard is a card as seen from a viewpoint: hidden, or known by token.
type PublicCard struct {
	Type string `json:"type"` // "Hidden" | "Known"
	Data string `json:"data,omitempty"`
}

// PointStackView is one point stack on the table.
type PointStackView struct {
	Base       string   `json:"base"`
	Controller int      `json:"controller"`
	Jacks      []string `json:"jacks"`
}

// RoyalStackView is one royal stack on the table.
type RoyalStackView struct {
	Base       string   `json:"base"`
	Controller int      `json:"controller"`
	Jokers     []string `json:"jokers"`
}

// PlayerView is one seat's visible table state.
type PlayerView struct {
	Seat   int              `json:"seat"`
	Hand   []PublicCard     `json:"hand"`
	Points []PointStackView `json:"points"`
	Royals []RoyalStackView `json:"royals"`
	Frozen []string         `json:"frozen"`
}

// PhaseView carries the phase tag plus phase-specific data the core leaves
// opaque.
type PhaseView struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// PublicView is the full table as seen from one viewpoint.
type PublicView struct {
	Seat      int             `json:"seat"`
	Turn      int             `json:"turn"`
	Phase     PhaseView       `json:"phase"`
	DeckCount int             `json:"deck_count"`
	Scrap     []string        `json:"scrap"`
	Players   []PlayerView    `json:"players"`
	LastEvent json.RawMessage `json:"last_event,omitempty"`
}

// LobbySeat is one seat in the pre-game lobby roster.
type LobbySeat struct {
	Seat     int    `json:"seat"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Ready    bool   `json:"ready"`
}

// LobbyView is the lobby roster attached to every state payload.
type LobbyView struct {
	Seats []LobbySeat `json:"seats"`
}

// Game status codes as the server reports them.
const (
	StatusLobby    = 0
	StatusStarted  = 1
	StatusFinished = 2
)

// GameStatePayload is the canonical server-pushed snapshot. The sync client
// owns the authoritative copy; everything else reads projections of it.
type GameStatePayload struct {
	Version             int64       `json:"version"`
	Seat                int         `json:"seat"`
	Status              int         `json:"status"`
	PlayerView          *PublicView `json:"player_view"`
	SpectatorView       *PublicView `json:"spectator_view"`
	LegalActions        []string    `json:"legal_actions"`
	Lobby               LobbyView   `json:"lobby"`
	LogTail             []string    `json:"log_tail"`
	Tokenlog            string      `json:"tokenlog"`
	IsSpectator         bool        `json:"is_spectator"`
	SpectatingUsernames []string    `json:"spectating_usernames"`
	ScrapStraightened   bool        `json:"scrap_straightened"`
	Archived            bool        `json:"archived"`
}

// LobbySummary is one joinable game in the lobby feed.
type LobbySummary struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	SeatCount  int    `json:"seat_count"`
	ReadyCount int    `json:"ready_count"`
	Status     int    `json:"status"`
}

// SpectatableGameSummary is one in-progress game open to spectators.
type SpectatableGameSummary struct {
	ID                  int64    `json:"id"`
	Name                string   `json:"name"`
	SeatCount           int      `json:"seat_count"`
	Status              int      `json:"status"`
	SpectatingUsernames []string `json:"spectating_usernames"`
}

// ServerMessage is a validated inbound message; exactly one branch is set.
type ServerMessage struct {
	Type  string
	State *GameStatePayload

	ErrorCode    int
	ErrorMessage string

	Lobbies          []LobbySummary
	SpectatableGames []SpectatableGameSummary

	ScrapStraightened bool
	ScrapActorSeat    int
}

// ActionEnvelope is the outbound action submission, shared between the live
// connection and the HTTP fallback body.
type ActionEnvelope struct {
	Type            string `json:"type,omitempty"`
	ExpectedVersion int64  `json:"expected_version"`
	Action          string `json:"action"`
}

// ScrapStraightenEnvelope is the outbound scrap-straighten signal.
type ScrapStraightenEnvelope struct {
	Type string `json:"type"`
}
