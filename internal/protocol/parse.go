package protocol

import (
	"encoding/json"
)

// envelope pulls out just the tag so the payload can be decoded per type.
type envelope struct {
	Type *string `json:"type"`
}

// statePayload mirrors GameStatePayload with pointers on the fields the
// server must always send. A missing required field is a schema mismatch.
type statePayload struct {
	Version             *int64      `json:"version"`
	Seat                *int        `json:"seat"`
	Status              *int        `json:"status"`
	PlayerView          *PublicView `json:"player_view"`
	SpectatorView       *PublicView `json:"spectator_view"`
	LegalActions        []string    `json:"legal_actions"`
	Lobby               LobbyView   `json:"lobby"`
	LogTail             []string    `json:"log_tail"`
	Tokenlog            *string     `json:"tokenlog"`
	IsSpectator         bool        `json:"is_spectator"`
	SpectatingUsernames []string    `json:"spectating_usernames"`
	ScrapStraightened   bool        `json:"scrap_straightened"`
	Archived            bool        `json:"archived"`
}

type errorPayload struct {
	Code    *int    `json:"code"`
	Message *string `json:"message"`
}

type lobbiesPayload struct {
	Lobbies          []LobbySummary           `json:"lobbies"`
	SpectatableGames []SpectatableGameSummary `json:"spectatable_games"`
}

type scrapStraightenPayload struct {
	GameID       int64 `json:"game_id"`
	Straightened *bool `json:"straightened"`
	ActorSeat    int   `json:"actor_seat"`
}

// ParseServerMessage validates and decodes one inbound frame. Any shape
// problem, including an unknown type tag, returns a *ViolationError.
func ParseServerMessage(data []byte) (*ServerMessage, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, violationf("malformed message", "%v", err)
	}
	if env.Type == nil {
		return nil, violationf("missing message type", "")
	}
	switch *env.Type {
	case TypeState:
		state, err := ParseStatePayload(data)
		if err != nil {
			return nil, err
		}
		return &ServerMessage{Type: TypeState, State: state}, nil
	case TypeError:
		var p errorPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, violationf("malformed error message", "%v", err)
		}
		if p.Code == nil || p.Message == nil {
			return nil, violationf("error message missing code or message", "")
		}
		return &ServerMessage{Type: TypeError, ErrorCode: *p.Code, ErrorMessage: *p.Message}, nil
	case TypeLobbies:
		var p lobbiesPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, violationf("malformed lobbies message", "%v", err)
		}
		return &ServerMessage{
			Type:             TypeLobbies,
			Lobbies:          p.Lobbies,
			SpectatableGames: p.SpectatableGames,
		}, nil
	case TypeScrapStraighten:
		var p scrapStraightenPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, violationf("malformed scrap_straighten message", "%v", err)
		}
		if p.Straightened == nil {
			return nil, violationf("scrap_straighten message missing straightened", "")
		}
		return &ServerMessage{
			Type:              TypeScrapStraighten,
			ScrapStraightened: *p.Straightened,
			ScrapActorSeat:    p.ActorSeat,
		}, nil
	default:
		return nil, violationf("unknown message type", "%q", *env.Type)
	}
}

// ParseStatePayload validates a game state document. Both the live connection
// and the HTTP fallback responses pass through here.
func ParseStatePayload(data []byte) (*GameStatePayload, error) {
	var p statePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, violationf("malformed state payload", "%v", err)
	}
	switch {
	case p.Version == nil:
		return nil, violationf("state payload missing version", "")
	case p.Seat == nil:
		return nil, violationf("state payload missing seat", "")
	case p.Status == nil:
		return nil, violationf("state payload missing status", "")
	case p.Tokenlog == nil:
		return nil, violationf("state payload missing tokenlog", "")
	}
	return &GameStatePayload{
		Version:             *p.Version,
		Seat:                *p.Seat,
		Status:              *p.Status,
		PlayerView:          p.PlayerView,
		SpectatorView:       p.SpectatorView,
		LegalActions:        p.LegalActions,
		Lobby:               p.Lobby,
		LogTail:             p.LogTail,
		Tokenlog:            *p.Tokenlog,
		IsSpectator:         p.IsSpectator,
		SpectatingUsernames: p.SpectatingUsernames,
		ScrapStraightened:   p.ScrapStraightened,
		Archived:            p.Archived,
	}, nil
}

// EncodeAction builds the outbound action frame for the live connection.
func EncodeAction(expectedVersion int64, action string) ([]byte, error) {
	return json.Marshal(ActionEnvelope{
		Type:            TypeAction,
		ExpectedVersion: expectedVersion,
		Action:          action,
	})
}

// EncodeScrapStraighten builds the outbound scrap-straighten frame.
func EncodeScrapStraighten() ([]byte, error) {
	return json.Marshal(ScrapStraightenEnvelope{Type: TypeScrapStraighten})
}
