package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"cutthroat/internal/protocol"
)

// HTTPError carries the status code of a failed API call.
type HTTPError struct {
	Status int
	Op     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: http status %d", e.Op, e.Status)
}

// ErrNoGame is returned when a game-scoped call is made with no game id set.
var ErrNoGame = errors.New("client: no active game")

// API is the HTTP surface of the cutthroat server. The live connection is
// the primary transport; API also serves as the action fallback when the
// socket is down.
type API struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPI builds an API client. baseURL has no trailing slash, e.g.
// "https://play.example.com".
func NewAPI(baseURL string, httpClient *http.Client) *API {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &API{baseURL: baseURL, httpClient: httpClient}
}

func (a *API) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{Status: resp.StatusCode, Op: method + " " + path}
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (a *API) doState(ctx context.Context, method, path string, body any) (*protocol.GameStatePayload, error) {
	var raw json.RawMessage
	if err := a.do(ctx, method, path, body, &raw); err != nil {
		return nil, err
	}
	return protocol.ParseStatePayload(raw)
}

// CreateGame creates a lobby and returns its id.
func (a *API) CreateGame(ctx context.Context) (int64, error) {
	var out struct {
		ID int64 `json:"id"`
	}
	err := a.do(ctx, http.MethodPost, "/cutthroat/api/v1/games", nil, &out)
	return out.ID, err
}

// JoinGame claims a seat in the lobby and returns it.
func (a *API) JoinGame(ctx context.Context, gameID int64) (int, error) {
	var out struct {
		Seat int `json:"seat"`
	}
	err := a.do(ctx, http.MethodPost, fmt.Sprintf("/cutthroat/api/v1/games/%d/join", gameID), nil, &out)
	return out.Seat, err
}

// LeaveGame gives up the caller's seat.
func (a *API) LeaveGame(ctx context.Context, gameID int64) error {
	return a.do(ctx, http.MethodPost, fmt.Sprintf("/cutthroat/api/v1/games/%d/leave", gameID), nil, nil)
}

// RematchGame creates or joins the rematch lobby for a finished game and
// returns the new game id.
func (a *API) RematchGame(ctx context.Context, gameID int64) (int64, error) {
	var out struct {
		ID int64 `json:"id"`
	}
	err := a.do(ctx, http.MethodPost, fmt.Sprintf("/cutthroat/api/v1/games/%d/rematch", gameID), nil, &out)
	return out.ID, err
}

// SetReady toggles the caller's ready flag in the lobby.
func (a *API) SetReady(ctx context.Context, gameID int64, ready bool) error {
	body := struct {
		Ready bool `json:"ready"`
	}{Ready: ready}
	return a.do(ctx, http.MethodPost, fmt.Sprintf("/cutthroat/api/v1/games/%d/ready", gameID), body, nil)
}

// StartGame deals the game once every seat is ready.
func (a *API) StartGame(ctx context.Context, gameID int64) error {
	return a.do(ctx, http.MethodPost, fmt.Sprintf("/cutthroat/api/v1/games/%d/start", gameID), nil, nil)
}

// FetchState fetches the caller's view of a game.
func (a *API) FetchState(ctx context.Context, gameID int64) (*protocol.GameStatePayload, error) {
	return a.doState(ctx, http.MethodGet, fmt.Sprintf("/cutthroat/api/v1/games/%d/state", gameID), nil)
}

// FetchSpectateState fetches the spectator view of a game.
func (a *API) FetchSpectateState(ctx context.Context, gameID int64) (*protocol.GameStatePayload, error) {
	return a.doState(ctx, http.MethodGet, fmt.Sprintf("/cutthroat/api/v1/games/%d/spectate/state", gameID), nil)
}

// SubmitAction posts an action over HTTP and returns the resulting state.
// Used when the live connection is unavailable.
func (a *API) SubmitAction(ctx context.Context, gameID int64, expectedVersion int64, action string) (*protocol.GameStatePayload, error) {
	body := protocol.ActionEnvelope{ExpectedVersion: expectedVersion, Action: action}
	return a.doState(ctx, http.MethodPost, fmt.Sprintf("/cutthroat/api/v1/games/%d/action", gameID), body)
}
