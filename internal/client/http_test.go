package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cutthroat/internal/protocol"
)

func TestAPILobbyLifecycle(t *testing.T) {
	var readyBody map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/cutthroat/api/v1/games", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 42}`)
	})
	mux.HandleFunc("/cutthroat/api/v1/games/42/join", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"seat": 2}`)
	})
	mux.HandleFunc("/cutthroat/api/v1/games/42/ready", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&readyBody)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/cutthroat/api/v1/games/42/start", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/cutthroat/api/v1/games/42/state", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"version": 1, "seat": 2, "status": 1, "tokenlog": "", "legal_actions": []}`)
	})
	mux.HandleFunc("/cutthroat/api/v1/games/42/leave", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	api := NewAPI(server.URL, nil)
	ctx := context.Background()

	id, err := api.CreateGame(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	seat, err := api.JoinGame(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, seat)

	require.NoError(t, api.SetReady(ctx, id, true))
	assert.Equal(t, map[string]any{"ready": true}, readyBody)

	require.NoError(t, api.StartGame(ctx, id))

	state, err := api.FetchState(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), state.Version)
	assert.Equal(t, protocol.StatusStarted, state.Status)

	require.NoError(t, api.LeaveGame(ctx, id))
}

func TestAPIErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	api := NewAPI(server.URL, nil)
	_, err := api.FetchState(context.Background(), 7)
	require.Error(t, err)
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Status)
}

func TestAPIStateValidation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"version": "not a number", "seat": 0, "status": 1, "tokenlog": ""}`)
	}))
	defer server.Close()

	api := NewAPI(server.URL, nil)
	_, err := api.FetchState(context.Background(), 7)
	require.Error(t, err)
	var violation *protocol.ViolationError
	assert.ErrorAs(t, err, &violation)
}
