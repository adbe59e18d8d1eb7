package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cutthroat/internal/client"
	"cutthroat/internal/config"
	"cutthroat/internal/gamestate"
	"cutthroat/internal/protocol"
)

func newStateCmd() *cobra.Command {
	var spectate bool
	cmd := &cobra.Command{
		Use:   "state <game-id>",
		Short: "Fetch and print a game's current state over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var gameID int64
			if _, err := fmt.Sscanf(args[0], "%d", &gameID); err != nil {
				return fmt.Errorf("invalid game id %q", args[0])
			}
			cc := config.GetClientConfig()
			api := client.NewAPI(cc.BaseURL, nil)

			var state *protocol.GameStatePayload
			var err error
			if spectate {
				state, err = api.FetchSpectateState(cmd.Context(), gameID)
			} else {
				state, err = api.FetchState(cmd.Context(), gameID)
			}
			if err != nil {
				return err
			}
			printState(cmd, state)
			return nil
		},
	}
	cmd.Flags().BoolVar(&spectate, "spectate", false, "fetch the spectator view")
	return cmd
}

func printState(cmd *cobra.Command, state *protocol.GameStatePayload) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "version: %d\n", state.Version)
	fmt.Fprintf(out, "status:  %s\n", statusLabel(state.Status))
	fmt.Fprintf(out, "seat:    %d\n", state.Seat)

	view := state.PlayerView
	if view == nil {
		view = state.SpectatorView
	}
	if view != nil {
		fmt.Fprintf(out, "turn:    %s\n", gamestate.SeatLabel(view.Turn, state.Lobby.Seats))
		fmt.Fprintf(out, "phase:   %s\n", view.Phase.Type)
		fmt.Fprintf(out, "deck:    %d cards\n", view.DeckCount)
		fmt.Fprintf(out, "scrap:   %d cards\n", len(view.Scrap))
		for _, p := range view.Players {
			fmt.Fprintf(out, "  %-12s %2d points (needs %d), %d royals\n",
				gamestate.SeatLabel(p.Seat, state.Lobby.Seats),
				gamestate.PointTotal(p),
				gamestate.PointsToWinByKings(gamestate.KingCount(p)),
				len(p.Royals))
		}
	}
	if result := gamestate.GameResult(state.Status, view); result.Type == gamestate.ResultWinner {
		fmt.Fprintf(out, "winner:  %s\n", gamestate.SeatLabel(result.Seat, state.Lobby.Seats))
	} else if result.Type == gamestate.ResultDraw {
		fmt.Fprintln(out, "result:  draw")
	}
	if len(state.LegalActions) > 0 {
		fmt.Fprintln(out, "legal actions:")
		for _, action := range state.LegalActions {
			fmt.Fprintf(out, "  %s\n", action)
		}
	}
}

func statusLabel(status int) string {
	switch status {
	case protocol.StatusLobby:
		return "lobby"
	case protocol.StatusStarted:
		return "started"
	case protocol.StatusFinished:
		return "finished"
	default:
		return fmt.Sprintf("unknown (%d)", status)
	}
}
