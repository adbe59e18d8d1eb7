package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cutthroat/internal/client"
	"cutthroat/internal/config"
	"cutthroat/internal/protocol"
)

func newWatchCmd() *cobra.Command {
	var spectate, lobbies bool
	cmd := &cobra.Command{
		Use:   "watch <game-id>",
		Short: "Follow a game's live state pushes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var gameID int64
			if _, err := fmt.Sscanf(args[0], "%d", &gameID); err != nil {
				return fmt.Errorf("invalid game id %q", args[0])
			}
			cc := config.GetClientConfig()
			dialer := client.NewDialer(http.DefaultClient)
			api := client.NewAPI(cc.BaseURL, nil)
			opts := client.Options{
				AckTimeout:            cc.AckTimeout(),
				ReconnectInitialDelay: cc.ReconnectInitialDelay(),
				ReconnectMaxDelay:     cc.ReconnectMaxDelay(),
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			fatal := make(chan error, 2)

			gc := client.NewGameClient(cc.WSBaseURL(), dialer, api, nil, logger, client.Handler{
				OnState: func(state *protocol.GameStatePayload) {
					printState(cmd, state)
					fmt.Fprintln(cmd.OutOrStdout())
				},
				OnScrapStraighten: func(straightened bool, actorSeat int) {
					fmt.Fprintf(cmd.OutOrStdout(), "scrap straightened=%v by seat %d\n", straightened, actorSeat)
				},
				OnFatal: func(err error) {
					select {
					case fatal <- err:
					default:
					}
				},
			}, opts)

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				if err := gc.Connect(ctx, gameID, spectate); err != nil {
					return err
				}
				defer gc.Disconnect()
				select {
				case err := <-fatal:
					return err
				case <-ctx.Done():
					return nil
				}
			})
			if lobbies {
				lc := client.NewLobbyClient(cc.WSBaseURL(), dialer, nil, logger, client.LobbyHandler{
					OnLobbies: func(open []protocol.LobbySummary, spectatable []protocol.SpectatableGameSummary) {
						out := cmd.OutOrStdout()
						for _, lobby := range open {
							fmt.Fprintf(out, "lobby %d %q %d/3 seats, %d ready\n",
								lobby.ID, lobby.Name, lobby.SeatCount, lobby.ReadyCount)
						}
						for _, game := range spectatable {
							fmt.Fprintf(out, "spectatable %d %q %d watching\n",
								game.ID, game.Name, len(game.SpectatingUsernames))
						}
					},
					OnFatal: func(err error) {
						select {
						case fatal <- err:
						default:
						}
					},
				}, opts)
				g.Go(func() error {
					logger.Info("following lobby feed", zap.String("base", cc.WSBaseURL()))
					if err := lc.Connect(ctx); err != nil {
						return err
					}
					defer lc.Disconnect()
					<-ctx.Done()
					return nil
				})
			}
			return g.Wait()
		},
	}
	cmd.Flags().BoolVar(&spectate, "spectate", false, "watch as a spectator")
	cmd.Flags().BoolVar(&lobbies, "lobbies", false, "also follow the lobby feed")
	return cmd
}
