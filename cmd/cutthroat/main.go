// Command cutthroat is a terminal client for a cutthroat server: it can
// inspect tokenlogs offline, fetch game state over HTTP, and follow a live
// game or the lobby feed.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cutthroat/internal/config"
)

var (
	logger  *zap.Logger
	cfgPath string
)

func main() {
	root := &cobra.Command{
		Use:           "cutthroat",
		Short:         "Client for the cutthroat three-player card game",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = zap.NewProduction()
			if err != nil {
				return err
			}
			if cfgPath != "" {
				if err := config.LoadClientConfig(cfgPath); err != nil {
					return err
				}
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to client config yaml")

	root.AddCommand(newInspectCmd())
	root.AddCommand(newStateCmd())
	root.AddCommand(newWatchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
