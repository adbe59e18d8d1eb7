package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cutthroat/internal/domain"
	"cutthroat/internal/tokenlog"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "Parse a tokenlog transcript and print its actions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if len(args) == 1 {
				data, err = os.ReadFile(args[0])
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}

			log, err := tokenlog.Parse(string(data))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dealer: %s\n", log.Dealer.Token())
			fmt.Fprintf(out, "deck:   %d cards\n", len(log.Deck))
			for i, action := range log.Actions {
				fmt.Fprintf(out, "%3d  %s\n", i, describeAction(action))
			}
			if chain, ok := tokenlog.FindActiveCounterChain(log.Actions); ok {
				fmt.Fprintf(out, "open counter window: %s (%d twos played)\n",
					chain.OneOffCardToken, len(chain.TwosPlayed))
			}
			return nil
		},
	}
}

func describeAction(a domain.ParsedAction) string {
	var b strings.Builder
	b.WriteString(a.Seat.Token())
	b.WriteByte(' ')
	b.WriteString(a.Verb.String())
	if a.CardToken != "" {
		b.WriteByte(' ')
		b.WriteString(a.CardToken)
	}
	switch a.Target.Type {
	case domain.OneOffTargetPlayer:
		b.WriteString(" -> ")
		b.WriteString(a.Target.Seat.Token())
	case domain.OneOffTargetNone:
	default:
		b.WriteString(" -> ")
		b.WriteString(a.Target.Token)
	}
	return b.String()
}
