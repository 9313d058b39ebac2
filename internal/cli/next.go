package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/nhle/campus-pocket/internal/departure"
	"github.com/nhle/campus-pocket/internal/model"
	"github.com/nhle/campus-pocket/internal/refresh"
)

func newNextCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Print the next departures",
		Long:  `Print the next departure of every stop with its countdown, followed by the rest of today's departures.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			stopName, _ := cmd.Flags().GetString("stop")
			watch, _ := cmd.Flags().GetBool("watch")

			var stop model.Stop
			if stopName != "" {
				stop, err = parseStop(stopName, e.store.Stops())
				if err != nil {
					return err
				}
			}

			loop := e.loop()
			out := cmd.OutOrStdout()

			if !watch {
				printBoard(out, loop.Current(), stop)
				return nil
			}

			ctx, stopSignals := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stopSignals()

			loop.Start()
			defer loop.Stop()

			return watchBoards(ctx, out, loop.Boards(), stop)
		},
	}

	cmd.Flags().StringP("stop", "s", "", "Only show this stop")
	cmd.Flags().BoolP("watch", "w", false, "Keep refreshing until interrupted")

	return cmd
}

func watchBoards(ctx context.Context, out io.Writer, boards <-chan refresh.BoardMsg, stop model.Stop) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-boards:
			if !ok {
				return nil
			}
			// Clear the screen and move the cursor home.
			fmt.Fprint(out, "\033[H\033[2J")
			printBoard(out, msg.Board, stop)
		}
	}
}

// printBoard writes b as plain text. An empty stop prints every stop.
func printBoard(out io.Writer, b departure.Board, stop model.Stop) {
	fmt.Fprintf(out, "%s\n\n", b.Clock)

	for _, c := range b.Cards {
		if stop != "" && c.Stop != stop {
			continue
		}
		fmt.Fprintf(out, "%-12s %-9s %s%s\n", c.Stop, c.Departs, c.Countdown, bell(c.Next, c.HasNext))
	}

	var rows []departure.Row
	for _, r := range b.Upcoming {
		if stop == "" || r.Departure.Stop == stop {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return
	}

	fmt.Fprintf(out, "\n%s\n", title("upcoming"))
	for _, r := range rows {
		fmt.Fprintf(out, "  %-9s %s%s\n", r.Departs, r.Departure.Stop, bell(r.Departure, true))
	}
}

func bell(d model.Departure, ok bool) string {
	if ok && d.NotifyEnabled {
		return " (reminder set)"
	}
	return ""
}
