package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newPendingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List scheduled reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			center, err := e.openCenter()
			if err != nil {
				return err
			}
			defer center.Close()

			pending, err := center.ListScheduled(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(pending) == 0 {
				fmt.Fprintln(out, "No reminders scheduled.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FIRES\tDEPARTURE\tSTOP\tHANDLE")
			for _, n := range pending {
				stop, departs := "?", "?"
				if d, ok := e.store.Get(n.Payload); ok {
					stop, departs = string(d.Stop), d.Time
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.FireAt.Format("15:04:05"), departs, stop, n.Handle)
			}
			return tw.Flush()
		},
	}
}
