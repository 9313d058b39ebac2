package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newResetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Cancel every scheduled reminder",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				err := huh.NewConfirm().
					Title("Clear all reminders?").
					Description("Every scheduled departure reminder will be cancelled.").
					Affirmative("Yes").
					Negative("No").
					Value(&yes).
					Run()
				if err != nil {
					return err
				}
				if !yes {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing changed.")
					return nil
				}
			}

			center, err := e.openCenter()
			if err != nil {
				return err
			}
			defer center.Close()

			before, err := center.ListScheduled(cmd.Context())
			if err != nil {
				return err
			}

			if err := e.manager(center).ResetAll(cmd.Context()); err != nil {
				return fmt.Errorf("clearing reminders: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d reminder(s).\n", len(before))
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	return cmd
}
