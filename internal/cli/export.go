package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/campus-pocket/internal/export"
)

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a stop's timetable to an ICS file",
		Long:  `Write every departure of a stop as a daily recurring calendar event with an alarm at the reminder lead time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			stopName, _ := cmd.Flags().GetString("stop")
			output, _ := cmd.Flags().GetString("output")

			stop, err := parseStop(stopName, e.store.Stops())
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "-" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer file.Close()
				w = file
			}

			err = export.WriteICS(w, e.store.All(), stop, export.Options{Lead: e.cfg.LeadTime()})
			if err != nil {
				return fmt.Errorf("failed to generate ICS: %w", err)
			}

			if output != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported the %s timetable to %s\n", stop, output)
			}
			return nil
		},
	}

	cmd.Flags().StringP("stop", "s", "", "Stop to export (e.g. Library)")
	cmd.Flags().StringP("output", "o", "shuttle.ics", "Output file path, - for stdout")
	cmd.MarkFlagRequired("stop")

	return cmd
}
