package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/campus-pocket/internal/timeutil"
)

func newTimetableCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timetable",
		Short: "Print the full timetable of a stop",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			stopName, _ := cmd.Flags().GetString("stop")
			stop, err := parseStop(stopName, e.store.Stops())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n\n", title(fmt.Sprintf("%s timetable", stop)))
			fmt.Fprintf(out, "%-10s %-10s\n", "AM", "PM")
			for _, r := range e.store.Rows(stop) {
				fmt.Fprintf(out, "%-10s %-10s\n", twelveHour(r.AM), twelveHour(r.PM))
			}
			return nil
		},
	}

	cmd.Flags().StringP("stop", "s", "", "Stop to print (e.g. Library)")
	cmd.MarkFlagRequired("stop")

	return cmd
}

func twelveHour(hhmm string) string {
	if hhmm == "" {
		return ""
	}
	s, err := timeutil.FormatTwelveHour(hhmm)
	if err != nil {
		return hhmm
	}
	return s
}
