// Package cli is the campuspocket command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/campus-pocket/internal/model"
)

// NewRootCommand builds the campuspocket command tree. Running it
// without a subcommand starts the TUI.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "campuspocket",
		Short: "Campus shuttle departures and reminders",
		Long: `campuspocket shows the next campus shuttle departures with live
countdowns and reminds you three minutes before the bus leaves.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd)
		},
	}

	root.PersistentFlags().String("config", model.DefaultConfigPath(), "Path to the config file")

	root.AddCommand(
		newTUICommand(),
		newNextCommand(),
		newTimetableCommand(),
		newPendingCommand(),
		newResetCommand(),
		newExportCommand(),
		newConfigCommand(),
	)

	return root
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
