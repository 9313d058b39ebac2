package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nhle/campus-pocket/internal/model"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if doInit, _ := cmd.Flags().GetBool("init"); doInit {
				if err := model.SaveConfig(path, model.DefaultConfig()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
				return nil
			}

			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(e.cfg)
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", path, out)
			return nil
		},
	}

	cmd.Flags().Bool("init", false, "Write the default configuration file")

	return cmd
}
