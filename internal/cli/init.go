package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize slots configuration and journal storage",
		Long:  "Create the configuration directory with a default config.yaml, then create the journal data directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// setup already created the config directory and config.yaml.
			j, err := a.openJournal()
			if err != nil {
				return err
			}
			if err := j.Detach(); err != nil {
				return sysError(fmt.Errorf("finalize journal: %w", err))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "slots initialized")
			fmt.Fprintf(out, "config: %s\n", a.configDir)
			fmt.Fprintf(out, "data:   %s\n", a.config.DataDir)
			return nil
		},
	}
}
