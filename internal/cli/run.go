package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/slots/internal/render"
	"github.com/mesh-intelligence/slots/internal/script"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		capacity    int
		stopOnError bool
		tree        bool
	)

	cmd := &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Run an operation script against a new list",
		Long: `Run the operations in a YAML script against a new list and print the
size and capacity around each one. Example script:

  capacity: 2
  ops:
    - insert: a
    - insert: b
    - insert: c
    - get: 2
    - remove: 0
    - size

A script without "capacity" uses --capacity, or initial_capacity from config.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := script.Load(args[0])
			if err != nil {
				return userError(err)
			}
			if stopOnError {
				s.StopOnError = true
			}

			defaultCapacity := a.config.InitialCapacity
			if cmd.Flags().Changed("capacity") {
				defaultCapacity = capacity
			}

			run, err := script.NewRunner(a.logger).Run(s, filepath.Base(args[0]), defaultCapacity)
			if err != nil {
				return userError(err)
			}

			id, err := a.record(run)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case a.flags.jsonMode:
				err = render.JSON(out, run)
			case tree:
				err = render.RunTree(out, run)
			default:
				err = render.EventsTable(out, run)
			}
			if err != nil {
				return sysError(err)
			}
			if id != "" && !a.flags.jsonMode {
				fmt.Fprintf(out, "recorded run %s\n", id)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&capacity, "capacity", 0, "initial capacity when the script does not set one")
	cmd.Flags().BoolVar(&stopOnError, "stop-on-error", false, "stop at the first failing operation")
	cmd.Flags().BoolVar(&tree, "tree", false, "print the run as a tree")
	return cmd
}
