package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/slots/internal/render"
	"github.com/mesh-intelligence/slots/pkg/types"
)

func newHistoryCmd(a *app) *cobra.Command {
	var filter types.RunFilter

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List journaled runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := filter.Validate(); err != nil {
				return userError(err)
			}

			j, err := a.openJournal()
			if err != nil {
				return err
			}
			defer j.Detach()

			runs, err := j.ListRuns(filter)
			if err != nil {
				return sysError(fmt.Errorf("list runs: %w", err))
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return render.JSON(out, runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs recorded")
				return nil
			}
			return render.RunsTable(out, runs)
		},
	}

	cmd.Flags().StringVar(&filter.Source, "source", "", "only runs from this source (selftest or script)")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "maximum number of runs (0 for all)")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var tree bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a journaled run and its events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := a.openJournal()
			if err != nil {
				return err
			}
			defer j.Detach()

			run, err := j.GetRun(args[0])
			if err != nil {
				return journalError(err, args[0])
			}

			out := cmd.OutOrStdout()
			switch {
			case a.flags.jsonMode:
				return render.JSON(out, run)
			case tree:
				return render.RunTree(out, run)
			default:
				fmt.Fprintf(out, "run %s (%s %s)\n", run.RunID, run.Source, run.Name)
				return render.EventsTable(out, run)
			}
		},
	}

	cmd.Flags().BoolVar(&tree, "tree", false, "print the run as a tree")
	return cmd
}

func newForgetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "forget <run-id>",
		Short: "Delete a journaled run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := a.openJournal()
			if err != nil {
				return err
			}
			defer j.Detach()

			if err := j.DeleteRun(args[0]); err != nil {
				return journalError(err, args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted run %s\n", args[0])
			return nil
		},
	}
}

// journalError classifies a journal lookup failure: unknown IDs are user
// errors, everything else is a system error.
func journalError(err error, id string) error {
	if errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrInvalidID) {
		return userError(fmt.Errorf("run %q: %w", id, err))
	}
	return sysError(err)
}
