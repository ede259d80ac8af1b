package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/slots/internal/render"
	"github.com/mesh-intelligence/slots/internal/selftest"
)

// errSelftestFailed is returned when at least one check fails.
var errSelftestFailed = errors.New("selftest failed")

func newSelftestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Run the contiguous list self-test",
		Long: "Run the reference walkthrough against the list: emptiness, growth on\n" +
			"overflow, indexed reads, remove with shift, and the error cases.\n" +
			"Exits 1 if any check fails.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report := selftest.Run(a.logger)
			out := cmd.OutOrStdout()

			if a.flags.jsonMode {
				if err := render.JSON(out, report); err != nil {
					return sysError(err)
				}
			} else if err := render.ReportTree(out, report); err != nil {
				return sysError(err)
			}

			id, err := a.record(report.ToRun())
			if err != nil {
				return err
			}
			if id != "" && !a.flags.jsonMode {
				fmt.Fprintf(out, "recorded run %s\n", id)
			}

			if !report.Passed() {
				return userError(fmt.Errorf("%w: %d of %d checks", errSelftestFailed,
					len(report.Failed()), len(report.Checks)))
			}
			return nil
		},
	}
}
