package cmd

import (
	"github.com/spf13/cobra"
)

func (a *app) newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <path>",
		Short: "Report every specification under a path and exit with the verdict",
		Long: `Run parses every specification file under <path>, prints each title
followed by its assertions, and exits 0 only if every assertion is true.

A malformed file aborts the run before anything is printed.

Examples:
  tickspec run math.spec.txt
  tickspec run ./specs/`,
		Args:    exactArgs(1),
		PreRunE: a.setup,
		RunE:    a.runCommand,
	}
}

func (a *app) runCommand(cmd *cobra.Command, args []string) error {
	result, err := a.newRunner().Run(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	r := a.reporter(cmd.OutOrStdout())
	r.Report(result.Groups)
	r.Summary(result.Summary, result.Duration)

	if !result.Outcome.OK() {
		return errAssertionsFailed
	}
	return nil
}
