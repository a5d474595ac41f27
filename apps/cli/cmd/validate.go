package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/tickspec/packages/core/loader"
	"github.com/abdul-hamid-achik/tickspec/packages/core/parser"
	"github.com/spf13/cobra"
)

func (a *app) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <path>",
		Short: "Validate specification files for syntax errors",
		Long: `Validate specification files for syntax errors without deciding them.
Every file is checked, so all malformed files are listed at once.

Examples:
  tickspec validate math.spec.txt
  tickspec validate ./specs/`,
		Args:    exactArgs(1),
		PreRunE: a.setup,
		RunE:    a.validateCommand,
	}
}

func (a *app) validateCommand(cmd *cobra.Command, args []string) error {
	files, err := loader.Discover(args[0], a.cfg.Pattern)
	if err != nil {
		return err
	}
	join, _ := a.cfg.JoinMode()

	invalid := 0
	for _, file := range files {
		group, err := parser.ParseFile(file, parser.WithJoinMode(join))
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %v\n", err)
			invalid++
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s (%d assertions)\n", file, len(group.Assertions))
	}

	if invalid > 0 {
		return fmt.Errorf("%w: %d of %d files failed validation", parser.ErrMalformedSpecification, invalid, len(files))
	}
	return nil
}
