package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <path>",
		Short: "List the assertions of every specification",
		Long: `List prints each specification's title and assertion descriptions
without their verdicts.

Examples:
  tickspec list math.spec.txt
  tickspec list ./specs/`,
		Args:    exactArgs(1),
		PreRunE: a.setup,
		RunE:    a.listCommand,
	}
}

func (a *app) listCommand(cmd *cobra.Command, args []string) error {
	groups, err := a.newRunner().Parse(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	for _, g := range groups {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s: %s\n", g.Path, g.Title)
		for _, as := range g.Assertions {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", as.Description)
		}
	}

	return nil
}
