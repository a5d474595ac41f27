package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/tickspec/packages/core/config"
	"github.com/spf13/cobra"
)

const exampleSpec = `Arithmetic basics

Each line below starting with "|-" is an assertion. The word after the
marker is its verdict and the text up to the first period describes it.

  |- true Adding one and one gives two.
  |- true Multiplying by zero gives zero.
  |- false Dividing by zero
   gives infinity.
`

func newInitCmd() *cobra.Command {
	var force bool

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new tickspec project",
		Long: `Initialize a new tickspec project in the current directory.

This creates:
  - .tickspec.yaml      - Configuration file
  - example.spec.txt    - Example specification

Examples:
  tickspec init
  tickspec init --force`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			return initProject(cmd, cwd, force)
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing files")

	return initCmd
}

func initProject(cmd *cobra.Command, dir string, force bool) error {
	configFile := filepath.Join(dir, config.ConfigFilenames[0])
	exampleFile := filepath.Join(dir, "example.spec.txt")

	if !force {
		for _, f := range []string{configFile, exampleFile} {
			if _, err := os.Stat(f); err == nil {
				return usageError(fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
			}
		}
	}

	if err := config.DefaultConfig().SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	if err := os.WriteFile(exampleFile, []byte(exampleSpec), 0644); err != nil {
		return fmt.Errorf("failed to create example file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", exampleFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\ntickspec project initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'tickspec example.spec.txt' to see a report.\n")

	return nil
}
