package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/abdul-hamid-achik/tickspec/packages/core/config"
	"github.com/abdul-hamid-achik/tickspec/packages/core/runner"
	"github.com/abdul-hamid-achik/tickspec/packages/logging"
	"github.com/abdul-hamid-achik/tickspec/packages/output"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// app holds the state shared by every command of one invocation.
type app struct {
	configPath string
	noColor    bool
	verbose    bool

	cfg    *config.Config
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "tickspec <path>",
		Short: "Plain text specifications with inline verdicts.",
		Long: `tickspec reads specification files, prints every assertion they
declare and exits non-zero if any of them is false.

A specification file is a title paragraph, a blank line, and assertion
lines of the form

  |- true Adding one and one gives two.

<path> is either a single file or a directory searched recursively for
files named like *.spec.*.`,
		Args:          exactArgs(1),
		PreRunE:       a.setup,
		RunE:          a.runCommand,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file (env: TICKSPEC_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output (env: TICKSPEC_NO_COLOR, NO_COLOR)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Show file paths, unrecognised tokens and timing (env: TICKSPEC_VERBOSE)")

	rootCmd.AddCommand(a.newRunCmd())
	rootCmd.AddCommand(a.newValidateCmd())
	rootCmd.AddCommand(a.newListCmd())
	rootCmd.AddCommand(a.newWatchCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func Execute(v, bt string) {
	version = v
	buildTime = bt

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errAssertionsFailed) {
		output.NewConsoleReporter(output.WithWriter(stderr), output.WithNoColor(noColorFromEnv())).Error(err)
	}
	return exitCodeFor(err)
}

// setup resolves configuration in order: file, environment, flags.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path := a.configPath
	if path == "" {
		path = getEnvString("TICKSPEC_CONFIG", "")
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return &exitError{code: ExitConfigError, err: fmt.Errorf("cannot load config: %w", err)}
	}
	cfg = cfg.Merge(envOverrides())

	flags := &config.Config{}
	if cmd.Flags().Changed("no-color") {
		flags.NoColor = config.BoolPtr(a.noColor)
	}
	if cmd.Flags().Changed("verbose") {
		flags.Verbose = config.BoolPtr(a.verbose)
	}
	cfg = cfg.Merge(flags)

	if _, err := cfg.JoinMode(); err != nil {
		return &exitError{code: ExitConfigError, err: err}
	}
	a.cfg = cfg

	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(cfg.LogLevel)
	if cfg.LogFormat != "" {
		lc.Format = cfg.LogFormat
	}
	lc.Output = a.stderr
	logging.Init(lc)

	slog.Debug("resolved config", "path", cfg.Path, "defaults", cfg.IsDefault())

	return nil
}

func (a *app) newRunner() *runner.Runner {
	join, _ := a.cfg.JoinMode()
	return runner.NewRunner(&runner.Config{
		Pattern:     a.cfg.Pattern,
		Join:        join,
		Concurrency: a.cfg.Concurrency,
	})
}

func (a *app) reporter(w io.Writer) *output.ConsoleReporter {
	return output.NewConsoleReporter(
		output.WithWriter(w),
		output.WithNoColor(a.cfg.GetNoColor()),
		output.WithVerbose(a.cfg.GetVerbose()),
	)
}

func envOverrides() *config.Config {
	o := &config.Config{
		LogLevel:  getEnvString("TICKSPEC_LOG_LEVEL", ""),
		LogFormat: getEnvString("TICKSPEC_LOG_FORMAT", ""),
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TICKSPEC_NO_COLOR") != "" {
		o.NoColor = config.BoolPtr(noColorFromEnv())
	}
	if os.Getenv("TICKSPEC_VERBOSE") != "" {
		o.Verbose = config.BoolPtr(getEnvBool("TICKSPEC_VERBOSE", false))
	}
	return o
}

func noColorFromEnv() bool {
	return os.Getenv("NO_COLOR") != "" || getEnvBool("TICKSPEC_NO_COLOR", false)
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return val == "yes"
		}
		return b
	}
	return defaultVal
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}
