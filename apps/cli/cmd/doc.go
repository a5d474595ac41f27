// Package cmd implements the tickspec CLI commands using Cobra.
//
// Available commands:
//   - run: Report and decide every specification under a path (also the root command)
//   - validate: Check specification syntax without deciding
//   - list: Show titles and assertion descriptions
//   - watch: Re-run on every change to a specification file
//   - init: Create an example specification and config file
//   - version: Show tickspec version information
//
// Exit codes are defined in exitcodes.go; exitCodeFor is the only place
// where a run's outcome becomes a process status.
package cmd
