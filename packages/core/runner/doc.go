// Package runner turns a path into an outcome.
//
// A run has three strictly ordered phases: discover and load every
// specification file, parse every blob into a parser.Group, then decide.
// Nothing is reported until all parsing has succeeded, and a single
// malformed file aborts the run.
//
// Decide is a pure function over the parsed groups. Translating its
// Outcome into a process exit status is left to the CLI.
package runner
