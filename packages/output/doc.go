// Package output renders parsed specifications to a terminal.
//
// ConsoleReporter prints each group's title as a heading followed by one
// line per assertion, in the order they were parsed. It has no say in the
// pass/fail decision.
package output
