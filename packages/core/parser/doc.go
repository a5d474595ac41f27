// Package parser extracts assertion groups from specification blobs.
//
// A blob is a title paragraph, a blank line, optional prose, and one or
// more assertion runs:
//
//	Adding numbers
//
//	Sums small integers.
//	  |- true Adding one and one gives two.
//	  |- false Adding two and two
//	   gives five.
//
// Each run starts with the "|-" marker at the beginning of a line, carries
// a truth token ("true" or "false") and a description terminated by the
// first period. Any other token is kept verbatim and counts as failing.
//
// Wrapped descriptions are folded according to a JoinMode. JoinAll is the
// default; JoinFirst reproduces the older behaviour of folding only the
// first continuation. A blob may select its mode with an "@join first" or
// "@join all" line in its body. Lines that only start with "@join" are prose.
//
// A run that reaches the end of the blob without a period is malformed, even
// when earlier runs were complete.
//
// Runs are found by a small state machine (SeekMarker, ReadToken,
// ReadDescription, AwaitTerminator) rather than a regular expression.
package parser
