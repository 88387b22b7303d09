// Package record parses point observation lines into records.
//
// # Input Format
//
// One observation per line, whitespace separated:
//
//	<label> <x> <y> [<timestamp>|-] [<user label words>...]
//
// e.g.
//
//	STN1 45.0 -75.0 20230101T0000 Heavy Rain # note
//
// The coordinate and timestamp tokens are passed through verbatim; nothing is
// parsed as a number or validated as a position.
//
// # Comments
//
// Text from the first '#' to the end of the line is dropped, then text from
// the first '!' of what remains. Trailing whitespace is trimmed before and
// after each cut, so stripping is idempotent.
//
// # Short Lines
//
// Lines with fewer than three tokens after comment stripping are incomplete
// and are dropped by [Parse]. That is a filtering rule, not an error.
package record
