package record

import (
	"strings"
	"unicode"
)

// MinFields is the smallest token count that makes a usable record.
const MinFields = 3

// CoreFields is the number of positional fields ahead of the user label.
const CoreFields = 4

// NoTimestamp is the placeholder token for a missing timestamp.
const NoTimestamp = "-"

// Record is one parsed observation line.
type Record struct {
	Label     string
	X         string
	Y         string
	Timestamp string   // empty when absent or given as "-"
	UserLabel []string // tokens after the timestamp, possibly none

	// Fields is the total token count of the line.
	Fields int
}

// CoreCount returns how many of the four core fields the line carried,
// capped at CoreFields however many user label tokens follow.
func (r Record) CoreCount() int {
	return r.Fields - max(r.Fields-CoreFields, 0)
}

// HasUserLabel reports whether the line carried any user label tokens.
func (r Record) HasUserLabel() bool {
	return len(r.UserLabel) > 0
}

// JoinedUserLabel returns the user label tokens joined by single spaces.
func (r Record) JoinedUserLabel() string {
	return strings.Join(r.UserLabel, " ")
}

// StripComments removes '#' and then '!' comments and trailing whitespace.
func StripComments(line string) string {
	line = trimRight(line)
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = trimRight(line[:i])
	}
	if i := strings.IndexByte(line, '!'); i >= 0 {
		line = trimRight(line[:i])
	}
	return line
}

// Fields strips comments from line and splits it on whitespace.
func Fields(line string) []string {
	return strings.Fields(StripComments(line))
}

// Parse builds a Record from a raw input line. It returns false for lines
// with fewer than MinFields tokens.
func Parse(line string) (Record, bool) {
	tokens := Fields(line)
	if len(tokens) < MinFields {
		return Record{}, false
	}

	r := Record{
		Label:  tokens[0],
		X:      tokens[1],
		Y:      tokens[2],
		Fields: len(tokens),
	}
	if len(tokens) > 3 && tokens[3] != NoTimestamp {
		r.Timestamp = tokens[3]
	}
	if len(tokens) > CoreFields {
		r.UserLabel = tokens[CoreFields:]
	}
	return r, true
}

func trimRight(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
