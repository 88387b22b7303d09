// Package metafile writes scattered-field FPA metafiles from point records.
//
// The layout follows the MSRB metafile standard as the FPA metafile reader
// expects it: comment lines start with '*', commands are indented by one
// space and attribute lines by three. Downstream tools compare output
// byte-for-byte, so the line order here is fixed.
package metafile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/spotmeta/attrib"
	"github.com/couchcryptid/spotmeta/internal/record"
)

// Defaults for the class and category when the caller does not name them.
const (
	DefaultClass    = "plot"
	DefaultCategory = "none"
)

// HeaderLines and FooterLines are the fixed line counts of the envelope.
const (
	HeaderLines = 10
	FooterLines = 2
)

const headerTemplate = `* MSRB Metafile Standard
 rev 3.0
*
 projection plate_caree
 mapdef -90 -180 0 0 0 360 180 1
 units latlon
*
`

const fieldTemplate = "* Field: %s\n field scattered %s geography\n*\n"

const footer = "*\n* End\n"

// Options configures the document.
type Options struct {
	Field    string // field name declared in the header
	Class    string // spot class, quoted on every spot line
	Category string // value of FPA_category in every block
}

// Writer streams a metafile to an underlying writer. The first write error
// is kept and returned by every later call.
type Writer struct {
	w    *bufio.Writer
	opts Options
	err  error
}

// NewWriter creates a Writer. Nothing is written until WriteHeader.
func NewWriter(w io.Writer, opts Options) *Writer {
	return &Writer{w: bufio.NewWriter(w), opts: opts}
}

// Options returns the options the Writer was created with.
func (mw *Writer) Options() Options {
	return mw.opts
}

// WriteHeader writes the ten header lines.
func (mw *Writer) WriteHeader() error {
	mw.printf("%s", headerTemplate)
	mw.printf(fieldTemplate, mw.opts.Field, mw.opts.Field)
	return mw.err
}

// WriteRecord writes one value/spot block for r.
func (mw *Writer) WriteRecord(r record.Record) error {
	mw.printf(" value %d\n", r.CoreCount())
	mw.attr(attrib.Category, quote(mw.opts.Category))
	mw.attr(attrib.AutoLabel, quote(r.Label))
	mw.attr(attrib.Timestamp, quote(r.Timestamp))
	if r.HasUserLabel() {
		mw.attr(attrib.UserLabel, UserLabelValue(r.JoinedUserLabel()))
	}
	mw.printf(" spot %s %s %s none\n", r.X, r.Y, quote(mw.opts.Class))
	return mw.err
}

// WriteFooter writes the closing lines and flushes the underlying writer.
func (mw *Writer) WriteFooter() error {
	mw.printf("%s", footer)
	if mw.err == nil {
		mw.err = mw.w.Flush()
	}
	return mw.err
}

// Flush pushes buffered output to the underlying writer.
func (mw *Writer) Flush() error {
	if mw.err == nil {
		mw.err = mw.w.Flush()
	}
	return mw.err
}

// UserLabelValue returns the text written after FPA_user_label. Text that
// already carries more than one double quote is assumed to be quoted by the
// producer and is written as-is.
func UserLabelValue(label string) string {
	if strings.Count(label, `"`) > 1 {
		return label
	}
	return quote(label)
}

// BlockLines returns the number of lines WriteRecord emits for r.
func BlockLines(r record.Record) int {
	if r.HasUserLabel() {
		return 6
	}
	return 5
}

func (mw *Writer) attr(k attrib.Key, value string) {
	mw.printf("   %s %s\n", k, value)
}

func (mw *Writer) printf(format string, args ...any) {
	if mw.err != nil {
		return
	}
	_, mw.err = fmt.Fprintf(mw.w, format, args...)
}

func quote(s string) string {
	return `"` + s + `"`
}
