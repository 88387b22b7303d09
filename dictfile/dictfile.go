// Package dictfile persists attribute dictionaries as flat text files.
//
// Two independent formats are supported. Write produces a count line followed
// by one `"key" "value"` line per entry, and ReadList reads that format back.
// Read expects a single-line mapping literal such as
//
//	{'FPA_category': 'rain', "FPA_auto_label": "STN1"}
//
// Failures are logged and a safe default is returned; nothing in this package
// returns an I/O error to the caller.
package dictfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/couchcryptid/spotmeta/attrib"
)

// ErrDecode is wrapped by every parse failure.
var ErrDecode = errors.New("decode dictionary")

// Store reads and writes dictionary files, logging failures under the
// program name it was created with.
type Store struct {
	logger  *slog.Logger
	program string
}

// New creates a Store.
func New(logger *slog.Logger, program string) *Store {
	return &Store{logger: logger, program: program}
}

// ListPath derives the output path used by Write: the first 16 characters of
// path, then "list", then everything from character 20 on.
func ListPath(path string) string {
	r := []rune(path)
	head := r
	if len(head) > 16 {
		head = r[:16]
	}
	var tail []rune
	if len(r) > 20 {
		tail = r[20:]
	}
	return string(head) + "list" + string(tail)
}

// Write stores d at ListPath(path). It reports whether the file was written.
func (s *Store) Write(path string, d attrib.Dict) bool {
	out := ListPath(path)

	f, err := os.OpenFile(out, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		s.logger.Error("cannot open dictionary file for writing",
			"program", s.program, "path", out, "error", err)
		return false
	}

	if err := writeList(f, d); err != nil {
		_ = f.Close()
		s.logger.Error("write dictionary file failed",
			"program", s.program, "path", out, "error", err)
		return false
	}
	if err := f.Close(); err != nil {
		s.logger.Error("close dictionary file failed",
			"program", s.program, "path", out, "error", err)
		return false
	}

	s.logger.Debug("dictionary written", "path", out, "entries", len(d))
	return true
}

func writeList(dst io.Writer, d attrib.Dict) error {
	w := bufio.NewWriter(dst)
	fmt.Fprintf(w, "%d\n", len(d))
	for _, k := range sortedKeys(d) {
		fmt.Fprintf(w, "%q %q\n", k, d[k])
	}
	return w.Flush()
}

func sortedKeys(d attrib.Dict) []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Read decodes the mapping literal on the first line of path. Any failure
// yields an empty dictionary.
func (s *Store) Read(path string) attrib.Dict {
	line, err := firstLine(path)
	if err != nil {
		s.logger.Error("cannot open dictionary file for reading",
			"program", s.program, "path", path, "error", err)
		return attrib.Dict{}
	}

	d, err := ParseLiteral(line)
	if err != nil {
		s.logger.Error("cannot decode dictionary file",
			"program", s.program, "path", path, "error", err)
		return attrib.Dict{}
	}
	return d
}

func firstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadList reads a file produced by Write. Entries are returned even when
// the count line disagrees with the number of entries found.
func (s *Store) ReadList(path string) attrib.Dict {
	f, err := os.Open(path)
	if err != nil {
		s.logger.Error("cannot open dictionary file for reading",
			"program", s.program, "path", path, "error", err)
		return attrib.Dict{}
	}
	defer f.Close()

	d, want, err := parseList(bufio.NewScanner(f))
	if err != nil {
		s.logger.Error("cannot decode dictionary file",
			"program", s.program, "path", path, "error", err)
		return attrib.Dict{}
	}
	if want != len(d) {
		s.logger.Warn("dictionary entry count mismatch",
			"program", s.program, "path", path, "declared", want, "found", len(d))
	}
	return d
}

func parseList(sc *bufio.Scanner) (attrib.Dict, int, error) {
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("%w: missing entry count", ErrDecode)
	}
	count, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil || count < 0 {
		return nil, 0, fmt.Errorf("%w: bad entry count %q", ErrDecode, sc.Text())
	}

	d := make(attrib.Dict, count)
	lineNo := 1
	for sc.Scan() {
		lineNo++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		k, v, err := parseEntry(text)
		if err != nil {
			return nil, 0, fmt.Errorf("line %d: %w", lineNo, err)
		}
		d[k] = v
	}
	if err := sc.Err(); err != nil {
		return nil, 0, err
	}
	return d, count, nil
}

// parseEntry splits a `"key" "value"` line as written by Write.
func parseEntry(text string) (string, string, error) {
	kq, err := strconv.QuotedPrefix(text)
	if err != nil || !strings.HasPrefix(kq, `"`) {
		return "", "", fmt.Errorf("%w: bad key in %q", ErrDecode, text)
	}
	rest := strings.TrimLeft(text[len(kq):], " \t")
	vq, err := strconv.QuotedPrefix(rest)
	if err != nil || !strings.HasPrefix(vq, `"`) {
		return "", "", fmt.Errorf("%w: bad value in %q", ErrDecode, text)
	}
	if strings.TrimSpace(rest[len(vq):]) != "" {
		return "", "", fmt.Errorf("%w: trailing text in %q", ErrDecode, text)
	}
	k, _ := strconv.Unquote(kq)
	v, _ := strconv.Unquote(vq)
	return k, v, nil
}
