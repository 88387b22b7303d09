package dictfile

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/couchcryptid/spotmeta/attrib"
)

// ParseLiteral decodes a mapping literal of quoted strings:
//
//	{ "key": "value", 'other': 'value', }
//
// Strings may use single or double quotes and the escapes \\ \' \" \n \t \r.
// Nothing else (numbers, nesting, expressions) is accepted. Duplicate keys
// keep the last value.
func ParseLiteral(s string) (attrib.Dict, error) {
	p := &parser{src: s}
	d := attrib.Dict{}

	p.skipSpace()
	if !p.consume('{') {
		return nil, p.errorf("expected '{'")
	}
	for {
		p.skipSpace()
		if p.consume('}') {
			break
		}
		k, err := p.quoted()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.consume(':') {
			return nil, p.errorf("expected ':'")
		}
		p.skipSpace()
		v, err := p.quoted()
		if err != nil {
			return nil, err
		}
		d[k] = v

		p.skipSpace()
		if p.consume(',') {
			continue
		}
		if p.consume('}') {
			break
		}
		return nil, p.errorf("expected ',' or '}'")
	}
	p.skipSpace()
	if !p.done() {
		return nil, p.errorf("trailing text")
	}
	return d, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) done() bool { return p.pos >= len(p.src) }

func (p *parser) skipSpace() {
	for !p.done() {
		switch p.src[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) consume(c byte) bool {
	if !p.done() && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) quoted() (string, error) {
	if p.done() {
		return "", p.errorf("expected string")
	}
	q := p.src[p.pos]
	if q != '\'' && q != '"' {
		return "", p.errorf("expected string")
	}
	p.pos++

	var b strings.Builder
	for !p.done() {
		c := p.src[p.pos]
		switch {
		case c == q:
			p.pos++
			return b.String(), nil
		case c == '\\':
			p.pos++
			if p.done() {
				return "", p.errorf("unterminated escape")
			}
			switch e := p.src[p.pos]; e {
			case '\\', '\'', '"':
				b.WriteByte(e)
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				return "", p.errorf("unsupported escape \\%c", e)
			}
			p.pos++
		default:
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			b.WriteRune(r)
			p.pos += size
		}
	}
	return "", p.errorf("unterminated string")
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d", ErrDecode, fmt.Sprintf(format, args...), p.pos)
}
