package asm

import (
	"fmt"

	"github.com/pkg/errors"
)

// ParseError carries a source location alongside the underlying message,
// so the CLI layer can report "row:col: message" without re-deriving
// position from a bare error string.
type ParseError struct {
	Row, Col int
	Msg      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Row, e.Col, e.Msg)
}

func parseErr(p *ParserStream, format string, args ...interface{}) error {
	return errors.WithStack(&ParseError{Row: p.Row(), Col: p.Col(), Msg: fmt.Sprintf(format, args...)})
}

// isSpaceOrTab matches the narrower whitespace definition the original
// tokenizer uses mid-line (newlines end a line, they don't get skipped
// as ordinary whitespace there).
func isSpaceOrTab(b byte) bool {
	return b == ' ' || b == '\t'
}

// isLineWhiteSpace additionally treats CR/LF as whitespace, for callers
// that want to skip blank lines entirely.
func isLineWhiteSpace(b byte) bool {
	return isSpaceOrTab(b) || b == '\n' || b == '\r'
}

func isLiteralChar(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// skipSpaceOrTab advances past spaces and tabs only.
func skipSpaceOrTab(p *ParserStream) {
	for {
		b, ok := p.Peek()
		if !ok || !isSpaceOrTab(b) {
			return
		}
		p.Get()
	}
}

// skipLineWhiteSpaceAndEmptyLines advances past whitespace and blank
// lines, landing on the first meaningful character (or end of input).
func skipLineWhiteSpaceAndEmptyLines(p *ParserStream) {
	for {
		b, ok := p.Peek()
		if !ok || !isLineWhiteSpace(b) {
			return
		}
		p.Get()
	}
}

// skipToLineEnd advances past the rest of the current line, consuming
// the trailing newline(s).
func skipToLineEnd(p *ParserStream) {
	for {
		b, ok := p.Get()
		if !ok || b == '\n' {
			return
		}
		if b == '\r' {
			if next, ok := p.Peek(); ok && next == '\n' {
				p.Get()
			}
			return
		}
	}
}

// parseName reads a [A-Za-z_][A-Za-z_0-9]* identifier.
func parseName(p *ParserStream, what string) (string, error) {
	b, ok := p.Peek()
	if !ok || !isLiteralChar(b) {
		return "", parseErr(p, "expected %s", what)
	}
	var name []byte
	for {
		b, ok := p.Peek()
		if !ok || !(isLiteralChar(b) || isDigit(b)) {
			break
		}
		p.Get()
		name = append(name, b)
	}
	return string(name), nil
}

// parseString reads characters up to (and consuming) the closing sep
// byte, used for #include "path" and DAT "..." string literals.
func parseString(p *ParserStream, sep byte) (string, error) {
	b, ok := p.Get()
	if !ok || b != sep {
		return "", parseErr(p, "expected %q", sep)
	}
	var s []byte
	for {
		b, ok := p.Get()
		if !ok {
			return "", parseErr(p, "unterminated string")
		}
		if b == sep {
			return string(s), nil
		}
		s = append(s, b)
	}
}

// parseU16 reads a decimal or 0x-prefixed hex integer literal, with the
// same edge cases as the original tokenizer: a leading 0 followed by
// "x"/"X" is hex, a leading 0 followed by another letter is an error,
// and a bare 0 is legal.
func parseU16(p *ParserStream) (uint16, error) {
	first, ok := p.Peek()
	if !ok || !isDigit(first) {
		return 0, parseErr(p, "expected a number")
	}
	if first == '0' {
		p.Get()
		next, ok := p.Peek()
		switch {
		case ok && (next == 'x' || next == 'X'):
			p.Get()
			return parseHexU16(p)
		case ok && isDigit(next):
			return parseDecU16(p, []byte{'0'})
		case ok && isLiteralChar(next):
			return 0, parseErr(p, "unrecognized literal used in numeric")
		default:
			return 0, nil
		}
	}
	return parseDecU16(p, nil)
}

func parseDecU16(p *ParserStream, prefix []byte) (uint16, error) {
	digits := append([]byte{}, prefix...)
	for len(digits) < 5 {
		b, ok := p.Peek()
		if !ok || !isDigit(b) {
			break
		}
		p.Get()
		digits = append(digits, b)
	}
	if len(digits) == 0 {
		return 0, parseErr(p, "expected a number")
	}
	var v uint32
	for _, d := range digits {
		v = v*10 + uint32(d-'0')
	}
	if v > 0xffff {
		return 0, parseErr(p, "decimal literal out of range")
	}
	return uint16(v), nil
}

func hexDigit(b byte) (uint32, bool) {
	switch {
	case b >= '0' && b <= '9':
		return uint32(b - '0'), true
	case b >= 'a' && b <= 'f':
		return uint32(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return uint32(b-'A') + 10, true
	default:
		return 0, false
	}
}

func parseHexU16(p *ParserStream) (uint16, error) {
	var v uint32
	count := 0
	for count < 4 {
		b, ok := p.Peek()
		if !ok {
			break
		}
		d, isHex := hexDigit(b)
		if !isHex {
			break
		}
		p.Get()
		v = v<<4 | d
		count++
	}
	if count == 0 {
		return 0, parseErr(p, "expected a hex number")
	}
	return uint16(v), nil
}
