// Package asm implements the two-pass DCPU-16 assembler: a line-oriented
// preprocessor for #include/#define, then a tokenizer and two-pass
// codegen that resolves labels and picks the shortest operand encoding.
package asm

// ParserStream is a position-tracked cursor over source text. It reports
// the row and column of the cursor (the next character to be read), so
// parse errors can point at an exact source location.
type ParserStream struct {
	src []byte
	pos int
	row int
	col int
}

// NewParserStream wraps src for row/column-tracked reading, starting at
// row 1, column 1.
func NewParserStream(src []byte) *ParserStream {
	return &ParserStream{src: src, row: 1, col: 1}
}

// Get returns the next byte and advances the cursor, or ok=false at end
// of input. Row/column bookkeeping treats "\n" and a lone "\r" as line
// boundaries; "\r\n" counts as a single boundary.
func (p *ParserStream) Get() (b byte, ok bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	b = p.src[p.pos]
	p.pos++

	switch b {
	case '\n':
		p.row++
		p.col = 1
	case '\r':
		if p.pos < len(p.src) && p.src[p.pos] == '\n' {
			// consumed as part of the following '\n'
		} else {
			p.row++
			p.col = 1
		}
	default:
		p.col++
	}
	return b, true
}

// Peek returns the next byte without advancing, or ok=false at end of
// input.
func (p *ParserStream) Peek() (b byte, ok bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

// Row and Col report the current cursor position (1-based), for error
// messages.
func (p *ParserStream) Row() int { return p.row }
func (p *ParserStream) Col() int { return p.col }

// Pos returns the raw byte offset into the source, used for slicing out
// a raw run of text (e.g. the preprocessor's pass-through regions).
func (p *ParserStream) Pos() int { return p.pos }

// SetPos rewinds or fast-forwards the cursor to a previously observed
// offset, without touching row/col (callers that do this only use it to
// re-read already-scanned text, not to resume tracked parsing).
func (p *ParserStream) SetPos(pos int) { p.pos = pos }

// Slice returns the raw bytes between two byte offsets.
func (p *ParserStream) Slice(start, end int) []byte {
	if end < 0 {
		end = len(p.src)
	}
	return p.src[start:end]
}

// AtEnd reports whether the cursor has reached the end of input.
func (p *ParserStream) AtEnd() bool {
	return p.pos >= len(p.src)
}
