package dcpu

// operandKind identifies what an operand handle refers to once an
// instruction's A or B field has been decoded. Unlike a raw pointer into
// memory, a handle can name a pseudo-register (SP/PC/EX) or a read-only
// literal without aliasing a real memory cell.
type operandKind int

const (
	kindRegister operandKind = iota
	kindMemory
	kindSP
	kindPC
	kindEX
	kindLiteral
)

// operand is a resolved A or B field: where to read from and, if
// writable, where to write back to. Literal-kind operands silently
// discard writes, matching the ISA's "writes to literal forms are
// dropped" rule.
type operand struct {
	kind    operandKind
	reg     int
	addr    uint16
	literal uint16
}

// fetchWord reads the word at PC, advances PC, and charges one cycle —
// every instruction and every operand that consumes a trailing word goes
// through this, so cycle accounting falls out of the decode path instead
// of being tallied separately.
func (c *CPU) fetchWord() uint16 {
	w := c.mem[c.pc]
	c.pc++
	c.cycles++
	return w
}

// resolveOperand decodes a 5- or 6-bit operand field into an operand
// handle, consuming a trailing memory word and/or adjusting SP as the
// addressing code requires. isA distinguishes PUSH from POP on the
// shared 0x18 code: POP when read as the A field, PUSH when read as B.
func (c *CPU) resolveOperand(code uint16, isA bool) operand {
	switch {
	case code <= 0x07:
		return operand{kind: kindRegister, reg: int(code)}
	case code < AddrPushPop: // 0x08-0x17
		if code < AddrNextRegLookup { // 0x08-0x0f: [register]
			return operand{kind: kindMemory, addr: c.reg[code-AddrRegLookup]}
		}
		// 0x10-0x17: [nextword + register]
		off := c.fetchWord()
		return operand{kind: kindMemory, addr: off + c.reg[code-AddrNextRegLookup]}
	case code == AddrPushPop:
		// PUSH/POP consume no trailing word, but the ISA still prices
		// the stack touch itself at +1 cycle.
		c.cycles++
		if isA {
			addr := c.sp
			c.sp++
			return operand{kind: kindMemory, addr: addr}
		}
		c.sp--
		return operand{kind: kindMemory, addr: c.sp}
	case code == AddrPeek:
		return operand{kind: kindMemory, addr: c.sp}
	case code == AddrPick:
		off := c.fetchWord()
		return operand{kind: kindMemory, addr: c.sp + off}
	case code == AddrSP:
		return operand{kind: kindSP}
	case code == AddrPC:
		return operand{kind: kindPC}
	case code == AddrEX:
		return operand{kind: kindEX}
	case code == AddrNextLookup:
		addr := c.fetchWord()
		return operand{kind: kindMemory, addr: addr}
	case code == AddrNext:
		return operand{kind: kindLiteral, literal: c.fetchWord()}
	default: // 0x20-0x3f, A-field only: literals -1..30
		return operand{kind: kindLiteral, literal: code - AddrLiteral - 1}
	}
}

// read returns the current value an operand handle refers to.
func (c *CPU) read(o operand) uint16 {
	switch o.kind {
	case kindRegister:
		return c.reg[o.reg]
	case kindMemory:
		return c.mem[o.addr]
	case kindSP:
		return c.sp
	case kindPC:
		return c.pc
	case kindEX:
		return c.ex
	default: // kindLiteral
		return o.literal
	}
}

// write stores v through an operand handle. Writes to a literal handle
// are silently discarded, per the ISA's defined behavior for the
// next-word-as-literal B form.
func (c *CPU) write(o operand, v uint16) {
	switch o.kind {
	case kindRegister:
		c.reg[o.reg] = v
	case kindMemory:
		c.mem[o.addr] = v
	case kindSP:
		c.sp = v
	case kindPC:
		c.pc = v
	case kindEX:
		c.ex = v
	}
}
