package dcpu

// basicOpExtra (and extOpExtra below) holds, per opcode, the cycle cost beyond the one already
// charged for fetching the instruction word and any trailing words its
// operands consumed — i.e. each table entry is (published base cost - 1).
var basicOpExtra = map[uint16]uint64{
	OpSET: 0,
	OpADD: 1, OpSUB: 1, OpMUL: 1, OpMLI: 1,
	OpDIV: 2, OpDVI: 2, OpMOD: 2, OpMDI: 2,
	OpAND: 0, OpBOR: 0, OpXOR: 0, OpSHL: 0, OpASR: 0, OpSHR: 0,
	OpIFB: 1, OpIFC: 1, OpIFE: 1, OpIFN: 1, OpIFG: 1, OpIFA: 1, OpIFL: 1, OpIFU: 1,
	OpADX: 2, OpSBX: 2,
	OpSTI: 1, OpSTD: 1,
}

var extOpExtra = map[uint16]uint64{
	ExtJSR: 2,
	ExtINT: 3,
	ExtIAG: 0, ExtIAS: 0,
	ExtRFI: 2,
	ExtIAQ: 1,
	ExtHWN: 1, ExtHWQ: 3, ExtHWI: 3,
}

func isBranchOp(opcode uint16) bool {
	return opcode >= OpIFB && opcode <= OpIFU
}

// Step executes exactly one instruction, or consumes one cycle of a
// pending Halt, or does nothing at all if the CPU has caught a fatal
// decode error. The CPU's mutex is held for the entire instruction so an
// observer on another goroutine never sees a partially-executed step.
func (c *CPU) Step() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step()
}

func (c *CPU) step() {
	if c.broken {
		return
	}
	if c.haltCycles > 0 {
		c.haltCycles--
		c.cycles++
		return
	}

	if !c.queueing {
		if msg, ok := c.dequeueInterrupt(); ok {
			c.pushStack(c.pc)
			c.pushStack(c.reg[A])
			c.pc = c.ia
			c.reg[A] = msg
			c.queueing = true
		}
	}

	word := c.fetchWord()
	opcode := word & 0x1f

	if opcode == OpExtended {
		c.extendedOp((word >> 5) & 0x1f, (word >> 10) & 0x3f)
	} else {
		c.basicOp(opcode, (word>>5)&0x1f, (word>>10)&0x3f)
	}

	c.steps++
}

func (c *CPU) basicOp(opcode, bField, aField uint16) {
	// A resolves before B: both the evaluation order and any side
	// effects (PUSH/POP's SP change, a trailing literal word) happen in
	// that sequence regardless of which field ends up read first below.
	aOp := c.resolveOperand(aField, true)
	bOp := c.resolveOperand(bField, false)

	if bOp.kind == kindLiteral && !isBranchOp(opcode) {
		// Writing through a literal B is defined as a no-op for every
		// opcode except the IF family, which never writes B anyway.
		c.cycles += basicOpExtra[opcode]
		return
	}

	a := c.read(aOp)
	b := c.read(bOp)

	switch opcode {
	case OpSET:
		c.write(bOp, a)
	case OpADD:
		r := uint32(b) + uint32(a)
		c.write(bOp, uint16(r))
		c.ex = boolWord(r > 0xffff)
	case OpSUB:
		r := int32(b) - int32(a)
		c.write(bOp, uint16(r))
		if r < 0 {
			c.ex = 0xffff
		} else {
			c.ex = 0
		}
	case OpMUL:
		r := uint32(b) * uint32(a)
		c.write(bOp, uint16(r))
		c.ex = uint16(r >> 16)
	case OpMLI:
		r := int32(int16(b)) * int32(int16(a))
		c.write(bOp, uint16(r))
		c.ex = uint16(uint32(r) >> 16)
	case OpDIV:
		if a == 0 {
			c.write(bOp, 0)
			c.ex = 0
		} else {
			c.write(bOp, b/a)
			c.ex = uint16((uint32(b) << 16) / uint32(a))
		}
	case OpDVI:
		if int16(a) == 0 {
			c.write(bOp, 0)
			c.ex = 0
		} else {
			c.write(bOp, uint16(int16(b)/int16(a)))
			c.ex = uint16((int32(int16(b)) << 16) / int32(int16(a)))
		}
	case OpMOD:
		if a == 0 {
			c.write(bOp, 0)
		} else {
			c.write(bOp, b%a)
		}
	case OpMDI:
		if int16(a) == 0 {
			c.write(bOp, 0)
		} else {
			c.write(bOp, uint16(int16(b)%int16(a)))
		}
	case OpAND:
		c.write(bOp, b&a)
	case OpBOR:
		c.write(bOp, b|a)
	case OpXOR:
		c.write(bOp, b^a)
	case OpSHL:
		r := uint32(b) << uint32(a)
		c.write(bOp, uint16(r))
		c.ex = uint16(r >> 16)
	case OpASR:
		bs := int32(int16(b))
		r := bs >> uint32(a)
		c.write(bOp, uint16(r))
		c.ex = uint16((bs << 16) >> uint32(a))
	case OpSHR:
		r := uint32(b) >> uint32(a)
		c.write(bOp, uint16(r))
		c.ex = uint16((uint32(b) << 16) >> uint32(a))
	case OpIFB:
		if b&a == 0 {
			c.skipInstruction()
		}
	case OpIFC:
		if b&a != 0 {
			c.skipInstruction()
		}
	case OpIFE:
		if b != a {
			c.skipInstruction()
		}
	case OpIFN:
		if b == a {
			c.skipInstruction()
		}
	case OpIFG:
		if !(b > a) {
			c.skipInstruction()
		}
	case OpIFA:
		if !(int16(b) > int16(a)) {
			c.skipInstruction()
		}
	case OpIFL:
		if !(b < a) {
			c.skipInstruction()
		}
	case OpIFU:
		if !(int16(b) < int16(a)) {
			c.skipInstruction()
		}
	case OpADX:
		r := uint32(b) + uint32(a) + uint32(c.ex)
		c.write(bOp, uint16(r))
		c.ex = boolWord(r > 0xffff)
	case OpSBX:
		r := int64(b) - int64(a) + int64(int16(c.ex))
		c.write(bOp, uint16(r))
		if r < 0 {
			c.ex = 0xffff
		} else if r > 0xffff {
			c.ex = 1
		} else {
			c.ex = 0
		}
	case OpSTI:
		c.write(bOp, a)
		c.reg[I]++
		c.reg[J]++
	case OpSTD:
		c.write(bOp, a)
		c.reg[I]--
		c.reg[J]--
	default:
		// 0x18, 0x19, 0x1c, 0x1d: reserved, never assigned by the
		// assembler's opcode table.
		c.setBroken()
		return
	}

	c.cycles += basicOpExtra[opcode]
}

func (c *CPU) extendedOp(exOpcode, aField uint16) {
	aOp := c.resolveOperand(aField, true)

	extra, known := extOpExtra[exOpcode]
	if !known {
		c.setBroken()
		return
	}

	switch exOpcode {
	case ExtJSR:
		target := c.read(aOp)
		c.pushStack(c.pc)
		c.pc = target
	case ExtINT:
		c.Interrupt(c.read(aOp))
	case ExtIAG:
		c.write(aOp, c.ia)
	case ExtIAS:
		c.ia = c.read(aOp)
	case ExtRFI:
		c.queueing = false
		c.reg[A] = c.popStack()
		c.pc = c.popStack()
	case ExtIAQ:
		c.queueing = c.read(aOp) != 0
	case ExtHWN:
		c.write(aOp, c.hwn())
	case ExtHWQ:
		a, b, cc, x, y := c.hwq(c.read(aOp))
		c.reg[A], c.reg[B], c.reg[C], c.reg[X], c.reg[Y] = a, b, cc, x, y
	case ExtHWI:
		c.hwi(c.read(aOp))
	}

	c.cycles += extra
}

// skipInstruction advances PC past one instruction without executing it,
// charging one cycle. If that instruction was itself an IF, the skip
// chains into the instruction after it, charging one more cycle per hop,
// until a non-branching instruction is skipped.
func (c *CPU) skipInstruction() {
	for {
		c.cycles++
		word := c.mem[c.pc]
		c.pc++
		opcode := word & 0x1f

		if opcode == OpExtended {
			c.skipOperandWord((word >> 10) & 0x3f)
			return
		}

		c.skipOperandWord((word >> 10) & 0x3f) // A field
		c.skipOperandWord((word >> 5) & 0x1f)  // B field

		if !isBranchOp(opcode) {
			return
		}
	}
}

// skipOperandWord advances PC past an operand's trailing word, if the
// addressing code it names consumes one, without reading or charging for
// it — the skip-chain's +1-per-instruction cost already covers this.
func (c *CPU) skipOperandWord(code uint16) {
	switch {
	case code >= AddrNextRegLookup && code < AddrPushPop:
		c.pc++
	case code == AddrPick, code == AddrNextLookup, code == AddrNext:
		c.pc++
	}
}

func boolWord(v bool) uint16 {
	if v {
		return 1
	}
	return 0
}
