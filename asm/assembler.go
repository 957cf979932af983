package asm

import (
	"strings"

	"github.com/dcpu16/emulator/dcpu"
)

// maxDataElements bounds a single DAT directive, matching the reference
// assembler's limit.
const maxDataElements = 256

// Assembler turns DCPU-16 assembly source into a memory image, in two
// passes: the first walks the source once, emitting instruction and data
// words and recording every label definition and use; the second patches
// each recorded use with its label's resolved address.
type Assembler struct {
	ram  [dcpu.RAMSize]uint16
	addr uint16

	labels    map[string]uint16
	labelUses map[string][]labelUse
}

// Assemble preprocesses src (expanding #include) and assembles it into a
// memory image truncated to the highest address written.
func Assemble(src []byte, inc Includer) ([]uint16, error) {
	expanded, err := Preprocess(src, inc)
	if err != nil {
		return nil, err
	}
	a := &Assembler{
		labels:    make(map[string]uint16),
		labelUses: make(map[string][]labelUse),
	}
	if err := a.assembleSource(expanded); err != nil {
		return nil, err
	}
	if err := a.resolveLabels(); err != nil {
		return nil, err
	}
	return a.ram[:a.addr], nil
}

func (a *Assembler) assembleSource(src []byte) error {
	p := NewParserStream(src)
	for {
		skipLineWhiteSpaceAndEmptyLines(p)
		if p.AtEnd() {
			return nil
		}

		b, _ := p.Peek()
		switch {
		case b == ';':
			skipToLineEnd(p)
			continue
		case b == ':':
			p.Get()
			if err := a.assembleLabel(p); err != nil {
				return err
			}
			skipToLineEnd(p)
			continue
		}

		if err := a.assembleStatement(p); err != nil {
			return err
		}
		skipToLineEnd(p)
	}
}

// TODO: reject a label name that shadows an opcode or register mnemonic.
func (a *Assembler) assembleLabel(p *ParserStream) error {
	name, err := parseName(p, "label name")
	if err != nil {
		return err
	}
	if _, exists := a.labels[name]; exists {
		return parseErr(p, "label %q defined twice", name)
	}
	a.labels[name] = a.addr
	return nil
}

func (a *Assembler) assembleStatement(p *ParserStream) error {
	opname, err := parseName(p, "opname")
	if err != nil {
		return err
	}
	opname = strings.ToUpper(opname)

	if opcode, ok := basicOpcodes[opname]; ok {
		b, err := a.parseOperand(p)
		if err != nil {
			return err
		}
		skipSpaceOrTab(p)
		ch, ok := p.Get()
		if !ok || ch != ',' {
			return parseErr(p, "expected ',' after operand")
		}
		aOp, err := a.parseOperand(p)
		if err != nil {
			return err
		}
		return a.assembleBasicOp(p, opcode, b, aOp)
	}

	if opcode, ok := extendedOpcodes[opname]; ok {
		var aOp operand
		if opname != "RFI" { // RFI's argument has no effect
			aOp, err = a.parseOperand(p)
			if err != nil {
				return err
			}
		}
		return a.assembleExtendedOp(p, opcode, aOp)
	}

	if opname == "DAT" {
		return a.assembleData(p)
	}

	return parseErr(p, "unrecognized command %q", opname)
}

// parseOperand parses one full operand, including an optional "[...]"
// lookup and its "+register"/"+value" offset form.
func (a *Assembler) parseOperand(p *ParserStream) (operand, error) {
	skipSpaceOrTab(p)
	b, ok := p.Peek()
	if !ok {
		return operand{}, parseErr(p, "expected an operand")
	}

	if b != '[' {
		return a.parseOperandNoLookup(p)
	}

	p.Get()
	skipSpaceOrTab(p)
	op, err := a.parseOperandNoLookup(p)
	if err != nil {
		return operand{}, err
	}
	op.lookup = true

	skipSpaceOrTab(p)
	b, ok = p.Peek()
	if !ok {
		return operand{}, parseErr(p, "unterminated '['")
	}
	if b == '+' {
		p.Get()
		op2, err := a.parseOperandNoLookup(p)
		if err != nil {
			return operand{}, err
		}
		if err := combineLookupOffset(p, &op, op2); err != nil {
			return operand{}, err
		}
	}

	skipSpaceOrTab(p)
	b, ok = p.Get()
	if !ok || b != ']' {
		return operand{}, parseErr(p, "expected ']' to close lookup")
	}
	return op, nil
}

// combineLookupOffset folds op2 (the right-hand side of "x + y") into op,
// rejecting the combinations the ISA can't represent: register+register,
// value+label, label+value, and label+label.
func combineLookupOffset(p *ParserStream, op *operand, op2 operand) error {
	switch {
	case op.isValue:
		switch {
		case op2.isValue:
			op.value += op2.value
		case op2.isRegister:
			op.add = true
			op.addedRegister = op2.value
		case op2.isLabel:
			return parseErr(p, "unsupported offset (value+label)")
		}
	case op.isRegister:
		if op2.isRegister {
			return parseErr(p, "unsupported offset (register+register)")
		}
		op.addedRegister = op.value
		op.value = op2.value
		op.add = true
		op.isRegister = false
		op.isValue = op2.isValue
		op.isLabel = op2.isLabel
		op.label = op2.label
	case op.isLabel:
		switch {
		case op2.isValue:
			return parseErr(p, "unsupported offset (label+value)")
		case op2.isRegister:
			op.add = true
			op.addedRegister = op2.value
		case op2.isLabel:
			return parseErr(p, "unsupported offset (label+label)")
		}
	default:
		return parseErr(p, "unsupported offset on this operand")
	}
	return nil
}

// parseOperandNoLookup parses a bare operand: a number, a register or
// special word, a label reference, or (only immediately after the PICK
// keyword) PICK's mandatory offset.
func (a *Assembler) parseOperandNoLookup(p *ParserStream) (operand, error) {
	skipSpaceOrTab(p)
	row, col := p.Row(), p.Col()
	b, ok := p.Peek()
	if !ok {
		return operand{}, parseErr(p, "expected an operand")
	}

	if isDigit(b) {
		v, err := parseU16(p)
		if err != nil {
			return operand{}, err
		}
		return operand{isValue: true, value: v, row: row, col: col}, nil
	}

	if !isLiteralChar(b) {
		return operand{}, parseErr(p, "expected an operand")
	}

	name, err := parseName(p, "operand")
	if err != nil {
		return operand{}, err
	}

	v, ok := variables[name]
	if !ok {
		v, ok = variables[strings.ToUpper(name)]
	}
	if !ok {
		return operand{isLabel: true, label: name, row: row, col: col}, nil
	}

	if v.addr == dcpu.AddrPick {
		skipSpaceOrTab(p)
		offset, err := parseU16(p)
		if err != nil {
			return operand{}, parseErr(p, "PICK requires a following offset")
		}
		return operand{pick: true, value: offset, row: row, col: col}, nil
	}

	return operand{value: v.addr, isRegister: v.isRegister, row: row, col: col}, nil
}

func (a *Assembler) assembleBasicOp(p *ParserStream, opcode uint16, b, arg operand) error {
	aCode, err := operandCode(arg, false)
	if err != nil {
		return err
	}
	bCode, err := operandCode(b, true)
	if err != nil {
		return err
	}

	word := opcode | (bCode&0x1f)<<5 | (aCode&0x3f)<<10
	if err := a.emit(p, word); err != nil {
		return err
	}

	if advancesPC(aCode) {
		if err := a.emitOperandWord(p, arg); err != nil {
			return err
		}
	}
	if advancesPC(bCode) {
		if err := a.emitOperandWord(p, b); err != nil {
			return err
		}
	}
	return nil
}

func (a *Assembler) assembleExtendedOp(p *ParserStream, opcode uint16, arg operand) error {
	aCode, err := operandCode(arg, false)
	if err != nil {
		return err
	}

	word := (opcode&0x1f)<<5 | (aCode&0x3f)<<10
	if err := a.emit(p, word); err != nil {
		return err
	}

	if advancesPC(aCode) {
		if err := a.emitOperandWord(p, arg); err != nil {
			return err
		}
	}
	return nil
}

// emitOperandWord writes the trailing word an advancing operand needs:
// a literal value, a PICK offset, or (for a label) a placeholder patched
// in during resolveLabels.
func (a *Assembler) emitOperandWord(p *ParserStream, op operand) error {
	if op.isLabel {
		a.labelUses[op.label] = append(a.labelUses[op.label], labelUse{
			name: op.label, row: op.row, col: op.col, addr: a.addr,
		})
		a.addr++
		return nil
	}
	return a.emit(p, op.value)
}

func (a *Assembler) emit(p *ParserStream, word uint16) error {
	if int(a.addr)+1 > dcpu.RAMSize {
		return parseErr(p, "program exceeds %d words of memory", dcpu.RAMSize)
	}
	a.ram[a.addr] = word
	a.addr++
	return nil
}

func (a *Assembler) assembleData(p *ParserStream) error {
	count := 0
	for {
		if count >= maxDataElements {
			return parseErr(p, "DAT exceeds %d elements", maxDataElements)
		}
		skipSpaceOrTab(p)
		b, ok := p.Peek()
		if !ok {
			return parseErr(p, "expected a DAT element")
		}

		switch {
		case b == '"':
			if err := a.assembleString(p); err != nil {
				return err
			}
		case isDigit(b):
			v, err := parseU16(p)
			if err != nil {
				return err
			}
			if err := a.emit(p, v); err != nil {
				return err
			}
		default:
			return parseErr(p, "unrecognized DAT element")
		}
		count++

		skipSpaceOrTab(p)
		b, ok = p.Peek()
		if !ok || b != ',' {
			return nil
		}
		p.Get()
	}
}

// assembleString emits one RAM word per character of a "..." literal,
// with no escape-sequence support.
func (a *Assembler) assembleString(p *ParserStream) error {
	s, err := parseString(p, '"')
	if err != nil {
		return err
	}
	for i := 0; i < len(s); i++ {
		if err := a.emit(p, uint16(s[i])); err != nil {
			return err
		}
	}
	return nil
}

// resolveLabels patches every recorded label use with its label's
// address, now that the whole source has been scanned.
func (a *Assembler) resolveLabels() error {
	for name, uses := range a.labelUses {
		addr, ok := a.labels[name]
		if !ok {
			hint := ""
			if name == "o" || name == "O" {
				hint = " (this is the old name for overflow, maybe you should use EX instead?)"
			}
			use := uses[0]
			return &ParseError{Row: use.row, Col: use.col, Msg: "undefined label \"" + name + "\"" + hint}
		}
		for _, use := range uses {
			a.ram[use.addr] = addr
		}
	}
	return nil
}
