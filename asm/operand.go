package asm

import "github.com/dcpu16/emulator/dcpu"

// variable describes a bareword the assembler recognizes without looking
// it up as a label: a register name or one of the special addressing
// words (PUSH, POP, PEEK, PICK, SP, PC, EX).
type variable struct {
	addr       uint16
	isRegister bool
}

var variables = map[string]variable{
	"A": {dcpu.A, true}, "B": {dcpu.B, true}, "C": {dcpu.C, true},
	"X": {dcpu.X, true}, "Y": {dcpu.Y, true}, "Z": {dcpu.Z, true},
	"I": {dcpu.I, true}, "J": {dcpu.J, true},

	"PUSH": {dcpu.AddrPushPop, false},
	"POP":  {dcpu.AddrPushPop, false},
	"PEEK": {dcpu.AddrPeek, false},
	"PICK": {dcpu.AddrPick, false},
	"SP":   {dcpu.AddrSP, false},
	"PC":   {dcpu.AddrPC, false},
	"EX":   {dcpu.AddrEX, false},
}

var basicOpcodes = map[string]uint16{
	"SET": dcpu.OpSET, "ADD": dcpu.OpADD, "SUB": dcpu.OpSUB,
	"MUL": dcpu.OpMUL, "MLI": dcpu.OpMLI,
	"DIV": dcpu.OpDIV, "DVI": dcpu.OpDVI,
	"MOD": dcpu.OpMOD, "MDI": dcpu.OpMDI,
	"AND": dcpu.OpAND, "BOR": dcpu.OpBOR, "XOR": dcpu.OpXOR,
	"SHL": dcpu.OpSHL, "ASR": dcpu.OpASR, "SHR": dcpu.OpSHR,
	"IFB": dcpu.OpIFB, "IFC": dcpu.OpIFC, "IFE": dcpu.OpIFE, "IFN": dcpu.OpIFN,
	"IFG": dcpu.OpIFG, "IFA": dcpu.OpIFA, "IFL": dcpu.OpIFL, "IFU": dcpu.OpIFU,
	"ADX": dcpu.OpADX, "SBX": dcpu.OpSBX,
	"STI": dcpu.OpSTI, "STD": dcpu.OpSTD,
}

var extendedOpcodes = map[string]uint16{
	"JSR": dcpu.ExtJSR, "INT": dcpu.ExtINT,
	"IAG": dcpu.ExtIAG, "IAS": dcpu.ExtIAS, "RFI": dcpu.ExtRFI, "IAQ": dcpu.ExtIAQ,
	"HWN": dcpu.ExtHWN, "HWQ": dcpu.ExtHWQ, "HWI": dcpu.ExtHWI,
}

// labelUse records where a label name was referenced, so its address can
// be patched in once every label definition in the source has been seen.
type labelUse struct {
	name     string
	row, col int
	addr     uint16 // RAM word to patch
}

// operand is a parsed but not yet encoded A or B field. Exactly one of
// isValue, isRegister, isLabel, or (for the bare special words) none of
// the three describes what value carries.
type operand struct {
	lookup        bool   // "[...]"
	add           bool   // "[x + y]"
	addedRegister uint16 // the register half of an add, if any

	isValue    bool
	isRegister bool
	isLabel    bool

	value uint16 // literal value, register index, or special-word address
	label string

	pick bool // this operand is PICK, value holds its mandatory offset

	row, col int // source position, for label-use bookkeeping
}

// operandCode computes the addressing code for op: the 5- or 6-bit
// encoding an instruction word's A or B field carries. isB matters in
// exactly one place: since 1.7 the B field can't hold a short literal
// (AD_LIT), so a small value there always takes the next-word form.
func operandCode(op operand, isB bool) (code uint16, err error) {
	if op.lookup {
		switch {
		case op.add:
			return dcpu.AddrNextRegLookup + op.addedRegister, nil
		case op.isLabel:
			return dcpu.AddrNextLookup, nil
		case op.isRegister:
			return dcpu.AddrRegLookup + op.value, nil
		default:
			return dcpu.AddrNextLookup, nil
		}
	}

	if op.isLabel {
		return dcpu.AddrNext, nil
	}
	if op.pick {
		return dcpu.AddrPick, nil
	}
	if op.isValue {
		// The short form covers literals -1..30: the CPU decodes a short
		// literal code back to code-AddrLiteral-1, so a value's code is
		// one past AddrLiteral+value, not AddrLiteral+value itself. Only
		// 0..30 and 0xffff (-1, whose code wraps to AddrLiteral) fit; 31
		// would need 0x40, which overflows the 6-bit A field.
		if !isB && (op.value <= 30 || op.value == 0xffff) {
			return dcpu.AddrLiteral + op.value + 1, nil
		}
		return dcpu.AddrNext, nil
	}
	// A bare special word (PUSH/POP/PEEK/SP/PC/EX) or register name.
	return op.value, nil
}

// advancesPC reports whether an addressing code consumes a trailing
// instruction word.
func advancesPC(code uint16) bool {
	return (code >= dcpu.AddrNextRegLookup && code <= 0x17) ||
		code == dcpu.AddrPick || code == dcpu.AddrNextLookup || code == dcpu.AddrNext
}
