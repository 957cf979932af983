// Package disasm renders a DCPU-16 word stream back into assembly text,
// one instruction per line.
package disasm

import (
	"fmt"
	"io"

	"github.com/dcpu16/emulator/dcpu"
)

var registerNames = [8]string{"A", "B", "C", "X", "Y", "Z", "I", "J"}

var basicMnemonics = map[uint16]string{
	dcpu.OpSET: "SET", dcpu.OpADD: "ADD", dcpu.OpSUB: "SUB",
	dcpu.OpMUL: "MUL", dcpu.OpMLI: "MLI",
	dcpu.OpDIV: "DIV", dcpu.OpDVI: "DVI",
	dcpu.OpMOD: "MOD", dcpu.OpMDI: "MDI",
	dcpu.OpAND: "AND", dcpu.OpBOR: "BOR", dcpu.OpXOR: "XOR",
	dcpu.OpSHL: "SHL", dcpu.OpASR: "ASR", dcpu.OpSHR: "SHR",
	dcpu.OpIFB: "IFB", dcpu.OpIFC: "IFC", dcpu.OpIFE: "IFE", dcpu.OpIFN: "IFN",
	dcpu.OpIFG: "IFG", dcpu.OpIFA: "IFA", dcpu.OpIFL: "IFL", dcpu.OpIFU: "IFU",
	dcpu.OpADX: "ADX", dcpu.OpSBX: "SBX",
	dcpu.OpSTI: "STI", dcpu.OpSTD: "STD",
}

var extendedMnemonics = map[uint16]string{
	dcpu.ExtJSR: "JSR", dcpu.ExtINT: "INT",
	dcpu.ExtIAG: "IAG", dcpu.ExtIAS: "IAS", dcpu.ExtRFI: "RFI", dcpu.ExtIAQ: "IAQ",
	dcpu.ExtHWN: "HWN", dcpu.ExtHWQ: "HWQ", dcpu.ExtHWI: "HWI",
}

// WordReader supplies a DCPU-16 program's words in order, returning io.EOF
// once exhausted.
type WordReader interface {
	ReadWord() (uint16, error)
}

// SliceReader adapts a plain word slice (a loaded memory image, or a
// sub-range of one) into a WordReader.
type SliceReader struct {
	words []uint16
	pos   int
}

// NewSliceReader returns a WordReader over words.
func NewSliceReader(words []uint16) *SliceReader {
	return &SliceReader{words: words}
}

// ReadWord implements WordReader.
func (r *SliceReader) ReadWord() (uint16, error) {
	if r.pos >= len(r.words) {
		return 0, io.EOF
	}
	w := r.words[r.pos]
	r.pos++
	return w, nil
}

// Disassemble reads words from r until it reports io.EOF, writing one line
// of assembly text per instruction to w. addr labels the address of the
// first word read; it advances exactly as PC would during execution, so
// every line's label is the address that instruction actually starts at.
func Disassemble(addr uint16, r WordReader, w io.Writer) error {
	for {
		startAddr := addr
		word, err := r.ReadWord()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		addr++

		opcode := word & 0x1f
		bField := (word >> 5) & 0x1f
		aField := (word >> 10) & 0x3f

		if opcode == dcpu.OpExtended {
			mnemonic, ok := extendedMnemonics[bField]
			if !ok {
				fmt.Fprintf(w, "0x%04x: DAT 0x%04x\n", startAddr, word)
				continue
			}
			a, next, err := operandText(aField, addr, r, false)
			if err != nil {
				return err
			}
			addr = next
			if mnemonic == "RFI" {
				// RFI's A field is still decoded (and may still consume a
				// trailing word) but its value has no effect.
				fmt.Fprintf(w, "0x%04x: %s\n", startAddr, mnemonic)
			} else {
				fmt.Fprintf(w, "0x%04x: %s %s\n", startAddr, mnemonic, a)
			}
			continue
		}

		mnemonic, ok := basicMnemonics[opcode]
		if !ok {
			fmt.Fprintf(w, "0x%04x: DAT 0x%04x\n", startAddr, word)
			continue
		}
		// A resolves before B, same order as the CPU's own decode.
		a, next, err := operandText(aField, addr, r, false)
		if err != nil {
			return err
		}
		addr = next
		b, next, err := operandText(bField, addr, r, true)
		if err != nil {
			return err
		}
		addr = next
		fmt.Fprintf(w, "0x%04x: %s %s, %s\n", startAddr, mnemonic, b, a)
	}
}

// operandText renders one A or B field, reading r's next word if the
// addressing code consumes one. isB only matters for distinguishing
// PUSH from POP on the addressing code they share.
func operandText(code, addr uint16, r WordReader, isB bool) (text string, next uint16, err error) {
	switch {
	case code <= 0x07:
		return registerNames[code], addr, nil
	case code < dcpu.AddrPushPop: // 0x08-0x17
		if code < dcpu.AddrNextRegLookup {
			return fmt.Sprintf("[%s]", registerNames[code-dcpu.AddrRegLookup]), addr, nil
		}
		v, err := r.ReadWord()
		if err != nil {
			return "", addr, err
		}
		return fmt.Sprintf("[0x%x+%s]", v, registerNames[code-dcpu.AddrNextRegLookup]), addr + 1, nil
	case code == dcpu.AddrPushPop:
		if isB {
			return "PUSH", addr, nil
		}
		return "POP", addr, nil
	case code == dcpu.AddrPeek:
		return "PEEK", addr, nil
	case code == dcpu.AddrPick:
		v, err := r.ReadWord()
		if err != nil {
			return "", addr, err
		}
		return fmt.Sprintf("PICK %d", v), addr + 1, nil
	case code == dcpu.AddrSP:
		return "SP", addr, nil
	case code == dcpu.AddrPC:
		return "PC", addr, nil
	case code == dcpu.AddrEX:
		return "EX", addr, nil
	case code == dcpu.AddrNextLookup:
		v, err := r.ReadWord()
		if err != nil {
			return "", addr, err
		}
		return fmt.Sprintf("[0x%x]", v), addr + 1, nil
	case code == dcpu.AddrNext:
		v, err := r.ReadWord()
		if err != nil {
			return "", addr, err
		}
		return fmt.Sprintf("0x%x", v), addr + 1, nil
	default: // 0x20-0x3f: short-form literal, -1..30
		v := int(code) - int(dcpu.AddrLiteral) - 1
		if v < 0 {
			return "-1", addr, nil
		}
		return fmt.Sprintf("0x%x", v), addr, nil
	}
}
