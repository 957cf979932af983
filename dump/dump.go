// Package dump reads and writes a DCPU-16 memory image as a plain text
// hexdump: one line per 8 words, a 4-hex-digit address, a colon, then
// the 8 words as 4-hex-digit fields.
package dump

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const wordsPerLine = 8

// WriteDump writes mem's full 65536 words as a text hexdump.
func WriteDump(w io.Writer, mem [65536]uint16) error {
	bw := bufio.NewWriter(w)
	for addr := 0; addr < len(mem); addr += wordsPerLine {
		if _, err := fmt.Fprintf(bw, "%04x:", addr); err != nil {
			return errors.WithStack(err)
		}
		for i := 0; i < wordsPerLine; i++ {
			if _, err := fmt.Fprintf(bw, " %04x", mem[addr+i]); err != nil {
				return errors.WithStack(err)
			}
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return errors.WithStack(err)
		}
	}
	return bw.Flush()
}

// ReadDump parses a text hexdump produced by WriteDump (or matching its
// format) back into a memory image. Blank lines are skipped; any other
// malformed line is an error.
func ReadDump(r io.Reader) ([65536]uint16, error) {
	var mem [65536]uint16

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		addrField, rest, ok := strings.Cut(line, ":")
		if !ok {
			return mem, errors.Errorf("dump line %d: missing ':' separator", lineNo)
		}
		addr, err := strconv.ParseUint(addrField, 16, 32)
		if err != nil {
			return mem, errors.Wrapf(err, "dump line %d: bad address %q", lineNo, addrField)
		}

		fields := strings.Fields(rest)
		for i, f := range fields {
			word, err := strconv.ParseUint(f, 16, 16)
			if err != nil {
				return mem, errors.Wrapf(err, "dump line %d: bad word %q", lineNo, f)
			}
			pos := int(addr) + i
			if pos >= len(mem) {
				return mem, errors.Errorf("dump line %d: address 0x%x out of range", lineNo, pos)
			}
			mem[pos] = uint16(word)
		}
	}
	if err := scanner.Err(); err != nil {
		return mem, errors.WithStack(err)
	}
	return mem, nil
}
