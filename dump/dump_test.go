package dump

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteDumpFormatsOneLinePerEightWords(t *testing.T) {
	var mem [65536]uint16
	mem[0] = 0x7c01
	mem[1] = 0x0030
	mem[8] = 0xbeef

	var buf bytes.Buffer
	if err := WriteDump(&buf, mem); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 65536/wordsPerLine {
		t.Fatalf("expected %d lines, got %d", 65536/wordsPerLine, len(lines))
	}
	if lines[0] != "0000: 7c01 0030 0000 0000 0000 0000 0000 0000" {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
	if lines[1] != "0008: beef 0000 0000 0000 0000 0000 0000 0000" {
		t.Fatalf("unexpected second line: %q", lines[1])
	}
}

func TestReadDumpRoundTripsWriteDump(t *testing.T) {
	var mem [65536]uint16
	mem[0] = 0x1234
	mem[42] = 0xffff
	mem[65535] = 0x0001

	var buf bytes.Buffer
	if err := WriteDump(&buf, mem); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadDump(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != mem {
		t.Fatal("round-tripped memory does not match original")
	}
}

func TestReadDumpRejectsMissingColon(t *testing.T) {
	_, err := ReadDump(strings.NewReader("0000 7c01 0030\n"))
	if err == nil {
		t.Fatal("expected an error for a line missing ':'")
	}
}

func TestReadDumpRejectsBadWord(t *testing.T) {
	_, err := ReadDump(strings.NewReader("0000: zzzz\n"))
	if err == nil {
		t.Fatal("expected an error for a malformed word")
	}
}

func TestReadDumpSkipsBlankLines(t *testing.T) {
	got, err := ReadDump(strings.NewReader("0000: 0001\n\n0008: 0002\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0] != 0x0001 || got[8] != 0x0002 {
		t.Fatalf("unexpected memory: [0]=%04x [8]=%04x", got[0], got[8])
	}
}
