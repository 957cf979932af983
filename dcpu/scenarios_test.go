package dcpu

import "testing"

// TestScenarioS1LargeLiteralNextWord exercises S1: SET A, 0x30 can't fit
// the short literal form (max 30), so it encodes as a next-word operand.
// One step should leave A=0x30, PC=2, cycles=2 (1 for SET, 1 for the
// next-word fetch on A).
func TestScenarioS1LargeLiteralNextWord(t *testing.T) {
	c := New()
	word := encodeBasic(OpSET, A, AddrNext)
	c.Write(0, []uint16{word, 0x30})
	c.Step()

	if c.Register(A) != 0x30 {
		t.Fatalf("A = %#x, want 0x30", c.Register(A))
	}
	if c.PC() != 2 {
		t.Fatalf("PC = %d, want 2", c.PC())
	}
	if c.Cycles() != 2 {
		t.Fatalf("cycles = %d, want 2", c.Cycles())
	}
}

// TestScenarioS2SelfJump exercises S2: `:loop SET PC, loop` is an
// infinite self-jump; PC never advances past the loop and cycles grow by
// 2 every step.
func TestScenarioS2SelfJump(t *testing.T) {
	c := New()
	word := encodeBasic(OpSET, AddrPC, AddrNext)
	c.Write(0, []uint16{word, 0})
	c.Step()
	if c.PC() != 0 {
		t.Fatalf("PC = %d, want 0 (self jump)", c.PC())
	}
	if c.Cycles() != 2 {
		t.Fatalf("cycles = %d, want 2", c.Cycles())
	}
	c.Step()
	if c.Cycles() != 4 {
		t.Fatalf("cycles after second step = %d, want 4", c.Cycles())
	}
}

// TestScenarioS3SequentialAddsWithSignedImmediate exercises S3:
// SET A,1 ; ADD A,2 ; ADD A,0xFFFE (i.e. -2) leaves A at 1, then 3, then
// 1 again, with EX=1 on the last add (0xFFFE as an unsigned operand
// overflows the addition), for a running total of 6 cycles.
func TestScenarioS3SequentialAddsWithSignedImmediate(t *testing.T) {
	c := New()
	c.Write(0, []uint16{
		encodeBasic(OpSET, A, litA(1)),
		encodeBasic(OpADD, A, litA(2)),
		encodeBasic(OpADD, A, AddrNext), 0xfffe,
	})

	c.Step()
	if c.Register(A) != 1 {
		t.Fatalf("after SET A,1: A=%d, want 1", c.Register(A))
	}

	c.Step()
	if c.Register(A) != 3 {
		t.Fatalf("after ADD A,2: A=%d, want 3", c.Register(A))
	}

	c.Step()
	if c.Register(A) != 1 {
		t.Fatalf("after ADD A,0xFFFE: A=%d, want 1 (wraps mod 2^16)", c.Register(A))
	}
	if c.EX() != 1 {
		t.Fatalf("EX = %#x, want 1 (addition overflowed 0xFFFF)", c.EX())
	}
	if c.Cycles() != 6 {
		t.Fatalf("cycles = %d, want 6", c.Cycles())
	}
}
