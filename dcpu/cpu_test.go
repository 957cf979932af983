package dcpu

import "testing"

// encodeBasic packs a basic-format instruction word: opcode in the low 5
// bits, B-field in the next 5, A-field in the top 6 — the same layout
// resolveOperand decodes.
func encodeBasic(opcode, b, a uint16) uint16 {
	return (opcode & 0x1f) | ((b & 0x1f) << 5) | ((a & 0x3f) << 10)
}

func encodeExtended(exOpcode, a uint16) uint16 {
	return (exOpcode & 0x1f) << 5 | ((a & 0x3f) << 10)
}

// litA encodes a short A-field literal in {-1, 0, ..., 30}.
func litA(v int) uint16 {
	return AddrLiteral + uint16(v+1)
}

func checkReg(t *testing.T, c *CPU, reg int, name string, want uint16) {
	t.Helper()
	if got := c.Register(reg); got != want {
		t.Fatalf("%s = %#x, want %#x", name, got, want)
	}
}

func TestStepIncrementsStepCount(t *testing.T) {
	c := New()
	c.Write(0, []uint16{encodeBasic(OpSET, A, litA(5))})
	c.Step()
	if c.Steps() != 1 {
		t.Fatalf("expected steps=1, got %d", c.Steps())
	}
}

func TestSetLiteral(t *testing.T) {
	c := New()
	c.Write(0, []uint16{encodeBasic(OpSET, A, litA(5))})
	c.Step()
	checkReg(t, c, A, "A", 5)
	if c.PC() != 1 {
		t.Fatalf("PC = %d, want 1", c.PC())
	}
	if c.Cycles() != 1 {
		t.Fatalf("cycles = %d, want 1", c.Cycles())
	}
}

func TestAddOverflowSetsEX(t *testing.T) {
	c := New()
	c.SetRegister(A, 0xffff)
	c.Write(0, []uint16{encodeBasic(OpADD, A, litA(1))})
	c.Step()
	checkReg(t, c, A, "A", 0)
	if c.EX() != 1 {
		t.Fatalf("EX = %#x, want 1", c.EX())
	}
}

func TestSubUnderflowSetsEX(t *testing.T) {
	c := New()
	c.SetRegister(A, 0)
	c.Write(0, []uint16{encodeBasic(OpSUB, A, litA(1))})
	c.Step()
	checkReg(t, c, A, "A", 0xffff)
	if c.EX() != 0xffff {
		t.Fatalf("EX = %#x, want 0xffff", c.EX())
	}
}

func TestAddThenSubRestoresRegister(t *testing.T) {
	c := New()
	c.SetRegister(A, 1234)
	c.Write(0, []uint16{
		encodeBasic(OpADD, A, litA(7)),
		encodeBasic(OpSUB, A, litA(7)),
	})
	c.Step()
	c.Step()
	checkReg(t, c, A, "A", 1234)
}

// TestSBXADXRoundtripInvariant directly exercises invariant 7: for all b,
// a, SBX(b,a) followed by ADX(result,a) returns to b (EX chains through).
func TestSBXADXRoundtripInvariant(t *testing.T) {
	for _, tc := range []struct{ b, a uint16 }{
		{100, 30}, {5, 5}, {0, 1}, {0xffff, 1},
	} {
		c := New()
		c.SetRegister(B, tc.b)
		c.SetRegister(A, tc.a)
		c.Write(0, []uint16{encodeBasic(OpSBX, B, 0)})
		c.Step()

		afterSBX := c.Register(B)
		ex := c.EX()

		c.SetPC(0)
		c.SetRegister(B, afterSBX)
		c.SetRegister(A, tc.a)
		// ADX reads EX directly from CPU state, which already holds the
		// value SBX left behind.
		_ = ex
		c.Write(0, []uint16{encodeBasic(OpADX, B, 0)})
		c.Step()

		if c.Register(B) != tc.b {
			t.Fatalf("SBX/ADX roundtrip: b=%d a=%d -> got %d", tc.b, tc.a, c.Register(B))
		}
	}
}

func TestPushPop(t *testing.T) {
	c := New()
	c.SetRegister(A, 0x55)
	c.Write(0, []uint16{
		encodeBasic(OpSET, AddrPushPop, A), // PUSH A  (B-field 0x18 = PUSH)
		encodeBasic(OpSET, B, AddrPushPop), // POP into B (A-field 0x18 = POP)
	})
	c.Step()
	if c.SP() != 0xffff {
		t.Fatalf("SP after PUSH = %#x, want 0xffff", c.SP())
	}
	c.Step()
	checkReg(t, c, B, "B", 0x55)
	if c.SP() != 0 {
		t.Fatalf("SP after POP = %#x, want 0", c.SP())
	}
}

func TestSPWrapsOnFirstPush(t *testing.T) {
	c := New()
	c.Write(0, []uint16{encodeBasic(OpSET, AddrPushPop, litA(7))})
	c.Step()
	if c.SP() != 0xffff {
		t.Fatalf("first PUSH should wrap SP to 0xffff, got %#x", c.SP())
	}
	if c.Peek(0xffff) != 7 {
		t.Fatalf("expected pushed value at 0xffff, got %d", c.Peek(0xffff))
	}
}

func TestMemoryWriteReadIsolated(t *testing.T) {
	c := New()
	c.Write(100, []uint16{0xbeef})
	if got := c.Read(100, 1)[0]; got != 0xbeef {
		t.Fatalf("got %#x, want 0xbeef", got)
	}
	if c.Read(101, 1)[0] != 0 {
		t.Fatal("write at 100 touched address 101")
	}
}

func TestBranchSkipChain(t *testing.T) {
	c := New()
	// The B field has no short-literal form, so litA(1) and litA(3) mask to
	// registers C and Y (both 0):
	// IFE C,2 (fails) ; IFE Y,4 (skipped, itself a branch, chains) ; SET A,1 (skipped)
	c.Write(0, []uint16{
		encodeBasic(OpIFE, litA(1), litA(2)),
		encodeBasic(OpIFE, litA(3), litA(4)),
		encodeBasic(OpSET, A, litA(1)),
	})
	c.Step()
	if c.Register(A) != 0 {
		t.Fatalf("A should be untouched by the skipped SET, got %d", c.Register(A))
	}
	if c.PC() != 3 {
		t.Fatalf("PC should have advanced past all three instructions, got %d", c.PC())
	}
	if c.Cycles() != 4 {
		t.Fatalf("expected 4 cycles (2 for IFE + 1 + 1 skip chain), got %d", c.Cycles())
	}
}

func TestReservedBasicOpcodeMarksBroken(t *testing.T) {
	c := New()
	c.Write(0, []uint16{encodeBasic(0x18, 0, 0)}) // 0x18 is reserved as a basic opcode
	c.Step()
	if !c.Broken() {
		t.Fatal("expected reserved opcode to mark the CPU broken")
	}
	pc := c.PC()
	c.Step()
	if c.PC() != pc {
		t.Fatal("a broken CPU must not advance further")
	}
}

func TestReservedExtendedOpcodeMarksBroken(t *testing.T) {
	c := New()
	c.Write(0, []uint16{encodeExtended(0x1f, 0)}) // 0x1f is reserved
	c.Step()
	if !c.Broken() {
		t.Fatal("expected reserved extended opcode to mark the CPU broken")
	}
}

func TestLiteralBFieldDiscardsEntireInstruction(t *testing.T) {
	c := New()
	c.SetRegister(A, 42)
	// ADD 5, 10: B-field is a next-word literal (0x1F), so the whole
	// instruction -- including any EX update -- is a no-op.
	c.Write(0, []uint16{encodeBasic(OpADD, AddrNext, litA(5)), 10})
	c.Step()
	if c.EX() != 0 {
		t.Fatalf("expected EX untouched by a discarded literal-B instruction, got %#x", c.EX())
	}
}

func TestHWNHWQHWI(t *testing.T) {
	c := New()
	dev := &stubDevice{id: Identity{HID: 0x1234, Version: 7, ManufacturerID: 0x5678}}
	c.Connect(dev)

	// HWN writes through the A-field operand handle; a bare HWN targets
	// register A.
	c.Write(0, []uint16{encodeExtended(ExtHWN, 0)})
	c.Step()
	if c.Register(A) != 1 {
		t.Fatalf("HWN should report 1 connected device via A-field operand, got %d", c.Register(A))
	}

	c.SetPC(0)
	c.SetRegister(A, 0)
	c.Write(0, []uint16{encodeExtended(ExtHWQ, 0)})
	c.Step()
	if c.Register(A) != 0x1234 || c.Register(C) != 7 {
		t.Fatalf("HWQ result mismatch: A=%#x C=%#x", c.Register(A), c.Register(C))
	}

	c.SetPC(0)
	c.SetRegister(A, 0)
	c.Write(0, []uint16{encodeExtended(ExtHWI, 0)})
	c.Step()
	if !dev.interrupted {
		t.Fatal("expected HWI to call the device's Interrupt")
	}
}

type stubDevice struct {
	id          Identity
	interrupted bool
}

func (d *stubDevice) Identity() Identity                  { return d.id }
func (d *stubDevice) Interrupt(c *CPU)                    { d.interrupted = true }
func (d *stubDevice) Update(c *CPU, deltaSeconds float64) {}
