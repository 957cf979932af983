package device

import (
	"testing"

	"github.com/dcpu16/emulator/dcpu"
)

func TestClockTickRate(t *testing.T) {
	c := dcpu.New()
	clk := NewClock()
	idx := c.Connect(clk)

	c.SetRegister(dcpu.A, 0)
	c.SetRegister(dcpu.B, 60) // 60/60 = 1 tick per second
	clk.Interrupt(c)

	clk.Update(c, 0.5)
	if clk.ticks != 0 {
		t.Fatalf("tick fired early: ticks=%d", clk.ticks)
	}
	clk.Update(c, 0.6)
	if clk.ticks != 1 {
		t.Fatalf("expected 1 tick after 1.1s at 1Hz, got %d", clk.ticks)
	}

	c.SetRegister(dcpu.A, 1)
	clk.Interrupt(c)
	if c.Register(dcpu.C) != 1 {
		t.Fatalf("expected C=1 tick count, got %d", c.Register(dcpu.C))
	}

	_ = idx
}

func TestClockZeroBDisables(t *testing.T) {
	c := dcpu.New()
	clk := NewClock()
	c.Connect(clk)

	c.SetRegister(dcpu.A, 0)
	c.SetRegister(dcpu.B, 0)
	clk.Interrupt(c)

	clk.Update(c, 1000)
	if clk.ticks != 0 {
		t.Fatalf("B=0 should disable ticking, got ticks=%d", clk.ticks)
	}
}

func TestClockInterruptMessage(t *testing.T) {
	c := dcpu.New()
	c.SetIA(0x100)
	clk := NewClock()
	c.Connect(clk)

	c.SetRegister(dcpu.A, 0)
	c.SetRegister(dcpu.B, 60)
	clk.Interrupt(c)

	c.SetRegister(dcpu.A, 2)
	c.SetRegister(dcpu.B, 0xbeef)
	clk.Interrupt(c)

	clk.Update(c, 1.1)

	if c.PC() != 0x100 {
		t.Fatalf("expected interrupt to jump to IA, PC=%#x", c.PC())
	}
	if c.Register(dcpu.A) != 0xbeef {
		t.Fatalf("expected A to carry the interrupt message, got %#x", c.Register(dcpu.A))
	}
}
