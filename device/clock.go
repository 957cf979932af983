// Package device implements the DCPU-16 generic hardware peripherals:
// the generic clock, the LEM1802 display, and the generic keyboard.
package device

import "github.com/dcpu16/emulator/dcpu"

const (
	clockManufacturerID = 0x1c6c8b36
	clockVersion        = 1
	clockHID            = 0x12d0b402
)

// Clock is the generic clock device. Once configured it ticks every 60/B
// seconds and, if an interrupt message has been set, raises that message
// on every tick.
type Clock struct {
	tickInterval float64 // seconds between ticks; 0 means stopped
	elapsed      float64
	ticks        uint16
	interruptMsg uint16
}

// NewClock returns a stopped clock with no interrupt message configured.
func NewClock() *Clock {
	return &Clock{}
}

// Identity reports the clock's HID/version/manufacturer triple.
func (k *Clock) Identity() dcpu.Identity {
	return dcpu.Identity{HID: clockHID, Version: clockVersion, ManufacturerID: clockManufacturerID}
}

// Interrupt handles the clock's three hardware interrupt codes, selected
// by register A: 0 sets the tick interval from B (one tick every 60/B
// seconds; a B of 0 explicitly disables ticking rather than producing a
// degenerate interval), 1 reports the elapsed tick count into C, 2 sets
// the message to raise on tick from B.
func (k *Clock) Interrupt(c *dcpu.CPU) {
	switch c.Reg(dcpu.A) {
	case 0:
		b := c.Reg(dcpu.B)
		if b == 0 {
			k.tickInterval = 0
		} else {
			k.tickInterval = 60.0 / float64(b)
		}
		k.ticks = 0
		k.elapsed = 0
	case 1:
		c.SetReg(dcpu.C, k.ticks)
	case 2:
		k.interruptMsg = c.Reg(dcpu.B)
	}
}

// Update advances the clock's internal timer and, once the time
// accumulated since the last tick reaches the tick interval, ticks and
// raises the configured interrupt message. It ticks at most once per
// call; time beyond the interval is discarded.
func (k *Clock) Update(c *dcpu.CPU, deltaSeconds float64) {
	if k.tickInterval <= 0 {
		return
	}
	k.elapsed += deltaSeconds
	if k.elapsed >= k.tickInterval {
		k.elapsed = 0
		k.ticks++
		if k.interruptMsg != 0 {
			c.Interrupt(k.interruptMsg)
		}
	}
}
