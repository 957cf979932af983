package device

import "github.com/dcpu16/emulator/dcpu"

const (
	keyboardManufacturerID = 0x1c6c8b36
	keyboardVersion        = 1
	keyboardHID            = 0x30cf7406

	keyboardBufSize = 16
)

// Keycodes the keyboard reports through its event buffer, matching the
// DCPU-16 generic keyboard's defined code points: printable ASCII passes
// through unchanged, the rest use a small block of named codes.
const (
	KeyBackspace = 0x10
	KeyReturn    = 0x11
	KeyInsert    = 0x12
	KeyDelete    = 0x13
	KeyUp        = 0x80
	KeyDown      = 0x81
	KeyLeft      = 0x82
	KeyRight     = 0x83
	KeyShift     = 0x90
	KeyControl   = 0x91
)

// KeyEvent is one host key transition, as reported by a host's
// PollKeyEvents: Code is one of the printable-ASCII or named key values
// above, Pressed distinguishes a key-down from a key-up.
type KeyEvent struct {
	Code    uint16
	Pressed bool
}

// Keyboard is the generic keyboard device: a 16-entry cyclic event
// buffer fed by PushKey (called from the host's input loop) and drained
// by the CPU through interrupt codes 0-3.
type Keyboard struct {
	buffer   [keyboardBufSize]uint16
	writePos int
	readPos  int

	interruptMsg uint16
	pressed      map[uint16]bool
}

// NewKeyboard returns an empty keyboard with no keys currently pressed.
func NewKeyboard() *Keyboard {
	return &Keyboard{pressed: make(map[uint16]bool)}
}

// Identity reports the keyboard's HID/version/manufacturer triple.
func (k *Keyboard) Identity() dcpu.Identity {
	return dcpu.Identity{HID: keyboardHID, Version: keyboardVersion, ManufacturerID: keyboardManufacturerID}
}

// PushKey records a key as pressed and appends it to the event buffer.
// When the buffer is full, the new event overwrites the oldest unread
// one, matching the device's defined drop-oldest-on-overflow behavior.
// If an interrupt message is configured, PushKey raises it immediately.
func (k *Keyboard) PushKey(c *dcpu.CPU, key uint16) {
	k.pressed[key] = true
	k.buffer[k.writePos] = key
	k.writePos = (k.writePos + 1) % keyboardBufSize
	if k.interruptMsg != 0 {
		c.Interrupt(k.interruptMsg)
	}
}

// ReleaseKey marks a key as no longer held, for IsPressed queries.
func (k *Keyboard) ReleaseKey(key uint16) {
	delete(k.pressed, key)
}

func (k *Keyboard) nextEvent() uint16 {
	ev := k.buffer[k.readPos]
	if ev == 0 {
		// Empty buffer: leave the read cursor where the next push lands.
		return 0
	}
	k.buffer[k.readPos] = 0
	k.readPos = (k.readPos + 1) % keyboardBufSize
	return ev
}

func (k *Keyboard) isPressed(key uint16) bool {
	return k.pressed[key]
}

func (k *Keyboard) clear() {
	k.buffer = [keyboardBufSize]uint16{}
	k.writePos = 0
	k.readPos = 0
}

// Interrupt handles the keyboard's four hardware interrupt codes,
// selected by register A: 0 clears the buffer, 1 pops the next event
// into C, 2 reports whether the key named by B is currently held into
// C, 3 sets the message to raise when a key event is pushed.
func (k *Keyboard) Interrupt(c *dcpu.CPU) {
	switch c.Reg(dcpu.A) {
	case 0:
		k.clear()
	case 1:
		c.SetReg(dcpu.C, k.nextEvent())
	case 2:
		c.SetReg(dcpu.C, boolWord(k.isPressed(c.Reg(dcpu.B))))
	case 3:
		k.interruptMsg = c.Reg(dcpu.B)
	}
}

// Update is a no-op; the keyboard only changes state in response to
// PushKey/ReleaseKey calls from the host's input loop.
func (k *Keyboard) Update(c *dcpu.CPU, deltaSeconds float64) {}

func boolWord(v bool) uint16 {
	if v {
		return 1
	}
	return 0
}
