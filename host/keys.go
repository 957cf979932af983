package host

import (
	"github.com/faiface/pixel/pixelgl"

	"github.com/dcpu16/emulator/device"
)

// namedKeys maps the keyboard device's non-printable key codes to the
// pixelgl button that triggers them: backspace/return/insert/delete,
// the arrow keys, and shift/control (left and right variants fold to
// the same code).
var namedKeys = map[pixelgl.Button]uint16{
	pixelgl.KeyBackspace:    device.KeyBackspace,
	pixelgl.KeyEnter:        device.KeyReturn,
	pixelgl.KeyInsert:       device.KeyInsert,
	pixelgl.KeyDelete:       device.KeyDelete,
	pixelgl.KeyUp:           device.KeyUp,
	pixelgl.KeyDown:         device.KeyDown,
	pixelgl.KeyLeft:         device.KeyLeft,
	pixelgl.KeyRight:        device.KeyRight,
	pixelgl.KeyLeftShift:    device.KeyShift,
	pixelgl.KeyRightShift:   device.KeyShift,
	pixelgl.KeyLeftControl:  device.KeyControl,
	pixelgl.KeyRightControl: device.KeyControl,
}

// pollKeyEvents reads win's input state since the last poll and returns
// it as keyboard device events: one per named-key transition, plus one
// per rune win.Typed() produced this frame (the generic keyboard passes
// printable ASCII through unchanged).
func pollKeyEvents(win *pixelgl.Window) []device.KeyEvent {
	var events []device.KeyEvent

	for button, code := range namedKeys {
		if win.JustPressed(button) {
			events = append(events, device.KeyEvent{Code: code, Pressed: true})
		}
		if win.JustReleased(button) {
			events = append(events, device.KeyEvent{Code: code, Pressed: false})
		}
	}

	for _, r := range win.Typed() {
		if r > 0 && r < 0x80 {
			events = append(events, device.KeyEvent{Code: uint16(r), Pressed: true})
		}
	}

	return events
}
