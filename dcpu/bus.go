package dcpu

// Identity is the HID/manufacturer/version triple a device reports to
// HWQ, matching the three identifying fields every DCPU-16 peripheral
// exposes over the hardware bus.
type Identity struct {
	HID            uint32
	Version        uint16
	ManufacturerID uint32
}

// maxDevices is the largest number of devices the bus can hold; it
// matches HWN's 16-bit return and leaves one index as an explicit
// "bus full" sentinel.
const maxDevices = 65535

// Device is a peripheral attached to a CPU's hardware bus. Interrupt is
// invoked synchronously from HWI on the CPU's own goroutine; Update is
// invoked once per host frame tick so devices with real-time behavior
// (a clock, a display's border blink) can raise their own interrupts via
// the CPU passed to them.
type Device interface {
	Identity() Identity
	Interrupt(c *CPU)
	Update(c *CPU, deltaSeconds float64)
}

// Connect attaches a device to the bus and returns its index, as
// reported by HWQ and used by HWI to address it. Indices are assigned by
// append and compacted on Disconnect, so they stay stable and gapless
// between changes to the device list. Reconnecting an already-attached
// device is a no-op that returns its existing index; the bus holds at
// most maxDevices devices, and Connect past that limit returns the
// current (unchanged) count without attaching d. Connect and Disconnect
// are only safe to call from the CPU's own goroutine, between Step
// calls.
func (c *CPU) Connect(d Device) uint16 {
	for i, dev := range c.devices {
		if dev == d {
			return uint16(i)
		}
	}
	if len(c.devices) == maxDevices {
		return uint16(len(c.devices))
	}
	c.devices = append(c.devices, d)
	return uint16(len(c.devices) - 1)
}

// Disconnect removes a device from the bus, compacting indices above it
// down by one.
func (c *CPU) Disconnect(d Device) {
	for i, dev := range c.devices {
		if dev == d {
			c.devices = append(c.devices[:i], c.devices[i+1:]...)
			return
		}
	}
}

// DeviceCount returns the number of attached devices.
func (c *CPU) DeviceCount() int {
	return len(c.devices)
}

// UpdateDevices calls Update on every attached device, in attachment
// order, once per host frame. A device that needs to raise an interrupt
// does so by calling c.Interrupt from within its own Update.
func (c *CPU) UpdateDevices(deltaSeconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.devices {
		d.Update(c, deltaSeconds)
	}
}

func (c *CPU) hwn() uint16 {
	return uint16(len(c.devices))
}

func (c *CPU) hwq(index uint16) (a, b, cc, x, y uint16) {
	if int(index) >= len(c.devices) {
		return 0, 0, 0, 0, 0
	}
	id := c.devices[index].Identity()
	a = uint16(id.HID)
	b = uint16(id.HID >> 16)
	cc = id.Version
	x = uint16(id.ManufacturerID)
	y = uint16(id.ManufacturerID >> 16)
	return
}

func (c *CPU) hwi(index uint16) {
	if int(index) >= len(c.devices) {
		return
	}
	c.devices[index].Interrupt(c)
}
