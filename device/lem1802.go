package device

import "github.com/dcpu16/emulator/dcpu"

const (
	lem1802ManufacturerID = 0x1c6c8b36
	lem1802Version        = 0x1802
	lem1802HID            = 0x7349f615

	fontGlyphWords = 2   // one glyph packs into two consecutive words
	fontGlyphCount = 128 // characters 0-127 have a glyph
	fontWords      = fontGlyphWords * fontGlyphCount
	paletteSize    = 16

	tileCols = 32
	tileRows = 12
)

// LEM1802 is the standard low-energy monitor display device: a
// 32x12-character tile display with a configurable font, a 16-color
// palette, and a border color, all mapped into CPU memory by address.
type LEM1802 struct {
	vramAddr    uint16
	fontAddr    uint16
	paletteAddr uint16
	borderColor uint16

	defaultFont    [fontWords]uint16
	defaultPalette [paletteSize]uint16
}

// NewLEM1802 returns an unmapped display with the device's built-in
// default font and palette.
func NewLEM1802() *LEM1802 {
	d := &LEM1802{}
	for i := 0; i < paletteSize; i++ {
		d.defaultPalette[i] = defaultPaletteWord(i)
	}
	return d
}

// defaultPaletteWord computes the LEM1802's built-in 16-color palette
// entry i as a packed 0x0RGB word: each of the three color bits (red,
// green, blue) contributes a half-bright nibble when set, promoted to
// full-bright when the high "intensity" bit is also set — the classic
// 16-color scheme the real device ships with.
func defaultPaletteWord(i int) uint16 {
	bright := (i>>3)&1 == 1
	comp := func(bit int) uint16 {
		if (i>>uint(bit))&1 == 0 {
			return 0
		}
		if bright {
			return 0xf
		}
		return 0x7
	}
	r, g, b := comp(2), comp(1), comp(0)
	return (r << 8) | (g << 4) | b
}

// SetDefaultFont installs the glyph bitmap data used by MEM_DUMP_FONT and
// by MEM_MAP_FONT's B==0 "use built-in font" case. data must hold
// fontWords entries; callers that don't load a font asset simply never
// call this and keep the zero-value (blank) font.
func (d *LEM1802) SetDefaultFont(data []uint16) {
	n := copy(d.defaultFont[:], data)
	_ = n
}

// Identity reports the display's HID/version/manufacturer triple.
func (d *LEM1802) Identity() dcpu.Identity {
	return dcpu.Identity{HID: lem1802HID, Version: lem1802Version, ManufacturerID: lem1802ManufacturerID}
}

// Interrupt handles the display's six hardware interrupt codes, selected
// by register A.
func (d *LEM1802) Interrupt(c *dcpu.CPU) {
	switch c.Reg(dcpu.A) {
	case 0: // MEM_MAP_SCREEN
		d.vramAddr = c.Reg(dcpu.B)
	case 1: // MEM_MAP_FONT
		d.fontAddr = c.Reg(dcpu.B)
		if d.fontAddr != 0 {
			c.Halt(256)
		}
	case 2: // MEM_MAP_PALETTE
		d.paletteAddr = c.Reg(dcpu.B)
	case 3: // SET_BORDER_COLOR
		d.borderColor = c.Reg(dcpu.B) & 0xf
	case 4: // MEM_DUMP_FONT
		d.dumpFont(c, c.Reg(dcpu.B))
	case 5: // MEM_DUMP_PALETTE
		d.dumpPalette(c, c.Reg(dcpu.B))
	}
}

func (d *LEM1802) dumpFont(c *dcpu.CPU, addr uint16) {
	if int(addr)+fontWords > dcpu.RAMSize {
		return
	}
	for i := 0; i < fontWords; i++ {
		c.Poke(addr+uint16(i), d.defaultFont[i])
	}
	c.Halt(256)
}

func (d *LEM1802) dumpPalette(c *dcpu.CPU, addr uint16) {
	if int(addr)+paletteSize > dcpu.RAMSize {
		return
	}
	for i := 0; i < paletteSize; i++ {
		c.Poke(addr+uint16(i), d.defaultPalette[i])
	}
	c.Halt(16)
}

// Update is a no-op; the LEM1802 has no time-driven behavior of its own
// (the real device's blink timing is explicitly not modeled, per the
// display's own documented limitation).
func (d *LEM1802) Update(c *dcpu.CPU, deltaSeconds float64) {}

// Mapped reports whether the screen is currently mapped into memory;
// when false the host should leave the display blank rather than read
// garbage through a zero VRAM address.
func (d *LEM1802) Mapped() bool {
	return d.vramAddr != 0
}

// BorderColor returns the current border palette index (0-15).
func (d *LEM1802) BorderColor() uint16 {
	return d.borderColor
}

// BorderColorWord resolves the current border index through the active
// palette (the mapped one, or the built-in default if none is mapped),
// returning a packed 0x0RGB word ready for ColorFromWord.
func (d *LEM1802) BorderColorWord(c *dcpu.CPU) uint16 {
	return d.paletteColor(c, d.borderColor)
}

// Cell is one decoded VRAM entry: a character code plus its foreground
// and background colors, already resolved through the active palette.
type Cell struct {
	Char       byte
	Foreground uint16 // 0x0RGB
	Background uint16 // 0x0RGB
}

// Glyph returns the two packed words encoding the bitmap for character
// code ch, from the mapped font (or the built-in default font if none is
// mapped).
func (d *LEM1802) Glyph(c *dcpu.CPU, ch byte) (w0, w1 uint16) {
	if d.fontAddr == 0 {
		i := int(ch) * fontGlyphWords
		return d.defaultFont[i], d.defaultFont[i+1]
	}
	addr := d.fontAddr + uint16(ch)*fontGlyphWords
	return c.Peek(addr), c.Peek(addr + 1)
}

// Render decodes the full 32x12 character grid from VRAM, resolving each
// cell's colors through the active palette (the mapped one, or the
// built-in default if none is mapped). It returns nil if the screen
// isn't currently mapped.
func (d *LEM1802) Render(c *dcpu.CPU) []Cell {
	if !d.Mapped() {
		return nil
	}
	cells := make([]Cell, tileCols*tileRows)
	addr := d.vramAddr
	for i := range cells {
		word := c.Peek(addr)
		addr++
		ch := byte(word & 0x7f)
		fg := (word >> 12) & 0xf
		bg := (word >> 8) & 0xf
		cells[i] = Cell{Char: ch, Foreground: d.paletteColor(c, fg), Background: d.paletteColor(c, bg)}
	}
	return cells
}

func (d *LEM1802) paletteColor(c *dcpu.CPU, index uint16) uint16 {
	if d.paletteAddr == 0 {
		return d.defaultPalette[index]
	}
	return c.Peek(d.paletteAddr + index)
}
