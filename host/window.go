// Package host supplies the windowed collaborators the emulator core
// consumes through narrow interfaces: a render surface, a frame clock,
// keyboard input, and font/palette image loading.
package host

import (
	"image"
	"image/color"
	"time"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/pixelgl"
	"github.com/faiface/pixel/text"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"

	"github.com/dcpu16/emulator/device"
)

// Window owns the pixelgl window, the LEM1802's render surface, and (in
// debug mode) a text overlay: an image.RGBA game surface plus a debug
// panel with its own text.Atlas.
type Window struct {
	win    *pixelgl.Window
	canvas *Canvas
	matrix pixel.Matrix
	scale  float64

	isDebug      bool
	debugAtlas   *text.Atlas
	debugRegText *text.Text

	lastFrame time.Time
}

// WindowConfig configures the host window's title and pixel scale; Debug
// enables the register/disassembly overlay.
type WindowConfig struct {
	Title string
	Scale float64
	Debug bool
}

// NewWindow opens a pixelgl window sized to the LEM1802's 128x96 display
// scaled by cfg.Scale (plus room for the debug panel, if enabled).
func NewWindow(cfg WindowConfig) (*Window, error) {
	scale := cfg.Scale
	if scale <= 0 {
		scale = 4
	}
	gameW := float64(DisplayWidth) * scale
	gameH := float64(DisplayHeight) * scale

	debugW := 0.0
	if cfg.Debug {
		debugW = 320
	}

	config := pixelgl.WindowConfig{
		Title:  cfg.Title,
		Bounds: pixel.R(0, 0, gameW+debugW, gameH),
		VSync:  true,
	}
	win, err := pixelgl.NewWindow(config)
	if err != nil {
		return nil, err
	}

	canvas := NewCanvas(DisplayWidth, DisplayHeight)
	pic := pixel.PictureDataFromImage(canvas.Image())
	matrix := pixel.IM.Moved(pic.Bounds().Center().Scaled(scale)).Scaled(pic.Bounds().Center().Scaled(scale), scale)

	w := &Window{
		win:       win,
		canvas:    canvas,
		matrix:    matrix,
		scale:     scale,
		isDebug:   cfg.Debug,
		lastFrame: time.Now(),
	}

	if cfg.Debug {
		w.debugAtlas = text.NewAtlas(basicfont.Face7x13, text.ASCII)
		w.debugRegText = text.New(pixel.V(gameW+8, gameH-20), w.debugAtlas)
	}

	return w, nil
}

// Closed reports whether the user has requested the window close.
func (w *Window) Closed() bool {
	return w.win.Closed()
}

// Delta returns the wall-clock seconds elapsed since the previous call to
// Delta (or since the window was created, on the first call), for
// driving device.Update(deltaSeconds).
func (w *Window) Delta() float64 {
	now := time.Now()
	dt := now.Sub(w.lastFrame).Seconds()
	w.lastFrame = now
	return dt
}

// PollKeyEvents drains the window's input state for this frame into
// keyboard device events.
func (w *Window) PollKeyEvents() []device.KeyEvent {
	return pollKeyEvents(w.win)
}

// WriteDebugText replaces the debug overlay's text, a no-op if the window
// wasn't created with Debug enabled.
func (w *Window) WriteDebugText(s string) {
	if w.debugRegText == nil {
		return
	}
	w.debugRegText.Clear()
	w.debugRegText.WriteString(s)
}

// Present clears the canvas, fills the border, blits each VRAM cell's
// glyph, then flips the window. atlas is the font bitmap BuildFontAtlas
// produced; each cell's colors are already-resolved 0x0RGB words, and
// borderColor fills the whole canvas before the cells are drawn.
func (w *Window) Present(cells []device.Cell, atlas *image.RGBA, borderColor color.RGBA) {
	w.canvas.FillRect(w.canvas.Image().Bounds(), borderColor)

	for i, cell := range cells {
		col := i % tileCols
		row := i / tileCols
		dst := image.Rect(col*TileW, row*TileH, col*TileW+TileW, row*TileH+TileH)

		w.canvas.FillRect(dst, ColorFromWord(cell.Background))
		w.canvas.BlitRect(atlas, GlyphRect(cell.Char), dst, ColorFromWord(cell.Foreground))
	}

	w.win.Clear(colornames.Black)

	pic := pixel.PictureDataFromImage(w.canvas.Image())
	pixel.NewSprite(pic, pic.Bounds()).Draw(w.win, w.matrix)

	if w.isDebug && w.debugRegText != nil {
		w.debugRegText.Draw(w.win, pixel.IM)
	}

	w.win.Update()
}

// ColorFromWord expands a packed 0x0RGB color word (4 bits per channel,
// as the LEM1802 stores in its palette) into an opaque color.RGBA.
func ColorFromWord(word uint16) color.RGBA {
	r := uint8((word>>8)&0xf) << 4
	g := uint8((word>>4)&0xf) << 4
	b := uint8(word&0xf) << 4
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Run drives the fixed-budget frame loop: each tick runs cyclesPerFrame
// CPU cycles (stopping early if the CPU goes broken), updates devices,
// drains input through pushKey/releaseKey, and renders, sleeping off
// whatever's left of a 60Hz frame interval, until the window closes.
func Run(w *Window, step func(), cyclesPerFrame uint64, cyclesDone func() uint64, broken func() bool,
	update func(delta float64), pushKey func(code uint16), releaseKey func(code uint16),
	render func()) {

	const fps = 60.0
	interval := time.Duration(float64(time.Second) / fps)

	for !w.Closed() {
		frameStart := time.Now()

		start := cyclesDone()
		for cyclesDone()-start < cyclesPerFrame && !broken() {
			step()
		}

		delta := w.Delta()
		update(delta)

		for _, ev := range w.PollKeyEvents() {
			if ev.Pressed {
				pushKey(ev.Code)
			} else {
				releaseKey(ev.Code)
			}
		}

		render()

		if elapsed := time.Since(frameStart); elapsed < interval {
			time.Sleep(interval - elapsed)
		}
	}
}
