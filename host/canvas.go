package host

import (
	"image"
	"image/color"
)

// Tile geometry for the LEM1802's 32x12 character grid, each cell 4x8
// pixels.
const (
	TileW = 4
	TileH = 8

	tileCols = 32
	tileRows = 12

	// fontAtlasCols lays the 128 glyphs out 32 to a row, so the atlas is
	// exactly 128x32 pixels: the font asset's on-disk layout, and the
	// shape the -cvf conversion tool reads and writes.
	fontAtlasCols = 32
	fontAtlasRows = 128 / fontAtlasCols
)

// DisplayWidth and DisplayHeight are the LEM1802 grid's pixel dimensions
// at 1x scale.
const (
	DisplayWidth  = tileCols * TileW
	DisplayHeight = tileRows * TileH
)

// Canvas is an off-screen RGBA pixel buffer a frame is rendered into
// before being handed to pixel.PictureDataFromImage to draw as a sprite.
type Canvas struct {
	img *image.RGBA
}

// NewCanvas returns a w x h canvas, fully transparent.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// Image exposes the backing buffer for pixel.PictureDataFromImage.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// FillRect paints every pixel in rect with col: used for the border fill
// and for each tile's background before its glyph is blitted on top.
func (c *Canvas) FillRect(rect image.Rectangle, col color.RGBA) {
	rect = rect.Intersect(c.img.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c.img.SetRGBA(x, y, col)
		}
	}
}

// BlitRect copies the set bits of srcRect out of atlas into dstRect on c,
// painting tint wherever the source glyph bit is set and leaving c's
// existing pixels (the tile's background, already filled) alone
// elsewhere. srcRect and dstRect must be the same size.
func (c *Canvas) BlitRect(atlas *image.RGBA, srcRect, dstRect image.Rectangle, tint color.RGBA) {
	w, h := srcRect.Dx(), srcRect.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, _, _, a := atlas.At(srcRect.Min.X+x, srcRect.Min.Y+y).RGBA()
			if a == 0 {
				continue
			}
			c.img.SetRGBA(dstRect.Min.X+x, dstRect.Min.Y+y, tint)
		}
	}
}

// GlyphRect returns the font atlas source rectangle for character code
// ch, as laid out by BuildFontAtlas.
func GlyphRect(ch byte) image.Rectangle {
	col := int(ch) % fontAtlasCols
	row := int(ch) / fontAtlasCols
	return image.Rect(col*TileW, row*TileH, col*TileW+TileW, row*TileH+TileH)
}

// BuildFontAtlas rasterizes all 128 glyphs glyph(ch) supplies into a
// single fontAtlasCols*TileW x fontAtlasRows*TileH opaque/transparent
// bitmap, so the renderer can blit characters out of one source image
// instead of decoding font words every frame. glyph mirrors
// device.LEM1802.Glyph's two-packed-word return.
//
// The 32 bits of (w0<<16|w1) are consumed column by column, 8 bits (top
// to bottom) per column, 4 columns per glyph, MSB first.
func BuildFontAtlas(glyph func(ch byte) (w0, w1 uint16)) *image.RGBA {
	atlas := image.NewRGBA(image.Rect(0, 0, fontAtlasCols*TileW, fontAtlasRows*TileH))
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	for ch := 0; ch < 128; ch++ {
		w0, w1 := glyph(byte(ch))
		fontCode := uint32(w0)<<16 | uint32(w1)
		rect := GlyphRect(byte(ch))

		for col := 0; col < TileW; col++ {
			for row := 0; row < TileH; row++ {
				set := fontCode&0x80000000 != 0
				fontCode <<= 1
				if !set {
					continue
				}
				// Bits run top-to-bottom within fontCode but the glyph's
				// rows are stored bottom-up, matching the original's
				// y = cy + TILE_H - 1 - j.
				y := rect.Min.Y + TileH - 1 - row
				atlas.SetRGBA(rect.Min.X+col, y, white)
			}
		}
	}
	return atlas
}

// ExtractGlyphs is BuildFontAtlas's inverse: given a 128x32 font image
// (opaque pixel = set bit, as LoadFontImage produces), it packs each
// glyph's bits back into the two words device.LEM1802.Glyph would have
// returned, for the -cvf image-to-font conversion tool.
func ExtractGlyphs(atlas *image.RGBA) [128][2]uint16 {
	var glyphs [128][2]uint16

	for ch := 0; ch < 128; ch++ {
		rect := GlyphRect(byte(ch))
		var fontCode uint32

		for col := 0; col < TileW; col++ {
			for row := 0; row < TileH; row++ {
				y := rect.Min.Y + TileH - 1 - row
				_, _, _, a := atlas.At(rect.Min.X+col, y).RGBA()
				fontCode <<= 1
				if a != 0 {
					fontCode |= 1
				}
			}
		}

		glyphs[ch][0] = uint16(fontCode >> 16)
		glyphs[ch][1] = uint16(fontCode)
	}
	return glyphs
}
