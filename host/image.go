package host

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

// LoadImage decodes a PNG at path into an image.Image, for loading a
// custom font or palette asset ahead of a run.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

// LoadFontImage loads a font asset and alpha-keys it: any pixel that
// isn't pure white is replaced with fully transparent, leaving only the
// glyph strokes opaque, so the result can be dropped straight into
// BlitRect as a font atlas.
func LoadFontImage(path string) (*image.RGBA, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	transparent := color.RGBA{}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r>>8 == 255 && g>>8 == 255 && b>>8 == 255 {
				out.SetRGBA(x, y, white)
			} else {
				out.SetRGBA(x, y, transparent)
			}
		}
	}
	return out, nil
}

// LoadPaletteImage loads a palette asset as a flat list of 0x0RGB words,
// one per pixel in row-major order. Nothing in this module calls it: the
// LEM1802 builds its default palette itself, and -cvf converts fonts only.
func LoadPaletteImage(path string) ([]uint16, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	words := make([]uint16, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			word := uint16(r>>12)<<8 | uint16(g>>12)<<4 | uint16(b>>12)
			words = append(words, word)
		}
	}
	return words, nil
}
