package render

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"lemterrain/internal/core"
)

// Image colours the grid with the palette.
func Image(g *core.FloatGrid, p Palette) *image.RGBA {
	size := g.Size()
	img := image.NewRGBA(image.Rect(0, 0, size.W, size.H))
	FillElevationRGBA(img.Pix, g, p)
	return img
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
