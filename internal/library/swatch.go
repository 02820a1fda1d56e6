package library

import (
	"fmt"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
)

const swatchSide = 8

// Swatch returns the average colour of the image at path as #rrggbb. The TUI paints
// grid cells with it.
func Swatch(path string) (string, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return "", fmt.Errorf("imgio.Open: %w", err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return "", fmt.Errorf("empty image %s", path)
	}
	small := transform.Resize(img, swatchSide, swatchSide, transform.Linear)

	var r, g, bl, n uint64
	sb := small.Bounds()
	for y := sb.Min.Y; y < sb.Max.Y; y++ {
		for x := sb.Min.X; x < sb.Max.X; x++ {
			c := small.RGBAAt(x, y)
			r += uint64(c.R)
			g += uint64(c.G)
			bl += uint64(c.B)
			n++
		}
	}
	if n == 0 {
		return "", fmt.Errorf("empty image %s", path)
	}
	return fmt.Sprintf("#%02x%02x%02x", r/n, g/n, bl/n), nil
}
