// internal/adapter/render/canvas.go

package render

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgimg"
)

// one point per pixel, so Config sizes are exact image sizes
const dpi = 72

// Config sets the output image size in pixels
type Config struct {
	Width  int
	Height int
}

func (c Config) validate() error {
	if c.Width < 100 || c.Height < 80 {
		return fmt.Errorf("image size %dx%d is too small", c.Width, c.Height)
	}
	return nil
}

func (c Config) size() (vg.Length, vg.Length) {
	return vg.Length(c.Width), vg.Length(c.Height)
}

func newCanvas(cfg Config) *vgimg.Canvas {
	w, h := cfg.size()
	return vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
}

func encodePNG(c *vgimg.Canvas) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("error encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
