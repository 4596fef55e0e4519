package status

import (
	"image/color"

	"csgview/hal"

	"tinygo.org/x/drivers"
)

// fbDisplay lets tinyfont draw into an RGB565 framebuffer.
type fbDisplay struct {
	fb hal.Framebuffer
}

var _ drivers.Displayer = (*fbDisplay)(nil)

func (d *fbDisplay) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.put(int(x), int(y), rgb565(c))
}

// Display is a no-op; the canvas presents once per frame.
func (d *fbDisplay) Display() error { return nil }

func (d *fbDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	w, h := d.fb.Width(), d.fb.Height()
	x0, x1 := clampInt(int(x), 0, w), clampInt(int(x)+int(width), 0, w)
	y0, y1 := clampInt(int(y), 0, h), clampInt(int(y)+int(height), 0, h)
	p := rgb565(c)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			d.put(px, py, p)
		}
	}
	return nil
}

func (d *fbDisplay) put(x, y int, p uint16) {
	if x < 0 || y < 0 || x >= d.fb.Width() || y >= d.fb.Height() {
		return
	}
	buf := d.fb.Buffer()
	off := y*d.fb.StrideBytes() + x*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(p)
	buf[off+1] = byte(p >> 8)
}

func rgb565(c color.RGBA) uint16 {
	return uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
