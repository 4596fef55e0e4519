package quarkgl

// Target is a pixel sink. Implementations clip out-of-range coordinates.
type Target interface {
	Size() (w, h int)
	SetPixel(x, y int, c Color)
	Clear(c Color)
}

// RGB565Target draws into a little-endian RGB565 buffer.
type RGB565Target struct {
	Buf    []byte
	Stride int // bytes per row
	W, H   int
}

func (t *RGB565Target) Size() (w, h int) { return t.W, t.H }

func (t *RGB565Target) Clear(c Color) {
	if !t.ok() {
		return
	}
	p := c.RGB565()
	for y := 0; y < t.H; y++ {
		row := t.Buf[y*t.Stride:]
		for x := 0; x < t.W && x*2+1 < len(row); x++ {
			row[x*2] = byte(p)
			row[x*2+1] = byte(p >> 8)
		}
	}
}

func (t *RGB565Target) SetPixel(x, y int, c Color) {
	if !t.ok() || x < 0 || y < 0 || x >= t.W || y >= t.H {
		return
	}
	off := y*t.Stride + x*2
	if off+1 >= len(t.Buf) {
		return
	}
	p := c.RGB565()
	t.Buf[off] = byte(p)
	t.Buf[off+1] = byte(p >> 8)
}

func (t *RGB565Target) ok() bool {
	return t != nil && t.Stride > 0 && t.W > 0 && t.H > 0 && len(t.Buf) >= (t.H-1)*t.Stride+t.W*2
}
