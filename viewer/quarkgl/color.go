package quarkgl

// Color is an 8-bit RGB color.
type Color struct {
	R, G, B uint8
}

func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b} }

// Shade scales every channel by k, clamped to [0,1].
func (c Color) Shade(k Scalar) Color {
	k = Clamp01(k)
	return Color{
		R: uint8(Scalar(c.R) * k),
		G: uint8(Scalar(c.G) * k),
		B: uint8(Scalar(c.B) * k),
	}
}

// RGB565 packs c into the framebuffer's 16-bit format.
func (c Color) RGB565() uint16 {
	return uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
}
