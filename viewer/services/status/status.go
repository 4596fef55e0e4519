// Package status is the viewer's status bar: one line of text and a progress
// gauge along the bottom edge of the framebuffer.
//
// All methods are owner-thread only. Every update is echoed to the logger, so
// headless runs still show what the bar would.
package status

import (
	"fmt"
	"image/color"

	"csgview/hal"

	"tinygo.org/x/tinyfont"
)

const (
	barHeight   = 10
	gaugeWidth  = 60
	textPadding = 2
)

var (
	colorBG    = color.RGBA{R: 0x10, G: 0x12, B: 0x18, A: 0xFF}
	colorText  = color.RGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}
	colorGauge = color.RGBA{R: 0x3C, G: 0x9A, B: 0xE8, A: 0xFF}
	colorTrack = color.RGBA{R: 0x30, G: 0x34, B: 0x40, A: 0xFF}
	colorRate  = color.RGBA{R: 0x8C, G: 0xD8, B: 0x6C, A: 0xFF}
)

// Bar holds the latest status and draws it on request.
type Bar struct {
	log  hal.Logger
	font tinyfont.Fonter

	text    string
	percent int
	updates int
	fps     int
}

func New(log hal.Logger) *Bar {
	return &Bar{log: log, font: &tinyfont.TomThumb}
}

// SetStatusText replaces the text and leaves the gauge alone.
func (b *Bar) SetStatusText(text string) {
	b.text = text
	b.updates++
	b.logf("status: %s", text)
}

// SetProgress sets gauge and text together.
func (b *Bar) SetProgress(percent int, text string) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	b.percent = percent
	b.text = text
	b.updates++
	b.logf("status: %3d%% %s", percent, text)
}

func (b *Bar) Text() string { return b.text }

func (b *Bar) Percent() int { return b.percent }

// SetFPS sets the frame rate shown at the right end of the bar; 0 hides it.
// It is not logged.
func (b *Bar) SetFPS(fps int) {
	if fps < 0 {
		fps = 0
	}
	b.fps = fps
}

func (b *Bar) FPS() int { return b.fps }

// Updates counts calls to SetStatusText and SetProgress.
func (b *Bar) Updates() int { return b.updates }

// Height is the number of framebuffer rows Draw covers.
func (b *Bar) Height() int { return barHeight }

// Draw paints the bar into the bottom rows of fb. It does not present.
func (b *Bar) Draw(fb hal.Framebuffer) {
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 || fb.Buffer() == nil {
		return
	}
	w, h := fb.Width(), fb.Height()
	if w <= 0 || h < barHeight {
		return
	}
	d := &fbDisplay{fb: fb}
	top := int16(h - barHeight)
	_ = d.FillRectangle(0, top, int16(w), barHeight, colorBG)

	textX := int16(textPadding)
	if w > gaugeWidth*3 {
		gx := int16(textPadding)
		_ = d.FillRectangle(gx, top+2, gaugeWidth, barHeight-4, colorTrack)
		if fill := int16(gaugeWidth * b.percent / 100); fill > 0 {
			_ = d.FillRectangle(gx, top+2, fill, barHeight-4, colorGauge)
		}
		textX = gx + gaugeWidth + textPadding*2
	}
	baseline := top + barHeight - textPadding
	if b.text != "" {
		tinyfont.WriteLine(d, b.font, textX, baseline, b.text, colorText)
	}
	if b.fps > 0 {
		rate := fmt.Sprintf("%d fps", b.fps)
		_, outbox := tinyfont.LineWidth(b.font, rate)
		rx := int16(w) - int16(outbox) - textPadding
		if rx > textX {
			_ = d.FillRectangle(rx-textPadding, top, int16(outbox)+textPadding*2, barHeight, colorBG)
			tinyfont.WriteLine(d, b.font, rx, baseline, rate, colorRate)
		}
	}
}

func (b *Bar) logf(format string, args ...any) {
	if b.log == nil {
		return
	}
	b.log.WriteLineString(fmt.Sprintf(format, args...))
}
