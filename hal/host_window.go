//go:build cgo

package hal

import (
	"errors"
	"fmt"

	"csgview/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Width  int
	Height int
	Scale  int
	TPS    int
}

// RunWindow starts a desktop window that displays the framebuffer and forwards
// keyboard and pointer input. The step function returned by newApp runs on the
// ebiten update goroutine, which is the viewer's owner thread.
// It blocks until the window closes or step returns ErrQuit.
func RunWindow(newApp func(HAL) func() error, cfg WindowConfig) error {
	if cfg.Scale <= 0 {
		cfg.Scale = 2
	}
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}
	h := newHost(cfg.Width, cfg.Height)
	step := newApp(h)

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle("csgview (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*cfg.Scale, h.fb.height*cfg.Scale)
	ebiten.SetTPS(cfg.TPS)
	err := ebiten.RunGame(g)
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("%w: %v", ErrNoContext, err)
	}
	return nil
}

type hostGame struct {
	h     *hostHAL
	pix   []byte
	fbImg *ebiten.Image
	step  func() error
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	g.h.ptr.poll()
	g.h.t.advance()
	if g.step != nil {
		if err := g.step(); err != nil {
			if errors.Is(err, ErrQuit) {
				return ebiten.Termination
			}
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.fbImg == nil {
		g.pix = make([]byte, fb.width*fb.height*4)
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}
	fb.expandRGBA(g.pix)
	g.fbImg.WritePixels(g.pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
