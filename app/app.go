// Package app wires the viewer together on top of a HAL.
package app

import (
	"fmt"

	"csgview/hal"
	"csgview/internal/buildinfo"
	"csgview/viewer/input"
	"csgview/viewer/job"
	"csgview/viewer/kernel"
	"csgview/viewer/model"
	"csgview/viewer/quarkgl"
	"csgview/viewer/services/status"
	"csgview/viewer/session"
	"csgview/viewer/tasks/canvas"
)

const welcomeMessage = "Welcome to csgview! F1 record, F2 open, F3 wireframe, Esc quit."

// Viewer is one running viewer instance. Everything except the tick relay
// runs on the owner thread inside Step.
type Viewer struct {
	cfg Config
	log hal.Logger

	k       *kernel.Kernel
	bar     *status.Bar
	disp    *input.Dispatcher
	runner  *job.Runner
	ctl     *canvas.Controller
	canvas  *canvas.Task
	session *session.Coordinator

	quit   bool
	closed bool
}

// New builds a viewer and returns its step function for the host runner.
func New(h hal.HAL, cfg Config) func() error {
	return NewViewer(h, cfg).Step
}

func NewViewer(h hal.HAL, cfg Config) *Viewer {
	v := &Viewer{cfg: cfg, log: h.Logger()}

	v.logf("app: %s", buildinfo.String())
	v.k = kernel.New()
	v.bar = status.New(v.log)
	installPanicHandler(v.log, v.bar)

	v.runner = job.NewRunner(v.k, v.bar, v.log, cfg.MaxWorkers)
	v.runner.OnFinalized(func(hd job.Handle, current bool) {
		v.logf("app: job %s finalized current=%v", hd.Name(), current)
	})

	v.disp = input.NewDispatcher(v.log)
	v.ctl = canvas.NewController(quarkgl.NewScene())
	v.disp.AddListener(v.ctl)

	v.session = session.New(session.Config{
		GatePlayback: cfg.GatePlayback,
		StrictLog:    cfg.StrictLog,
	}, session.Deps{
		Logger:     v.log,
		Loader:     model.FileLoader{},
		Runner:     v.runner,
		Dispatcher: v.disp,
		View:       v.ctl,
		Status:     v.bar,
	})

	v.canvas = canvas.New(canvas.Config{
		Display:    h.Display(),
		Input:      h.Input(),
		Logger:     v.log,
		Live:       v.disp,
		Controller: v.ctl,
		Status:     v.bar,
		Keys:       v,
	})

	// The dispatcher steps before the canvas so a replayed event is drawn in
	// the same turn it fires.
	v.k.AddTask(v.disp)
	v.k.AddTask(v.canvas)

	if ht := h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			go func() {
				for seq := range ch {
					v.k.TickTo(seq)
				}
			}()
		}
	}

	v.bar.SetStatusText(welcomeMessage)
	v.k.Post(v.runCommand)
	return v
}

// Step runs one owner-thread turn. It returns hal.ErrQuit once the viewer
// wants to close.
func (v *Viewer) Step() error {
	if v.closed {
		return hal.ErrQuit
	}
	v.k.Step()
	if v.quit {
		v.shutdown()
		return hal.ErrQuit
	}
	return nil
}

func (v *Viewer) Session() *session.Coordinator { return v.session }

func (v *Viewer) Dispatcher() *input.Dispatcher { return v.disp }

func (v *Viewer) Status() *status.Bar { return v.bar }

func (v *Viewer) Runner() *job.Runner { return v.runner }

func (v *Viewer) runCommand() {
	switch v.cfg.Command {
	case "":
		if v.cfg.ModelPath != "" {
			v.logf("app: F2 opens %s", v.cfg.ModelPath)
		}
	case CommandPlay:
		v.session.OnPlaybackDone(v.Quit)
		if !v.session.PlaySession(v.cfg.Path) {
			v.Quit()
		}
	default:
		v.logf("app: unknown command %q, opening interactively", v.cfg.Command)
	}
}

// ToggleRecording is bound to F1.
func (v *Viewer) ToggleRecording() {
	if err := v.session.ToggleRecording(v.cfg.RecordPath); err != nil {
		v.logf("app: recording: %v", err)
	}
}

// OpenModel is bound to F2.
func (v *Viewer) OpenModel() {
	if v.cfg.ModelPath == "" {
		v.bar.SetStatusText("No model path set (-model or CSGVIEW_MODEL_PATH).")
		return
	}
	v.session.LoadModel(v.cfg.ModelPath)
}

// Quit is bound to Escape and ends the run after the current turn.
func (v *Viewer) Quit() { v.quit = true }

func (v *Viewer) shutdown() {
	if v.closed {
		return
	}
	v.closed = true
	v.runner.Close()
	v.k.Close()
	v.logf("app: shutdown")
}

func (v *Viewer) logf(format string, args ...any) {
	if v.log == nil {
		return
	}
	v.log.WriteLineString(fmt.Sprintf(format, args...))
}
