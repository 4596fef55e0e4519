// Package session ties model loading, recording and playback together.
//
// A session file is the model path on the first line followed by an encoded
// input log. Playing one starts the model load and the replay; recording
// writes one.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"csgview/hal"
	"csgview/viewer/input"
	"csgview/viewer/job"
	"csgview/viewer/model"
	"csgview/viewer/pipeline"
	"csgview/viewer/quarkgl"
)

// NoProjectMessage is shown when recording is requested before any load.
const NoProjectMessage = "No project loaded!"

var ErrNoProject = errors.New("session: no project loaded")

// View is the part of the viewer a session drives.
type View interface {
	Install(mesh quarkgl.Mesh)
	ResetCamera()
	OnSceneUpdated()
}

// StatusSink shows one-line messages.
type StatusSink interface {
	SetStatusText(text string)
}

type Config struct {
	// GatePlayback delays replay until the model load has finalized.
	GatePlayback bool
	// StrictLog rejects session files with malformed event lines.
	StrictLog bool
}

// LoadJob is the job type produced by LoadModel.
type LoadJob = job.Job[*pipeline.Print]

// Coordinator owns the current project and the record/replay controls.
// All methods are owner-thread only.
type Coordinator struct {
	cfg    Config
	log    hal.Logger
	loader model.Loader
	runner *job.Runner
	disp   *input.Dispatcher
	view   View
	status StatusSink

	project string
	load    *LoadJob

	playbackDone []func()
}

type Deps struct {
	Logger     hal.Logger
	Loader     model.Loader
	Runner     *job.Runner
	Dispatcher *input.Dispatcher
	View       View
	Status     StatusSink
}

func New(cfg Config, d Deps) *Coordinator {
	if d.Loader == nil {
		d.Loader = model.FileLoader{}
	}
	return &Coordinator{
		cfg:    cfg,
		log:    d.Logger,
		loader: d.Loader,
		runner: d.Runner,
		disp:   d.Dispatcher,
		view:   d.View,
		status: d.Status,
	}
}

// Project returns the model path of the most recent load, or "".
func (c *Coordinator) Project() string { return c.project }

// LoadJob returns the most recent load job, or nil.
func (c *Coordinator) LoadJob() *LoadJob { return c.load }

func (c *Coordinator) Recording() bool { return c.disp.Mode() == input.ModeRecording }

// OnPlaybackDone registers fn to run after every session replay completes.
func (c *Coordinator) OnPlaybackDone(fn func()) {
	if fn != nil {
		c.playbackDone = append(c.playbackDone, fn)
	}
}

// LoadModel starts a background load of path and makes it the project. A load
// already in flight keeps running but its result is discarded.
func (c *Coordinator) LoadModel(path string, opts ...job.Option[*pipeline.Print]) *LoadJob {
	loader := c.loader
	work := func(ctx context.Context, report func(int, string)) (*pipeline.Print, error) {
		m, cfg, err := loader.Load(path)
		if err != nil {
			return nil, err
		}
		p := pipeline.NewPrint()
		if err := p.Apply(m, cfg); err != nil {
			return nil, err
		}
		p.SetTask(pipeline.TaskParams{ToStep: pipeline.StepHollowing})
		p.SetStatusCallback(func(s pipeline.Status) { report(s.Percent, s.Text) })
		if err := p.Process(ctx); err != nil {
			return nil, err
		}
		return p, nil
	}

	install := job.WithInstall(func(p *pipeline.Print) {
		if c.view != nil {
			c.view.Install(p.Result())
		}
		c.setStatus(fmt.Sprintf("Model %s loaded.", path))
	})
	j := job.New("load "+path, work, append([]job.Option[*pipeline.Print]{install}, opts...)...)

	c.project = path
	c.load = j
	if err := c.runner.Start(j); err != nil {
		c.logf("session: load %s not started: %v", path, err)
	}
	return j
}

// PlaySession replays the session file at path. An unreadable file is a
// silent no-op reported only in the log; the return value says whether
// playback was scheduled.
func (c *Coordinator) PlaySession(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		c.logf("session: cannot open %s: %v", path, err)
		return false
	}
	defer f.Close()

	modelPath, events, err := c.readSession(f)
	if err != nil {
		c.logf("session: %s: %v", path, err)
		return false
	}
	if err := c.disp.Load(events); err != nil {
		c.logf("session: %s: %v", path, err)
		return false
	}
	c.logf("session: playing %s model=%q events=%d", path, modelPath, len(events))

	if !c.cfg.GatePlayback {
		// Replay races the load, as the viewer always has: early events may
		// act on the previous scene.
		c.LoadModel(modelPath)
		return c.play()
	}
	// The replay is keyed on this session's own load, so a later LoadModel
	// that supersedes it does not strand the playback.
	c.LoadModel(modelPath, job.WithFinalized(func(_ job.Outcome[*pipeline.Print], current bool) {
		if !current {
			c.logf("session: %s load superseded, replaying anyway", path)
		}
		if !c.play() {
			c.finishPlayback()
		}
	}))
	return true
}

func (c *Coordinator) readSession(r io.Reader) (string, input.Log, error) {
	br := bufio.NewReader(r)
	first, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", nil, err
	}
	modelPath := strings.TrimRight(first, "\r\n")

	var events input.Log
	if c.cfg.StrictLog {
		events, err = input.DecodeStrict(br, 1)
	} else {
		events, err = input.Decode(br)
	}
	if err != nil {
		return "", nil, err
	}
	return modelPath, events, nil
}

func (c *Coordinator) play() bool {
	if err := c.disp.Play(c.finishPlayback); err != nil {
		c.logf("session: playback not started: %v", err)
		return false
	}
	return true
}

func (c *Coordinator) finishPlayback() {
	for _, fn := range c.playbackDone {
		fn()
	}
}

// StartRecording resets the camera and starts capturing live input. It needs
// a project, and is refused without side effects while a session replays.
func (c *Coordinator) StartRecording() error {
	if c.load == nil {
		c.setStatus(NoProjectMessage)
		return ErrNoProject
	}
	if c.disp.Mode() == input.ModePlaying {
		return input.ErrPlaying
	}
	if c.view != nil {
		c.view.ResetCamera()
		c.view.OnSceneUpdated()
	}
	return c.disp.ArmRecording()
}

// StopRecording stops capturing and writes the session to path.
func (c *Coordinator) StopRecording(path string) error {
	if c.load == nil {
		c.setStatus(NoProjectMessage)
		return ErrNoProject
	}
	events := c.disp.DisarmRecording()
	if err := c.writeSession(path, events); err != nil {
		c.logf("session: save %s: %v", path, err)
		return err
	}
	c.logf("session: saved %s events=%d", path, len(events))
	return nil
}

// ToggleRecording starts or stops recording, saving to path on stop.
func (c *Coordinator) ToggleRecording(path string) error {
	if c.Recording() {
		return c.StopRecording(path)
	}
	return c.StartRecording()
}

func (c *Coordinator) writeSession(path string, events input.Log) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.WriteString(f, c.project+"\n"); err != nil {
		return err
	}
	return input.Encode(f, events)
}

func (c *Coordinator) setStatus(text string) {
	if c.status != nil {
		c.status.SetStatusText(text)
	}
}

func (c *Coordinator) logf(format string, args ...any) {
	if c.log == nil {
		return
	}
	c.log.WriteLineString(fmt.Sprintf(format, args...))
}
