// Package pipeline prepares a loaded model for display.
//
// A Print runs a fixed sequence of steps over a model, up to the step named by
// its TaskParams, and reports progress through a status callback. Process is
// blocking and meant to run on a job worker; nothing here touches the owner
// thread.
package pipeline

import (
	"context"
	"fmt"
	"math"

	"csgview/viewer/model"
	"csgview/viewer/quarkgl"
)

// Step identifies one pipeline stage. Steps run in declaration order.
type Step uint8

const (
	StepValidate Step = iota
	StepNormals
	StepPlace
	StepHollowing
	stepCount
)

func (s Step) String() string {
	switch s {
	case StepValidate:
		return "validate"
	case StepNormals:
		return "normals"
	case StepPlace:
		return "place"
	case StepHollowing:
		return "hollowing"
	default:
		return fmt.Sprintf("step(%d)", uint8(s))
	}
}

// TaskParams bounds how far Process goes.
type TaskParams struct {
	ToStep Step
}

// Status is one progress report.
type Status struct {
	Percent int
	Text    string
}

// Settings are the print options read from a model Config.
type Settings struct {
	Scale            float64
	HollowingEnable  bool
	HollowingMinWall float64
}

const (
	keyScale            = "scale"
	keyHollowingEnable  = "hollowing_enable"
	keyHollowingMinWall = "hollowing_min_thickness"
)

func settingsFrom(cfg model.Config) Settings {
	return Settings{
		Scale:            cfg.Float(keyScale, 1),
		HollowingEnable:  cfg.Bool(keyHollowingEnable, false),
		HollowingMinWall: cfg.Float(keyHollowingMinWall, 3),
	}
}

// Print is the processing engine for one model.
type Print struct {
	src      *model.Model
	settings Settings
	task     TaskParams
	status   func(Status)

	positions []quarkgl.Vec3
	normals   []quarkgl.Vec3
	tris      [][3]uint32
	done      [stepCount]bool
}

func NewPrint() *Print {
	return &Print{task: TaskParams{ToStep: StepHollowing}}
}

// Apply binds a model and its settings. It resets any previous result.
func (p *Print) Apply(m *model.Model, cfg model.Config) error {
	if m == nil {
		return &ProcessingError{Step: StepValidate, Err: ErrNoModel}
	}
	p.src = m
	p.settings = settingsFrom(cfg)
	p.positions = append([]quarkgl.Vec3(nil), m.Positions...)
	p.normals = append([]quarkgl.Vec3(nil), m.Normals...)
	p.tris = append([][3]uint32(nil), m.Triangles...)
	p.done = [stepCount]bool{}
	return nil
}

func (p *Print) SetTask(t TaskParams) { p.task = t }

func (p *Print) Task() TaskParams { return p.task }

func (p *Print) Settings() Settings { return p.settings }

// SetStatusCallback sets the progress receiver. It is called from Process's
// goroutine.
func (p *Print) SetStatusCallback(fn func(Status)) { p.status = fn }

// Done reports whether step s completed in the last Process call.
func (p *Print) Done(s Step) bool { return s < stepCount && p.done[s] }

// Model returns the source model.
func (p *Print) Model() *model.Model { return p.src }

type stage struct {
	step    Step
	percent int
	text    string
	run     func(*Print) error
}

var stages = [...]stage{
	{StepValidate, 10, "Validating mesh", (*Print).validate},
	{StepNormals, 30, "Computing normals", (*Print).computeNormals},
	{StepPlace, 50, "Placing object", (*Print).place},
	{StepHollowing, 70, "Hollowing model", (*Print).hollow},
}

// Process runs every step up to and including the task's ToStep. ctx is
// checked between steps.
func (p *Print) Process(ctx context.Context) error {
	if p.src == nil {
		return &ProcessingError{Step: StepValidate, Err: ErrNoModel}
	}
	for _, st := range stages {
		if st.step > p.task.ToStep {
			break
		}
		if err := ctx.Err(); err != nil {
			return &ProcessingError{Step: st.step, Err: err}
		}
		p.report(st.percent, st.text)
		if err := st.run(p); err != nil {
			return &ProcessingError{Step: st.step, Err: err}
		}
		p.done[st.step] = true
	}
	p.report(100, "Processing done")
	return nil
}

func (p *Print) report(percent int, text string) {
	if p.status != nil {
		p.status(Status{Percent: percent, Text: text})
	}
}

// Result builds a renderable mesh from the processed geometry.
func (p *Print) Result() quarkgl.Mesh {
	mesh := quarkgl.Mesh{
		Vertices: make([]quarkgl.Vertex, len(p.positions)),
		Indices:  make([]uint32, 0, len(p.tris)*3),
	}
	for i, pos := range p.positions {
		v := quarkgl.Vertex{Pos: pos}
		if i < len(p.normals) {
			v.Normal = p.normals[i]
		}
		mesh.Vertices[i] = v
	}
	for _, t := range p.tris {
		mesh.Indices = append(mesh.Indices, t[0], t[1], t[2])
	}
	return mesh
}

func (p *Print) validate() error {
	if len(p.tris) == 0 {
		return ErrNoTriangles
	}
	for i, v := range p.positions {
		if !finite(v) {
			return fmt.Errorf("vertex %d: %w", i+1, ErrNonFinite)
		}
	}
	n := uint32(len(p.positions))
	kept := p.tris[:0]
	for _, t := range p.tris {
		if t[0] >= n || t[1] >= n || t[2] >= n {
			return fmt.Errorf("triangle %v: %w", t, ErrBadIndex)
		}
		if t[0] == t[1] || t[1] == t[2] || t[0] == t[2] {
			continue
		}
		kept = append(kept, t)
	}
	if len(kept) == 0 {
		return ErrNoTriangles
	}
	p.tris = kept
	return nil
}

// computeNormals fills per-vertex normals by area-weighted face averaging when
// the model did not carry its own.
func (p *Print) computeNormals() error {
	if len(p.normals) == len(p.positions) {
		return nil
	}
	p.normals = make([]quarkgl.Vec3, len(p.positions))
	for _, t := range p.tris {
		a, b, c := p.positions[t[0]], p.positions[t[1]], p.positions[t[2]]
		n := quarkgl.Cross(b.Sub(a), c.Sub(a))
		for _, i := range t {
			p.normals[i] = p.normals[i].Add(n)
		}
	}
	for i := range p.normals {
		p.normals[i] = quarkgl.Normalize(p.normals[i])
	}
	return nil
}

// place moves the model's bounding-box center to the origin and applies the
// configured scale.
func (p *Print) place() error {
	s := p.settings.Scale
	if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return fmt.Errorf("scale %v: %w", s, ErrBadSetting)
	}
	var b quarkgl.Bounds
	for _, v := range p.positions {
		b = b.Extend(v)
	}
	c := b.Center()
	for i, v := range p.positions {
		p.positions[i] = v.Sub(c).Mul(float32(s))
	}
	return nil
}

// hollow adds an inner shell offset along the vertex normals by the minimum
// wall thickness, with reversed winding so it faces inwards.
func (p *Print) hollow() error {
	if !p.settings.HollowingEnable {
		return nil
	}
	wall := p.settings.HollowingMinWall
	if wall <= 0 || math.IsNaN(wall) {
		return fmt.Errorf("%s %v: %w", keyHollowingMinWall, wall, ErrBadSetting)
	}
	n := len(p.positions)
	if uint64(n)*2 > math.MaxUint32 {
		return ErrTooLarge
	}
	off := uint32(n)
	for i := 0; i < n; i++ {
		inner := p.positions[i].Sub(p.normals[i].Mul(float32(wall)))
		p.positions = append(p.positions, inner)
		p.normals = append(p.normals, p.normals[i].Neg())
	}
	outer := len(p.tris)
	for i := 0; i < outer; i++ {
		t := p.tris[i]
		p.tris = append(p.tris, [3]uint32{t[0] + off, t[2] + off, t[1] + off})
	}
	return nil
}

func finite(v quarkgl.Vec3) bool {
	for _, f := range [3]float32{v.X, v.Y, v.Z} {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return false
		}
	}
	return true
}
