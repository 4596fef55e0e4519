package pipeline

import (
	"context"
	"errors"
	"math"
	"testing"

	"csgview/viewer/model"
	"csgview/viewer/quarkgl"
)

func tetra() *model.Model {
	return &model.Model{
		Name: "tetra",
		Positions: []quarkgl.Vec3{
			quarkgl.V3(0, 0, 0), quarkgl.V3(2, 0, 0), quarkgl.V3(0, 2, 0), quarkgl.V3(0, 0, 2),
		},
		Triangles: [][3]uint32{{0, 2, 1}, {0, 1, 3}, {0, 3, 2}, {1, 2, 3}},
	}
}

func TestProcessReportsStages(t *testing.T) {
	p := NewPrint()
	if err := p.Apply(tetra(), model.Config{}); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	p.SetTask(TaskParams{ToStep: StepHollowing})
	var got []Status
	p.SetStatusCallback(func(s Status) { got = append(got, s) })

	if err := p.Process(context.Background()); err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	want := []int{10, 30, 50, 70, 100}
	if len(got) != len(want) {
		t.Fatalf("statuses = %+v, want %d", got, len(want))
	}
	for i, pct := range want {
		if got[i].Percent != pct {
			t.Fatalf("status[%d].Percent = %d, want %d", i, got[i].Percent, pct)
		}
	}
	for s := StepValidate; s <= StepHollowing; s++ {
		if !p.Done(s) {
			t.Fatalf("Done(%v) = false", s)
		}
	}
	mesh := p.Result()
	if mesh.Triangles() != 4 {
		t.Fatalf("Triangles() = %d, want 4", mesh.Triangles())
	}
	if c := mesh.Bounds().Center(); math.Abs(float64(quarkgl.Len(c))) > 1e-6 {
		t.Fatalf("center = %v, want origin", c)
	}
}

func TestProcessStopsAtToStep(t *testing.T) {
	p := NewPrint()
	_ = p.Apply(tetra(), model.Config{"hollowing_enable": "1"})
	p.SetTask(TaskParams{ToStep: StepNormals})
	if err := p.Process(context.Background()); err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if p.Done(StepPlace) || p.Done(StepHollowing) {
		t.Fatalf("steps past ToStep ran")
	}
	if got := p.Result().Triangles(); got != 4 {
		t.Fatalf("Triangles() = %d, want 4", got)
	}
}

func TestHollowingAddsInnerShell(t *testing.T) {
	p := NewPrint()
	_ = p.Apply(tetra(), model.Config{"hollowing_enable": "yes", "hollowing_min_thickness": "0.1"})
	if err := p.Process(context.Background()); err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	mesh := p.Result()
	if mesh.Triangles() != 8 || len(mesh.Vertices) != 8 {
		t.Fatalf("mesh = %d tris %d verts, want 8 and 8", mesh.Triangles(), len(mesh.Vertices))
	}
	// Inner shell winding is reversed.
	if mesh.Indices[12] != 4 || mesh.Indices[13] != 5 || mesh.Indices[14] != 6 {
		t.Fatalf("first inner triangle = %v, want [4 5 6]", mesh.Indices[12:15])
	}
}

func TestProcessErrors(t *testing.T) {
	nan := float32(math.NaN())
	tests := []struct {
		name string
		m    *model.Model
		cfg  model.Config
		step Step
		want error
	}{
		{
			name: "degenerate only",
			m:    &model.Model{Positions: []quarkgl.Vec3{{}, {}}, Triangles: [][3]uint32{{0, 0, 1}}},
			step: StepValidate,
			want: ErrNoTriangles,
		},
		{
			name: "non-finite",
			m:    &model.Model{Positions: []quarkgl.Vec3{{X: nan}, {}, {}}, Triangles: [][3]uint32{{0, 1, 2}}},
			step: StepValidate,
			want: ErrNonFinite,
		},
		{
			name: "bad scale",
			m:    tetra(),
			cfg:  model.Config{"scale": "-1"},
			step: StepPlace,
			want: ErrBadSetting,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPrint()
			_ = p.Apply(tt.m, tt.cfg)
			err := p.Process(context.Background())
			var pe *ProcessingError
			if !errors.As(err, &pe) {
				t.Fatalf("Process() error = %v, want *ProcessingError", err)
			}
			if pe.Step != tt.step {
				t.Fatalf("Step = %v, want %v", pe.Step, tt.step)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Process() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestProcessHonorsContext(t *testing.T) {
	p := NewPrint()
	_ = p.Apply(tetra(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Process(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Process() error = %v, want context.Canceled", err)
	}
}

func TestApplyNil(t *testing.T) {
	p := NewPrint()
	if err := p.Apply(nil, nil); !errors.Is(err, ErrNoModel) {
		t.Fatalf("Apply(nil) = %v, want ErrNoModel", err)
	}
	if err := p.Process(context.Background()); !errors.Is(err, ErrNoModel) {
		t.Fatalf("Process() without model = %v, want ErrNoModel", err)
	}
}
