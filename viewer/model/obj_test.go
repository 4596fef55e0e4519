package model

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"csgview/viewer/quarkgl"
)

const cubeFace = `# layer_height = 0.05
# hollowing_enable = 1
# not a setting
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1 4//1
`

func TestParseOBJQuadFan(t *testing.T) {
	m, cfg, err := ParseOBJ(strings.NewReader(cubeFace), "quad.obj")
	if err != nil {
		t.Fatalf("ParseOBJ() error: %v", err)
	}
	want := [][3]uint32{{0, 1, 2}, {0, 2, 3}}
	if len(m.Triangles) != len(want) {
		t.Fatalf("len(Triangles) = %d, want %d", len(m.Triangles), len(want))
	}
	for i := range want {
		if m.Triangles[i] != want[i] {
			t.Fatalf("Triangles[%d] = %v, want %v", i, m.Triangles[i], want[i])
		}
	}
	if got := m.Normals[2]; got != quarkgl.V3(0, 0, 1) {
		t.Fatalf("Normals[2] = %v, want {0 0 1}", got)
	}
	if got := cfg.Float("layer_height", 0); got != 0.05 {
		t.Fatalf("layer_height = %v, want 0.05", got)
	}
	if !cfg.Bool("hollowing_enable", false) {
		t.Fatalf("hollowing_enable = false, want true")
	}
	if got := cfg.Keys(); len(got) != 2 {
		t.Fatalf("Keys() = %v, want 2 keys", got)
	}
}

func TestParseOBJNegativeIndices(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n"
	m, _, err := ParseOBJ(strings.NewReader(src), "neg.obj")
	if err != nil {
		t.Fatalf("ParseOBJ() error: %v", err)
	}
	if m.Triangles[0] != [3]uint32{0, 1, 2} {
		t.Fatalf("Triangles[0] = %v, want [0 1 2]", m.Triangles[0])
	}
	if len(m.Normals) != 0 {
		t.Fatalf("len(Normals) = %d, want 0", len(m.Normals))
	}
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		want error
	}{
		{"empty", "# nothing\n", 0, ErrEmpty},
		{"index out of range", "v 0 0 0\nf 1 2 3\n", 2, errBadIndex},
		{"zero index", "v 0 0 0\nv 0 0 0\nv 0 0 0\nf 0 1 2\n", 4, errBadIndex},
		{"short face", "v 0 0 0\nf 1 1\n", 2, errShortFace},
		{"short vertex", "v 0 0\n", 1, errBadVertex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseOBJ(strings.NewReader(tt.src), "bad.obj")
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("ParseOBJ() error = %v, want *LoadError", err)
			}
			if le.Line != tt.line {
				t.Fatalf("LoadError.Line = %d, want %d", le.Line, tt.line)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("ParseOBJ() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tri.obj")
	if err := os.WriteFile(path, []byte("v 0 0 0\nv 2 0 0\nv 0 2 0\nf 1 2 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	m, _, err := FileLoader{}.Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := m.Bounds().Center(); got != quarkgl.V3(1, 1, 0) {
		t.Fatalf("Bounds().Center() = %v, want {1 1 0}", got)
	}

	if _, _, err := (FileLoader{}).Load(filepath.Join(dir, "missing.obj")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load(missing) error = %v, want ErrNotExist", err)
	}
	if _, _, err := (FileLoader{}).Load(filepath.Join(dir, "part.3mf")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Load(.3mf) error = %v, want ErrUnsupportedFormat", err)
	}
}
