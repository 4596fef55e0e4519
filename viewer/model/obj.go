package model

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"csgview/viewer/quarkgl"
)

// Loader reads a model and its settings from path.
type Loader interface {
	Load(path string) (*Model, Config, error)
}

// FileLoader loads models from the local filesystem.
type FileLoader struct{}

var _ Loader = FileLoader{}

func (FileLoader) Load(path string) (*Model, Config, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".obj" {
		return nil, nil, &LoadError{Path: path, Err: ErrUnsupportedFormat}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()
	return ParseOBJ(f, path)
}

// ParseOBJ reads OBJ text. Polygons are fanned into triangles; negative
// (relative) indices are resolved. Normals referenced by faces are averaged
// onto their positions.
func ParseOBJ(r io.Reader, name string) (*Model, Config, error) {
	m := &Model{Name: name}
	cfg := Config{}

	var normals []quarkgl.Vec3
	var faceNormals [][2]uint32 // (position, normal) pairs seen in faces

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	fail := func(err error) (*Model, Config, error) {
		return nil, nil, &LoadError{Path: name, Line: line, Err: err}
	}

	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "#") {
			if k, v, ok := strings.Cut(text[1:], "="); ok {
				if k = strings.TrimSpace(k); k != "" && !strings.ContainsAny(k, " \t") {
					cfg[k] = strings.TrimSpace(v)
				}
			}
			continue
		}

		fields := strings.Fields(text)
		switch fields[0] {
		case "v":
			p, err := parseVec3(fields[1:])
			if err != nil {
				return fail(err)
			}
			m.Positions = append(m.Positions, p)
		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return fail(err)
			}
			normals = append(normals, n)
		case "f":
			if len(fields) < 4 {
				return fail(errShortFace)
			}
			idx := make([]uint32, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				pi, ni, err := parseRef(ref, len(m.Positions), len(normals))
				if err != nil {
					return fail(err)
				}
				idx = append(idx, pi)
				if ni >= 0 {
					faceNormals = append(faceNormals, [2]uint32{pi, uint32(ni)})
				}
			}
			for i := 1; i+1 < len(idx); i++ {
				m.Triangles = append(m.Triangles, [3]uint32{idx[0], idx[i], idx[i+1]})
			}
		default:
			// o, g, s, usemtl, mtllib, vt: not needed for display.
		}
	}
	if err := sc.Err(); err != nil {
		return fail(err)
	}
	line = 0
	if len(m.Triangles) == 0 {
		return fail(ErrEmpty)
	}

	if len(faceNormals) > 0 {
		m.Normals = make([]quarkgl.Vec3, len(m.Positions))
		for _, pn := range faceNormals {
			m.Normals[pn[0]] = m.Normals[pn[0]].Add(normals[pn[1]])
		}
		for i := range m.Normals {
			m.Normals[i] = quarkgl.Normalize(m.Normals[i])
		}
	}
	return m, cfg, nil
}

func parseVec3(f []string) (quarkgl.Vec3, error) {
	if len(f) < 3 {
		return quarkgl.Vec3{}, errBadVertex
	}
	var xyz [3]float32
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(f[i], 32)
		if err != nil {
			return quarkgl.Vec3{}, err
		}
		xyz[i] = float32(v)
	}
	return quarkgl.V3(xyz[0], xyz[1], xyz[2]), nil
}

// parseRef decodes "p", "p/t", "p//n" or "p/t/n". ni is -1 without a normal.
func parseRef(ref string, np, nn int) (pi uint32, ni int, err error) {
	parts := strings.Split(ref, "/")
	p, err := resolve(parts[0], np)
	if err != nil {
		return 0, -1, err
	}
	ni = -1
	if len(parts) == 3 && parts[2] != "" {
		if ni, err = resolve(parts[2], nn); err != nil {
			return 0, -1, err
		}
	}
	return uint32(p), ni, nil
}

// resolve maps a 1-based or negative OBJ index onto [0,count).
func resolve(s string, count int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case v > 0:
		v--
	case v < 0:
		v += count
	default:
		return 0, errBadIndex
	}
	if v < 0 || v >= count {
		return 0, errBadIndex
	}
	return v, nil
}
