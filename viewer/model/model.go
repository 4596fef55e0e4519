// Package model reads mesh files from disk.
//
// Only Wavefront OBJ is understood. Comment lines of the form
// "# key = value" carry print settings and are returned as a Config alongside
// the geometry.
package model

import (
	"sort"
	"strconv"
	"strings"

	"csgview/viewer/quarkgl"
)

// Model is an indexed triangle mesh as read from a file.
type Model struct {
	Name      string
	Positions []quarkgl.Vec3
	Normals   []quarkgl.Vec3 // per position; empty when the file has none
	Triangles [][3]uint32
}

func (m *Model) Bounds() quarkgl.Bounds {
	var b quarkgl.Bounds
	for _, p := range m.Positions {
		b = b.Extend(p)
	}
	return b
}

// Config is a flat set of key/value settings read from a model file.
type Config map[string]string

// String returns the raw value for key, or def.
func (c Config) String(key, def string) string {
	if v, ok := c[key]; ok {
		return v
	}
	return def
}

// Float returns key parsed as a float, or def when missing or malformed.
func (c Config) Float(key string, def float64) float64 {
	v, ok := c[key]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

// Bool accepts 1/0, true/false, yes/no and on/off.
func (c Config) Bool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(c[key])) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

// Keys returns the keys in sorted order.
func (c Config) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
