package quarkgl

// RenderMode selects how triangles are rasterized.
type RenderMode uint8

const (
	RenderSolidFlat RenderMode = iota
	RenderWireframe
)

// Renderer rasterizes a Scene. Reuse one instance; the depth buffer is kept
// between frames.
type Renderer struct {
	Mode       RenderMode
	ClearColor Color
	CullBack   bool

	depth []float32

	// Triangles drawn in the last Render call.
	Drawn int
}

func NewRenderer() *Renderer {
	return &Renderer{
		Mode:       RenderSolidFlat,
		ClearColor: RGB(0x20, 0x24, 0x2c),
		CullBack:   true,
	}
}

// Render clears t and draws the scene's model, if any.
func (r *Renderer) Render(t Target, s *Scene) {
	if r == nil || t == nil || s == nil {
		return
	}
	w, h := t.Size()
	if w <= 0 || h <= 0 {
		return
	}
	t.Clear(r.ClearColor)
	r.Drawn = 0

	m := s.Model()
	if m == nil || m.Triangles() == 0 {
		return
	}
	r.resetDepth(w * h)

	mvp := Mat4Mul(s.Camera.Projection(Scalar(w)/Scalar(h)), s.Camera.View())
	eye := s.Camera.Position

	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c, ok := m.triangle(i)
		if !ok {
			continue
		}
		n := TriangleNormal(a, b, c)
		if r.CullBack && Dot(n, eye.Sub(a)) <= 0 {
			continue
		}

		s0, ok0 := project(mvp, a, w, h)
		s1, ok1 := project(mvp, b, w, h)
		s2, ok2 := project(mvp, c, w, h)
		if !ok0 || !ok1 || !ok2 {
			continue
		}

		col := m.Color.Shade(s.Light.Intensity(n))
		if r.Mode == RenderWireframe {
			r.line(t, s0, s1, col)
			r.line(t, s1, s2, col)
			r.line(t, s2, s0, col)
		} else {
			r.fill(t, w, h, s0, s1, s2, col)
		}
		r.Drawn++
	}
}

func (m *Mesh) triangle(i int) (a, b, c Vec3, ok bool) {
	n := uint32(len(m.Vertices))
	i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
	if i0 >= n || i1 >= n || i2 >= n {
		return
	}
	return m.Vertices[i0].Pos, m.Vertices[i1].Pos, m.Vertices[i2].Pos, true
}

type screenPt struct {
	x, y int
	z    float32
}

// project maps p to pixel coordinates; false when p is behind the near plane.
func project(mvp Mat4, p Vec3, w, h int) (screenPt, bool) {
	c := mvp.Point(p)
	if c.W <= 0 {
		return screenPt{}, false
	}
	inv := 1 / c.W
	nx, ny, nz := c.X*inv, c.Y*inv, c.Z*inv
	sx := (nx*0.5 + 0.5) * float32(w-1)
	sy := (0.5 - ny*0.5) * float32(h-1)
	return screenPt{x: int(sx + 0.5), y: int(sy + 0.5), z: nz}, true
}

func (r *Renderer) resetDepth(n int) {
	if cap(r.depth) < n {
		r.depth = make([]float32, n)
	}
	r.depth = r.depth[:n]
	for i := range r.depth {
		r.depth[i] = 2
	}
}

func (r *Renderer) depthPass(w, x, y int, z float32) bool {
	idx := y*w + x
	if idx < 0 || idx >= len(r.depth) || z >= r.depth[idx] {
		return false
	}
	r.depth[idx] = z
	return true
}

func (r *Renderer) fill(t Target, w, h int, p0, p1, p2 screenPt, c Color) {
	minX := max(min(p0.x, p1.x, p2.x), 0)
	maxX := min(max(p0.x, p1.x, p2.x), w-1)
	minY := max(min(p0.y, p1.y, p2.y), 0)
	maxY := min(max(p0.y, p1.y, p2.y), h-1)
	if minX > maxX || minY > maxY {
		return
	}
	area := edge(p0, p1, p2.x, p2.y)
	if area == 0 {
		return
	}
	inv := 1 / float32(area)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			w0 := edge(p1, p2, x, y)
			w1 := edge(p2, p0, x, y)
			w2 := edge(p0, p1, x, y)
			// Accept both windings; culling already happened in world space.
			if (w0 < 0 || w1 < 0 || w2 < 0) && (w0 > 0 || w1 > 0 || w2 > 0) {
				continue
			}
			z := (float32(w0)*p0.z + float32(w1)*p1.z + float32(w2)*p2.z) * inv
			if r.depthPass(w, x, y, z) {
				t.SetPixel(x, y, c)
			}
		}
	}
}

// line is Bresenham without depth testing.
func (r *Renderer) line(t Target, a, b screenPt, c Color) {
	w, h := t.Size()
	if offscreen(a, w, h) || offscreen(b, w, h) {
		return
	}
	x0, y0, x1, y1 := a.x, a.y, b.x, b.y
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		t.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// offscreen reports points far enough outside the target that walking the
// line would be wasted work.
func offscreen(p screenPt, w, h int) bool {
	return p.x < -4*w || p.x > 5*w || p.y < -4*h || p.y > 5*h
}

func edge(a, b screenPt, x, y int) int {
	return (x-a.x)*(b.y-a.y) - (y-a.y)*(b.x-a.x)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
