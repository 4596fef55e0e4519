package quarkgl

// Light is an ambient term plus one directional light.
type Light struct {
	Ambient   Scalar // 0..1
	Dir       Vec3   // direction the light travels
	DirAmount Scalar // 0..1
}

// Intensity returns the brightness of a face with unit normal n.
func (l Light) Intensity(n Vec3) Scalar {
	amb := Clamp01(l.Ambient)
	ld := Normalize(l.Dir)
	if ld == (Vec3{}) {
		return amb
	}
	d := Dot(n, ld.Neg())
	if d < 0 {
		d = 0
	}
	return Clamp01(amb + d*Clamp01(l.DirAmount))
}

// Camera is a perspective camera.
type Camera struct {
	Position Vec3
	Target   Vec3
	Up       Vec3

	FOVY Scalar // radians
	Near Scalar
	Far  Scalar
}

func DefaultCamera() Camera {
	return Camera{
		Position: V3(0, 0, 3),
		Up:       V3(0, 1, 0),
		FOVY:     1.0,
		Near:     0.05,
		Far:      100,
	}
}

func (c Camera) View() Mat4 {
	up := c.Up
	if up == (Vec3{}) {
		up = V3(0, 1, 0)
	}
	return Mat4LookAt(c.Position, c.Target, up)
}

func (c Camera) Projection(aspect Scalar) Mat4 {
	fov := c.FOVY
	if fov == 0 {
		fov = 1
	}
	return Mat4Perspective(fov, aspect, c.Near, c.Far)
}

type Vertex struct {
	Pos    Vec3
	Normal Vec3
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Color    Color
}

// Triangles returns the number of complete triangles.
func (m Mesh) Triangles() int { return len(m.Indices) / 3 }

// Bounds returns the box around every vertex.
func (m Mesh) Bounds() Bounds {
	var b Bounds
	for _, v := range m.Vertices {
		b = b.Extend(v.Pos)
	}
	return b
}

// Scene holds at most one model.
type Scene struct {
	Camera Camera
	Light  Light

	model *Mesh
}

func NewScene() *Scene {
	return &Scene{
		Camera: DefaultCamera(),
		Light: Light{
			Ambient:   0.25,
			Dir:       Normalize(V3(-1, -1, -1)),
			DirAmount: 0.75,
		},
	}
}

// SetModel replaces the current model.
func (s *Scene) SetModel(m Mesh) {
	if m.Color == (Color{}) {
		m.Color = RGB(0xCC, 0xCC, 0xCC)
	}
	s.model = &m
}

// Model returns the current model or nil.
func (s *Scene) Model() *Mesh { return s.model }

func (s *Scene) HasModel() bool { return s.model != nil }
