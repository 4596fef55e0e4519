package quarkgl

import "math"

// Scalar is the numeric type for all geometry.
type Scalar = float32

type Vec3 struct {
	X, Y, Z Scalar
}

type Vec4 struct {
	X, Y, Z, W Scalar
}

// Mat4 is column-major: m[col*4+row].
type Mat4 [16]Scalar

func V3(x, y, z Scalar) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3   { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3   { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Mul(s Scalar) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Neg() Vec3         { return Vec3{-v.X, -v.Y, -v.Z} }

func (v Vec3) Min(o Vec3) Vec3 {
	return Vec3{minf(v.X, o.X), minf(v.Y, o.Y), minf(v.Z, o.Z)}
}

func (v Vec3) Max(o Vec3) Vec3 {
	return Vec3{maxf(v.X, o.X), maxf(v.Y, o.Y), maxf(v.Z, o.Z)}
}

func Dot(a, b Vec3) Scalar { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func Cross(a, b Vec3) Vec3 {
	return Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

func Len(v Vec3) Scalar { return Scalar(math.Sqrt(float64(Dot(v, v)))) }

// Normalize returns v scaled to unit length, or the zero vector.
func Normalize(v Vec3) Vec3 {
	l := Len(v)
	if l == 0 {
		return Vec3{}
	}
	return v.Mul(1 / l)
}

// TriangleNormal is the unit normal of a counter-clockwise triangle.
func TriangleNormal(a, b, c Vec3) Vec3 {
	return Normalize(Cross(b.Sub(a), c.Sub(a)))
}

func Clamp01(v Scalar) Scalar { return clampF32(v, 0, 1) }

// Bounds is an axis-aligned box. The zero value is empty.
type Bounds struct {
	Min, Max Vec3
	valid    bool
}

func (b Bounds) Empty() bool { return !b.valid }

// Extend grows b to include p.
func (b Bounds) Extend(p Vec3) Bounds {
	if !b.valid {
		return Bounds{Min: p, Max: p, valid: true}
	}
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
	return b
}

func (b Bounds) Center() Vec3 { return b.Min.Add(b.Max).Mul(0.5) }

// Radius is half the box diagonal.
func (b Bounds) Radius() Scalar {
	if !b.valid {
		return 0
	}
	return Len(b.Max.Sub(b.Min)) / 2
}

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func Mat4Mul(a, b Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum Scalar
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

func (m Mat4) MulV4(v Vec4) Vec4 {
	return Vec4{
		X: m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		Y: m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		Z: m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		W: m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// Point transforms p as a position (w = 1).
func (m Mat4) Point(p Vec3) Vec4 { return m.MulV4(Vec4{p.X, p.Y, p.Z, 1}) }

func Mat4RotateX(rad Scalar) Mat4 {
	c, s := cosSin(rad)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

func Mat4RotateY(rad Scalar) Mat4 {
	c, s := cosSin(rad)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

func Mat4LookAt(eye, target, up Vec3) Mat4 {
	f := Normalize(target.Sub(eye))
	s := Normalize(Cross(f, up))
	u := Cross(s, f)
	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-Dot(s, eye), -Dot(u, eye), Dot(f, eye), 1,
	}
}

func Mat4Perspective(fovY, aspect, near, far Scalar) Mat4 {
	if aspect == 0 {
		aspect = 1
	}
	f := 1 / Scalar(math.Tan(float64(fovY)/2))
	nf := 1 / (near - far)
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

func cosSin(rad Scalar) (Scalar, Scalar) {
	s, c := math.Sincos(float64(rad))
	return Scalar(c), Scalar(s)
}

func minf(a, b Scalar) Scalar {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b Scalar) Scalar {
	if a > b {
		return a
	}
	return b
}

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
