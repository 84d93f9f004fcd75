package math3d

import "math"

// Mat3 is a 3x3 matrix stored as three row vectors.
//
// When a Mat3 is used as an orientation basis its columns hold the right, up
// and forward axes. Orthonormality is not enforced; a skewed basis silently
// degrades projection accuracy.
type Mat3 [3]Vec3

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// BasisFromColumns builds a matrix whose columns are c0, c1 and c2.
func BasisFromColumns(c0, c1, c2 Vec3) Mat3 {
	var m Mat3
	m.SetColumn(0, c0)
	m.SetColumn(1, c1)
	m.SetColumn(2, c2)
	return m
}

// RotateX returns the rotation matrix about the X axis.
func RotateX(angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat3{
		{1, 0, 0},
		{0, c, -s},
		{0, s, c},
	}
}

// RotateY returns the rotation matrix about the Y axis.
func RotateY(angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat3{
		{c, 0, s},
		{0, 1, 0},
		{-s, 0, c},
	}
}

// RotateZ returns the rotation matrix about the Z axis.
func RotateZ(angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat3{
		{c, -s, 0},
		{s, c, 0},
		{0, 0, 1},
	}
}

// Column returns column i.
func (m Mat3) Column(i int) Vec3 {
	switch i {
	case 0:
		return Vec3{m[0].X, m[1].X, m[2].X}
	case 1:
		return Vec3{m[0].Y, m[1].Y, m[2].Y}
	default:
		return Vec3{m[0].Z, m[1].Z, m[2].Z}
	}
}

// SetColumn replaces column i with v.
func (m *Mat3) SetColumn(i int, v Vec3) {
	switch i {
	case 0:
		m[0].X, m[1].X, m[2].X = v.X, v.Y, v.Z
	case 1:
		m[0].Y, m[1].Y, m[2].Y = v.X, v.Y, v.Z
	default:
		m[0].Z, m[1].Z, m[2].Z = v.X, v.Y, v.Z
	}
}

// MulVec returns the matrix-vector product m * v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{m[0].Dot(v), m[1].Dot(v), m[2].Dot(v)}
}

// Mul returns the matrix product a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat3) Mul(b Mat3) Mat3 {
	c0, c1, c2 := b.Column(0), b.Column(1), b.Column(2)
	var m Mat3
	for i := range 3 {
		m[i] = Vec3{a[i].Dot(c0), a[i].Dot(c1), a[i].Dot(c2)}
	}
	return m
}

// Transpose returns the transposed matrix.
func (m Mat3) Transpose() Mat3 {
	return Mat3{m.Column(0), m.Column(1), m.Column(2)}
}

// Determinant returns the determinant of the matrix.
func (m Mat3) Determinant() float64 {
	return m.Column(0).Dot(m.Column(1).Cross(m.Column(2)))
}

// Inverse returns the inverse computed from the adjugate: each row of the
// inverse is the cross product of the other two columns divided by the
// determinant. A singular matrix yields Inf/NaN entries.
func (m Mat3) Inverse() Mat3 {
	c0, c1, c2 := m.Column(0), m.Column(1), m.Column(2)
	invDet := 1 / c0.Dot(c1.Cross(c2))
	return Mat3{
		c1.Cross(c2).Scale(invDet),
		c2.Cross(c0).Scale(invDet),
		c0.Cross(c1).Scale(invDet),
	}
}
