package geom

import "math"

// Transform represents a 3D affine transformation.
// It uses a 3x4 matrix in row-major order:
//
//	| m00 m01 m02 m03 |
//	| m10 m11 m12 m13 |
//	| m20 m21 m22 m23 |
//
// where the last column is the translation. This represents:
//
//	x' = m00*x + m01*y + m02*z + m03
//	y' = m10*x + m11*y + m12*z + m13
//	z' = m20*x + m21*y + m22*z + m23
type Transform struct {
	M [3][4]float64
}

// Identity returns the identity transformation.
func Identity() Transform {
	return Transform{M: [3][4]float64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
	}}
}

// Translate creates a translation transform.
func Translate(x, y, z float64) Transform {
	t := Identity()
	t.M[0][3] = x
	t.M[1][3] = y
	t.M[2][3] = z
	return t
}

// Scale creates a per-axis scaling transform.
func Scale(x, y, z float64) Transform {
	t := Identity()
	t.M[0][0] = x
	t.M[1][1] = y
	t.M[2][2] = z
	return t
}

// RotateZ creates a rotation transform around the Z axis (angle in radians).
func RotateZ(angle float64) Transform {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	t := Identity()
	t.M[0][0] = cos
	t.M[0][1] = -sin
	t.M[1][0] = sin
	t.M[1][1] = cos
	return t
}

// Multiply composes two transforms (t * other). The resulting transform
// applies other first, then t.
func (t Transform) Multiply(other Transform) Transform {
	var out Transform
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			sum := 0.0
			for k := 0; k < 3; k++ {
				sum += t.M[r][k] * other.M[k][c]
			}
			out.M[r][c] = sum
		}
		out.M[r][3] += t.M[r][3]
	}
	return out
}

// Apply applies the transformation to a point.
func (t Transform) Apply(p Point3) Point3 {
	return Point3{
		X: t.M[0][0]*p.X + t.M[0][1]*p.Y + t.M[0][2]*p.Z + t.M[0][3],
		Y: t.M[1][0]*p.X + t.M[1][1]*p.Y + t.M[1][2]*p.Z + t.M[1][3],
		Z: t.M[2][0]*p.X + t.M[2][1]*p.Y + t.M[2][2]*p.Z + t.M[2][3],
	}
}

// IsIdentity returns true if the transform is the identity.
func (t Transform) IsIdentity() bool {
	return t == Identity()
}
