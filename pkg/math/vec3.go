// Package math provides the small vector type used by the cube face geometry.
package math

// Vec3 is a 3D vector in double precision.
// The projection relies on float64 atan2, so components are never narrowed.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// IsAxis reports whether v is a signed unit basis vector: exactly one
// component is ±1 and the others are zero.
func (v Vec3) IsAxis() bool {
	nonZero := 0
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		switch c {
		case 0:
		case 1, -1:
			nonZero++
		default:
			return false
		}
	}
	return nonZero == 1
}
