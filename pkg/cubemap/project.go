package cubemap

import (
	gomath "math"

	"github.com/Faultbox/equi2cube/pkg/math"
)

// Project maps a direction to continuous pixel coordinates of a w*h
// equirectangular image. Longitude atan2(z, x) runs left to right from -pi
// to pi; latitude runs top to bottom from +pi/2 to -pi/2. The result only
// depends on the direction, not its length.
func Project(dir math.Vec3, w, h int) (u, v float64) {
	phi := gomath.Atan2(dir.Z, dir.X)
	theta := gomath.Atan2(dir.Y, gomath.Sqrt(dir.X*dir.X+dir.Z*dir.Z))
	u = (phi + gomath.Pi) / (2 * gomath.Pi) * float64(w)
	v = (1 - (theta+gomath.Pi/2)/gomath.Pi) * float64(h)
	return u, v
}

// PixelIndex truncates continuous coordinates toward zero and clamps each
// axis into the image. u == w (longitude +pi) and v == h (the south pole)
// land on the last column and row.
func PixelIndex(u, v float64, w, h int) (x, y int) {
	return truncClamp(u, w-1), truncClamp(v, h-1)
}

// truncClamp is int(f) clamped to [0, hi], safe for NaN and huge values.
func truncClamp(f float64, hi int) int {
	t := gomath.Trunc(f)
	switch {
	case gomath.IsNaN(t) || t < 0:
		return 0
	case t > float64(hi):
		return hi
	default:
		return int(t)
	}
}
