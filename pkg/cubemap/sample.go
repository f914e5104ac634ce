package cubemap

import "github.com/Faultbox/equi2cube/pkg/math"

// Linspace returns n evenly spaced samples over [start, stop], endpoints
// included. Each sample is computed from its index rather than by
// accumulation, so both endpoints and the midpoint of an odd count are
// exact. A single sample sits at the midpoint.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{(start + stop) / 2}
	}
	out := make([]float64, n)
	span := stop - start
	div := float64(n - 1)
	for k := range out {
		out[k] = start + span*float64(k)/div
	}
	out[n-1] = stop
	return out
}

// DirectionGrid holds one view direction per face pixel, row-major.
// Directions are not unit length; the projection only uses their angles.
type DirectionGrid struct {
	Size int
	Dirs []math.Vec3
}

// At returns the direction of row i, column j.
func (g DirectionGrid) At(i, j int) math.Vec3 {
	return g.Dirs[i*g.Size+j]
}

// Sample builds the n*n direction grid of a face:
// dir(i, j) = Forward + Up*t(i) + Right*t(j) with t = Linspace(-1, 1, n).
func Sample(face Face, n int) DirectionGrid {
	if n <= 0 {
		return DirectionGrid{}
	}
	t := Linspace(-1, 1, n)
	grid := DirectionGrid{Size: n, Dirs: make([]math.Vec3, n*n)}
	for i := 0; i < n; i++ {
		rowBase := face.Forward.Add(face.Up.Scale(t[i]))
		for j := 0; j < n; j++ {
			grid.Dirs[i*n+j] = rowBase.Add(face.Right.Scale(t[j]))
		}
	}
	return grid
}
