package cubemap

// FaceImage is the square raster computed for one face.
type FaceImage struct {
	Name FaceName
	Size int
	*Image
}

// Resample gathers the nearest source pixel for every direction of grid.
// No filtering is applied: near the poles many face pixels map onto the
// same few source texels, which shows up as blockiness on the top and
// bottom faces.
func Resample(src *Image, grid DirectionGrid) *Image {
	n := grid.Size
	out := NewImage(n, n)
	w, h := src.Width, src.Height
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			u, v := Project(grid.At(i, j), w, h)
			x, y := PixelIndex(u, v, w, h)
			si := src.PixOffset(x, y)
			di := out.PixOffset(j, i)
			copy(out.Pix[di:di+3], src.Pix[si:si+3])
		}
	}
	return out
}

// Gather computes one face of size n from src.
func Gather(src *Image, face Face, n int) FaceImage {
	return FaceImage{
		Name:  face.Name,
		Size:  n,
		Image: Resample(src, Sample(face, n)),
	}
}
