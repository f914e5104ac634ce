package cubemap

import (
	"fmt"
	"sort"
)

// Composite is the 4N x 3N cross layout:
//
//	.     top    .     .
//	left  front  right back
//	.     bottom .     .
//
// Cells without a face stay black.
type Composite struct {
	FaceSize int
	*Image
}

// CellOrigin returns the top-left pixel of a face's cell.
func (c *Composite) CellOrigin(n FaceName) (x, y int) {
	f := FaceByName(n)
	return f.Col * c.FaceSize, f.Row * c.FaceSize
}

// Result is the output of a conversion.
type Result struct {
	Composite *Composite // nil unless requested
	Faces     []FaceImage
}

// Face returns the computed face with the given name.
func (r Result) Face(n FaceName) (FaceImage, bool) {
	for _, f := range r.Faces {
		if f.Name == n {
			return f, true
		}
	}
	return FaceImage{}, false
}

// Assemble orders faces canonically and, when composite is set, copies each
// into its cell of a new cross-layout image. Cells are disjoint so the
// copies do not depend on each other.
func Assemble(faceImages []FaceImage, composite bool) (Result, error) {
	ordered := make([]FaceImage, len(faceImages))
	copy(ordered, faceImages)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })

	var seen FaceSet
	for _, f := range ordered {
		if !f.Name.Valid() {
			return Result{}, &ValidationError{Field: "face", Value: f.Name.String(), Reason: "unknown face"}
		}
		if seen.Has(f.Name) {
			return Result{}, &ValidationError{Field: "face", Value: f.Name.String(), Reason: "duplicate face"}
		}
		seen |= NewFaceSet(f.Name)
		if f.Image == nil || f.Width != f.Size || f.Height != f.Size || f.Size <= 0 {
			return Result{}, &ValidationError{Field: "face", Value: f.Name.String(), Reason: "face raster is not square"}
		}
		if f.Size != ordered[0].Size {
			return Result{}, &ValidationError{
				Field:  "face size",
				Value:  fmt.Sprint(f.Size),
				Reason: fmt.Sprintf("%s face differs from %s face (%d)", f.Name, ordered[0].Name, ordered[0].Size),
			}
		}
	}

	result := Result{Faces: ordered}
	if !composite {
		return result, nil
	}
	if len(ordered) == 0 {
		return Result{}, &ValidationError{Field: "composite", Reason: "no faces to assemble"}
	}

	n := ordered[0].Size
	c := &Composite{FaceSize: n, Image: NewImage(LayoutCols*n, LayoutRows*n)}
	rowBytes := n * 3
	for _, f := range ordered {
		ox, oy := c.CellOrigin(f.Name)
		for y := 0; y < n; y++ {
			di := c.PixOffset(ox, oy+y)
			si := f.PixOffset(0, y)
			copy(c.Pix[di:di+rowBytes], f.Pix[si:si+rowBytes])
		}
	}
	result.Composite = c
	return result, nil
}
