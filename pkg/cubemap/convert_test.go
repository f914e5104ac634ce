package cubemap

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

// coordImage encodes each pixel's position in its colour: R = x, G = y.
// Blue is constant and non-zero so every sampled pixel differs from the
// composite background.
func coordImage(w, h int) *Image {
	m := NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetRGB(x, y, uint8(x), uint8(y), 0x80)
		}
	}
	return m
}

func mustConvert(t *testing.T, src *Image, opts Options) Result {
	t.Helper()
	res, err := Convert(context.Background(), src, opts)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	return res
}

func TestConvertDeterministic(t *testing.T) {
	src := coordImage(96, 48)
	opts := Options{FaceSize: 16, Composite: true}

	a := mustConvert(t, src, opts)
	b := mustConvert(t, src, opts)
	if !bytes.Equal(a.Composite.Pix, b.Composite.Pix) {
		t.Error("composite differs between identical runs")
	}
	for i := range a.Faces {
		if !bytes.Equal(a.Faces[i].Pix, b.Faces[i].Pix) {
			t.Errorf("%s face differs between identical runs", a.Faces[i].Name)
		}
	}
}

func TestConvertParallelMatchesSequential(t *testing.T) {
	src := coordImage(128, 64)
	seq := mustConvert(t, src, Options{FaceSize: 24, Composite: true, Workers: 1})
	par := mustConvert(t, src, Options{FaceSize: 24, Composite: true, Workers: 4})
	if !bytes.Equal(seq.Composite.Pix, par.Composite.Pix) {
		t.Error("parallel composite differs from sequential")
	}
	if len(seq.Faces) != len(par.Faces) {
		t.Fatalf("face count %d vs %d", len(seq.Faces), len(par.Faces))
	}
	for i := range seq.Faces {
		if seq.Faces[i].Name != par.Faces[i].Name || !bytes.Equal(seq.Faces[i].Pix, par.Faces[i].Pix) {
			t.Errorf("face %d differs between sequential and parallel", i)
		}
	}
}

func TestConvertCenterSample(t *testing.T) {
	const w, h = 41, 21
	src := coordImage(w, h)
	for _, n := range []int{3, 5, 7, 31} {
		res := mustConvert(t, src, Options{FaceSize: n, Faces: NewFaceSet(Front)})
		front, ok := res.Face(Front)
		if !ok {
			t.Fatalf("n=%d: front face missing", n)
		}
		r, g, _ := front.RGBAt(n/2, n/2)
		if int(r) != w/2 || int(g) != h/2 {
			t.Errorf("n=%d: front centre sampled (%d,%d), want (%d,%d)", n, r, g, w/2, h/2)
		}
	}
}

func TestConvertSinglePixelFaces(t *testing.T) {
	const w, h = 41, 21
	src := coordImage(w, h)
	res := mustConvert(t, src, Options{FaceSize: 1, Composite: true})
	if len(res.Faces) != 6 {
		t.Fatalf("got %d faces, want 6", len(res.Faces))
	}
	for _, f := range res.Faces {
		if f.Width != 1 || f.Height != 1 {
			t.Fatalf("%s size %dx%d, want 1x1", f.Name, f.Width, f.Height)
		}
		u, v := Project(FaceByName(f.Name).Forward, w, h)
		wx, wy := PixelIndex(u, v, w, h)
		r, g, _ := f.RGBAt(0, 0)
		if int(r) != wx || int(g) != wy {
			t.Errorf("%s sampled (%d,%d), want face centre (%d,%d)", f.Name, r, g, wx, wy)
		}
	}
	front, _ := res.Face(Front)
	if r, g, _ := front.RGBAt(0, 0); r != w/2 || g != h/2 {
		t.Errorf("front 1px sampled (%d,%d), want (%d,%d)", r, g, w/2, h/2)
	}
	if res.Composite.Width != 4 || res.Composite.Height != 3 {
		t.Errorf("composite %dx%d, want 4x3", res.Composite.Width, res.Composite.Height)
	}
}

// cellFace maps each populated layout cell to its face.
func cellFace() map[[2]int]FaceName {
	m := make(map[[2]int]FaceName)
	for _, f := range Faces() {
		m[[2]int{f.Row, f.Col}] = f.Name
	}
	return m
}

func checkComposite(t *testing.T, res Result) {
	t.Helper()
	c := res.Composite
	n := c.FaceSize
	if c.Width != LayoutCols*n || c.Height != LayoutRows*n {
		t.Fatalf("composite %dx%d, want %dx%d", c.Width, c.Height, LayoutCols*n, LayoutRows*n)
	}
	cells := cellFace()
	for row := 0; row < LayoutRows; row++ {
		for col := 0; col < LayoutCols; col++ {
			name, isFace := cells[[2]int{row, col}]
			face, computed := res.Face(name)
			for y := 0; y < n; y++ {
				for x := 0; x < n; x++ {
					r, g, b := c.RGBAt(col*n+x, row*n+y)
					if !isFace || !computed {
						if r != 0 || g != 0 || b != 0 {
							t.Fatalf("empty cell (%d,%d) pixel (%d,%d) = %d,%d,%d, want background",
								row, col, x, y, r, g, b)
						}
						continue
					}
					fr, fg, fb := face.RGBAt(x, y)
					if r != fr || g != fg || b != fb {
						t.Fatalf("%s cell pixel (%d,%d) = %d,%d,%d, want %d,%d,%d",
							name, x, y, r, g, b, fr, fg, fb)
					}
				}
			}
		}
	}
}

func TestConvertCompositePlacement(t *testing.T) {
	res := mustConvert(t, coordImage(64, 48), Options{FaceSize: 4, Composite: true})
	if res.Composite == nil {
		t.Fatal("composite not built")
	}
	checkComposite(t, res)

	// every computed pixel carries the non-zero blue marker
	populated := 0
	for i := 2; i < len(res.Composite.Pix); i += 3 {
		if res.Composite.Pix[i] == 0x80 {
			populated++
		}
	}
	if want := 6 * 4 * 4; populated != want {
		t.Errorf("populated composite pixels = %d, want %d", populated, want)
	}
}

func TestConvertSubset(t *testing.T) {
	res := mustConvert(t, coordImage(64, 48), Options{FaceSize: 5, Faces: NewFaceSet(Front), Composite: true})
	if len(res.Faces) != 1 || res.Faces[0].Name != Front {
		t.Fatalf("faces = %v, want only front", res.Faces)
	}
	checkComposite(t, res)

	noComposite := mustConvert(t, coordImage(64, 48), Options{FaceSize: 5, Faces: NewFaceSet(Top, Left)})
	if noComposite.Composite != nil {
		t.Error("composite built although not requested")
	}
	if len(noComposite.Faces) != 2 || noComposite.Faces[0].Name != Left || noComposite.Faces[1].Name != Top {
		t.Errorf("faces = %v, want [left top]", noComposite.Faces)
	}
}

func TestFaceSizeFor(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		opts    Options
		want    int
		wantErr bool
	}{
		{"auto 4096x3072", 4096, 3072, Options{AutoMaxSize: true, FaceSize: 64}, 1024, false},
		{"auto wide", 8000, 2000, Options{AutoMaxSize: true}, 666, false},
		{"auto floors", 1001, 999, Options{AutoMaxSize: true}, 250, false},
		{"explicit", 4096, 3072, Options{FaceSize: 300}, 300, false},
		{"zero", 100, 100, Options{}, 0, true},
		{"negative", 100, 100, Options{FaceSize: -2}, 0, true},
		{"auto too small", 3, 2, Options{AutoMaxSize: true}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FaceSizeFor(tt.w, tt.h, tt.opts)
			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("FaceSizeFor() error = %v, want *ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FaceSizeFor() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("FaceSizeFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConvertAutoMaxSize(t *testing.T) {
	res := mustConvert(t, coordImage(80, 45), Options{AutoMaxSize: true, Faces: NewFaceSet(Back)})
	if res.Faces[0].Size != 15 {
		t.Errorf("auto face size = %d, want 15", res.Faces[0].Size)
	}
}

// Rows near the poles hold far fewer distinct samples than the equator, so
// the centre of the top face collapses onto the first source row.
func TestConvertPoleCollapse(t *testing.T) {
	const n = 65
	res := mustConvert(t, coordImage(64, 8), Options{FaceSize: n, Faces: NewFaceSet(Top, Bottom)})
	top, _ := res.Face(Top)
	bottom, _ := res.Face(Bottom)
	for y := n/2 - 4; y <= n/2+4; y++ {
		for x := n/2 - 4; x <= n/2+4; x++ {
			if _, g, _ := top.RGBAt(x, y); g != 0 {
				t.Fatalf("top (%d,%d) sampled source row %d, want 0", x, y, g)
			}
			if _, g, _ := bottom.RGBAt(x, y); g != 7 {
				t.Fatalf("bottom (%d,%d) sampled source row %d, want 7", x, y, g)
			}
		}
	}
}

func TestConvertValidation(t *testing.T) {
	src := coordImage(16, 8)
	tests := []struct {
		name string
		src  *Image
		opts Options
	}{
		{"zero face size", src, Options{}},
		{"nil source", nil, Options{FaceSize: 4}},
		{"zero area source", &Image{}, Options{FaceSize: 4}},
		{"short buffer", &Image{Width: 4, Height: 4, Pix: make([]uint8, 10)}, Options{FaceSize: 4}},
		{"unknown face bit", src, Options{FaceSize: 4, Faces: FaceSet(0x80)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Convert(context.Background(), tt.src, tt.opts)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Convert() error = %v, want *ValidationError", err)
			}
			if len(res.Faces) != 0 || res.Composite != nil {
				t.Error("Convert() returned output alongside a validation error")
			}
		})
	}
}

func TestConvertCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, workers := range []int{1, 3} {
		_, err := Convert(ctx, coordImage(16, 8), Options{FaceSize: 4, Workers: workers})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: Convert() error = %v, want context.Canceled", workers, err)
		}
	}
}

func TestAssemble(t *testing.T) {
	mk := func(name FaceName, n int) FaceImage {
		return FaceImage{Name: name, Size: n, Image: NewImage(n, n)}
	}

	res, err := Assemble([]FaceImage{mk(Bottom, 2), mk(Front, 2), mk(Left, 2)}, false)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []FaceName{Front, Left, Bottom}
	for i, f := range res.Faces {
		if f.Name != want[i] {
			t.Errorf("face %d = %s, want %s", i, f.Name, want[i])
		}
	}

	errCases := []struct {
		name  string
		faces []FaceImage
		comp  bool
	}{
		{"mismatched sizes", []FaceImage{mk(Front, 2), mk(Back, 3)}, true},
		{"duplicate", []FaceImage{mk(Front, 2), mk(Front, 2)}, false},
		{"nil raster", []FaceImage{{Name: Top, Size: 2}}, false},
		{"empty composite", nil, true},
	}
	for _, tt := range errCases {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Assemble(tt.faces, tt.comp); err == nil {
				t.Error("Assemble() succeeded, want error")
			}
		})
	}
}

func TestCompositeCellOrigin(t *testing.T) {
	c := &Composite{FaceSize: 10}
	tests := []struct {
		face FaceName
		x, y int
	}{
		{Front, 10, 10},
		{Right, 20, 10},
		{Back, 30, 10},
		{Left, 0, 10},
		{Top, 10, 0},
		{Bottom, 10, 20},
	}
	for _, tt := range tests {
		if x, y := c.CellOrigin(tt.face); x != tt.x || y != tt.y {
			t.Errorf("CellOrigin(%s) = (%d,%d), want (%d,%d)", tt.face, x, y, tt.x, tt.y)
		}
	}
}
