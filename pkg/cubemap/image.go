package cubemap

import (
	"fmt"
	"image"
	"image/color"
)

// Image is an 8-bit RGB raster stored row-major with a stride of 3*Width.
// It is used for the source panorama, each face and the composite, and it
// implements image.Image so it can be passed directly to an encoder.
type Image struct {
	Width, Height int
	Pix           []uint8
}

// NewImage allocates a black image.
func NewImage(width, height int) *Image {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// PixOffset returns the index of the first byte of pixel (x, y).
func (m *Image) PixOffset(x, y int) int {
	return (y*m.Width + x) * 3
}

// RGBAt returns the channels of pixel (x, y).
func (m *Image) RGBAt(x, y int) (r, g, b uint8) {
	i := m.PixOffset(x, y)
	return m.Pix[i], m.Pix[i+1], m.Pix[i+2]
}

// SetRGB sets pixel (x, y).
func (m *Image) SetRGB(x, y int, r, g, b uint8) {
	i := m.PixOffset(x, y)
	m.Pix[i], m.Pix[i+1], m.Pix[i+2] = r, g, b
}

// ColorModel implements image.Image.
func (m *Image) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (m *Image) Bounds() image.Rectangle { return image.Rect(0, 0, m.Width, m.Height) }

// At implements image.Image.
func (m *Image) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return color.RGBA{}
	}
	r, g, b := m.RGBAt(x, y)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// ToRGBA expands the raster into an opaque *image.RGBA, which the standard
// encoders handle on their fast path.
func (m *Image) ToRGBA() *image.RGBA {
	out := image.NewRGBA(m.Bounds())
	for i, j := 0, 0; i < len(m.Pix); i, j = i+3, j+4 {
		out.Pix[j] = m.Pix[i]
		out.Pix[j+1] = m.Pix[i+1]
		out.Pix[j+2] = m.Pix[i+2]
		out.Pix[j+3] = 0xff
	}
	return out
}

func (m *Image) validate(field string) error {
	if m == nil {
		return &ValidationError{Field: field, Reason: "image is nil"}
	}
	if m.Width <= 0 || m.Height <= 0 {
		return &ValidationError{
			Field:  field,
			Value:  fmt.Sprintf("%dx%d", m.Width, m.Height),
			Reason: "image has zero area",
		}
	}
	if len(m.Pix) != m.Width*m.Height*3 {
		return &ValidationError{
			Field:  field,
			Value:  fmt.Sprintf("%dx%d", m.Width, m.Height),
			Reason: fmt.Sprintf("pixel buffer holds %d bytes, want %d", len(m.Pix), m.Width*m.Height*3),
		}
	}
	return nil
}

// FromImage converts a decoded image into an RGB raster. Alpha is dropped:
// straight (non-premultiplied) channel values are kept as they are, the
// same as converting an RGBA picture to RGB mode.
func FromImage(src image.Image) (*Image, error) {
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, &ValidationError{
			Field:  "source",
			Value:  fmt.Sprintf("%dx%d", b.Dx(), b.Dy()),
			Reason: "image has zero area",
		}
	}

	dst := NewImage(b.Dx(), b.Dy())
	switch s := src.(type) {
	case *image.NRGBA:
		for y := 0; y < dst.Height; y++ {
			row := s.Pix[s.PixOffset(b.Min.X, b.Min.Y+y):]
			out := dst.Pix[dst.PixOffset(0, y):]
			for x := 0; x < dst.Width; x++ {
				out[x*3] = row[x*4]
				out[x*3+1] = row[x*4+1]
				out[x*3+2] = row[x*4+2]
			}
		}
	case *image.RGBA:
		for y := 0; y < dst.Height; y++ {
			row := s.Pix[s.PixOffset(b.Min.X, b.Min.Y+y):]
			out := dst.Pix[dst.PixOffset(0, y):]
			for x := 0; x < dst.Width; x++ {
				if row[x*4+3] != 0xff {
					c := color.NRGBAModel.Convert(s.RGBAAt(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
					out[x*3], out[x*3+1], out[x*3+2] = c.R, c.G, c.B
					continue
				}
				out[x*3] = row[x*4]
				out[x*3+1] = row[x*4+1]
				out[x*3+2] = row[x*4+2]
			}
		}
	case *image.YCbCr:
		for y := 0; y < dst.Height; y++ {
			out := dst.Pix[dst.PixOffset(0, y):]
			for x := 0; x < dst.Width; x++ {
				r, g, bl, _ := s.YCbCrAt(b.Min.X+x, b.Min.Y+y).RGBA()
				out[x*3], out[x*3+1], out[x*3+2] = uint8(r>>8), uint8(g>>8), uint8(bl>>8)
			}
		}
	case *image.Gray:
		for y := 0; y < dst.Height; y++ {
			row := s.Pix[s.PixOffset(b.Min.X, b.Min.Y+y):]
			out := dst.Pix[dst.PixOffset(0, y):]
			for x := 0; x < dst.Width; x++ {
				out[x*3], out[x*3+1], out[x*3+2] = row[x], row[x], row[x]
			}
		}
	default:
		for y := 0; y < dst.Height; y++ {
			for x := 0; x < dst.Width; x++ {
				c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				dst.SetRGB(x, y, c.R, c.G, c.B)
			}
		}
	}
	return dst, nil
}
