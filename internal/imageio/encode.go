package imageio

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

// EncodeOptions selects the output format.
type EncodeOptions struct {
	Format  Format
	Quality int // JPEG only; 0 means DefaultJPEGQuality
}

// rgbaConverter is implemented by rasters that can hand the encoder an
// *image.RGBA, which both standard encoders process without per-pixel At calls.
type rgbaConverter interface {
	ToRGBA() *image.RGBA
}

// Encode writes img to w.
func Encode(w io.Writer, img image.Image, opts EncodeOptions) error {
	if c, ok := img.(rgbaConverter); ok {
		img = c.ToRGBA()
	}

	switch opts.Format {
	case FormatJPEG, "":
		quality := opts.Quality
		if quality == 0 {
			quality = DefaultJPEGQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case FormatPNG:
		return png.Encode(w, img)
	default:
		return fmt.Errorf("unsupported output format %q", opts.Format)
	}
}

// EncodeFile encodes img to path, creating the parent directory if needed.
// Failures are *EncodeError and leave no file at path.
func EncodeFile(path string, img image.Image, opts EncodeOptions) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &EncodeError{Path: path, Err: err}
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return &EncodeError{Path: path, Err: err}
	}

	if err := Encode(file, img, opts); err != nil {
		file.Close()
		os.Remove(path)
		return &EncodeError{Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return &EncodeError{Path: path, Err: err}
	}
	return nil
}
