// Package imageio decodes source panoramas and encodes cube faces.
package imageio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an output image format, named by its file extension.
type Format string

// Output formats.
const (
	FormatJPEG Format = "jpg"
	FormatPNG  Format = "png"
)

// DefaultJPEGQuality matches the quality most viewers expect for faces.
const DefaultJPEGQuality = 90

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// ParseFormat accepts "jpg", "jpeg" or "png" in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want jpg or png)", s)
	}
}

// inputExtensions are the file types the registered decoders understand.
var inputExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// IsImageFile reports whether name has a decodable image extension.
func IsImageFile(name string) bool {
	return inputExtensions[strings.ToLower(filepath.Ext(name))]
}
