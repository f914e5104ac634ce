package imageio

import (
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"

	// Registered decoders
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Faultbox/equi2cube/pkg/cubemap"
)

// Decode reads any registered image format. Failures are *DecodeError.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", &DecodeError{Err: err}
	}
	return img, format, nil
}

// DecodeFile opens path and converts its contents to an RGB source image.
func DecodeFile(path string) (*cubemap.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &InputNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := Decode(f)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.Path = path
		}
		return nil, err
	}

	src, err := cubemap.FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return src, nil
}

// DecodeConfigFile reads only the header of path, which is enough to size
// faces before committing to a full decode.
func DecodeConfigFile(path string) (image.Config, string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return image.Config{}, "", &InputNotFoundError{Path: path}
		}
		return image.Config{}, "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return image.Config{}, "", &DecodeError{Path: path, Err: err}
	}
	return cfg, format, nil
}
