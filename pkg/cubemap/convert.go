package cubemap

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultFaceSize is the face edge length used when none is configured.
const DefaultFaceSize = 512

// Options is the complete set of conversion parameters.
type Options struct {
	FaceSize    int     // edge length of each face in pixels
	AutoMaxSize bool    // derive FaceSize from the source: min(W/4, H/3)
	Faces       FaceSet // zero value means all faces
	Composite   bool    // also build the cross layout
	NamePrefix  string  // only used when naming output files
	Workers     int     // faces computed concurrently; <= 1 is sequential
}

// DefaultOptions returns options producing all six faces at DefaultFaceSize.
func DefaultOptions() Options {
	return Options{
		FaceSize: DefaultFaceSize,
		Faces:    AllFaces,
		Workers:  1,
	}
}

// MaxFaceSize is the largest face size that does not upsample a w*h source.
func MaxFaceSize(w, h int) int {
	return min(w/4, h/3)
}

// FaceSizeFor resolves the face size for a w*h source.
func FaceSizeFor(w, h int, opts Options) (int, error) {
	n := opts.FaceSize
	if opts.AutoMaxSize {
		n = MaxFaceSize(w, h)
	}
	if n <= 0 {
		reason := "must be positive"
		if opts.AutoMaxSize {
			reason = fmt.Sprintf("source %dx%d is too small for automatic sizing", w, h)
		}
		return 0, &ValidationError{Field: "face size", Value: fmt.Sprint(n), Reason: reason}
	}
	return n, nil
}

// Convert projects src onto the requested cube faces. All parameters are
// validated before any face is computed. ctx is checked between faces.
func Convert(ctx context.Context, src *Image, opts Options) (Result, error) {
	if err := src.validate("source"); err != nil {
		return Result{}, err
	}
	n, err := FaceSizeFor(src.Width, src.Height, opts)
	if err != nil {
		return Result{}, err
	}
	selected, err := ListFaces(opts.Faces)
	if err != nil {
		return Result{}, err
	}

	out := make([]FaceImage, len(selected))
	if opts.Workers <= 1 {
		for i, f := range selected {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
			out[i] = Gather(src, f, n)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)
		for i, f := range selected {
			i, f := i, f
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				out[i] = Gather(src, f, n)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Result{}, err
		}
	}

	return Assemble(out, opts.Composite)
}
