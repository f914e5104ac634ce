// Package job runs conversions against files: decode a panorama, project it
// onto cube faces and write the results, for one input or a whole folder.
package job

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/equi2cube/internal/config"
	"github.com/Faultbox/equi2cube/internal/imageio"
	"github.com/Faultbox/equi2cube/internal/logger"
	"github.com/Faultbox/equi2cube/pkg/cubemap"
)

// Job converts single files with fixed options.
type Job struct {
	Options cubemap.Options
	Encode  imageio.EncodeOptions
	Log     *zap.Logger
}

// New builds a Job from a loaded configuration.
func New(cfg *config.Config) (*Job, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	enc, err := cfg.EncodeOptions()
	if err != nil {
		return nil, err
	}
	return &Job{Options: opts, Encode: enc, Log: logger.Named("job")}, nil
}

func (j *Job) log() *zap.Logger {
	if j.Log == nil {
		return logger.Log
	}
	return j.Log
}

// Item describes the outcome of converting one input file.
type Item struct {
	Input    string
	Prefix   string
	FaceSize int
	Outputs  []string
	Elapsed  time.Duration
	Err      error
}

// ConvertFile converts input and writes the faces into outputDir.
func (j *Job) ConvertFile(ctx context.Context, input, outputDir string) (Item, error) {
	return j.convertFile(ctx, input, outputDir, Prefix(j.Options.NamePrefix, input))
}

func (j *Job) convertFile(ctx context.Context, input, outputDir, prefix string) (Item, error) {
	start := time.Now()
	item := Item{Input: input, Prefix: prefix}

	// Size check on the header alone so a bad request fails before decoding.
	hdr, _, err := imageio.DecodeConfigFile(input)
	if err != nil {
		return item, err
	}
	n, err := cubemap.FaceSizeFor(hdr.Width, hdr.Height, j.Options)
	if err != nil {
		return item, fmt.Errorf("%s: %w", input, err)
	}
	item.FaceSize = n
	if j.Options.AutoMaxSize {
		j.log().Info("using max face size",
			zap.String("input", input),
			zap.Int("width", hdr.Width),
			zap.Int("height", hdr.Height),
			zap.Int("face_size", n))
	}

	src, err := imageio.DecodeFile(input)
	if err != nil {
		return item, err
	}

	res, err := cubemap.Convert(ctx, src, j.Options)
	if err != nil {
		return item, fmt.Errorf("converting %s: %w", input, err)
	}

	item.Outputs, err = j.Write(res, outputDir, prefix)
	item.Elapsed = time.Since(start)
	if err != nil {
		return item, err
	}

	j.log().Info("converted",
		zap.String("input", input),
		zap.Int("face_size", n),
		zap.Int("files", len(item.Outputs)),
		zap.Duration("elapsed", item.Elapsed))
	return item, nil
}

// Write encodes every face of res, then the composite if present, and
// returns the paths written. On failure the files already written are
// removed, so a failed conversion leaves nothing behind.
func (j *Job) Write(res cubemap.Result, outputDir, prefix string) (outputs []string, err error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, &imageio.EncodeError{Path: outputDir, Err: err}
	}

	defer func() {
		if err != nil {
			j.remove(outputs)
			outputs = nil
		}
	}()

	outputs = make([]string, 0, len(res.Faces)+1)
	for _, f := range res.Faces {
		path := filepath.Join(outputDir, FaceFileName(prefix, f.Name, j.Encode.Format))
		if err := imageio.EncodeFile(path, f.Image, j.Encode); err != nil {
			return outputs, err
		}
		j.log().Debug("saved face", zap.String("face", f.Name.String()), zap.String("path", path))
		outputs = append(outputs, path)
	}

	if res.Composite != nil {
		path := filepath.Join(outputDir, CompositeFileName(prefix, j.Encode.Format))
		if err := imageio.EncodeFile(path, res.Composite.Image, j.Encode); err != nil {
			return outputs, err
		}
		j.log().Debug("saved composite", zap.String("path", path))
		outputs = append(outputs, path)
	}
	return outputs, nil
}

func (j *Job) remove(paths []string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			j.log().Warn("removing partial output", zap.String("path", path), zap.Error(err))
		}
	}
}
