// Package config handles converter configuration loading and management.
package config

import (
	"fmt"
	"runtime"

	"github.com/Faultbox/equi2cube/internal/imageio"
	"github.com/Faultbox/equi2cube/pkg/cubemap"
)

// Config holds all converter settings.
type Config struct {
	Conversion ConversionConfig `yaml:"conversion"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ConversionConfig holds the projection parameters.
type ConversionConfig struct {
	FaceSize  int      `yaml:"face_size"`
	MaxSize   bool     `yaml:"max_size"` // derive face size from each input
	Faces     []string `yaml:"faces"`
	Composite bool     `yaml:"composite"`
	Workers   int      `yaml:"workers"` // 0 means one per CPU
	Name      string   `yaml:"name"` // output file prefix
}

// OutputConfig holds encoding and packaging settings.
type OutputConfig struct {
	Format      string `yaml:"format"`
	JPEGQuality int    `yaml:"jpeg_quality"`
	Archive     bool   `yaml:"archive"` // zip batch output folders
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	opts := cubemap.DefaultOptions()
	faces := make([]string, 0, opts.Faces.Len())
	for _, n := range opts.Faces.Names() {
		faces = append(faces, n.String())
	}
	return &Config{
		Conversion: ConversionConfig{
			FaceSize:  opts.FaceSize,
			MaxSize:   opts.AutoMaxSize,
			Faces:     faces,
			Composite: opts.Composite,
			Workers:   opts.Workers,
		},
		Output: OutputConfig{
			Format:      string(imageio.FormatJPEG),
			JPEGQuality: imageio.DefaultJPEGQuality,
			Archive:     true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Options builds the immutable conversion request, rejecting unknown face names.
func (c *Config) Options() (cubemap.Options, error) {
	faces, err := cubemap.ParseFaceTokens(c.Conversion.Faces)
	if err != nil {
		return cubemap.Options{}, err
	}
	if !c.Conversion.MaxSize && c.Conversion.FaceSize <= 0 {
		return cubemap.Options{}, &cubemap.ValidationError{
			Field:  "face size",
			Value:  fmt.Sprint(c.Conversion.FaceSize),
			Reason: "must be positive",
		}
	}
	workers := c.Conversion.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	return cubemap.Options{
		FaceSize:    c.Conversion.FaceSize,
		AutoMaxSize: c.Conversion.MaxSize,
		Faces:       faces,
		Composite:   c.Conversion.Composite,
		NamePrefix:  c.Conversion.Name,
		Workers:     workers,
	}, nil
}

// EncodeOptions returns the output encoder settings.
func (c *Config) EncodeOptions() (imageio.EncodeOptions, error) {
	format, err := imageio.ParseFormat(c.Output.Format)
	if err != nil {
		return imageio.EncodeOptions{}, err
	}
	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		return imageio.EncodeOptions{}, fmt.Errorf("jpeg quality %d out of range 1-100", c.Output.JPEGQuality)
	}
	return imageio.EncodeOptions{Format: format, Quality: c.Output.JPEGQuality}, nil
}

// Validate checks every section without building anything.
func (c *Config) Validate() error {
	if _, err := c.Options(); err != nil {
		return err
	}
	if _, err := c.EncodeOptions(); err != nil {
		return err
	}
	if c.Conversion.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Conversion.Workers)
	}
	return nil
}
