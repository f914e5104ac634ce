package config

import (
	"flag"
	"strings"
)

// Flags holds the command-line overrides bound to one flag set.
type Flags struct {
	fs *flag.FlagSet

	config    *string
	debug     *bool
	logFile   *string
	faceSize  *int
	maxSize   *bool
	name      *string
	faces     *string
	composite *bool
	workers   *int
	format    *string
	quality   *int
	noArchive *bool
}

// NewFlags registers the converter flags on fs.
func NewFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		fs:        fs,
		config:    fs.String("config", "", "Path to config file"),
		debug:     fs.Bool("debug", false, "Enable debug logging"),
		logFile:   fs.String("log-file", "", "Also write logs to this file"),
		faceSize:  fs.Int("face-size", 0, "Size of each cubemap face in pixels"),
		maxSize:   fs.Bool("max-size", false, "Use the largest face size the input allows"),
		name:      fs.String("name", "", "Custom name prefix for the output files"),
		faces:     fs.String("faces", "", "Comma-separated list of faces to output"),
		composite: fs.Bool("composite", false, "Also write the cross-layout cubemap image"),
		workers:   fs.Int("workers", 0, "Faces computed in parallel (0 = one per CPU)"),
		format:    fs.String("format", "", "Output format: jpg or png"),
		quality:   fs.Int("quality", 0, "JPEG quality 1-100"),
		noArchive: fs.Bool("no-archive", false, "Do not zip batch output folders"),
	}
}

// ConfigPath returns the explicit config path if provided via --config flag.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return *f.config
}

// applyFlags applies explicitly set CLI flags to the config.
func (f *Flags) applyFlags(cfg *Config) {
	if f == nil {
		return
	}
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "debug":
			if *f.debug {
				cfg.Logging.Level = "debug"
			}
		case "log-file":
			cfg.Logging.LogFile = *f.logFile
		case "face-size":
			cfg.Conversion.FaceSize = *f.faceSize
		case "max-size":
			cfg.Conversion.MaxSize = *f.maxSize
		case "name":
			cfg.Conversion.Name = *f.name
		case "faces":
			cfg.Conversion.Faces = splitList(*f.faces)
		case "composite":
			cfg.Conversion.Composite = *f.composite
		case "workers":
			cfg.Conversion.Workers = *f.workers
		case "format":
			cfg.Output.Format = *f.format
		case "quality":
			cfg.Output.JPEGQuality = *f.quality
		case "no-archive":
			cfg.Output.Archive = !*f.noArchive
		}
	})
}

// splitList splits a comma list, keeping empty tokens so they fail validation.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}
