package job

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/equi2cube/internal/archive"
	"github.com/Faultbox/equi2cube/internal/config"
	"github.com/Faultbox/equi2cube/internal/imageio"
)

// EmptyBatchError reports an input directory without eligible images.
type EmptyBatchError struct {
	Dir string
}

func (e *EmptyBatchError) Error() string {
	return fmt.Sprintf("no images found in %s", e.Dir)
}

// Batch converts every image of a directory into one timestamped folder.
// A failing input is recorded and the remaining inputs still run.
type Batch struct {
	*Job
	Archive bool             // zip the folder when done
	Now     func() time.Time // folder timestamp source
}

// NewBatch builds a Batch from a loaded configuration.
func NewBatch(cfg *config.Config) (*Batch, error) {
	j, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &Batch{Job: j, Archive: cfg.Output.Archive, Now: time.Now}, nil
}

// Report collects the per-input outcomes of a batch run.
type Report struct {
	Folder  string
	Archive string // empty when no archive was written
	Items   []Item
}

// Succeeded returns the number of inputs converted without error.
func (r *Report) Succeeded() int {
	n := 0
	for _, it := range r.Items {
		if it.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the inputs that could not be converted.
func (r *Report) Failed() []Item {
	var failed []Item
	for _, it := range r.Items {
		if it.Err != nil {
			failed = append(failed, it)
		}
	}
	return failed
}

// Err combines the failures of all inputs, or returns nil.
func (r *Report) Err() error {
	var err error
	for _, it := range r.Failed() {
		err = multierr.Append(err, fmt.Errorf("%s: %w", filepath.Base(it.Input), it.Err))
	}
	return err
}

// ListImages returns the decodable images directly inside dir, sorted by name.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &imageio.InputNotFoundError{Path: dir}
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var images []string
	for _, e := range entries {
		if e.IsDir() || !imageio.IsImageFile(e.Name()) {
			continue
		}
		images = append(images, filepath.Join(dir, e.Name()))
	}
	if len(images) == 0 {
		return nil, &EmptyBatchError{Dir: dir}
	}
	return images, nil
}

// Run converts all images of inputDir into a new folder below outputDir.
// The returned error covers only problems with the batch as a whole; per-input
// failures are in the report.
func (b *Batch) Run(ctx context.Context, inputDir, outputDir string) (*Report, error) {
	images, err := ListImages(inputDir)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	folder := filepath.Join(outputDir, FolderName(Prefix(b.Options.NamePrefix, images[0]), now()))
	if err := os.MkdirAll(folder, 0755); err != nil {
		return nil, fmt.Errorf("creating batch folder: %w", err)
	}

	report := &Report{Folder: folder}
	log := b.log().With(zap.String("folder", folder))
	log.Info("batch started", zap.Int("images", len(images)))

	for _, input := range images {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		item, err := b.convertFile(ctx, input, folder, itemPrefix(b.Options.NamePrefix, input))
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return report, ctxErr
			}
			item.Err = err
			log.Warn("conversion failed", zap.String("input", input), zap.Error(err))
		}
		report.Items = append(report.Items, item)
	}

	if b.Archive && report.Succeeded() > 0 {
		dest := archive.PathFor(folder)
		n, err := archive.ZipDir(folder, dest)
		if err != nil {
			return report, fmt.Errorf("archiving %s: %w", folder, err)
		}
		if err := checkArchive(dest, report.Items); err != nil {
			return report, err
		}
		report.Archive = dest
		log.Info("archive written", zap.String("archive", dest), zap.Int("files", n))
	}

	log.Info("batch finished",
		zap.Int("succeeded", report.Succeeded()),
		zap.Int("failed", len(report.Items)-report.Succeeded()))
	return report, nil
}

// checkArchive confirms that every output of a converted item is in dest.
func checkArchive(dest string, items []Item) error {
	a, err := archive.Open(dest)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, it := range items {
		if it.Err != nil {
			continue
		}
		for _, out := range it.Outputs {
			if name := filepath.Base(out); !a.Contains(name) {
				return fmt.Errorf("archive %s is missing %s", dest, name)
			}
		}
	}
	return nil
}
