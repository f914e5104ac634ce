package job

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Faultbox/equi2cube/internal/imageio"
	"github.com/Faultbox/equi2cube/pkg/cubemap"
)

// Naming constants for files written by a job.
const (
	CompositeName   = "cubemap"         // {prefix}_cubemap.{ext}
	TimestampLayout = "20060102_150405" // batch folder suffix
)

// Stem returns the file name of path without directory or extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Prefix returns name if set, otherwise the stem of the input file.
func Prefix(name, input string) string {
	if name != "" {
		return name
	}
	return Stem(input)
}

// FaceFileName returns "{prefix}_{face}.{ext}".
func FaceFileName(prefix string, face cubemap.FaceName, format imageio.Format) string {
	return fmt.Sprintf("%s_%s%s", prefix, face, format.Ext())
}

// CompositeFileName returns "{prefix}_cubemap.{ext}".
func CompositeFileName(prefix string, format imageio.Format) string {
	return fmt.Sprintf("%s_%s%s", prefix, CompositeName, format.Ext())
}

// FolderName returns "{prefix}_{YYYYMMDD_HHMMSS}".
func FolderName(prefix string, t time.Time) string {
	return prefix + "_" + t.Format(TimestampLayout)
}

// itemPrefix names the files of one batch input. A configured name is kept
// as a leading tag so inputs in the same folder never overwrite each other.
func itemPrefix(name, input string) string {
	if name == "" {
		return Stem(input)
	}
	return name + "_" + Stem(input)
}
