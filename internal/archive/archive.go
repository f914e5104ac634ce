// Package archive packs batch output folders into zip files and reads them back.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Ext is the suffix appended to a folder name to form its archive name.
const Ext = ".zip"

// PathFor returns the archive path for a folder: "<dir>.zip".
func PathFor(dir string) string {
	return filepath.Clean(dir) + Ext
}

// ZipDir writes every regular file below dir into a new zip at dest.
// Entry names are slash-separated and relative to dir. Returns the number
// of files written.
func ZipDir(dir, dest string) (count int, err error) {
	out, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("creating archive: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing archive: %w", cerr)
		}
	}()

	zw := zip.NewWriter(out)
	walkErr := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		if err := addFile(zw, p, filepath.ToSlash(rel)); err != nil {
			return fmt.Errorf("adding %s: %w", rel, err)
		}
		count++
		return nil
	})
	if walkErr != nil {
		zw.Close()
		return count, walkErr
	}
	if err := zw.Close(); err != nil {
		return count, fmt.Errorf("finishing archive: %w", err)
	}
	return count, nil
}

func addFile(zw *zip.Writer, src, name string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	// JPEG and PNG payloads are already compressed
	hdr.Method = zip.Store
	if !isCompressedImage(name) {
		hdr.Method = zip.Deflate
	}

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}

func isCompressedImage(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	}
	return false
}

// Archive represents an opened zip archive.
type Archive struct {
	rc       *zip.ReadCloser
	fileList map[string]*zip.File
}

// Open opens a zip archive for reading.
func Open(name string) (*Archive, error) {
	rc, err := zip.OpenReader(name)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	a := &Archive{rc: rc, fileList: make(map[string]*zip.File, len(rc.File))}
	for _, f := range rc.File {
		if f.FileInfo().IsDir() {
			continue
		}
		a.fileList[f.Name] = f
	}
	return a, nil
}

// Close closes the archive.
func (a *Archive) Close() error {
	if a.rc != nil {
		return a.rc.Close()
	}
	return nil
}

// List returns all file names in the archive, sorted.
func (a *Archive) List() []string {
	result := make([]string, 0, len(a.fileList))
	for name := range a.fileList {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// Contains checks if a file exists in the archive.
func (a *Archive) Contains(name string) bool {
	_, ok := a.fileList[name]
	return ok
}

// Size returns the uncompressed size of a file.
func (a *Archive) Size(name string) (uint64, bool) {
	f, ok := a.fileList[name]
	if !ok {
		return 0, false
	}
	return f.UncompressedSize64, true
}

// Read returns the contents of a file.
func (a *Archive) Read(name string) ([]byte, error) {
	f, ok := a.fileList[name]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	r, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}
