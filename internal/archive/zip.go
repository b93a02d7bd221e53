// Package archive writes package zip archives.
package archive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	"github.com/spachava753/packtool/internal/models"
)

// Entry is one file placed into an archive.
type Entry struct {
	Source string // absolute path on disk
	Name   string // slash-separated path inside the archive
}

// Entries flattens file groups into archive entries. Each file lands at
// <pack dir>/<base name>. Later files that map to an existing name are dropped.
func Entries(groups []models.FileGroup) []Entry {
	seen := make(map[string]bool)
	var entries []Entry
	for _, g := range groups {
		for _, f := range g.Files {
			name := EntryName(g.PackDir, f)
			if seen[name] {
				slog.Warn("duplicate archive entry, skipping", "entry", name, "source", f)
				continue
			}
			seen[name] = true
			entries = append(entries, Entry{Source: f, Name: name})
		}
	}
	return entries
}

// EntryName returns the archive path for file under packDir. The result never
// leaves the archive root: leading "/" and ".." segments are dropped.
func EntryName(packDir, file string) string {
	dir := filepath.ToSlash(strings.TrimSpace(packDir))
	name := strings.TrimLeft(path.Join(dir, filepath.Base(file)), "/")
	for strings.HasPrefix(name, "../") {
		name = strings.TrimPrefix(name, "../")
	}
	return name
}

// WriteZip writes every file of groups into a DEFLATE archive at target.
// The archive is written to a temporary file and renamed into place, so a
// failed run never leaves a truncated archive behind.
func WriteZip(ctx context.Context, target string, groups []models.FileGroup) ([]Entry, error) {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return nil, fmt.Errorf("creating temp archive: %w", err)
	}
	defer os.Remove(tmp.Name())

	entries := Entries(groups)
	if err := writeEntries(ctx, tmp, entries); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return nil, fmt.Errorf("moving archive into place: %w", err)
	}

	slog.Debug("wrote archive", "path", target, "entries", len(entries))
	return entries, nil
}

func writeEntries(ctx context.Context, w io.Writer, entries []Entry) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			zw.Close()
			return err
		}
		if err := addFile(zw, e); err != nil {
			zw.Close()
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}
	return nil
}

func addFile(zw *zip.Writer, e Entry) error {
	f, err := os.Open(e.Source)
	if err != nil {
		return fmt.Errorf("opening %s: %w", e.Source, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", e.Source, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", e.Source)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("building header for %s: %w", e.Source, err)
	}
	header.Name = e.Name
	header.Method = zip.Deflate

	dst, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("adding %s: %w", e.Name, err)
	}
	if _, err := io.Copy(dst, f); err != nil {
		return fmt.Errorf("compressing %s: %w", e.Source, err)
	}
	return nil
}
