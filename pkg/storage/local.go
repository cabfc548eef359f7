package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalSource reads PDFs from the local filesystem, either an explicit list
// of files or every PDF directly inside a folder.
type LocalSource struct {
	files  []string
	folder string
}

// NewLocalFiles creates a source over the given paths.
func NewLocalFiles(paths ...string) *LocalSource {
	return &LocalSource{files: paths}
}

// NewLocalFolder creates a source over the PDFs in dir.
func NewLocalFolder(dir string) (*LocalSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a folder", dir)
	}
	return &LocalSource{folder: dir}, nil
}

// List returns the source's documents
func (s *LocalSource) List(ctx context.Context) ([]FileInfo, error) {
	paths := s.files
	if s.folder != "" {
		entries, err := os.ReadDir(s.folder)
		if err != nil {
			return nil, fmt.Errorf("failed to list folder: %w", err)
		}
		paths = nil
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
				continue
			}
			paths = append(paths, filepath.Join(s.folder, entry.Name()))
		}
		sort.Strings(paths)
	}

	files := make([]FileInfo, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var size int64
		if info, err := os.Stat(p); err == nil {
			size = info.Size()
		}
		files = append(files, FileInfo{ID: p, Name: filepath.Base(p), Size: size})
	}
	return files, nil
}

// Fetch returns the file's own path; local documents need no cleanup.
func (s *LocalSource) Fetch(_ context.Context, file FileInfo) (string, func(), error) {
	if _, err := os.Stat(file.ID); err != nil {
		return "", noop, fmt.Errorf("failed to open file: %w", err)
	}
	return file.ID, noop, nil
}
