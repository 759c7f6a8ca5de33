// Package os provides host access for hostfetch probes
//
//nolint:revive // Package name 'os' is intentional, in separate namespace 'internal/os'
package os

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileAccessor abstracts file access for live and rooted modes.
type FileAccessor interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
	ReadDir(path string) ([]fs.DirEntry, error)
	Glob(pattern string) ([]string, error)
}

type hostFileAccessor struct{}

func newHostFileAccessor() FileAccessor {
	return &hostFileAccessor{}
}

//nolint:gosec // G304: Paths are controlled by probe logic
func (h *hostFileAccessor) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (h *hostFileAccessor) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (h *hostFileAccessor) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

func (h *hostFileAccessor) Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

// rootedFileAccessor resolves absolute paths below root and reports results as if root were "/".
type rootedFileAccessor struct {
	root string
}

func newRootedFileAccessor(root string) FileAccessor {
	return &rootedFileAccessor{root: filepath.Clean(root)}
}

func (r *rootedFileAccessor) resolve(path string) string {
	return filepath.Join(r.root, filepath.FromSlash(path))
}

//nolint:gosec // G304: Paths are controlled by probe logic
func (r *rootedFileAccessor) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(r.resolve(path))
}

func (r *rootedFileAccessor) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(r.resolve(path))
}

func (r *rootedFileAccessor) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(r.resolve(path))
}

func (r *rootedFileAccessor) Glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(r.resolve(pattern))
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		rel := strings.TrimPrefix(m, r.root)
		if !strings.HasPrefix(rel, string(filepath.Separator)) {
			rel = string(filepath.Separator) + rel
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out, nil
}
