package imagecache

import (
	"fmt"
	"io"
	"path"
	"strings"

	"mell-studio/internal/manifest"

	"github.com/go-git/go-billy/v5"
)

// Source opens part images by their manifest path.
type Source interface {
	Open(p string) (io.ReadCloser, error)
}

// FSSource reads images from a billy filesystem rooted at the asset root.
type FSSource struct {
	fs    billy.Filesystem
	index *Index
}

// NewFSSource returns a source over fs. Lookups go straight to the file
// system until an index is attached.
func NewFSSource(fs billy.Filesystem) *FSSource {
	return &FSSource{fs: fs}
}

// WithIndex makes Open fall back to idx when the exact path is missing.
func (s *FSSource) WithIndex(idx *Index) *FSSource {
	s.index = idx
	return s
}

// Open implements Source.
func (s *FSSource) Open(p string) (io.ReadCloser, error) {
	key := manifest.NormalizeKey(p)
	f, err := s.fs.Open(key)
	if err == nil {
		return f, nil
	}
	if s.index != nil {
		if real, ok := s.index.ResolvePath(key); ok {
			if f, ierr := s.fs.Open(real); ierr == nil {
				return f, nil
			}
		}
	}
	return nil, fmt.Errorf("imagecache: open %s: %w", p, err)
}

// Index maps normalized, lower-cased image paths to the names actually on
// disk. Some file systems hand back decomposed Hangul or different letter
// case, which would otherwise miss the manifest key.
type Index struct {
	entries map[string]string
}

var imageExts = map[string]bool{".png": true, ".tga": true, ".jpg": true, ".jpeg": true}

func indexKey(p string) string {
	return strings.ToLower(manifest.NormalizeKey(p))
}

// BuildIndex scans fs for image files.
func BuildIndex(fs billy.Filesystem) (*Index, error) {
	idx := &Index{entries: make(map[string]string)}
	if err := idx.walk(fs, ""); err != nil {
		return nil, err
	}
	return idx, nil
}

func (idx *Index) walk(fs billy.Filesystem, dir string) error {
	infos, err := fs.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("imagecache: read dir %s: %w", dir, err)
	}
	for _, fi := range infos {
		p := path.Join(dir, fi.Name())
		if fi.IsDir() {
			if err := idx.walk(fs, p); err != nil {
				return err
			}
			continue
		}
		if !imageExts[strings.ToLower(path.Ext(p))] {
			continue
		}
		if _, exists := idx.entries[indexKey(p)]; !exists {
			idx.entries[indexKey(p)] = p
		}
	}
	return nil
}

// ResolvePath returns the on-disk name for p, or ("", false).
func (idx *Index) ResolvePath(p string) (string, bool) {
	real, ok := idx.entries[indexKey(p)]
	return real, ok
}

// Len returns the number of indexed images.
func (idx *Index) Len() int {
	return len(idx.entries)
}
