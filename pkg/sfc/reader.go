package sfc

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of parsed files kept by a caching Reader.
const DefaultCacheSize = 1024

type cachedFile struct {
	size    int64
	modTime time.Time
	blocks  []Block
}

// Reader reads component files below a root directory and returns their
// custom blocks. A Reader created with a cache re-parses a file only when its
// size or modification time changed, which keeps watch-mode regeneration cheap.
type Reader struct {
	root  string
	cache *lru.Cache[string, cachedFile]
}

// NewReader creates a Reader without caching.
func NewReader(root string) *Reader {
	return &Reader{root: root}
}

// NewCachingReader creates a Reader that remembers up to size parsed files.
func NewCachingReader(root string, size int) (*Reader, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, cachedFile](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create block cache: %w", err)
	}
	return &Reader{root: root, cache: cache}, nil
}

// Blocks returns the custom blocks of the file at the slash-separated path
// relative to the reader root.
func (r *Reader) Blocks(path string) ([]Block, error) {
	full := filepath.Join(r.root, filepath.FromSlash(path))

	if r.cache == nil {
		src, err := os.ReadFile(full)
		if err != nil {
			return nil, err
		}
		return Parse(src)
	}

	info, err := os.Stat(full)
	if err != nil {
		return nil, err
	}
	if c, ok := r.cache.Get(path); ok && c.size == info.Size() && c.modTime.Equal(info.ModTime()) {
		return c.blocks, nil
	}

	src, err := os.ReadFile(full)
	if err != nil {
		return nil, err
	}
	blocks, err := Parse(src)
	if err != nil {
		return nil, err
	}
	r.cache.Add(path, cachedFile{size: info.Size(), modTime: info.ModTime(), blocks: blocks})
	return blocks, nil
}

// Forget drops a cached file, e.g. after a watcher saw it removed.
func (r *Reader) Forget(path string) {
	if r.cache != nil {
		r.cache.Remove(path)
	}
}

// Len returns the number of cached files.
func (r *Reader) Len() int {
	if r.cache == nil {
		return 0
	}
	return r.cache.Len()
}
