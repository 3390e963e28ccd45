// Package albumart finds album covers the bridge caches on disk, asks the
// bridge for missing ones and cross-fades between covers on screen.
package albumart

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

const (
	cacheMaxAge   = 30 * 24 * time.Hour
	pruneInterval = 24 * time.Hour
)

// Extensions the bridge writes covers with, in lookup order.
var extensions = []string{".jpg", ".jpeg", ".png"}

// ErrNotCached is returned when no file exists for a hash.
var ErrNotCached = errors.New("album art not cached")

// Cache is the on-disk directory of covers named <art hash>.<ext>.
type Cache struct {
	dir        string
	log        *zap.Logger
	lastPruned time.Time
}

// NewCache opens the cache at dir, creating it when missing.
func NewCache(dir string, log *zap.Logger) (*Cache, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, log: log.Named("albumart")}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// Lookup returns the path of the cover for hash.
func (c *Cache) Lookup(hash string) (string, bool) {
	if c == nil || hash == "" {
		return "", false
	}
	for _, ext := range extensions {
		path := filepath.Join(c.dir, hash+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Load decodes the cover for hash.
func (c *Cache) Load(hash string) (image.Image, error) {
	path, ok := c.Lookup(hash)
	if !ok {
		return nil, ErrNotCached
	}
	img, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	// Keeps frequently shown covers out of the prune window.
	now := time.Now()
	_ = os.Chtimes(path, now, now) //nolint:errcheck // best-effort
	return img, nil
}

// LoadFile decodes an image honouring its EXIF orientation.
func LoadFile(path string) (image.Image, error) {
	return imaging.Open(path, imaging.AutoOrientation(true))
}

// Prune removes covers not shown for cacheMaxAge. It runs at most once
// per pruneInterval and returns the number of files removed.
func (c *Cache) Prune(now time.Time) int {
	if c == nil {
		return 0
	}
	if !c.lastPruned.IsZero() && now.Sub(c.lastPruned) < pruneInterval {
		return 0
	}
	c.lastPruned = now

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		c.log.Warn("read album art cache", zap.Error(err))
		return 0
	}

	cutoff := now.Add(-cacheMaxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if os.Remove(filepath.Join(c.dir, entry.Name())) == nil {
				removed++
			}
		}
	}
	if removed > 0 {
		c.log.Debug("pruned album art", zap.Int("removed", removed))
	}
	return removed
}
