package albumart

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := NewCache(filepath.Join(t.TempDir(), "art"), nil)
	if err != nil {
		t.Fatalf("NewCache() error: %v", err)
	}
	return c
}

func writeCover(t *testing.T, path string, c color.Color) {
	t.Helper()
	img := imaging.New(4, 4, c)
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("save cover: %v", err)
	}
}

func TestNewCache_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "custom", "cache")
	c, err := NewCache(dir, nil)
	if err != nil {
		t.Fatalf("NewCache() error: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("cache directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("cache path is not a directory")
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", c.Dir(), dir)
	}
}

func TestCache_Lookup(t *testing.T) {
	c := newTestCache(t)

	if _, ok := c.Lookup("123"); ok {
		t.Error("Lookup() on empty cache = true, want false")
	}

	writeCover(t, filepath.Join(c.Dir(), "123.png"), color.White)
	path, ok := c.Lookup("123")
	if !ok {
		t.Fatal("Lookup() = false, want true")
	}
	if filepath.Base(path) != "123.png" {
		t.Errorf("Lookup() = %q, want 123.png", path)
	}

	// jpg wins over png
	writeCover(t, filepath.Join(c.Dir(), "123.jpg"), color.White)
	path, _ = c.Lookup("123")
	if filepath.Base(path) != "123.jpg" {
		t.Errorf("Lookup() = %q, want 123.jpg", path)
	}
}

func TestCache_Load(t *testing.T) {
	c := newTestCache(t)
	writeCover(t, filepath.Join(c.Dir(), "42.png"), color.NRGBA{R: 255, A: 255})

	img, err := c.Load("42")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 4, 4) {
		t.Errorf("bounds = %v, want 4x4", img.Bounds())
	}
	r, _, _, _ := img.At(1, 1).RGBA()
	if r>>8 != 255 {
		t.Errorf("red = %d, want 255", r>>8)
	}

	if _, err := c.Load("missing"); err != ErrNotCached {
		t.Errorf("Load(missing) error = %v, want ErrNotCached", err)
	}
}

func TestCache_NilSafe(t *testing.T) {
	var c *Cache
	if _, ok := c.Lookup("1"); ok {
		t.Error("nil Lookup() = true")
	}
	if _, err := c.Load("1"); err != ErrNotCached {
		t.Errorf("nil Load() error = %v, want ErrNotCached", err)
	}
	if n := c.Prune(time.Now()); n != 0 {
		t.Errorf("nil Prune() = %d, want 0", n)
	}
}

func TestCache_Prune(t *testing.T) {
	c := newTestCache(t)
	now := time.Now()

	oldPath := filepath.Join(c.Dir(), "old.png")
	newPath := filepath.Join(c.Dir(), "new.png")
	writeCover(t, oldPath, color.Black)
	writeCover(t, newPath, color.Black)
	old := now.Add(-cacheMaxAge - time.Hour)
	if err := os.Chtimes(oldPath, old, old); err != nil {
		t.Fatal(err)
	}

	if n := c.Prune(now); n != 1 {
		t.Errorf("Prune() = %d, want 1", n)
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("old entry should be removed")
	}
	if _, err := os.Stat(newPath); err != nil {
		t.Error("recent entry should be kept")
	}

	// Rate limited.
	if err := os.Chtimes(newPath, old, old); err != nil {
		t.Fatal(err)
	}
	if n := c.Prune(now.Add(time.Hour)); n != 0 {
		t.Errorf("second Prune() = %d, want 0", n)
	}
	if n := c.Prune(now.Add(pruneInterval)); n != 1 {
		t.Errorf("Prune() after interval = %d, want 1", n)
	}
}
