package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// MaxPluginEntries caps the number of keys in a plugin config.
const MaxPluginEntries = 64

// ErrConfigFull is returned when a new key would exceed MaxPluginEntries.
var ErrConfigFull = errors.New("config: plugin config full")

// PluginConfig is a small key/value store persisted as <dir>/<plugin>_config.ini.
// Writes only mark it dirty; Save or Close flushes.
type PluginConfig struct {
	path   string
	keys   []string
	values map[string]string
	dirty  bool
}

// PluginConfigPath returns the file backing a plugin's config.
func PluginConfigPath(dir, plugin string) string {
	return filepath.Join(dir, plugin+"_config.ini")
}

// OpenPlugin loads a plugin config. When the file does not exist the config
// is seeded from defaults (sorted by key) and marked dirty.
func OpenPlugin(dir, plugin string, defaults map[string]string) (*PluginConfig, error) {
	if plugin == "" || strings.ContainsAny(plugin, `/\`) {
		return nil, fmt.Errorf("%w: plugin name %q", ErrInvalidValue, plugin)
	}
	c := &PluginConfig{
		path:   PluginConfigPath(dir, plugin),
		values: make(map[string]string),
	}

	data, err := os.ReadFile(c.path)
	switch {
	case err == nil:
		f, err := ini.LoadSources(iniLoadOptions, data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", c.path, err)
		}
		for _, key := range f.Section("").Keys() {
			if len(c.keys) == MaxPluginEntries {
				break
			}
			c.put(key.Name(), key.Value())
		}
	case errors.Is(err, fs.ErrNotExist):
		for _, k := range slices.Sorted(maps.Keys(defaults)) {
			if len(c.keys) == MaxPluginEntries {
				break
			}
			c.put(k, defaults[k])
		}
		c.dirty = true
	default:
		return nil, err
	}
	return c, nil
}

func (c *PluginConfig) put(key, value string) {
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = value
}

// Path returns the backing file.
func (c *PluginConfig) Path() string { return c.path }

// Dirty reports unsaved writes.
func (c *PluginConfig) Dirty() bool { return c.dirty }

// Len returns the number of entries.
func (c *PluginConfig) Len() int { return len(c.keys) }

// Keys returns the keys in file order.
func (c *PluginConfig) Keys() []string { return slices.Clone(c.keys) }

// Has reports whether key is set.
func (c *PluginConfig) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// String returns the value of key, or def.
func (c *PluginConfig) String(key, def string) string {
	if v, ok := c.values[key]; ok {
		return v
	}
	return def
}

// Int returns key parsed as an integer, or def.
func (c *PluginConfig) Int(key string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(c.values[key])); err == nil {
		return n
	}
	return def
}

// Float returns key parsed as a float, or def.
func (c *PluginConfig) Float(key string, def float64) float64 {
	if f, err := strconv.ParseFloat(strings.TrimSpace(c.values[key]), 64); err == nil {
		return f
	}
	return def
}

// Bool returns key parsed as true/false/1/0/yes/no, or def.
func (c *PluginConfig) Bool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(c.values[key])) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return def
}

// SetString sets key. Adding a key beyond MaxPluginEntries fails.
func (c *PluginConfig) SetString(key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidValue)
	}
	if old, ok := c.values[key]; ok {
		if old == value {
			return nil
		}
	} else if len(c.keys) >= MaxPluginEntries {
		return ErrConfigFull
	}
	c.put(key, value)
	c.dirty = true
	return nil
}

// SetInt sets key to an integer.
func (c *PluginConfig) SetInt(key string, v int) error {
	return c.SetString(key, strconv.Itoa(v))
}

// SetFloat sets key to a float.
func (c *PluginConfig) SetFloat(key string, v float64) error {
	return c.SetString(key, strconv.FormatFloat(v, 'f', -1, 64))
}

// SetBool sets key to "true" or "false".
func (c *PluginConfig) SetBool(key string, v bool) error {
	return c.SetString(key, strconv.FormatBool(v))
}

// Save writes the file if there are unsaved changes.
func (c *PluginConfig) Save() error {
	if !c.dirty {
		return nil
	}
	data, err := encodeFlat(c.keys, c.values)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// Close flushes pending writes.
func (c *PluginConfig) Close() error {
	return c.Save()
}
