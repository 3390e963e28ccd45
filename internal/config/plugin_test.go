package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenPlugin_SeedsDefaults(t *testing.T) {
	dir := t.TempDir()
	c, err := OpenPlugin(dir, "lyrics", map[string]string{
		"font_step": "2",
		"visible":   "yes",
	})
	require.NoError(t, err)

	assert.True(t, c.Dirty())
	assert.Equal(t, []string{"font_step", "visible"}, c.Keys())
	assert.Equal(t, 2, c.Int("font_step", 0))
	assert.True(t, c.Bool("visible", false))

	require.NoError(t, c.Close())
	assert.False(t, c.Dirty())

	data, err := os.ReadFile(filepath.Join(dir, "lyrics_config.ini"))
	require.NoError(t, err)
	assert.Equal(t, "font_step=2\nvisible=yes\n", string(data))
}

func TestOpenPlugin_ExistingFileIgnoresDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(PluginConfigPath(dir, "queue"), []byte("# saved\nrows=8\n"), 0o600))

	c, err := OpenPlugin(dir, "queue", map[string]string{"rows": "5", "wrap": "true"})
	require.NoError(t, err)
	assert.False(t, c.Dirty())
	assert.Equal(t, 8, c.Int("rows", 0))
	assert.False(t, c.Has("wrap"))
}

func TestOpenPlugin_RejectsBadName(t *testing.T) {
	for _, name := range []string{"", "../etc", `a\b`} {
		if _, err := OpenPlugin(t.TempDir(), name, nil); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("OpenPlugin(%q) error = %v, want ErrInvalidValue", name, err)
		}
	}
}

func TestPluginConfig_TypedAccessors(t *testing.T) {
	c, err := OpenPlugin(t.TempDir(), "p", nil)
	require.NoError(t, err)

	require.NoError(t, c.SetInt("n", -3))
	require.NoError(t, c.SetFloat("f", 0.65))
	require.NoError(t, c.SetBool("b", true))
	require.NoError(t, c.SetString("s", "hello"))

	assert.Equal(t, -3, c.Int("n", 0))
	assert.InDelta(t, 0.65, c.Float("f", 0), 1e-9)
	assert.True(t, c.Bool("b", false))
	assert.Equal(t, "hello", c.String("s", ""))

	assert.Equal(t, 7, c.Int("s", 7), "unparsable falls back")
	assert.Equal(t, "def", c.String("missing", "def"))
}

func TestPluginConfig_Bool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"YES", true},
		{"false", false},
		{"0", false},
		{" no ", false},
	}
	for _, tt := range tests {
		c, err := OpenPlugin(t.TempDir(), "p", map[string]string{"k": tt.value})
		require.NoError(t, err)
		if got := c.Bool("k", !tt.want); got != tt.want {
			t.Errorf("Bool(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}

	c, err := OpenPlugin(t.TempDir(), "p", map[string]string{"k": "maybe"})
	require.NoError(t, err)
	if got := c.Bool("k", true); !got {
		t.Error("Bool(maybe) should return the default")
	}
}

func TestPluginConfig_Capacity(t *testing.T) {
	c, err := OpenPlugin(t.TempDir(), "p", nil)
	require.NoError(t, err)

	for i := range MaxPluginEntries {
		require.NoError(t, c.SetInt(fmt.Sprintf("k%02d", i), i))
	}
	assert.Equal(t, MaxPluginEntries, c.Len())

	err = c.SetString("overflow", "x")
	assert.True(t, errors.Is(err, ErrConfigFull))

	// Updating an existing key is still allowed.
	require.NoError(t, c.SetString("k00", "updated"))
	assert.Equal(t, "updated", c.String("k00", ""))
}

func TestPluginConfig_SaveOnlyWhenDirty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(PluginConfigPath(dir, "p"), []byte("a=1\n"), 0o600))

	c, err := OpenPlugin(dir, "p", nil)
	require.NoError(t, err)
	require.NoError(t, c.SetString("a", "1"))
	assert.False(t, c.Dirty(), "same value is not a write")

	require.NoError(t, os.Remove(c.Path()))
	require.NoError(t, c.Save())
	_, err = os.Stat(c.Path())
	assert.True(t, os.IsNotExist(err), "clean config must not be written")
}
