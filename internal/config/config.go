// Package config holds the host settings (TOML), the device-wide global
// config (INI) and the per-plugin config files.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/mediadash/internal/broker"
)

// Settings configures the host process.
type Settings struct {
	Broker BrokerSettings    `koanf:"broker"`
	Keys   map[string]string `koanf:"keys"` // logical key name -> broker key
	Log    LogSettings       `koanf:"log"`
	Paths  PathSettings      `koanf:"paths"`
	Host   HostSettings      `koanf:"host"`
	Input  InputSettings     `koanf:"input"`
}

// BrokerSettings locates the broker.
type BrokerSettings struct {
	Host      string `koanf:"host"`
	Port      int    `koanf:"port"`
	TimeoutMS int    `koanf:"timeout_ms"`
}

// LogSettings configures logging.
type LogSettings struct {
	Level string `koanf:"level"` // "debug", "info", "warn", "error"
	Dev   bool   `koanf:"dev"`   // console encoder instead of JSON
}

// PathSettings locates files the host reads and writes.
type PathSettings struct {
	GlobalConfig string `koanf:"global_config"`
	PluginDir    string `koanf:"plugin_dir"`
	ArtCache     string `koanf:"art_cache"`
	Backlight    string `koanf:"backlight"`    // sysfs brightness file
	AutoService  string `koanf:"auto_service"` // runit service dir of the light-sensor daemon
	Framebuffer  string `koanf:"framebuffer"`
	Font         string `koanf:"font"` // TTF file, empty for the bundled font
	Screenshots  string `koanf:"screenshots"`
}

// HostSettings tunes the frame loop.
type HostSettings struct {
	FPS     int      `koanf:"fps"`
	Plugins []string `koanf:"plugins"` // enabled plugins, empty means all
	Startup string   `koanf:"startup"` // overrides the global startup_plugin
	Icons   string   `koanf:"icons"`   // "unicode", "nerd" or "none"
}

// InputSettings configures the input devices.
type InputSettings struct {
	Touch        []string `koanf:"touch"`   // candidate touch nodes
	Devices      []string `koanf:"devices"` // fixed button and rotary nodes
	DebounceMS   int      `koanf:"debounce_ms"`
	BacklightMin int      `koanf:"backlight_min"`
	BacklightMax int      `koanf:"backlight_max"`
}

// Load reads the settings files in priority order (last wins).
func Load() (*Settings, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given TOML files, skipping missing ones.
func LoadFrom(paths ...string) (*Settings, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Settings{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Paths.GlobalConfig = expandPath(cfg.Paths.GlobalConfig)
	cfg.Paths.PluginDir = expandPath(cfg.Paths.PluginDir)
	cfg.Paths.ArtCache = expandPath(cfg.Paths.ArtCache)
	cfg.Paths.Font = expandPath(cfg.Paths.Font)
	cfg.Paths.Screenshots = expandPath(cfg.Paths.Screenshots)

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/mediadash/mediadash.toml
		filepath.Join(xdg.ConfigHome, "mediadash", "mediadash.toml"),
		// 2. ./mediadash.toml (pwd, highest priority)
		"mediadash.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// BrokerOptions returns the broker connection options with defaults applied.
func (s *Settings) BrokerOptions() broker.Options {
	opts := broker.Options{
		Host: s.Broker.Host,
		Port: s.Broker.Port,
		Keys: broker.NewKeyMap(s.Keys),
	}
	if s.Broker.TimeoutMS > 0 {
		opts.Timeout = time.Duration(s.Broker.TimeoutMS) * time.Millisecond
	}
	return opts
}

// FrameInterval returns the frame period, 60 Hz by default.
func (s *Settings) FrameInterval() time.Duration {
	fps := s.Host.FPS
	if fps <= 0 || fps > 240 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}

// GlobalConfigPath returns the global INI path: the configured one, the
// device path when /var/llizard exists, else ./llizard_config.ini.
func (s *Settings) GlobalConfigPath() string {
	if s.Paths.GlobalConfig != "" {
		return s.Paths.GlobalConfig
	}
	return DefaultGlobalPath()
}

// PluginConfigDir returns the directory holding per-plugin INI files.
func (s *Settings) PluginConfigDir() string {
	if s.Paths.PluginDir != "" {
		return s.Paths.PluginDir
	}
	if isDevice() {
		return deviceDir
	}
	return filepath.Join(xdg.ConfigHome, "mediadash", "plugins")
}

// ArtCacheDir returns the album-art cache directory.
func (s *Settings) ArtCacheDir() string {
	if s.Paths.ArtCache != "" {
		return s.Paths.ArtCache
	}
	if isDevice() {
		return filepath.Join(deviceDir, "art")
	}
	return filepath.Join(xdg.CacheHome, "mediadash", "art")
}

// FramebufferPath returns the display device. It is empty on desktop,
// where frames are not presented.
func (s *Settings) FramebufferPath() string {
	if s.Paths.Framebuffer != "" {
		return s.Paths.Framebuffer
	}
	if isDevice() {
		return "/dev/fb0"
	}
	return ""
}

// ScreenshotDir returns where screenshots are written.
func (s *Settings) ScreenshotDir() string {
	if s.Paths.Screenshots != "" {
		return s.Paths.Screenshots
	}
	if isDevice() {
		return filepath.Join(deviceDir, "screenshots")
	}
	return filepath.Join(xdg.UserDirs.Pictures, "mediadash")
}

// IconStyle returns the glyph set for controls. Unicode glyphs are the
// default; "none" suits fonts without symbol coverage.
func (s *Settings) IconStyle() string {
	if s.Host.Icons == "" {
		return "unicode"
	}
	return s.Host.Icons
}

// TouchDebounce returns the configured debounce; zero disables it.
func (s *Settings) TouchDebounce() time.Duration {
	return time.Duration(max(0, s.Input.DebounceMS)) * time.Millisecond
}

// PanelRange returns the hardware backlight range with defaults applied.
func (s *Settings) PanelRange() PanelRange {
	r := PanelRange{Min: s.Input.BacklightMin, Max: s.Input.BacklightMax, Off: s.Input.BacklightMax}
	if r.Max <= r.Min {
		r = DefaultPanelRange
	}
	return r
}
