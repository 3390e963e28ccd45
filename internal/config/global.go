package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

const (
	deviceDir        = "/var/llizard"
	deviceGlobalPath = deviceDir + "/config.ini"
	desktopGlobal    = "llizard_config.ini"
)

const (
	keyBrightness    = "brightness"
	keyRotation      = "rotation"
	keyStartupPlugin = "startup_plugin"
	keyMenuStyle     = "menu_style"
)

// ErrInvalidValue is returned when a setting is out of range.
var ErrInvalidValue = errors.New("config: invalid value")

func isDevice() bool {
	info, err := os.Stat(deviceDir)
	return err == nil && info.IsDir()
}

// DefaultGlobalPath returns the device path on the device, the working
// directory file elsewhere.
func DefaultGlobalPath() string {
	if isDevice() {
		return deviceGlobalPath
	}
	return desktopGlobal
}

// MenuStyle selects the launcher layout.
type MenuStyle int

const (
	MenuList MenuStyle = iota
	MenuGrid
	MenuCards
)

var menuStyleNames = [...]string{"list", "grid", "cards"}

// Next returns the following layout, wrapping around.
func (m MenuStyle) Next() MenuStyle {
	return (m + 1) % MenuStyle(len(menuStyleNames))
}

func (m MenuStyle) String() string {
	if m < 0 || int(m) >= len(menuStyleNames) {
		return "unknown"
	}
	return menuStyleNames[m]
}

// ParseMenuStyle parses a style name or its index.
func ParseMenuStyle(s string) (MenuStyle, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range menuStyleNames {
		if s == name || s == strconv.Itoa(i) {
			return MenuStyle(i), true
		}
	}
	return MenuList, false
}

// Global is the device-wide configuration.
type Global struct {
	Brightness    int // BrightnessAuto or 0..100
	Rotation      int // 0, 90, 180, 270
	StartupPlugin string
	MenuStyle     MenuStyle
}

// DefaultGlobal is used for missing or invalid entries.
var DefaultGlobal = Global{Brightness: 80}

// ValidRotation reports whether deg is a supported rotation.
func ValidRotation(deg int) bool {
	return deg == 0 || deg == 90 || deg == 180 || deg == 270
}

// ParseBrightness accepts "AUTO", -1 or 0..100.
func ParseBrightness(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "auto") {
		return BrightnessAuto, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < BrightnessAuto || n > 100 {
		return 0, false
	}
	return n, true
}

// StoreOptions wires the store to the hardware.
type StoreOptions struct {
	Panel Panel          // nil on desktop
	Auto  AutoBrightness // nil when there is no light sensor
	Range PanelRange
}

// Store holds the global INI config and drives the backlight.
// It is used from the frame loop only; the watcher goroutine just signals.
type Store struct {
	path string
	k    *koanf.Koanf
	cur  Global
	opts StoreOptions
	log  *zap.Logger

	autoActive bool
	off        bool
	saved      int

	watcher *fsnotify.Watcher
	changes chan struct{}
}

// OpenStore loads the global config at path. A missing file yields defaults.
func OpenStore(path string, opts StoreOptions, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Range.Max <= opts.Range.Min {
		opts.Range = DefaultPanelRange
	}
	s := &Store{
		path:    path,
		opts:    opts,
		log:     log,
		changes: make(chan struct{}, 1),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	k := koanf.New(".")
	if _, err := os.Stat(s.path); err == nil {
		if err := k.Load(file.Provider(s.path), INIParser()); err != nil {
			return fmt.Errorf("load %s: %w", s.path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	s.k = k
	s.cur = s.decode()
	return nil
}

func (s *Store) decode() Global {
	g := DefaultGlobal
	if v := s.k.String(keyBrightness); v != "" {
		if b, ok := ParseBrightness(v); ok {
			g.Brightness = b
		} else {
			s.log.Warn("invalid brightness", zap.String("value", v))
		}
	}
	if v := s.k.String(keyRotation); v != "" {
		if deg, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && ValidRotation(deg) {
			g.Rotation = deg
		} else {
			s.log.Warn("invalid rotation", zap.String("value", v))
		}
	}
	g.StartupPlugin = strings.TrimSpace(s.k.String(keyStartupPlugin))
	if v := s.k.String(keyMenuStyle); v != "" {
		if m, ok := ParseMenuStyle(v); ok {
			g.MenuStyle = m
		}
	}
	return g
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Global returns the current configuration.
func (s *Store) Global() Global {
	return s.cur
}

// Brightness returns the configured brightness.
func (s *Store) Brightness() int {
	return s.cur.Brightness
}

// SetBrightness applies and persists a brightness value.
func (s *Store) SetBrightness(v int) error {
	if v < BrightnessAuto || v > 100 {
		return fmt.Errorf("%w: brightness %d", ErrInvalidValue, v)
	}
	if err := s.applyBrightness(v); err != nil {
		return err
	}
	s.cur.Brightness = v
	return s.set(keyBrightness, strconv.Itoa(v))
}

// SetRotation persists the display rotation.
func (s *Store) SetRotation(deg int) error {
	if !ValidRotation(deg) {
		return fmt.Errorf("%w: rotation %d", ErrInvalidValue, deg)
	}
	s.cur.Rotation = deg
	return s.set(keyRotation, strconv.Itoa(deg))
}

// SetStartupPlugin persists the plugin opened at boot; empty shows the menu.
func (s *Store) SetStartupPlugin(name string) error {
	s.cur.StartupPlugin = strings.TrimSpace(name)
	return s.set(keyStartupPlugin, s.cur.StartupPlugin)
}

// SetMenuStyle persists the launcher layout.
func (s *Store) SetMenuStyle(m MenuStyle) error {
	if m < MenuList || m > MenuCards {
		return fmt.Errorf("%w: menu style %d", ErrInvalidValue, m)
	}
	s.cur.MenuStyle = m
	return s.set(keyMenuStyle, m.String())
}

func (s *Store) set(key, value string) error {
	if err := s.k.Set(key, value); err != nil {
		return err
	}
	return s.Save()
}

// Save writes the config file.
func (s *Store) Save() error {
	data, err := s.k.Marshal(INIParser())
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, data, 0o644)
}

// ApplyBrightness pushes the configured brightness to the hardware.
func (s *Store) ApplyBrightness() error {
	return s.applyBrightness(s.cur.Brightness)
}

func (s *Store) applyBrightness(v int) error {
	s.off = false
	if v == BrightnessAuto {
		if s.opts.Auto != nil && !s.autoActive {
			if err := s.opts.Auto.Start(); err != nil {
				return fmt.Errorf("start auto brightness: %w", err)
			}
		}
		s.autoActive = true
		return nil
	}
	if err := s.stopAuto(); err != nil {
		return err
	}
	return s.writePanel(s.opts.Range.Level(v))
}

func (s *Store) stopAuto() error {
	if !s.autoActive {
		return nil
	}
	s.autoActive = false
	if s.opts.Auto == nil {
		return nil
	}
	if err := s.opts.Auto.Stop(); err != nil {
		return fmt.Errorf("stop auto brightness: %w", err)
	}
	return nil
}

func (s *Store) writePanel(level int) error {
	if s.opts.Panel == nil {
		return nil
	}
	return s.opts.Panel.Write(level)
}

// BacklightOff reports whether the backlight is toggled off.
func (s *Store) BacklightOff() bool {
	return s.off
}

// ToggleBacklight turns the backlight fully off, remembering the current
// brightness; the next call restores it. The config file is not touched.
func (s *Store) ToggleBacklight() error {
	if s.off {
		return s.applyBrightness(s.saved)
	}
	s.saved = s.cur.Brightness
	if err := s.stopAuto(); err != nil {
		return err
	}
	if err := s.writePanel(s.opts.Range.Off); err != nil {
		return err
	}
	s.off = true
	return nil
}

// Watch starts watching the config file for external edits.
func (s *Store) Watch() error {
	if s.watcher != nil {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Editors replace files, so watch the directory.
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		_ = w.Close()
		return err
	}
	s.watcher = w
	target := filepath.Clean(s.path)

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
					select {
					case s.changes <- struct{}{}:
					default:
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.log.Warn("config watch", zap.Error(err))
			}
		}
	}()
	return nil
}

// PollChanges reloads the file if the watcher saw an edit and reports
// whether anything changed. A changed brightness is applied.
func (s *Store) PollChanges() bool {
	select {
	case <-s.changes:
	default:
		return false
	}

	prev := s.cur
	if err := s.load(); err != nil {
		s.log.Warn("reload config", zap.Error(err))
		return false
	}
	if s.cur == prev {
		return false
	}
	if s.cur.Brightness != prev.Brightness && !s.off {
		if err := s.applyBrightness(s.cur.Brightness); err != nil {
			s.log.Warn("apply brightness", zap.Error(err))
		}
	}
	s.log.Debug("config reloaded",
		zap.Int("brightness", s.cur.Brightness),
		zap.Int("rotation", s.cur.Rotation),
		zap.String("startup_plugin", s.cur.StartupPlugin),
		zap.Stringer("menu_style", s.cur.MenuStyle),
	)
	return true
}

// Close stops the watcher.
func (s *Store) Close() error {
	if s.watcher == nil {
		return nil
	}
	err := s.watcher.Close()
	s.watcher = nil
	return err
}
