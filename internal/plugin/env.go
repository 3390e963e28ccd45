package plugin

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/mediadash/internal/albumart"
	"github.com/llehouerou/mediadash/internal/background"
	"github.com/llehouerou/mediadash/internal/config"
	"github.com/llehouerou/mediadash/internal/media"
	"github.com/llehouerou/mediadash/internal/navigation"
	"github.com/llehouerou/mediadash/internal/playback"
	"github.com/llehouerou/mediadash/internal/render"
)

// Env is the set of shared services a plugin may use. It is owned by the
// host; plugins keep the pointer for their lifetime and never close what
// it holds. Any field may be nil in tests.
type Env struct {
	Media      *media.Service
	Bus        *playback.Bus
	Config     *config.Store
	Nav        *navigation.Slot
	Background *background.Engine
	Art        *albumart.Cache
	Registry   *Registry
	// Measurer matches the host surface's text metrics.
	Measurer render.Measurer

	// PluginDir holds per-plugin INI files.
	PluginDir string
	Log       *zap.Logger
	Clock     func() time.Time
}

// Logger returns a logger named after the plugin.
func (e *Env) Logger(plugin string) *zap.Logger {
	if e == nil || e.Log == nil {
		return zap.NewNop()
	}
	return e.Log.Named(plugin)
}

// TextMeasurer returns Measurer, falling back to cell-width estimates.
func (e *Env) TextMeasurer() render.Measurer {
	if e == nil || e.Measurer == nil {
		return render.DefaultCellMeasurer
	}
	return e.Measurer
}

// Now returns the host clock.
func (e *Env) Now() time.Time {
	if e == nil || e.Clock == nil {
		return time.Now()
	}
	return e.Clock()
}

// OpenConfig opens the plugin's INI store, seeding defaults on first use.
func (e *Env) OpenConfig(plugin string, defaults map[string]string) (*config.PluginConfig, error) {
	if e == nil || e.PluginDir == "" {
		return nil, errors.New("no plugin config directory")
	}
	return config.OpenPlugin(e.PluginDir, plugin, defaults)
}

// Navigate asks the host to open name after the current plugin closes.
func (e *Env) Navigate(name string) {
	if e == nil || e.Nav == nil {
		return
	}
	e.Nav.Request(name)
}
