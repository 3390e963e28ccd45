package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/lo"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/llehouerou/mediadash/internal/albumart"
	"github.com/llehouerou/mediadash/internal/background"
	"github.com/llehouerou/mediadash/internal/broker"
	"github.com/llehouerou/mediadash/internal/config"
	"github.com/llehouerou/mediadash/internal/errmsg"
	"github.com/llehouerou/mediadash/internal/host"
	"github.com/llehouerou/mediadash/internal/icons"
	"github.com/llehouerou/mediadash/internal/input"
	"github.com/llehouerou/mediadash/internal/media"
	"github.com/llehouerou/mediadash/internal/navigation"
	"github.com/llehouerou/mediadash/internal/playback"
	"github.com/llehouerou/mediadash/internal/plugin"
	"github.com/llehouerou/mediadash/internal/plugins/lyricsview"
	"github.com/llehouerou/mediadash/internal/plugins/menu"
	"github.com/llehouerou/mediadash/internal/plugins/nowplaying"
	"github.com/llehouerou/mediadash/internal/plugins/podcasts"
	"github.com/llehouerou/mediadash/internal/plugins/queueview"
	"github.com/llehouerou/mediadash/internal/render"
)

func newLogger(s *config.Settings) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if s.Log.Dev {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if s.Log.Level != "" {
		lvl, err := zap.ParseAtomicLevel(s.Log.Level)
		if err != nil {
			return nil, err
		}
		cfg.Level = lvl
	}
	return cfg.Build()
}

func newBroker(lc fx.Lifecycle, s *config.Settings, log *zap.Logger) *broker.Client {
	c := broker.New(s.BrokerOptions(), log)
	lc.Append(fx.StopHook(c.Close))
	return c
}

func newMedia(c *broker.Client, log *zap.Logger) *media.Service {
	return media.New(c, log)
}

func newBus(svc *media.Service, log *zap.Logger) *playback.Bus {
	return playback.NewBus(svc, log)
}

func newStore(lc fx.Lifecycle, s *config.Settings, log *zap.Logger) (*config.Store, error) {
	opts := config.StoreOptions{Range: s.PanelRange()}
	if s.Paths.Backlight != "" {
		opts.Panel = config.SysfsPanel(s.Paths.Backlight)
	}
	if s.Paths.AutoService != "" {
		opts.Auto = config.RunitService(s.Paths.AutoService)
	}
	store, err := config.OpenStore(s.GlobalConfigPath(), opts, log.Named("config"))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := store.ApplyBrightness(); err != nil {
				log.Warn(errmsg.Format(errmsg.OpBacklight, err))
			}
			// External edits are optional; the store works without them.
			if err := store.Watch(); err != nil {
				log.Warn("config watch unavailable", zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}

func newPipeline(lc fx.Lifecycle, s *config.Settings, store *config.Store, log *zap.Logger) *input.Pipeline {
	cfg := input.Config{TouchDebounce: s.TouchDebounce()}

	candidates := s.Input.Touch
	if len(candidates) == 0 {
		candidates = input.TouchCandidates
	}
	nodes := s.Input.Devices
	if len(nodes) == 0 {
		nodes = input.ButtonNodes
	}
	if dev, err := input.DiscoverTouch(candidates, log); err == nil {
		cfg.Transform = input.Transform{X: dev.X, Y: dev.Y}
		nodes = append([]string{dev.Path}, nodes...)
	} else {
		log.Warn(errmsg.Format(errmsg.OpInputOpen, err))
	}

	p := input.NewPipeline(cfg, store, log, input.OpenSources(lo.Uniq(nodes), log)...)
	lc.Append(fx.StopHook(p.Close))
	return p
}

func newCanvas(s *config.Settings) (*render.GGCanvas, error) {
	icons.Init(s.IconStyle())
	return render.NewGGCanvas(input.ScreenWidth, input.ScreenHeight, s.Paths.Font)
}

func newDisplay(lc fx.Lifecycle, s *config.Settings, log *zap.Logger) render.Display {
	path := s.FramebufferPath()
	if path == "" {
		return render.Discard{}
	}
	fb, err := render.OpenFramebuffer(path)
	if err != nil {
		log.Warn(errmsg.Format(errmsg.OpDisplayOpen, err), zap.String("path", path))
		return render.Discard{}
	}
	lc.Append(fx.StopHook(fb.Close))
	return fb
}

func newArtCache(s *config.Settings, log *zap.Logger) *albumart.Cache {
	cache, err := albumart.NewCache(s.ArtCacheDir(), log)
	if err != nil {
		// Covers then come only from published paths.
		log.Warn(errmsg.Format(errmsg.OpAlbumArt, err))
		return nil
	}
	return cache
}

func newBackground() *background.Engine {
	return background.NewEngine(input.ScreenWidth, input.ScreenHeight)
}

func newRegistry(s *config.Settings, log *zap.Logger) *plugin.Registry {
	reg := plugin.NewRegistry().MustRegister(
		menu.New,
		nowplaying.New,
		lyricsview.New,
		podcasts.New,
		queueview.New,
	)
	if unknown := reg.Restrict(s.Host.Plugins); len(unknown) > 0 {
		log.Warn("unknown plugins in settings", zap.Strings("names", unknown))
	}
	return reg
}

func newEnv(
	s *config.Settings,
	svc *media.Service,
	bus *playback.Bus,
	store *config.Store,
	bg *background.Engine,
	art *albumart.Cache,
	log *zap.Logger,
) *plugin.Env {
	return &plugin.Env{
		Media:      svc,
		Bus:        bus,
		Config:     store,
		Nav:        &navigation.Slot{},
		Background: bg,
		Art:        art,
		PluginDir:  s.PluginConfigDir(),
		Log:        log.Named("plugin"),
	}
}

func newHost(
	s *config.Settings,
	reg *plugin.Registry,
	env *plugin.Env,
	in *input.Pipeline,
	canvas *render.GGCanvas,
	display render.Display,
	log *zap.Logger,
) *host.Host {
	return host.New(reg, env, in, canvas, display, log.Named("host"), host.Options{
		FrameInterval: s.FrameInterval(),
		StartupPlugin: s.Host.Startup,
		ScreenshotDir: s.ScreenshotDir(),
	})
}

// registerHooks starts the frame loop and the housekeeping around it.
func registerHooks(lc fx.Lifecycle, h *host.Host, svc *media.Service, art *albumart.Cache, log *zap.Logger) {
	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	shots := make(chan os.Signal, 1)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if n := art.Prune(time.Now()); n > 0 {
				log.Info("pruned album art", zap.Int("files", n))
			}
			svc.AutoCheckConnections(runCtx, media.DefaultConnectionCheckInterval)

			signal.Notify(shots, syscall.SIGUSR1)
			go func() {
				for range shots {
					h.RequestScreenshot()
				}
			}()

			go func() {
				defer close(done)
				if err := h.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("frame loop", zap.Error(err))
				}
			}()
			log.Info("mediadash started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			signal.Stop(shots)
			close(shots)
			cancel()
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
			log.Info("shutting down")
			return log.Sync()
		},
	})
}
