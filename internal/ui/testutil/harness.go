package testutil

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/llehouerou/mediadash/internal/background"
	"github.com/llehouerou/mediadash/internal/broker"
	"github.com/llehouerou/mediadash/internal/input"
	"github.com/llehouerou/mediadash/internal/media"
	"github.com/llehouerou/mediadash/internal/navigation"
	"github.com/llehouerou/mediadash/internal/playback"
	"github.com/llehouerou/mediadash/internal/plugin"
	"github.com/llehouerou/mediadash/internal/render/rendertest"
)

// FrameTime is the simulated frame length.
const FrameTime = 16 * time.Millisecond

// Clock is a manually advanced clock.
type Clock struct {
	t time.Time
}

// NewClock starts at a fixed instant.
func NewClock() *Clock {
	return &Clock{t: time.Unix(1_700_000_000, 0)}
}

func (c *Clock) Now() time.Time          { return c.t }
func (c *Clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// NewEnv builds a plugin environment over an in-memory broker.
func NewEnv(t testing.TB) (*plugin.Env, *miniredis.Miniredis, *Clock) {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	if err != nil {
		t.Fatalf("broker port: %v", err)
	}
	client := broker.New(broker.Options{Host: mr.Host(), Port: port, Timeout: time.Second}, nil)
	t.Cleanup(func() { _ = client.Close() })

	clock := NewClock()
	svc := media.New(client, nil, media.WithClock(clock.Now))
	env := &plugin.Env{
		Media:      svc,
		Bus:        playback.NewBus(svc, nil),
		Nav:        &navigation.Slot{},
		Background: background.NewEngine(input.ScreenWidth, input.ScreenHeight, background.WithSeeder(func() (uint64, uint64) { return 1, 2 })),
		Registry:   plugin.NewRegistry(),
		PluginDir:  t.TempDir(),
		Clock:      clock.Now,
	}
	return env, mr, clock
}

// Harness drives a plugin frame by frame, the way the host does.
type Harness struct {
	t      testing.TB
	Plugin plugin.Plugin
	Env    *plugin.Env
	Broker *miniredis.Miniredis
	Clock  *Clock
	Canvas *rendertest.Recorder
}

// Setup adjusts the environment or seeds the broker before Init.
type Setup func(env *plugin.Env, mr *miniredis.Miniredis)

// NewHarness creates an environment, applies setups and initialises p.
func NewHarness(t testing.TB, p plugin.Plugin, setups ...Setup) *Harness {
	t.Helper()
	env, mr, clock := NewEnv(t)
	for _, s := range setups {
		s(env, mr)
	}
	h := &Harness{t: t, Plugin: p, Env: env, Broker: mr, Clock: clock, Canvas: rendertest.New()}
	if err := p.Init(env, h.Canvas.W, h.Canvas.H); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	t.Cleanup(p.Shutdown)
	return h
}

// Frame advances the clock by one frame, polls the bus, then updates and
// draws the plugin.
func (h *Harness) Frame(in input.State) {
	h.Clock.Advance(FrameTime)
	ctx := context.Background()
	h.Env.Bus.Poll(ctx)
	h.Plugin.Update(ctx, &in, FrameTime.Seconds())
	h.Canvas.Reset()
	h.Plugin.Draw(h.Canvas)
}

// Idle runs empty frames covering d.
func (h *Harness) Idle(d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += FrameTime {
		h.Frame(input.State{})
	}
}

// Commands returns the queued playback commands, oldest first.
func (h *Harness) Commands() []map[string]any {
	h.t.Helper()
	if !h.Broker.Exists(broker.KeyPlaybackCommandQ) {
		return nil
	}
	items, err := h.Broker.List(broker.KeyPlaybackCommandQ)
	if err != nil {
		h.t.Fatalf("read command queue: %v", err)
	}
	out := make([]map[string]any, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		var cmd map[string]any
		if err := json.Unmarshal([]byte(items[i]), &cmd); err != nil {
			h.t.Fatalf("decode command %q: %v", items[i], err)
		}
		out = append(out, cmd)
	}
	return out
}

// Actions returns the action names of the queued commands, oldest first.
func (h *Harness) Actions() []string {
	var out []string
	for _, c := range h.Commands() {
		a, _ := c["action"].(string)
		out = append(out, a)
	}
	return out
}

// LastCommand returns the newest command, or nil.
func (h *Harness) LastCommand() map[string]any {
	cmds := h.Commands()
	if len(cmds) == 0 {
		return nil
	}
	return cmds[len(cmds)-1]
}

// HasText reports whether the last frame drew s.
func (h *Harness) HasText(s string) bool {
	_, ok := h.Canvas.FindText(s)
	return ok
}
