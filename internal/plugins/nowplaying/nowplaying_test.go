package nowplaying

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/mediadash/internal/broker"
	"github.com/llehouerou/mediadash/internal/config"
	"github.com/llehouerou/mediadash/internal/input"
	"github.com/llehouerou/mediadash/internal/keymap"
	"github.com/llehouerou/mediadash/internal/playback"
	"github.com/llehouerou/mediadash/internal/plugin"
	"github.com/llehouerou/mediadash/internal/ui/testutil"
)

func seedTrack(playing bool) testutil.Setup {
	return func(_ *plugin.Env, mr *miniredis.Miniredis) {
		mr.Set(broker.KeyTrack, "Come Together")
		mr.Set(broker.KeyArtist, "The Beatles")
		mr.Set(broker.KeyAlbum, "Abbey Road")
		mr.Set(broker.KeyDuration, "260")
		mr.Set(broker.KeyProgress, "30")
		mr.Set(broker.KeyVolume, "50")
		if playing {
			mr.Set(broker.KeyPlaying, "true")
		} else {
			mr.Set(broker.KeyPlaying, "false")
		}
	}
}

func newPlayer(t *testing.T, setups ...testutil.Setup) (*testutil.Harness, *NowPlaying) {
	t.Helper()
	p := New().(*NowPlaying)
	h := testutil.NewHarness(t, p, setups...)
	h.Frame(input.State{})
	return h, p
}

func pressed(b keymap.Button) input.State {
	var in input.State
	in.Buttons[b].Pressed = true
	return in
}

func TestNowPlaying_ShowsTrack(t *testing.T) {
	h, p := newPlayer(t, seedTrack(true))

	assert.Equal(t, "Come Together", p.State().Track)
	assert.True(t, h.HasText("Come Together"))
	assert.True(t, h.HasText("The Beatles"))
	assert.True(t, h.HasText("Abbey Road"))
	assert.True(t, h.HasText("4:20"))
	assert.Equal(t, energyPlaying, h.Env.Background.Energy())
}

func TestNowPlaying_NothingPlaying(t *testing.T) {
	h, _ := newPlayer(t)
	assert.True(t, h.HasText("Nothing playing"))
}

func TestNowPlaying_InterpolatesPosition(t *testing.T) {
	h, p := newPlayer(t, seedTrack(true))
	start := p.Position()

	h.Clock.Advance(2 * time.Second)
	got := p.Position()
	if got < start+1.9 || got > start+2.1 {
		t.Errorf("Position() = %v, want about %v", got, start+2)
	}
}

func TestNowPlaying_PausedPositionHolds(t *testing.T) {
	h, p := newPlayer(t, seedTrack(false))
	h.Clock.Advance(5 * time.Second)
	assert.Equal(t, 30.0, p.Position())
	assert.True(t, h.HasText("Paused"))
	assert.Equal(t, energyPaused, h.Env.Background.Energy())
}

func TestNowPlaying_SelectTogglesPlay(t *testing.T) {
	h, p := newPlayer(t, seedTrack(true))
	h.Frame(input.State{SelectPressed: true})
	assert.Equal(t, []string{"pause"}, h.Actions())
	assert.False(t, p.State().IsPlaying)

	// The phone reports the pause before the next press.
	h.Broker.Set(broker.KeyPlaying, "false")
	h.Frame(input.State{PlayPausePressed: true})
	assert.Equal(t, []string{"pause", "play"}, h.Actions())
	assert.True(t, p.State().IsPlaying)
}

func TestNowPlaying_RotaryVolume(t *testing.T) {
	h, p := newPlayer(t, seedTrack(true))
	h.Frame(input.State{ScrollDelta: 2})

	cmd := h.LastCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "volume", cmd["action"])
	assert.EqualValues(t, 60, cmd["value"])
	assert.Equal(t, 60, p.State().Volume)
	assert.True(t, h.HasText("60%"), "volume overlay is shown")

	h.Idle(2 * time.Second)
	assert.False(t, h.HasText("60%"))
}

func TestNowPlaying_VolumeStepFromConfig(t *testing.T) {
	h, _ := newPlayer(t, seedTrack(true), func(env *plugin.Env, _ *miniredis.Miniredis) {
		path := config.PluginConfigPath(env.PluginDir, "nowplaying")
		require.NoError(t, os.WriteFile(path, []byte("volume_step=10\n"), 0o644))
	})
	h.Frame(input.State{ScrollDelta: -1})
	assert.EqualValues(t, 40, h.LastCommand()["value"])
}

func TestNowPlaying_Swipes(t *testing.T) {
	h, _ := newPlayer(t, seedTrack(true))
	h.Frame(input.State{SwipeLeft: true})
	h.Frame(input.State{SwipeRight: true})
	assert.Equal(t, []string{"next", "previous"}, h.Actions())
}

func TestNowPlaying_DoubleTapLikes(t *testing.T) {
	h, p := newPlayer(t, seedTrack(true))
	h.Frame(input.State{DoubleTap: true, Tap: true})
	assert.Equal(t, []string{"like_track"}, h.Actions())
	assert.True(t, p.State().IsLiked)
}

func TestNowPlaying_TapProgressSeeks(t *testing.T) {
	h, p := newPlayer(t, seedTrack(true))
	bar := p.progressRect()
	at := input.Point{X: int(bar.X + bar.W/2), Y: int(bar.Y)}
	h.Frame(input.State{Tap: true, TapPos: at})

	cmd := h.LastCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "seek", cmd["action"])
	assert.InDelta(t, 130, cmd["value"], 1)
}

func TestNowPlaying_TapButtons(t *testing.T) {
	h, p := newPlayer(t, seedTrack(true))
	for _, b := range p.buttons() {
		r := b.rect
		h.Frame(input.State{Tap: true, TapPos: input.Point{X: int(r.X + r.W/2), Y: int(r.Y + r.H/2)}})
	}
	assert.Equal(t, []string{"shuffle_on", "like_track", "repeat_track"}, h.Actions())
}

func TestNowPlaying_HoldOpensLyrics(t *testing.T) {
	h, p := newPlayer(t, seedTrack(true))
	h.Frame(input.State{SelectHold: true})

	assert.True(t, p.WantsClose())
	name, ok := h.Env.Nav.Pending()
	assert.True(t, ok)
	assert.Equal(t, LyricsPlugin, name)
	assert.Equal(t, "request_lyrics", h.LastCommand()["action"])
}

func TestNowPlaying_StyleCycle(t *testing.T) {
	h, _ := newPlayer(t, seedTrack(true))
	before := h.Env.Background.Target()
	h.Frame(pressed(keymap.ButtonStyleCycle))
	assert.NotEqual(t, before, h.Env.Background.Target())
}

func TestNowPlaying_LayoutPersists(t *testing.T) {
	var dir string
	h, p := newPlayer(t, seedTrack(true), func(env *plugin.Env, _ *miniredis.Miniredis) {
		dir = env.PluginDir
	})
	h.Frame(pressed(keymap.ButtonDisplayMode))
	assert.Equal(t, LayoutDetails, p.Layout())
	p.Shutdown()

	cfg, err := config.OpenPlugin(dir, "nowplaying", nil)
	require.NoError(t, err)
	assert.Equal(t, int(LayoutDetails), cfg.Int(keyLayout, 0))
}

func TestNowPlaying_AlbumArt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cover.png")
	writeCover(t, path, color.NRGBA{R: 200, G: 20, B: 20, A: 255})

	h, p := newPlayer(t, seedTrack(true), func(_ *plugin.Env, mr *miniredis.Miniredis) {
		mr.Set(broker.KeyAlbumArtPath, path)
	})
	h.Frame(input.State{})

	assert.NotNil(t, p.fader.Current())
	assert.True(t, h.Env.Background.HasBlur())
	assert.Positive(t, h.Canvas.Count("image"))
}

func TestNowPlaying_UnsubscribesOnShutdown(t *testing.T) {
	h, p := newPlayer(t, seedTrack(true))
	require.Positive(t, h.Env.Bus.Subscribers(playback.EventTrackChanged))
	p.Shutdown()
	assert.Zero(t, h.Env.Bus.Subscribers(playback.EventTrackChanged))
}

func TestDominant(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := range 8 {
		for x := range 8 {
			c := color.NRGBA{R: 128, G: 128, B: 128, A: 255}
			if x < 2 {
				c = color.NRGBA{R: 0, G: 0, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	primary, accent := Dominant(img)

	a := color.NRGBAModel.Convert(accent).(color.NRGBA)
	if a.B < 200 || a.R > 60 {
		t.Errorf("accent = %v, want saturated blue", a)
	}
	p := color.NRGBAModel.Convert(primary).(color.NRGBA)
	if p.B <= p.R {
		t.Errorf("primary = %v, want blue-tinted average", p)
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00"},
		{65, "1:05"},
		{3725, "1:02:05"},
	}
	for _, tt := range tests {
		if got := formatTime(tt.in); got != tt.want {
			t.Errorf("formatTime(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func writeCover(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := range 16 {
		for x := range 16 {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}
