package lyricsview

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/mediadash/internal/broker"
	"github.com/llehouerou/mediadash/internal/config"
	"github.com/llehouerou/mediadash/internal/input"
	"github.com/llehouerou/mediadash/internal/keymap"
	"github.com/llehouerou/mediadash/internal/plugin"
	uilyrics "github.com/llehouerou/mediadash/internal/ui/lyrics"
	"github.com/llehouerou/mediadash/internal/ui/testutil"
)

const firstLyrics = `{"hash":"h1","synced":true,"lines":[` +
	`{"t":0,"l":"First line"},{"t":5000,"l":"Second line"},{"t":10000,"l":"Third line"}]}`

func seed(enabled bool, data string) testutil.Setup {
	return func(_ *plugin.Env, mr *miniredis.Miniredis) {
		mr.Set(broker.KeyTrack, "Yesterday")
		mr.Set(broker.KeyArtist, "The Beatles")
		mr.Set(broker.KeyDuration, "125")
		mr.Set(broker.KeyProgress, "6")
		mr.Set(broker.KeyPlaying, "false")
		if enabled {
			mr.Set(broker.KeyLyricsEnabled, "true")
		}
		if data != "" {
			mr.Set(broker.KeyLyricsData, data)
		}
	}
}

func newView(t *testing.T, setups ...testutil.Setup) (*testutil.Harness, *View) {
	t.Helper()
	v := New().(*View)
	h := testutil.NewHarness(t, v, setups...)
	h.Frame(input.State{})
	return h, v
}

func TestView_ShowsCurrentLine(t *testing.T) {
	h, v := newView(t, seed(true, firstLyrics))

	assert.Equal(t, uilyrics.StateLoaded, v.Engine().State())
	assert.Equal(t, 1, v.Engine().Current())
	assert.True(t, h.HasText("Second line"))
	assert.True(t, h.HasText("Yesterday"))
}

func TestView_TrackChangeRequestsAndRetries(t *testing.T) {
	h, v := newView(t, seed(true, firstLyrics))

	h.Broker.Set(broker.KeyTrack, "Help!")
	h.Frame(input.State{})
	assert.Equal(t, uilyrics.StateLoading, v.Engine().State())
	assert.True(t, h.HasText(uilyrics.MsgLoading))
	cmd := h.LastCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "request_lyrics", cmd["action"])
	assert.Equal(t, "Help!", cmd["track"])

	// The old payload is still published; it must not come back.
	h.Idle(1500 * time.Millisecond)
	assert.Equal(t, uilyrics.StateLoading, v.Engine().State())

	h.Broker.Set(broker.KeyLyricsData, `{"hash":"h2","synced":true,"lines":[{"t":0,"l":"Help me"}]}`)
	h.Idle(1100 * time.Millisecond)
	assert.Equal(t, uilyrics.StateLoaded, v.Engine().State())
	assert.Equal(t, "h2", v.Engine().Hash())
	assert.True(t, h.HasText("Help me"))
}

func TestView_Disabled(t *testing.T) {
	h, v := newView(t, seed(false, ""))
	assert.False(t, v.Enabled())
	assert.True(t, h.HasText(uilyrics.MsgDisabled))

	h.Frame(input.State{SelectHold: true})
	assert.True(t, v.Enabled())
	got, err := h.Broker.Get(broker.KeyLyricsEnabled)
	require.NoError(t, err)
	assert.Equal(t, "true", got)
	assert.True(t, h.HasText(uilyrics.MsgNone))
}

func TestView_SelectTogglesPlay(t *testing.T) {
	h, _ := newView(t, seed(true, firstLyrics))
	h.Frame(input.State{SelectPressed: true})
	assert.Equal(t, []string{"play"}, h.Actions())
}

func TestView_SettingsPersist(t *testing.T) {
	var dir string
	h, v := newView(t, seed(true, firstLyrics), func(env *plugin.Env, _ *miniredis.Miniredis) {
		dir = env.PluginDir
	})

	h.Frame(input.State{ScrollDelta: 1})
	assert.Equal(t, 2, v.Engine().FontStep())

	var in input.State
	in.Buttons[keymap.ButtonDisplayMode].Pressed = true
	h.Frame(in)
	assert.Equal(t, uilyrics.VisibilityCurrentOnly, v.Engine().Visibility())
	assert.True(t, h.HasText("CURRENT_ONLY"))

	in = input.State{}
	in.Buttons[keymap.ButtonStyleCycle].Pressed = true
	h.Frame(in)
	assert.Equal(t, uilyrics.StyleLeft, v.Engine().Style())

	v.Shutdown()
	cfg, err := config.OpenPlugin(dir, "lyrics", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Int(keyFontStep, 0))
	assert.Equal(t, 1, cfg.Int(keyVisibility, 0))
	assert.Equal(t, 1, cfg.Int(keyStyle, 0))
}

func TestView_RestoresSettings(t *testing.T) {
	_, v := newView(t, seed(true, firstLyrics), func(env *plugin.Env, _ *miniredis.Miniredis) {
		cfg, err := config.OpenPlugin(env.PluginDir, "lyrics", nil)
		require.NoError(t, err)
		require.NoError(t, cfg.SetInt(keyFontStep, 3))
		require.NoError(t, cfg.SetInt(keyStyle, 1))
		require.NoError(t, cfg.Close())
	})
	assert.Equal(t, 3, v.Engine().FontStep())
	assert.Equal(t, uilyrics.StyleLeft, v.Engine().Style())
}
