package queueview

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/mediadash/internal/broker"
	"github.com/llehouerou/mediadash/internal/input"
	"github.com/llehouerou/mediadash/internal/plugin"
	"github.com/llehouerou/mediadash/internal/ui/testutil"
)

const queueV1 = `{"service":"spotify","timestamp":100,` +
	`"currentlyPlaying":{"title":"Now","artist":"A"},` +
	`"tracks":[{"title":"One","artist":"B","uri":"spotify:track:1","duration":185000},` +
	`{"title":"Two","artist":"C","uri":"spotify:track:2"},{"title":"Three","artist":"D"}]}`

const queueV2 = `{"service":"spotify","timestamp":200,"tracks":[{"title":"Four","artist":"E"}]}`

func withQueue(data string) testutil.Setup {
	return func(_ *plugin.Env, mr *miniredis.Miniredis) {
		mr.Set(broker.KeyQueueData, data)
	}
}

func newQueue(t *testing.T, setups ...testutil.Setup) (*testutil.Harness, *View) {
	t.Helper()
	v := New().(*View)
	h := testutil.NewHarness(t, v, setups...)
	h.Frame(input.State{})
	return h, v
}

func TestQueue_ShowsCachedQueue(t *testing.T) {
	h, v := newQueue(t, withQueue(queueV1))

	assert.Len(t, v.Queue().Tracks, 3)
	assert.True(t, h.HasText("One"))
	assert.True(t, h.HasText("3:05"))
	assert.True(t, h.HasText("▶ Now · A"))
	assert.True(t, h.HasText("spotify"))
	assert.Equal(t, []string{"request_queue"}, h.Actions())
}

func TestQueue_RefreshesEveryTenSeconds(t *testing.T) {
	h, v := newQueue(t, withQueue(queueV1))

	h.Idle(9 * time.Second)
	assert.Equal(t, []string{"request_queue"}, h.Actions())

	h.Broker.Set(broker.KeyQueueData, queueV2)
	h.Idle(1600 * time.Millisecond)
	assert.Equal(t, []string{"request_queue", "request_queue"}, h.Actions())
	assert.Equal(t, int64(200), v.Queue().Timestamp)
	assert.True(t, h.HasText("Four"))
}

func TestQueue_StaleStampIgnored(t *testing.T) {
	h, v := newQueue(t, withQueue(queueV1))
	h.Idle(11 * time.Second)
	// Same stamp: the shown queue stays as loaded from the cache.
	assert.Equal(t, int64(100), v.Queue().Timestamp)
	assert.Empty(t, v.errLine)
}

func TestQueue_SelectShifts(t *testing.T) {
	h, v := newQueue(t, withQueue(queueV1))
	h.Frame(input.State{ScrollDelta: 1})
	h.Frame(input.State{SelectPressed: true})

	cmd := h.LastCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "queue_shift", cmd["action"])
	assert.EqualValues(t, 1, cmd["queueIndex"])

	q := v.Queue()
	require.NotNil(t, q.CurrentlyPlaying)
	assert.Equal(t, "Two", q.CurrentlyPlaying.Title)
	require.Len(t, q.Tracks, 1)
	assert.Equal(t, "Three", q.Tracks[0].Title)
}

func TestQueue_HoldPlaysURI(t *testing.T) {
	h, _ := newQueue(t, withQueue(queueV1))
	h.Frame(input.State{SelectHold: true})

	cmd := h.LastCommand()
	assert.Equal(t, "play_uri", cmd["action"])
	assert.Equal(t, "spotify:track:1", cmd["uri"])
}

func TestQueue_TrackChangeRefreshes(t *testing.T) {
	h, _ := newQueue(t, withQueue(queueV1), func(_ *plugin.Env, mr *miniredis.Miniredis) {
		mr.Set(broker.KeyTrack, "Now")
	})
	h.Idle(time.Second)
	h.Broker.Set(broker.KeyTrack, "One")
	h.Frame(input.State{})
	h.Frame(input.State{})
	assert.Equal(t, []string{"request_queue", "request_queue"}, h.Actions())
}

func TestQueue_NoResponse(t *testing.T) {
	h, v := newQueue(t)
	assert.True(t, h.HasText("Loading queue…"))
	h.Idle(5500 * time.Millisecond)
	assert.Equal(t, "Failed to load queue: phone did not respond", v.errLine)
}
