package media

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/mediadash/internal/broker"
)

// MaxQueueTracks bounds the number of upcoming tracks kept from a queue payload.
const MaxQueueTracks = 100

// QueueTrack is one entry of the phone's play queue.
type QueueTrack struct {
	Title    string
	Artist   string
	Album    string
	URI      string
	Duration time.Duration
}

// Queue is the phone's current play queue. Ordering is the phone's.
type Queue struct {
	Service          string
	Timestamp        int64
	CurrentlyPlaying *QueueTrack
	Tracks           []QueueTrack
}

func parseQueueTrack(o object) QueueTrack {
	t := QueueTrack{
		Title:  o.str("n", "title"),
		Artist: o.str("a", "artist"),
		Album:  o.str("al", "album"),
		URI:    o.str("u", "uri"),
	}
	if ms, ok := o.int("d", "duration", "durationMs"); ok && ms > 0 {
		t.Duration = time.Duration(ms) * time.Millisecond
	}
	return t
}

// ParseQueue parses {service,timestamp,currentlyPlaying?,tracks:[...]}.
func ParseQueue(data []byte) (Queue, bool) {
	o, ok := decodeObject(data)
	if !ok {
		return Queue{}, false
	}
	q := Queue{Service: o.str("s", "service")}
	q.Timestamp, _ = o.int("t", "timestamp")

	if cp, ok := o.object("cp", "currentlyPlaying"); ok {
		t := parseQueueTrack(cp)
		q.CurrentlyPlaying = &t
	}
	for _, it := range o.objects("it", "tracks") {
		if len(q.Tracks) == MaxQueueTracks {
			break
		}
		q.Tracks = append(q.Tracks, parseQueueTrack(it))
	}
	return q, true
}

// RequestQueue asks the phone to publish its queue.
func (s *Service) RequestQueue(ctx context.Context) bool {
	return s.Send(ctx, Cmd(ActionRequestQueue))
}

// ShiftQueue skips to the upcoming track at index.
func (s *Service) ShiftQueue(ctx context.Context, index int) bool {
	return s.Send(ctx, QueueShift(index))
}

// Queue returns the last published queue.
func (s *Service) Queue(ctx context.Context) (Queue, bool) {
	raw, ok := s.getString(ctx, broker.KeyQueueData)
	if !ok || raw == "" {
		return Queue{}, false
	}
	q, ok := ParseQueue([]byte(raw))
	if !ok {
		s.log.Warn("parse queue", zap.Int("bytes", len(raw)))
	}
	return q, ok
}

// PlayURI plays a Spotify URI.
func (s *Service) PlayURI(ctx context.Context, uri string) bool {
	return s.Send(ctx, PlayURI(uri))
}
