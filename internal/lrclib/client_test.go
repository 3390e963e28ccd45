package lrclib

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, nil)
}

func TestGet(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get", r.URL.Path)
		assert.Equal(t, "Queen", r.URL.Query().Get("artist_name"))
		assert.Equal(t, "Bohemian Rhapsody", r.URL.Query().Get("track_name"))
		assert.Equal(t, "355", r.URL.Query().Get("duration"))
		assert.Contains(t, r.UserAgent(), "mediadash")
		_, _ = w.Write([]byte(`{"id":1,"trackName":"Bohemian Rhapsody","artistName":"Queen",` +
			`"albumName":"A Night at the Opera","syncedLyrics":"[00:01.00]Is this the real life?\n[00:05.00]Is this just fantasy?"}`))
	})

	res, err := c.Get(context.Background(), "Queen", "Bohemian Rhapsody", 355*time.Second)
	require.NoError(t, err)

	l, err := res.Lyrics()
	require.NoError(t, err)
	if !l.Synced {
		t.Error("Synced = false, want true")
	}
	if len(l.Lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(l.Lines))
	}
	if l.Lines[1].Time != 5*time.Second {
		t.Errorf("Lines[1].Time = %v, want 5s", l.Lines[1].Time)
	}
	assert.Equal(t, "A Night at the Opera", l.Album)
}

func TestGet_NotFound(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.Get(context.Background(), "Nobody", "Nothing", 0)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestGet_ServerError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Get(context.Background(), "a", "b", 0)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestSearch(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "daft punk", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`[{"id":1,"trackName":"One More Time"},{"id":2,"trackName":"Digital Love"}]`))
	})

	results, err := c.Search(context.Background(), "daft punk")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Digital Love", results[1].TrackName)
}

func TestResult_Lyrics(t *testing.T) {
	tests := []struct {
		name    string
		r       Result
		lines   int
		synced  bool
		wantErr bool
	}{
		{"plain fallback", Result{PlainLyrics: "one\ntwo\nthree"}, 3, false, false},
		{"instrumental", Result{Instrumental: true, PlainLyrics: "x"}, 0, false, true},
		{"empty", Result{}, 0, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := tt.r.Lyrics()
			if tt.wantErr {
				if !errors.Is(err, ErrNotFound) {
					t.Errorf("Lyrics() error = %v, want ErrNotFound", err)
				}
				return
			}
			require.NoError(t, err)
			if len(l.Lines) != tt.lines || l.Synced != tt.synced {
				t.Errorf("Lyrics() = %d lines synced=%v, want %d synced=%v",
					len(l.Lines), l.Synced, tt.lines, tt.synced)
			}
		})
	}
}
